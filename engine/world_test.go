package engine

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/asset"
	"github.com/Carmen-Shannon/oxy-ui/engine/camera"
	"github.com/Carmen-Shannon/oxy-ui/engine/node"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/rendertest"
	"github.com/Carmen-Shannon/oxy-ui/engine/scene"
	"github.com/Carmen-Shannon/oxy-ui/engine/sprite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type worldHarness struct {
	device *rendertest.Device
	scene  scene.Scene
	events *asset.Events
	images *asset.Images
	world  *renderWorld
}

func newWorldHarness(t *testing.T, hdr bool) *worldHarness {
	t.Helper()
	h := &worldHarness{
		device: rendertest.NewDevice(),
		scene:  scene.NewScene("test"),
		events: asset.NewEvents(),
	}
	h.images = asset.NewImages(h.events)
	w, err := newRenderWorld(h.device, h.scene, h.events, h.images, asset.NewTextureAtlasLayouts(), hdr)
	require.NoError(t, err)
	h.world = w
	t.Cleanup(w.release)
	return h
}

func (h *worldHarness) spawnPanel(img asset.AssetID) common.Entity {
	image := node.NewImageNode(img)
	image.Mode = node.SlicedMode(sprite.NewTextureSlicer(sprite.BorderSquare(8)))
	return h.scene.Spawn(node.NewNode(
		node.WithSize(common.V2(200, 100)),
		node.WithCenter(common.V2(150, 100)),
		node.WithImage(image),
	))
}

func (h *worldHarness) frame(t *testing.T) *rendertest.Pass {
	t.Helper()
	require.NoError(t, h.world.prepare(h.device, h.device, 16*time.Millisecond))
	pass := &rendertest.Pass{}
	require.NoError(t, h.world.render(pass))
	return pass
}

func TestRenderWorld_DrawsPanel(t *testing.T) {
	h := newWorldHarness(t, false)
	h.scene.AddCamera(camera.NewCamera(camera.WithViewport(640, 480), camera.WithDefaultUi(true)))
	img := h.images.Add(asset.SolidImage(255, 0, 0, 255))
	h.spawnPanel(img)

	pass := h.frame(t)
	require.Len(t, pass.Draws(), 1)

	stats := h.world.slicer.Stats()
	assert.Equal(t, 1, stats.Views)
	assert.Equal(t, 1, stats.Batches)
	assert.Positive(t, stats.Quads)
	assert.Equal(t, uint32(1), h.world.globals.FrameCount)
	assert.InDelta(t, 0.016, h.world.globals.DeltaTime, 1e-6)
}

func TestRenderWorld_PendingImageDrawsOnceLoaded(t *testing.T) {
	h := newWorldHarness(t, false)
	h.scene.AddCamera(camera.NewCamera(camera.WithViewport(640, 480), camera.WithDefaultUi(true)))
	pending := h.images.Reserve()
	h.spawnPanel(pending)

	assert.Empty(t, h.frame(t).Draws())
	assert.Positive(t, h.world.slicer.Stats().Skipped)

	h.images.Insert(pending, asset.SolidImage(0, 255, 0, 255))
	assert.Len(t, h.frame(t).Draws(), 1)
}

func TestRenderWorld_NoCameraDrawsNothing(t *testing.T) {
	h := newWorldHarness(t, false)
	h.spawnPanel(asset.DefaultImageID)

	pass := h.frame(t)
	assert.Empty(t, pass.Commands)
	assert.Zero(t, h.world.slicer.Stats().Quads)
}

func TestRenderWorld_CamerasFollowHDR(t *testing.T) {
	h := newWorldHarness(t, true)
	cam := camera.NewCamera(camera.WithViewport(640, 480), camera.WithDefaultUi(true))
	h.scene.AddCamera(cam)
	h.spawnPanel(asset.DefaultImageID)

	h.frame(t)
	assert.True(t, cam.HDR())
	require.Len(t, h.device.Pipelines, 1)
}

func TestIntervals(t *testing.T) {
	assert.Equal(t, time.Second/60, tickInterval(0))
	assert.Equal(t, 50*time.Millisecond, tickInterval(20))
	assert.Equal(t, time.Duration(0), frameInterval(-1))
	assert.Equal(t, 10*time.Millisecond, frameInterval(100))
}
