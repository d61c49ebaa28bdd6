package loader

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/asset"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogentcore/webgpu/wgpu"
)

type loaderHarness struct {
	dir     string
	events  *asset.Events
	images  *asset.Images
	layouts *asset.TextureAtlasLayouts
	loader  Loader
}

func newLoaderHarness(t *testing.T, options ...LoaderBuilderOption) *loaderHarness {
	t.Helper()
	h := &loaderHarness{dir: t.TempDir(), events: asset.NewEvents()}
	h.images = asset.NewImages(h.events)
	h.layouts = asset.NewTextureAtlasLayouts()
	h.events.Flush()
	h.loader = NewLoader(h.images, h.layouts, append([]LoaderBuilderOption{WithRoot(h.dir)}, options...)...)
	t.Cleanup(h.loader.Close)
	return h
}

// writePNG writes an opaque w x h image whose red channel encodes x and green channel encodes y.
func (h *loaderHarness) writePNG(t *testing.T, name string, w, hgt int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, hgt))
	for y := range hgt {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 10), G: uint8(y * 10), B: 7, A: 255})
		}
	}
	path := filepath.Join(h.dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func (h *loaderHarness) writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(h.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_DecodesPNG(t *testing.T) {
	h := newLoaderHarness(t)
	h.writePNG(t, "panel.png", 3, 2)

	id, err := h.loader.Load("panel.png")
	require.NoError(t, err)
	assert.Equal(t, []asset.Event{{Kind: asset.EventAdded, ID: id}}, h.events.Flush())

	img, ok := h.images.Get(id)
	require.True(t, ok)
	assert.Equal(t, common.UVec2{X: 3, Y: 2}, img.Size())
	require.Len(t, img.Data.Pixels, 3*2*4)
	// pixel (2, 1)
	assert.Equal(t, []byte{20, 10, 7, 255}, img.Data.Pixels[(1*3+2)*4:(1*3+2)*4+4])
	assert.Equal(t, wgpu.AddressModeClampToEdge, img.Sampler.AddressModeU)
	assert.Equal(t, wgpu.FilterModeLinear, img.Sampler.MagFilter)
}

func TestLoad_CachesByResolvedPath(t *testing.T) {
	h := newLoaderHarness(t)
	abs := h.writePNG(t, "panel.png", 2, 2)

	first, err := h.loader.Load("panel.png")
	require.NoError(t, err)
	second, err := h.loader.Load("./panel.png")
	require.NoError(t, err)
	third, err := h.loader.Load(abs)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, first, third)
	assert.Len(t, h.events.Flush(), 1)

	got, ok := h.loader.Get("panel.png")
	assert.True(t, ok)
	assert.Equal(t, first, got)
	assert.Equal(t, []string{abs}, h.loader.Paths())
}

func TestLoad_Errors(t *testing.T) {
	h := newLoaderHarness(t)
	h.writeFile(t, "broken.png", "not a png")
	h.writeFile(t, "anim.gif", "GIF89a")

	_, err := h.loader.Load("anim.gif")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = h.loader.Load("missing.png")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = h.loader.Load("broken.png")
	assert.ErrorContains(t, err, "failed to decode image")

	_, ok := h.loader.Get("broken.png")
	assert.False(t, ok)
	assert.Empty(t, h.events.Flush())
}

func TestWithSampler(t *testing.T) {
	h := newLoaderHarness(t, WithSampler(common.SamplerStagingData{MagFilter: wgpu.FilterModeNearest}))
	h.writePNG(t, "pixel.png", 1, 1)

	id, err := h.loader.Load("pixel.png")
	require.NoError(t, err)
	img, _ := h.images.Get(id)
	assert.Equal(t, wgpu.FilterModeNearest, img.Sampler.MagFilter)
	assert.Zero(t, img.Sampler.AddressModeU)
}

func TestLoadAsync(t *testing.T) {
	h := newLoaderHarness(t, WithWorkers(3))
	names := []string{"a.png", "b.png", "c.png", "d.png"}
	for i, name := range names {
		h.writePNG(t, name, i+1, 1)
	}

	ids := make([]asset.AssetID, len(names))
	for i, name := range names {
		ids[i] = h.loader.LoadAsync(name)
	}
	assert.Equal(t, ids[0], h.loader.LoadAsync("a.png"))
	require.NoError(t, h.loader.Wait())

	for i, id := range ids {
		img, ok := h.images.Get(id)
		require.True(t, ok, names[i])
		assert.Equal(t, uint32(i+1), img.Data.Width)
	}

	direct, err := h.loader.Load("c.png")
	require.NoError(t, err)
	assert.Equal(t, ids[2], direct)
}

func TestLoadAsync_FailureReportedByWait(t *testing.T) {
	h := newLoaderHarness(t)
	h.writeFile(t, "broken.png", "nope")

	id := h.loader.LoadAsync("broken.png")
	assert.NotEqual(t, asset.InvalidID, id)

	err := h.loader.Wait()
	assert.ErrorContains(t, err, "broken.png")
	_, ok := h.images.Get(id)
	assert.False(t, ok)

	assert.NoError(t, h.loader.Wait())
}

func TestLoadAtlasLayout(t *testing.T) {
	h := newLoaderHarness(t)
	h.writeFile(t, "buttons.atlas.yaml", strings.Join([]string{
		"grid:",
		"  tile: [16, 16]",
		"  columns: 2",
		"  rows: 1",
		"  padding: [2, 0]",
		"rects:",
		"  - [0, 16, 34, 8]",
	}, "\n"))

	id, err := h.loader.LoadAtlasLayout("buttons.atlas.yaml")
	require.NoError(t, err)

	layout, ok := h.layouts.Get(id)
	require.True(t, ok)
	assert.Equal(t, common.UVec2{X: 34, Y: 16}, layout.Size)
	assert.Equal(t, []common.URect{
		{Min: common.UVec2{X: 0, Y: 0}, Max: common.UVec2{X: 16, Y: 16}},
		{Min: common.UVec2{X: 18, Y: 0}, Max: common.UVec2{X: 34, Y: 16}},
		{Min: common.UVec2{X: 0, Y: 16}, Max: common.UVec2{X: 34, Y: 24}},
	}, layout.Textures)

	again, err := h.loader.LoadAtlasLayout("buttons.atlas.yaml")
	require.NoError(t, err)
	assert.Equal(t, id, again)
}

func TestLoadAtlasLayout_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		err     string
	}{
		{"unknown field", "size: [8, 8]\ncells: 3\n", "failed to decode atlas layout"},
		{"zero rect", "size: [8, 8]\nrects:\n  - [0, 0, 0, 4]\n", "atlas rect 0 has zero extent"},
		{"zero tile", "grid:\n  tile: [0, 8]\n  columns: 1\n  rows: 1\n", "atlas grid tile has zero extent"},
		{"no cells", "size: [8, 8]\n", "atlas layout has no cells"},
		{"no size", "rects:\n  - [0, 0, 4, 4]\n", "atlas layout size is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newLoaderHarness(t)
			h.writeFile(t, "bad.atlas.yaml", tt.content)
			_, err := h.loader.LoadAtlasLayout("bad.atlas.yaml")
			assert.ErrorContains(t, err, tt.err)
		})
	}

	h := newLoaderHarness(t)
	h.writeFile(t, "layout.json", "{}")
	_, err := h.loader.LoadAtlasLayout("layout.json")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestHandleEvent_ReloadsAndRemoves(t *testing.T) {
	h := newLoaderHarness(t)
	path := h.writePNG(t, "panel.png", 2, 2)
	atlasPath := h.writeFile(t, "panel.atlas.yaml", "size: [2, 2]\nrects:\n  - [0, 0, 1, 1]\n")
	l := h.loader.(*loader)

	id, err := l.Load("panel.png")
	require.NoError(t, err)
	atlasID, err := l.LoadAtlasLayout("panel.atlas.yaml")
	require.NoError(t, err)
	h.events.Flush()

	h.writePNG(t, "panel.png", 5, 4)
	l.handleEvent(fsnotify.Event{Name: path, Op: fsnotify.Write})
	img, ok := h.images.Get(id)
	require.True(t, ok)
	assert.Equal(t, common.UVec2{X: 5, Y: 4}, img.Size())
	assert.Equal(t, []asset.Event{{Kind: asset.EventModified, ID: id}}, h.events.Flush())

	// a failed decode keeps the previous image
	h.writeFile(t, "panel.png", "truncated")
	l.handleEvent(fsnotify.Event{Name: path, Op: fsnotify.Write})
	img, _ = h.images.Get(id)
	assert.Equal(t, uint32(5), img.Data.Width)
	assert.Empty(t, h.events.Flush())

	// a rename that left a file behind is an atomic save, not a delete
	h.writePNG(t, "panel.png", 5, 4)
	l.handleEvent(fsnotify.Event{Name: path, Op: fsnotify.Rename})
	assert.Empty(t, h.events.Flush())

	require.NoError(t, os.Remove(path))
	l.handleEvent(fsnotify.Event{Name: path, Op: fsnotify.Remove})
	_, ok = h.images.Get(id)
	assert.False(t, ok)
	assert.Equal(t, []asset.Event{{Kind: asset.EventRemoved, ID: id}}, h.events.Flush())

	h.writeFile(t, "panel.atlas.yaml", "size: [2, 2]\nrects:\n  - [0, 0, 1, 1]\n  - [1, 1, 1, 1]\n")
	l.handleEvent(fsnotify.Event{Name: atlasPath, Op: fsnotify.Write})
	layout, ok := h.layouts.Get(atlasID)
	require.True(t, ok)
	assert.Equal(t, 2, layout.Len())

	// unrelated files are ignored
	l.handleEvent(fsnotify.Event{Name: filepath.Join(h.dir, "other.png"), Op: fsnotify.Write})
	assert.Empty(t, h.events.Flush())
}

func TestWatch_ReloadsChangedImage(t *testing.T) {
	h := newLoaderHarness(t)
	h.writePNG(t, "panel.png", 2, 2)
	id, err := h.loader.Load("panel.png")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.loader.Watch(ctx) }()

	// rewrite until the watcher has picked up a change; it may not be registered on the first write
	require.Eventually(t, func() bool {
		if img, ok := h.images.Get(id); ok && img.Data.Width == 6 {
			return true
		}
		h.writePNG(t, "panel.png", 6, 3)
		return false
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
