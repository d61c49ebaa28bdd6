package asset

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/rendertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImages_EventsAndPlaceholders(t *testing.T) {
	events := NewEvents()
	images := NewImages(events)

	assert.Equal(t, []Event{
		{Kind: EventAdded, ID: DefaultImageID},
		{Kind: EventAdded, ID: TransparentImageID},
	}, events.Flush())

	id := images.Add(SolidImage(1, 2, 3, 4))
	assert.GreaterOrEqual(t, id, firstDynamicID)
	images.Insert(id, SolidImage(5, 6, 7, 8))
	images.Remove(id)
	images.Remove(id)

	assert.Equal(t, []Event{
		{Kind: EventAdded, ID: id},
		{Kind: EventModified, ID: id},
		{Kind: EventRemoved, ID: id},
	}, events.Flush())
	assert.Empty(t, events.Flush())

	reserved := images.Reserve()
	assert.NotEqual(t, id, reserved)
	_, ok := images.Get(reserved)
	assert.False(t, ok)
	assert.Equal(t, 2, images.Len())
}

func TestEvent_Invalidates(t *testing.T) {
	tests := []struct {
		kind     EventKind
		expected bool
	}{
		{EventAdded, false},
		{EventModified, true},
		{EventRemoved, true},
		{EventUnused, false},
		{EventLoadedWithDependencies, false},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, Event{Kind: tt.kind, ID: 9}.Invalidates())
		})
	}
}

func TestGpuImages_Prepare(t *testing.T) {
	device := rendertest.NewDevice()
	events := NewEvents()
	images := NewImages(events)
	gpu := NewGpuImages()

	panel := images.Add(&Image{Data: common.TextureStagingData{Pixels: make([]byte, 4*8*4), Width: 8, Height: 4}})
	require.NoError(t, gpu.Prepare(device, images, events.Flush()))
	assert.Equal(t, 3, gpu.Len())

	got, ok := gpu.Get(panel)
	require.True(t, ok)
	assert.Equal(t, common.UVec2{X: 8, Y: 4}, got.Size)
	first := got.TextureView

	images.Insert(panel, SolidImage(1, 1, 1, 1))
	require.NoError(t, gpu.Prepare(device, images, events.Flush()))
	got, _ = gpu.Get(panel)
	assert.NotSame(t, first, got.TextureView)
	assert.Equal(t, common.UVec2{X: 1, Y: 1}, got.Size)

	images.Remove(panel)
	require.NoError(t, gpu.Prepare(device, images, events.Flush()))
	_, ok = gpu.Get(panel)
	assert.False(t, ok)
}

func TestGpuImages_PrepareReportsFailures(t *testing.T) {
	device := rendertest.NewDevice()
	events := NewEvents()
	images := NewImages(events)
	gpu := NewGpuImages()
	events.Flush()

	empty := images.Add(&Image{})
	device.FailTextures = errors.New("lost")
	broken := images.Add(SolidImage(0, 0, 0, 255))

	err := gpu.Prepare(device, images, events.Flush())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zero extent")
	assert.Contains(t, err.Error(), "lost")
	_, ok := gpu.Get(empty)
	assert.False(t, ok)
	_, ok = gpu.Get(broken)
	assert.False(t, ok)
}

func TestTextureAtlasLayoutFromGrid(t *testing.T) {
	layout := TextureAtlasLayoutFromGrid(common.UVec2{X: 16, Y: 16}, 3, 2, common.UVec2{X: 2, Y: 1}, common.UVec2{X: 4, Y: 0})

	require.Equal(t, 6, layout.Len())
	assert.Equal(t, common.URect{Min: common.UVec2{X: 4, Y: 0}, Max: common.UVec2{X: 20, Y: 16}}, layout.Textures[0])
	assert.Equal(t, common.URect{Min: common.UVec2{X: 22, Y: 0}, Max: common.UVec2{X: 38, Y: 16}}, layout.Textures[1])
	assert.Equal(t, common.URect{Min: common.UVec2{X: 4, Y: 17}, Max: common.UVec2{X: 20, Y: 33}}, layout.Textures[3])
	assert.Equal(t, common.UVec2{X: 4 + 48 + 4, Y: 32 + 1}, layout.Size)
}

func TestTextureAtlas_TextureRect(t *testing.T) {
	layouts := NewTextureAtlasLayouts()
	layout := NewTextureAtlasLayout(common.UVec2{X: 64, Y: 64})
	layout.AddTexture(common.URect{Max: common.UVec2{X: 32, Y: 32}})
	idx := layout.AddTexture(common.URect{Min: common.UVec2{X: 32}, Max: common.UVec2{X: 64, Y: 32}})
	id := layouts.Add(layout)

	rect, ok := (&TextureAtlas{Layout: id, Index: idx}).TextureRect(layouts)
	require.True(t, ok)
	assert.Equal(t, uint32(32), rect.Min.X)

	_, ok = (&TextureAtlas{Layout: id, Index: 5}).TextureRect(layouts)
	assert.False(t, ok)
	_, ok = (&TextureAtlas{Layout: id + 100}).TextureRect(layouts)
	assert.False(t, ok)
}
