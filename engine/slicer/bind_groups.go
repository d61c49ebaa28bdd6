package slicer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/asset"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/render_resource"
)

// ImageBindGroups caches the image bind group of every image a batch has drawn with. Entries live until
// their image is modified or removed. Safe for concurrent use.
type ImageBindGroups struct {
	mu     *sync.Mutex
	values map[asset.AssetID]bind_group_provider.BindGroupProvider
}

// NewImageBindGroups creates an empty cache.
func NewImageBindGroups() *ImageBindGroups {
	return &ImageBindGroups{
		mu:     &sync.Mutex{},
		values: make(map[asset.AssetID]bind_group_provider.BindGroupProvider),
	}
}

// ApplyEvents evicts the entries of images that were modified or removed, since their GPU image has
// been replaced or released.
//
// Parameters:
//   - events: the image events of the frame
//
// Returns:
//   - int: the number of evicted entries
func (b *ImageBindGroups) ApplyEvents(events []asset.Event) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	evicted := 0
	for _, e := range events {
		if !e.Invalidates() {
			continue
		}
		if p, ok := b.values[e.ID]; ok {
			p.Release()
			delete(b.values, e.ID)
			evicted++
		}
	}
	return evicted
}

// Get returns the cached bind group provider of an image.
func (b *ImageBindGroups) Get(id asset.AssetID) (bind_group_provider.BindGroupProvider, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.values[id]
	return p, ok
}

// GetOrCreate returns the cached bind group provider of an image, creating it from img on a miss.
//
// Parameters:
//   - id: the image id
//   - img: the GPU image whose texture view and sampler are bound
//   - device: the device the bind group is created with
//   - layout: the image bind group layout
//
// Returns:
//   - bind_group_provider.BindGroupProvider: the cached or new provider
//   - bool: true if the provider was created by this call
//   - error: an error if bind group creation fails
func (b *ImageBindGroups) GetOrCreate(id asset.AssetID, img *asset.GpuImage, device renderer.RenderDevice, layout *render_resource.BindGroupLayout) (bind_group_provider.BindGroupProvider, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if p, ok := b.values[id]; ok {
		return p, false, nil
	}
	p := bind_group_provider.NewBindGroupProvider("ui_texture_slice_image_"+id.String(),
		bind_group_provider.WithTextureView(imageTextureBinding, img.TextureView),
		bind_group_provider.WithSampler(imageSamplerBinding, img.Sampler),
	)
	if err := device.CreateBindGroup(p, layout); err != nil {
		return nil, false, fmt.Errorf("failed to create image bind group for %s: %w", id, err)
	}
	common.Logger().Debug("created image bind group", "image", id)
	b.values[id] = p
	return p, true, nil
}

// Len returns the number of cached bind groups.
func (b *ImageBindGroups) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.values)
}

// Release releases every cached bind group.
func (b *ImageBindGroups) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, p := range b.values {
		p.Release()
		delete(b.values, id)
	}
}
