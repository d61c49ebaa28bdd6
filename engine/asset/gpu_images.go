package asset

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/render_resource"
)

// TextureUploader creates the GPU objects an image is realized as.
type TextureUploader interface {
	CreateTexture(label string, data common.TextureStagingData) (*render_resource.TextureView, error)
	CreateSampler(label string, data common.SamplerStagingData) (*render_resource.Sampler, error)
}

// GpuImage is an image realized on the GPU.
type GpuImage struct {
	TextureView *render_resource.TextureView
	Sampler     *render_resource.Sampler
	Size        common.UVec2
}

// Release frees the texture and sampler.
func (g *GpuImage) Release() {
	g.TextureView.Release()
	g.Sampler.Release()
}

// GpuImages mirrors the image store on the GPU. It is updated from asset events once per frame; an image
// that was just added becomes available on the frame its event is prepared.
type GpuImages struct {
	mu     *sync.RWMutex
	images map[AssetID]*GpuImage
}

// NewGpuImages creates an empty set of GPU images.
func NewGpuImages() *GpuImages {
	return &GpuImages{
		mu:     &sync.RWMutex{},
		images: make(map[AssetID]*GpuImage),
	}
}

// Prepare applies a frame's events: Added and Modified images are (re)uploaded, Removed ones released.
// A failed upload leaves the image unavailable and is reported, the remaining events are still applied.
//
// Parameters:
//   - uploader: the device the images are uploaded with
//   - images: the CPU image store
//   - events: the events flushed for this frame
//
// Returns:
//   - error: the upload failures joined, or nil
func (g *GpuImages) Prepare(uploader TextureUploader, images *Images, events []Event) error {
	var errs []error
	for _, ev := range events {
		switch ev.Kind {
		case EventAdded, EventModified:
			img, ok := images.Get(ev.ID)
			if !ok {
				g.remove(ev.ID)
				continue
			}
			gpu, err := upload(uploader, ev.ID, img)
			if err != nil {
				g.remove(ev.ID)
				errs = append(errs, err)
				continue
			}
			g.set(ev.ID, gpu)
		case EventRemoved:
			g.remove(ev.ID)
		}
	}
	return errors.Join(errs...)
}

func upload(uploader TextureUploader, id AssetID, img *Image) (*GpuImage, error) {
	label := id.String()
	if img.Data.Width == 0 || img.Data.Height == 0 {
		return nil, fmt.Errorf("%s: image has zero extent", label)
	}
	view, err := uploader.CreateTexture(label, img.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", label, err)
	}
	samp, err := uploader.CreateSampler(label, img.Sampler)
	if err != nil {
		view.Release()
		return nil, fmt.Errorf("failed to create sampler for %s: %w", label, err)
	}
	return &GpuImage{TextureView: view, Sampler: samp, Size: img.Size()}, nil
}

func (g *GpuImages) set(id AssetID, img *GpuImage) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if old, ok := g.images[id]; ok {
		old.Release()
	}
	g.images[id] = img
}

func (g *GpuImages) remove(id AssetID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if old, ok := g.images[id]; ok {
		old.Release()
		delete(g.images, id)
	}
}

// Get returns the GPU image of id, or false while it is not uploaded.
func (g *GpuImages) Get(id AssetID) (*GpuImage, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	img, ok := g.images[id]
	return img, ok
}

// Len returns the number of uploaded images.
func (g *GpuImages) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.images)
}

// Release frees every GPU image.
func (g *GpuImages) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for id, img := range g.images {
		img.Release()
		delete(g.images, id)
	}
}
