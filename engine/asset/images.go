package asset

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-ui/common"
)

// Image is a decoded RGBA8 image together with how it is sampled.
type Image struct {
	Data    common.TextureStagingData
	Sampler common.SamplerStagingData
}

// Size returns the pixel size of the image.
func (i *Image) Size() common.UVec2 {
	return i.Data.Size()
}

// SolidImage returns a 1x1 image of a single sRGB color.
func SolidImage(r, g, b, a uint8) *Image {
	return &Image{
		Data: common.TextureStagingData{
			Pixels: []byte{r, g, b, a},
			Width:  1,
			Height: 1,
		},
	}
}

// Images is the store of CPU-side images. Every change is reported on its event queue.
type Images struct {
	mu     *sync.RWMutex
	images map[AssetID]*Image
	ids    idAllocator
	events *Events
}

// NewImages creates a store seeded with the default and transparent placeholder images.
//
// Parameters:
//   - events: the queue changes are reported on
//
// Returns:
//   - *Images: the store
func NewImages(events *Events) *Images {
	s := &Images{
		mu:     &sync.RWMutex{},
		images: make(map[AssetID]*Image),
		events: events,
	}
	s.Insert(DefaultImageID, SolidImage(255, 255, 255, 255))
	s.Insert(TransparentImageID, SolidImage(0, 0, 0, 0))
	return s
}

// Add stores img under a new id.
func (s *Images) Add(img *Image) AssetID {
	id := s.ids.alloc()
	s.Insert(id, img)
	return id
}

// Reserve allocates an id without storing anything. Insert fills it later, e.g. when an asynchronous
// load completes.
func (s *Images) Reserve() AssetID {
	return s.ids.alloc()
}

// Insert stores img under id, reporting Added for a new id and Modified for a replaced one.
func (s *Images) Insert(id AssetID, img *Image) {
	s.mu.Lock()
	_, existed := s.images[id]
	s.images[id] = img
	s.mu.Unlock()

	if existed {
		s.events.Send(EventModified, id)
	} else {
		s.events.Send(EventAdded, id)
	}
}

// Get returns the image stored under id.
func (s *Images) Get(id AssetID) (*Image, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	img, ok := s.images[id]
	return img, ok
}

// Remove deletes the image under id and reports Removed. Removing an unknown id does nothing.
func (s *Images) Remove(id AssetID) {
	s.mu.Lock()
	_, existed := s.images[id]
	delete(s.images, id)
	s.mu.Unlock()

	if existed {
		s.events.Send(EventRemoved, id)
	}
}

// Len returns the number of stored images.
func (s *Images) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.images)
}
