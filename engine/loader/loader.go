package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/asset"
)

// ErrUnsupportedFormat is returned when no backend handles a file's extension.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// loader is the implementation of the Loader interface.
type loader struct {
	mu *sync.RWMutex

	images  *asset.Images
	layouts *asset.TextureAtlasLayouts

	root    string
	workers int
	sampler common.SamplerStagingData

	imageBackend imageLoaderBackend
	atlasBackend atlasLoaderBackend

	imageCache map[string]asset.AssetID
	atlasCache map[string]asset.AssetID

	pool    worker.DynamicWorkerPool
	pending *sync.WaitGroup
	taskID  int
	errs    []error
}

// Loader reads image and atlas layout files from disk into the asset stores. Every file is loaded at most
// once: later requests for the same path return the cached asset id, and a file that changes on disk is
// reloaded in place under that id when the loader is watching.
type Loader interface {
	// Load decodes an image file and stores it, blocking until the image is available.
	//
	// Parameters:
	//   - path: the image path, relative to the loader root unless absolute
	//
	// Returns:
	//   - asset.AssetID: the id the image is stored under
	//   - error: error if the file cannot be read or decoded
	Load(path string) (asset.AssetID, error)

	// LoadAsync reserves an id for an image and decodes it on the loader's worker pool. The id is valid
	// immediately; until the decode completes the image is simply not loaded, which the renderer treats
	// like any other missing image. Decode failures are reported by Wait.
	//
	// Parameters:
	//   - path: the image path, relative to the loader root unless absolute
	//
	// Returns:
	//   - asset.AssetID: the reserved id
	LoadAsync(path string) asset.AssetID

	// LoadAtlasLayout decodes a *.atlas.yaml layout file and stores it.
	//
	// Parameters:
	//   - path: the layout path, relative to the loader root unless absolute
	//
	// Returns:
	//   - asset.AssetID: the id the layout is stored under
	//   - error: error if the file cannot be read or decoded
	LoadAtlasLayout(path string) (asset.AssetID, error)

	// Get looks up the id of a previously loaded image or atlas layout.
	//
	// Parameters:
	//   - path: the path the asset was loaded from
	//
	// Returns:
	//   - asset.AssetID: the cached id
	//   - bool: false if the path was never loaded
	Get(path string) (asset.AssetID, bool)

	// Paths returns every loaded path, sorted.
	Paths() []string

	// Wait blocks until every pending asynchronous load has finished.
	//
	// Returns:
	//   - error: the joined errors of the asynchronous loads that failed since the last Wait
	Wait() error

	// Watch reloads loaded files when they change on disk until ctx is done. Only the directories of
	// files loaded before the call are watched. A rewritten image is
	// inserted again under its id, which the render world sees as a Modified event; a deleted image is
	// removed from the store. Watch blocks; run it on its own goroutine.
	//
	// Parameters:
	//   - ctx: cancels the watch
	//
	// Returns:
	//   - error: error if the file system watcher cannot be created
	Watch(ctx context.Context) error

	// Close stops the worker pool. Pending asynchronous loads are abandoned.
	Close()
}

var _ Loader = &loader{}

// NewLoader creates a Loader that stores into the given asset stores.
//
// Parameters:
//   - images: the image store loaded images are inserted into
//   - layouts: the atlas layout store loaded layouts are inserted into
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: the loader
func NewLoader(images *asset.Images, layouts *asset.TextureAtlasLayouts, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:         &sync.RWMutex{},
		images:     images,
		layouts:    layouts,
		workers:    2,
		sampler:    defaultSampler,
		imageCache: make(map[string]asset.AssetID),
		atlasCache: make(map[string]asset.AssetID),
		pending:    &sync.WaitGroup{},
	}

	for _, option := range options {
		option(l)
	}

	l.imageBackend = newRasterLoaderBackend(l.sampler)
	l.atlasBackend = &yamlAtlasLoaderBackend{}
	l.pool = worker.NewDynamicWorkerPool(max(l.workers, 1), 64, 1*time.Second)
	return l
}

func (l *loader) Load(path string) (asset.AssetID, error) {
	key := l.resolve(path)
	if id, ok := l.cached(l.imageCache, key); ok {
		return id, nil
	}

	img, err := l.decodeImage(key)
	if err != nil {
		return asset.InvalidID, err
	}

	l.mu.Lock()
	// a concurrent Load of the same path may have won the race
	if id, ok := l.imageCache[key]; ok {
		l.mu.Unlock()
		return id, nil
	}
	id := l.images.Reserve()
	l.imageCache[key] = id
	l.mu.Unlock()

	l.images.Insert(id, img)
	common.Logger().Debug("image loaded", "path", key, "id", id, "width", img.Data.Width, "height", img.Data.Height)
	return id, nil
}

func (l *loader) LoadAsync(path string) asset.AssetID {
	key := l.resolve(path)

	l.mu.Lock()
	if id, ok := l.imageCache[key]; ok {
		l.mu.Unlock()
		return id
	}
	id := l.images.Reserve()
	l.imageCache[key] = id
	l.taskID++
	taskID := l.taskID
	l.mu.Unlock()

	l.pending.Add(1)
	l.pool.SubmitTask(worker.Task{
		ID: taskID,
		Do: func() (any, error) {
			defer l.pending.Done()
			img, err := l.decodeImage(key)
			if err != nil {
				l.mu.Lock()
				l.errs = append(l.errs, err)
				l.mu.Unlock()
				common.Logger().Warn("async image load failed", "path", key, "id", id, "error", err)
				return nil, err
			}
			l.images.Insert(id, img)
			common.Logger().Debug("image loaded", "path", key, "id", id, "async", true)
			return id, nil
		},
	})
	return id
}

func (l *loader) LoadAtlasLayout(path string) (asset.AssetID, error) {
	key := l.resolve(path)
	if id, ok := l.cached(l.atlasCache, key); ok {
		return id, nil
	}

	layout, err := l.decodeAtlas(key)
	if err != nil {
		return asset.InvalidID, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if id, ok := l.atlasCache[key]; ok {
		return id, nil
	}
	id := l.layouts.Add(layout)
	l.atlasCache[key] = id
	common.Logger().Debug("atlas layout loaded", "path", key, "id", id, "cells", layout.Len())
	return id, nil
}

func (l *loader) Get(path string) (asset.AssetID, bool) {
	key := l.resolve(path)
	if id, ok := l.cached(l.imageCache, key); ok {
		return id, true
	}
	return l.cached(l.atlasCache, key)
}

func (l *loader) Paths() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	paths := make([]string, 0, len(l.imageCache)+len(l.atlasCache))
	for p := range l.imageCache {
		paths = append(paths, p)
	}
	for p := range l.atlasCache {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

func (l *loader) Wait() error {
	l.pending.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()
	err := errors.Join(l.errs...)
	l.errs = nil
	return err
}

func (l *loader) Close() {
	if l.pool != nil {
		l.pool.Stop()
		l.pool = nil
	}
}

func (l *loader) cached(cache map[string]asset.AssetID, key string) (asset.AssetID, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	id, ok := cache[key]
	return id, ok
}

// resolve turns path into the cache key: a cleaned path joined onto the root.
func (l *loader) resolve(path string) string {
	if filepath.IsAbs(path) || l.root == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(l.root, path)
}

func (l *loader) decodeImage(path string) (*asset.Image, error) {
	if !hasSuffix(path, l.imageBackend.Extensions()) {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	return decodeFile(path, l.imageBackend.LoadReader)
}

func (l *loader) decodeAtlas(path string) (*asset.TextureAtlasLayout, error) {
	if !hasSuffix(path, l.atlasBackend.Extensions()) {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	return decodeFile(path, l.atlasBackend.LoadReader)
}

func decodeFile[T any](path string, decode func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	v, err := decode(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

func hasSuffix(path string, suffixes []string) bool {
	lower := strings.ToLower(path)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}
