package pipeline

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/render_resource"
	"golang.org/x/sync/singleflight"
)

// Compiler turns a pipeline descriptor into a GPU pipeline. RenderDevice implementations satisfy it.
type Compiler interface {
	// CreateRenderPipeline compiles the descriptor's shader modules and creates the pipeline.
	//
	// Parameters:
	//   - desc: the descriptor to compile
	//
	// Returns:
	//   - *render_resource.RenderPipeline: the compiled pipeline
	//   - error: an error if shader module, layout or pipeline creation fails
	CreateRenderPipeline(desc RenderPipelineDescriptor) (*render_resource.RenderPipeline, error)
}

// Specializer builds the descriptor of one pipeline variant from a small key.
type Specializer[K comparable] interface {
	// Specialize returns the descriptor for the variant selected by key.
	//
	// Parameters:
	//   - key: the variant key
	//
	// Returns:
	//   - RenderPipelineDescriptor: the descriptor for the variant
	//   - error: an error if the variant cannot be described, e.g. its shaders fail to parse
	Specialize(key K) (RenderPipelineDescriptor, error)
}

// SpecializerFunc adapts a plain function to the Specializer interface.
type SpecializerFunc[K comparable] func(key K) (RenderPipelineDescriptor, error)

func (f SpecializerFunc[K]) Specialize(key K) (RenderPipelineDescriptor, error) {
	return f(key)
}

// SpecializedRenderPipelines memoizes compiled pipeline variants of one pipeline family by key.
// Variants are compiled lazily on first request and live until Release. Concurrent requests for the
// same key wait on a single compilation and receive the same pipeline.
type SpecializedRenderPipelines[K comparable] struct {
	mu    *sync.Mutex
	cache map[K]*render_resource.RenderPipeline
	group singleflight.Group
}

// NewSpecializedRenderPipelines creates an empty cache.
//
// Returns:
//   - *SpecializedRenderPipelines[K]: the cache
func NewSpecializedRenderPipelines[K comparable]() *SpecializedRenderPipelines[K] {
	return &SpecializedRenderPipelines[K]{
		mu:    &sync.Mutex{},
		cache: make(map[K]*render_resource.RenderPipeline),
	}
}

// Specialize returns the pipeline for key, compiling it with compiler and specializer on the first
// request. Failed compilations are not cached, so the next request retries.
//
// Parameters:
//   - compiler: the device that compiles the pipeline
//   - specializer: builds the descriptor for key
//   - key: the variant key
//
// Returns:
//   - *render_resource.RenderPipeline: the cached or freshly compiled pipeline
//   - error: an error if specialization or compilation fails
func (s *SpecializedRenderPipelines[K]) Specialize(compiler Compiler, specializer Specializer[K], key K) (*render_resource.RenderPipeline, error) {
	if p, ok := s.Get(key); ok {
		return p, nil
	}

	v, err, _ := s.group.Do(fmt.Sprintf("%#v", key), func() (any, error) {
		if p, ok := s.Get(key); ok {
			return p, nil
		}

		desc, err := specializer.Specialize(key)
		if err != nil {
			return nil, fmt.Errorf("failed to specialize pipeline for %+v: %w", key, err)
		}
		p, err := compiler.CreateRenderPipeline(desc)
		if err != nil {
			return nil, fmt.Errorf("failed to compile pipeline %s: %w", desc.Label(), err)
		}
		common.Logger().Debug("specialized render pipeline", "label", desc.Label(), "key", fmt.Sprintf("%+v", key))

		s.mu.Lock()
		s.cache[key] = p
		s.mu.Unlock()
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*render_resource.RenderPipeline), nil
}

// Get returns the cached pipeline for key without compiling.
//
// Parameters:
//   - key: the variant key
//
// Returns:
//   - *render_resource.RenderPipeline: the pipeline, or nil
//   - bool: true if the variant has been compiled
func (s *SpecializedRenderPipelines[K]) Get(key K) (*render_resource.RenderPipeline, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.cache[key]
	return p, ok
}

// Len returns the number of compiled variants.
func (s *SpecializedRenderPipelines[K]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache)
}

// Release releases every compiled variant and empties the cache.
func (s *SpecializedRenderPipelines[K]) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, p := range s.cache {
		p.Release()
		delete(s.cache, k)
	}
}
