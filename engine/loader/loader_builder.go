package loader

import (
	"github.com/Carmen-Shannon/oxy-ui/common"

	"github.com/cogentcore/webgpu/wgpu"
)

// defaultSampler clamps at the edges so nine-slice borders never bleed into each other.
var defaultSampler = common.SamplerStagingData{
	AddressModeU: wgpu.AddressModeClampToEdge,
	AddressModeV: wgpu.AddressModeClampToEdge,
	AddressModeW: wgpu.AddressModeClampToEdge,
	MagFilter:    wgpu.FilterModeLinear,
	MinFilter:    wgpu.FilterModeLinear,
}

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithRoot is an option builder that sets the directory relative paths are resolved against.
//
// Parameters:
//   - root: the asset root directory
//
// Returns:
//   - LoaderBuilderOption: a function that applies the root option to a loader
func WithRoot(root string) LoaderBuilderOption {
	return func(l *loader) {
		l.root = root
	}
}

// WithWorkers is an option builder that sets how many images LoadAsync decodes concurrently.
//
// Parameters:
//   - workers: the worker pool size, at least 1
//
// Returns:
//   - LoaderBuilderOption: a function that applies the workers option to a loader
func WithWorkers(workers int) LoaderBuilderOption {
	return func(l *loader) {
		l.workers = workers
	}
}

// WithSampler is an option builder that sets the sampler every loaded image is created with.
//
// Parameters:
//   - sampler: the sampler configuration; zero fields fall back to the renderer's defaults
//
// Returns:
//   - LoaderBuilderOption: a function that applies the sampler option to a loader
func WithSampler(sampler common.SamplerStagingData) LoaderBuilderOption {
	return func(l *loader) {
		l.sampler = sampler
	}
}
