package slicer

import "github.com/cogentcore/webgpu/wgpu"

// SlicerBuilderOption is a functional option applied to a slicer during construction via NewSlicer.
type SlicerBuilderOption func(*slicer)

// WithTargetFormat sets the color format of the non-HDR pipeline variants. When not specified, the
// default is wgpu.TextureFormatRGBA8UnormSrgb.
//
// Parameters:
//   - format: the color format of the main pass
//
// Returns:
//   - SlicerBuilderOption: a function that applies the format option to a slicer
func WithTargetFormat(format wgpu.TextureFormat) SlicerBuilderOption {
	return func(s *slicer) {
		s.targetFormat = format
	}
}

// WithAntiAlias selects the 4x multisampled pipeline variants. It must match the main pass.
//
// Parameters:
//   - enabled: true when the main pass is multisampled
//
// Returns:
//   - SlicerBuilderOption: a function that applies the anti-alias option to a slicer
func WithAntiAlias(enabled bool) SlicerBuilderOption {
	return func(s *slicer) {
		s.antiAlias = enabled
	}
}

// WithWorkers batches views in parallel on a pool of n workers. Values below 2 batch serially, which
// is the default.
//
// Parameters:
//   - n: the maximum number of workers
//
// Returns:
//   - SlicerBuilderOption: a function that applies the worker option to a slicer
func WithWorkers(n int) SlicerBuilderOption {
	return func(s *slicer) {
		s.workers = n
	}
}

// WithInitialVertexCapacity allocates GPU buffers for n vertices up front.
func WithInitialVertexCapacity(n int) SlicerBuilderOption {
	return func(s *slicer) {
		s.vertexCapacity = n
	}
}
