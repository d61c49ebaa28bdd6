package renderer

import (
	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/render_resource"
	"github.com/cogentcore/webgpu/wgpu"
)

// RenderDevice is the GPU resource creation capability used by render stages. The wgpu backend
// implements it against a real device; tests substitute fakes that hand out handles without GPU
// objects.
type RenderDevice interface {
	pipeline.Compiler

	// CreateBuffer creates a buffer of the given size and usage.
	//
	// Parameters:
	//   - label: a debug label
	//   - size: the buffer size in bytes
	//   - usage: the buffer usage flags
	//
	// Returns:
	//   - *render_resource.Buffer: the created buffer
	//   - error: an error if buffer creation fails
	CreateBuffer(label string, size uint64, usage wgpu.BufferUsage) (*render_resource.Buffer, error)

	// WriteBuffer schedules a write of data into buf at offset on the device queue.
	//
	// Parameters:
	//   - buf: the destination buffer
	//   - offset: the byte offset into the buffer
	//   - data: the bytes to write
	WriteBuffer(buf *render_resource.Buffer, offset uint64, data []byte)

	// CreateBindGroupLayout creates a bind group layout from a descriptor.
	//
	// Parameters:
	//   - label: a debug label
	//   - descriptor: the layout entries
	//
	// Returns:
	//   - *render_resource.BindGroupLayout: the created layout
	//   - error: an error if layout creation fails
	CreateBindGroupLayout(label string, descriptor wgpu.BindGroupLayoutDescriptor) (*render_resource.BindGroupLayout, error)

	// CreateBindGroup assembles a bind group from the resources bound on provider, matched against
	// layout, and stores it on the provider.
	//
	// Parameters:
	//   - provider: the provider holding the resources
	//   - layout: the layout the bind group is created against
	//
	// Returns:
	//   - error: an error if a layout entry has no resource or bind group creation fails
	CreateBindGroup(provider bind_group_provider.BindGroupProvider, layout *render_resource.BindGroupLayout) error

	// CreateTexture creates a sampled RGBA8 sRGB texture, uploads the staging pixels and returns its view.
	//
	// Parameters:
	//   - label: a debug label
	//   - data: the pixel data and dimensions
	//
	// Returns:
	//   - *render_resource.TextureView: the view of the uploaded texture
	//   - error: an error if texture or view creation fails
	CreateTexture(label string, data common.TextureStagingData) (*render_resource.TextureView, error)

	// CreateSampler creates a sampler. Zero fields of data take repeat addressing and linear filtering.
	//
	// Parameters:
	//   - label: a debug label
	//   - data: the sampler configuration
	//
	// Returns:
	//   - *render_resource.Sampler: the created sampler
	//   - error: an error if sampler creation fails
	CreateSampler(label string, data common.SamplerStagingData) (*render_resource.Sampler, error)
}
