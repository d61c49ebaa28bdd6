package pipeline

import (
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/render_resource"
	"github.com/cogentcore/webgpu/wgpu"
)

// RenderPipelineBuilderOption is a functional option used to configure a RenderPipelineDescriptor during construction.
type RenderPipelineBuilderOption func(*renderPipelineDescriptor)

// WithLayouts sets pre-created bind group layouts, indexed by group. Pipelines whose bind groups are
// created outside the pipeline must share these layouts.
//
// Parameters:
//   - layouts: the bind group layouts in group order
//
// Returns:
//   - RenderPipelineBuilderOption: a function that sets the layouts
func WithLayouts(layouts ...*render_resource.BindGroupLayout) RenderPipelineBuilderOption {
	return func(d *renderPipelineDescriptor) {
		d.layouts = layouts
	}
}

// WithFormat sets the color target format.
//
// Parameters:
//   - format: the texture format the pipeline renders into
//
// Returns:
//   - RenderPipelineBuilderOption: a function that sets the color target format
func WithFormat(format wgpu.TextureFormat) RenderPipelineBuilderOption {
	return func(d *renderPipelineDescriptor) {
		d.format = format
	}
}

// WithSampleCount sets the multisample count. It must match the render pass attachments.
//
// Parameters:
//   - count: the sample count, 1 to disable multisampling
//
// Returns:
//   - RenderPipelineBuilderOption: a function that sets the sample count
func WithSampleCount(count uint32) RenderPipelineBuilderOption {
	return func(d *renderPipelineDescriptor) {
		d.sampleCount = max(count, 1)
	}
}

// WithDepthFormat sets the depth attachment format. wgpu.TextureFormatUndefined removes the depth stage.
//
// Parameters:
//   - format: the depth texture format
//
// Returns:
//   - RenderPipelineBuilderOption: a function that sets the depth format
func WithDepthFormat(format wgpu.TextureFormat) RenderPipelineBuilderOption {
	return func(d *renderPipelineDescriptor) {
		d.depthFormat = format
	}
}

// WithDepthTestEnabled sets whether depth testing is enabled for this pipeline.
//
// Parameters:
//   - enabled: a boolean indicating whether depth testing should be enabled
//
// Returns:
//   - RenderPipelineBuilderOption: a function that sets the depth test enabled state
func WithDepthTestEnabled(enabled bool) RenderPipelineBuilderOption {
	return func(d *renderPipelineDescriptor) {
		d.depthTestEnabled = enabled
	}
}

// WithDepthWriteEnabled sets whether depth writing is enabled for this pipeline.
//
// Parameters:
//   - enabled: a boolean indicating whether depth writing should be enabled
//
// Returns:
//   - RenderPipelineBuilderOption: a function that sets the depth write enabled state
func WithDepthWriteEnabled(enabled bool) RenderPipelineBuilderOption {
	return func(d *renderPipelineDescriptor) {
		d.depthWriteEnabled = enabled
	}
}

// WithDepthBias sets the depth bias parameters for this pipeline.
//
// Parameters:
//   - bias: the constant depth bias to apply
//   - slopeScale: the slope scale depth bias to apply
//
// Returns:
//   - RenderPipelineBuilderOption: a function that sets the depth bias parameters
func WithDepthBias(bias int32, slopeScale float32) RenderPipelineBuilderOption {
	return func(d *renderPipelineDescriptor) {
		d.depthBias = bias
		d.depthBiasSlopeScale = slopeScale
	}
}

// WithBlendState sets the blend state and enables blending. A nil state disables blending.
//
// Parameters:
//   - blendState: the blend state to use for this pipeline
//
// Returns:
//   - RenderPipelineBuilderOption: a function that sets the blend state
func WithBlendState(blendState *wgpu.BlendState) RenderPipelineBuilderOption {
	return func(d *renderPipelineDescriptor) {
		d.blendState = blendState
		d.blendEnabled = blendState != nil
	}
}

// WithCullMode sets the cull mode for this pipeline.
//
// Parameters:
//   - mode: the cull mode (e.g., wgpu.CullModeNone, wgpu.CullModeBack)
//
// Returns:
//   - RenderPipelineBuilderOption: a function that sets the cull mode
func WithCullMode(mode wgpu.CullMode) RenderPipelineBuilderOption {
	return func(d *renderPipelineDescriptor) {
		d.cullMode = mode
	}
}

// WithTopology sets the primitive topology for this pipeline.
//
// Parameters:
//   - topology: the primitive topology (e.g., wgpu.PrimitiveTopologyTriangleList)
//
// Returns:
//   - RenderPipelineBuilderOption: a function that sets the primitive topology
func WithTopology(topology wgpu.PrimitiveTopology) RenderPipelineBuilderOption {
	return func(d *renderPipelineDescriptor) {
		d.topology = topology
	}
}

// WithFrontFace sets the front face winding order for this pipeline.
func WithFrontFace(frontFace wgpu.FrontFace) RenderPipelineBuilderOption {
	return func(d *renderPipelineDescriptor) {
		d.frontFace = frontFace
	}
}

// WithWriteMask sets the color write mask for this pipeline.
func WithWriteMask(writeMask wgpu.ColorWriteMask) RenderPipelineBuilderOption {
	return func(d *renderPipelineDescriptor) {
		d.writeMask = writeMask
	}
}
