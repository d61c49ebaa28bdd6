package slicer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-ui/engine/renderer"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/render_resource"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Bind group indices of the slice pipeline.
const (
	viewBindGroupIndex  = 0
	imageBindGroupIndex = 1
)

// Bindings within the view bind group.
const (
	viewUniformBinding    = 0
	globalsUniformBinding = 1
)

// Bindings within the image bind group.
const (
	imageTextureBinding = 0
	imageSamplerBinding = 1
)

// antiAliasSampleCount is the sample count of anti-aliased variants.
const antiAliasSampleCount = 4

// SlicePipelineKey selects a variant of the slice pipeline.
type SlicePipelineKey struct {
	// HDR renders into the HDR intermediate target.
	HDR bool
	// AntiAlias renders into a 4x multisampled target.
	AntiAlias bool
}

// SlicePipeline holds the bind group layouts shared by every slice pipeline variant and describes the
// variants. It implements pipeline.Specializer.
type SlicePipeline struct {
	viewLayout  *render_resource.BindGroupLayout
	imageLayout *render_resource.BindGroupLayout
	format      wgpu.TextureFormat
}

var _ pipeline.Specializer[SlicePipelineKey] = &SlicePipeline{}

// NewSlicePipeline parses the slice shader and creates its bind group layouts.
//
// Parameters:
//   - device: the device the layouts are created with
//   - format: the color format of non-HDR variants
//
// Returns:
//   - *SlicePipeline: the pipeline family
//   - error: an error if the shader does not parse or a layout cannot be created
func NewSlicePipeline(device renderer.RenderDevice, format wgpu.TextureFormat) (*SlicePipeline, error) {
	vs, fs, err := sliceShaders()
	if err != nil {
		return nil, err
	}
	merged := pipeline.MergeBindGroupLayouts(vs.BindGroupLayoutDescriptors(), fs.BindGroupLayoutDescriptors())

	viewLayout, err := device.CreateBindGroupLayout("ui_texture_slice_view_layout", merged[viewBindGroupIndex])
	if err != nil {
		return nil, fmt.Errorf("failed to create slice view layout: %w", err)
	}
	imageLayout, err := device.CreateBindGroupLayout("ui_texture_slice_image_layout", merged[imageBindGroupIndex])
	if err != nil {
		viewLayout.Release()
		return nil, fmt.Errorf("failed to create slice image layout: %w", err)
	}
	return &SlicePipeline{viewLayout: viewLayout, imageLayout: imageLayout, format: format}, nil
}

// ViewLayout returns the layout of bind group 0: the view uniform with a dynamic offset and the
// globals uniform.
func (p *SlicePipeline) ViewLayout() *render_resource.BindGroupLayout {
	return p.viewLayout
}

// ImageLayout returns the layout of bind group 1: the image texture and sampler.
func (p *SlicePipeline) ImageLayout() *render_resource.BindGroupLayout {
	return p.imageLayout
}

// Specialize describes the variant for key.
//
// Parameters:
//   - key: the variant key
//
// Returns:
//   - pipeline.RenderPipelineDescriptor: the variant's descriptor
//   - error: an error if the variant's shaders do not parse
func (p *SlicePipeline) Specialize(key SlicePipelineKey) (pipeline.RenderPipelineDescriptor, error) {
	var defs []string
	format := p.format
	if key.HDR {
		defs = append(defs, "HDR")
		format = renderer.HDRFormat
	}
	sampleCount := uint32(1)
	if key.AntiAlias {
		sampleCount = antiAliasSampleCount
	}

	vs, fs, err := sliceShaders(defs...)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRenderPipelineDescriptor("ui_texture_slice_pipeline", vs, fs,
		pipeline.WithLayouts(p.viewLayout, p.imageLayout),
		pipeline.WithFormat(format),
		pipeline.WithSampleCount(sampleCount),
		pipeline.WithDepthFormat(renderer.DepthFormat),
		pipeline.WithDepthTestEnabled(false),
		pipeline.WithDepthWriteEnabled(false),
		pipeline.WithBlendState(pipeline.AlphaBlending()),
	), nil
}

// Release frees the bind group layouts.
func (p *SlicePipeline) Release() {
	p.viewLayout.Release()
	p.imageLayout.Release()
}

func sliceShaders(defs ...string) (shader.Shader, shader.Shader, error) {
	vs, err := shader.NewShader("ui_texture_slice_vs", shader.ShaderTypeVertex, TextureSliceShaderSource, defs...)
	if err != nil {
		return nil, nil, err
	}
	fs, err := shader.NewShader("ui_texture_slice_fs", shader.ShaderTypeFragment, TextureSliceShaderSource, defs...)
	if err != nil {
		return nil, nil, err
	}
	return vs, fs, nil
}
