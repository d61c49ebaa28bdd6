package pipeline

import (
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/render_resource"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderPipelineDescriptor is the implementation of the RenderPipelineDescriptor interface.
// It holds everything a device needs to compile one render pipeline variant.
type renderPipelineDescriptor struct {
	// label is the debug label of the compiled pipeline
	label string

	vertexShader, fragmentShader shader.Shader

	// layouts are pre-created bind group layouts indexed by group. When empty, devices create layouts
	// from the merged shader descriptors.
	layouts []*render_resource.BindGroupLayout

	format      wgpu.TextureFormat
	sampleCount uint32

	// depthFormat is the depth attachment format; wgpu.TextureFormatUndefined disables the depth stage
	depthFormat         wgpu.TextureFormat
	depthTestEnabled    bool
	depthWriteEnabled   bool
	depthBias           int32
	depthBiasSlopeScale float32

	blendEnabled bool
	blendState   *wgpu.BlendState
	cullMode     wgpu.CullMode
	topology     wgpu.PrimitiveTopology
	frontFace    wgpu.FrontFace
	writeMask    wgpu.ColorWriteMask
}

// RenderPipelineDescriptor describes a render pipeline variant: its shader stages, bind group layouts,
// color target format, multisampling, depth, blend and primitive state. Descriptors are plain data;
// a Compiler turns them into GPU pipelines.
type RenderPipelineDescriptor interface {
	// Label returns the debug label for the compiled pipeline.
	//
	// Returns:
	//   - string: the label
	Label() string

	// Shader retrieves the shader for the given stage.
	//
	// Parameters:
	//   - shaderType: the stage to retrieve
	//
	// Returns:
	//   - shader.Shader: the shader, or nil if not set
	Shader(shaderType shader.ShaderType) shader.Shader

	// Layouts returns the pre-created bind group layouts indexed by group, or nil when the device should
	// derive layouts from the shaders.
	//
	// Returns:
	//   - []*render_resource.BindGroupLayout: layouts in group order
	Layouts() []*render_resource.BindGroupLayout

	// BindGroupLayoutDescriptors merges the vertex and fragment shader layouts. Bindings declared by both
	// stages have their visibility combined.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: merged descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// Format returns the color target format.
	//
	// Returns:
	//   - wgpu.TextureFormat: the format of the single color target
	Format() wgpu.TextureFormat

	// SampleCount returns the multisample count of the color target.
	//
	// Returns:
	//   - uint32: 1 when multisampling is off
	SampleCount() uint32

	// DepthStencil builds the depth stencil state, or nil when the depth format is undefined.
	//
	// Returns:
	//   - *wgpu.DepthStencilState: the depth stencil state or nil
	DepthStencil() *wgpu.DepthStencilState

	// ColorTarget builds the color target state from the format, write mask and blend state.
	//
	// Returns:
	//   - wgpu.ColorTargetState: the color target state
	ColorTarget() wgpu.ColorTargetState

	// Primitive builds the primitive state from topology, winding and cull mode.
	//
	// Returns:
	//   - wgpu.PrimitiveState: the primitive state
	Primitive() wgpu.PrimitiveState
}

var _ RenderPipelineDescriptor = &renderPipelineDescriptor{}

// NewRenderPipelineDescriptor creates a descriptor for a vertex and fragment shader pair. Defaults are a
// triangle list, counter-clockwise winding, no culling, alpha blending enabled, a single sample, and a
// Depth24Plus attachment with depth testing and writing enabled.
//
// Parameters:
//   - label: the debug label for the compiled pipeline
//   - vertex: the vertex stage
//   - fragment: the fragment stage
//   - opts: a variadic list of RenderPipelineBuilderOption functions to configure the descriptor
//
// Returns:
//   - RenderPipelineDescriptor: the configured descriptor
func NewRenderPipelineDescriptor(label string, vertex, fragment shader.Shader, opts ...RenderPipelineBuilderOption) RenderPipelineDescriptor {
	d := &renderPipelineDescriptor{
		label:             label,
		vertexShader:      vertex,
		fragmentShader:    fragment,
		format:            wgpu.TextureFormatRGBA8UnormSrgb,
		sampleCount:       1,
		depthFormat:       wgpu.TextureFormatDepth24Plus,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		blendEnabled:      true,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		blendState:        AlphaBlending(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// AlphaBlending returns straight alpha blending: color is src*a + dst*(1-a), alpha accumulates.
func AlphaBlending() *wgpu.BlendState {
	return &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
	}
}

func (d *renderPipelineDescriptor) Label() string {
	return d.label
}

func (d *renderPipelineDescriptor) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return d.vertexShader
	case shader.ShaderTypeFragment:
		return d.fragmentShader
	default:
		return nil
	}
}

func (d *renderPipelineDescriptor) Layouts() []*render_resource.BindGroupLayout {
	return d.layouts
}

func (d *renderPipelineDescriptor) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	var vertex, fragment map[int]wgpu.BindGroupLayoutDescriptor
	if d.vertexShader != nil {
		vertex = d.vertexShader.BindGroupLayoutDescriptors()
	}
	if d.fragmentShader != nil {
		fragment = d.fragmentShader.BindGroupLayoutDescriptors()
	}
	return MergeBindGroupLayouts(vertex, fragment)
}

func (d *renderPipelineDescriptor) Format() wgpu.TextureFormat {
	return d.format
}

func (d *renderPipelineDescriptor) SampleCount() uint32 {
	return d.sampleCount
}

func (d *renderPipelineDescriptor) DepthStencil() *wgpu.DepthStencilState {
	if d.depthFormat == wgpu.TextureFormatUndefined {
		return nil
	}
	depthCompare := wgpu.CompareFunctionLess
	if !d.depthTestEnabled {
		depthCompare = wgpu.CompareFunctionAlways
	}
	return &wgpu.DepthStencilState{
		Format:              d.depthFormat,
		DepthWriteEnabled:   d.depthWriteEnabled,
		DepthCompare:        depthCompare,
		DepthBias:           d.depthBias,
		DepthBiasSlopeScale: d.depthBiasSlopeScale,
		StencilFront: wgpu.StencilFaceState{
			Compare: wgpu.CompareFunctionAlways,
		},
		StencilBack: wgpu.StencilFaceState{
			Compare: wgpu.CompareFunctionAlways,
		},
	}
}

func (d *renderPipelineDescriptor) ColorTarget() wgpu.ColorTargetState {
	state := wgpu.ColorTargetState{
		Format:    d.format,
		WriteMask: d.writeMask,
	}
	if d.blendEnabled {
		state.Blend = d.blendState
	}
	return state
}

func (d *renderPipelineDescriptor) Primitive() wgpu.PrimitiveState {
	return wgpu.PrimitiveState{
		Topology:  d.topology,
		FrontFace: d.frontFace,
		CullMode:  d.cullMode,
	}
}
