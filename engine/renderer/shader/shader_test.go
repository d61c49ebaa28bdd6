package shader

import (
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testViewStruct = `struct TestView {
    clip_from_world: mat4x4<f32>,
    viewport: vec4<f32>,
};`

const testQuadSource = `//@oxy:include test_view
//@oxy:group 0 0 uniform view test_view
//@oxy:dynamic 0 0

@group(1) @binding(0) var quad_texture: texture_2d<f32>;
@group(1) @binding(1) var quad_sampler: sampler;

struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) uv: vec2<f32>,
    @location(2) color: vec4<f32>,
};

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) uv: vec2<f32>,
    @location(1) color: vec4<f32>,
};

@vertex
fn vertex(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.position = view.clip_from_world * vec4<f32>(in.position, 1.0);
    out.uv = in.uv;
    out.color = in.color;
    return out;
}

@fragment
fn fragment(in: VertexOutput) -> @location(0) vec4<f32> {
    var color = in.color * textureSample(quad_texture, quad_sampler, in.uv);
//@oxy:ifdef PREMULTIPLY
    color = vec4<f32>(color.rgb * color.a, color.a);
//@oxy:else
    color = vec4<f32>(color.rgb, color.a);
//@oxy:endif
    return color;
}
`

func init() {
	RegisterInclude("test_view", "TestView", testViewStruct)
}

func TestNewShader_Vertex(t *testing.T) {
	s, err := NewShader("quad_vs", ShaderTypeVertex, testQuadSource)
	require.NoError(t, err)

	assert.Equal(t, "vertex", s.EntryPoint())
	assert.Contains(t, s.Source(), "struct TestView")
	assert.Contains(t, s.Source(), "@group(0) @binding(0) var<uniform> view: TestView;")

	layouts := s.VertexLayouts()
	require.Len(t, layouts, 1)
	assert.Equal(t, uint64(36), layouts[0].ArrayStride)
	require.Len(t, layouts[0].Attributes, 3)
	assert.Equal(t, wgpu.VertexFormatFloat32x2, layouts[0].Attributes[1].Format)
	assert.Equal(t, uint64(12), layouts[0].Attributes[1].Offset)
	assert.Equal(t, uint32(2), layouts[0].Attributes[2].ShaderLocation)

	view := s.BindGroupLayoutDescriptor(0)
	require.Len(t, view.Entries, 1)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, view.Entries[0].Buffer.Type)
	assert.True(t, view.Entries[0].Buffer.HasDynamicOffset)
	assert.Equal(t, uint64(80), view.Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageVertex, view.Entries[0].Visibility)

	image := s.BindGroupLayoutDescriptor(1)
	require.Len(t, image.Entries, 2)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, image.Entries[0].Texture.SampleType)
	assert.Equal(t, wgpu.TextureViewDimension2D, image.Entries[0].Texture.ViewDimension)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, image.Entries[1].Sampler.Type)
	assert.Equal(t, "quad_sampler", s.BindGroupVarName(1, 1))
	assert.Empty(t, s.BindGroupVarName(3, 0))
}

func TestNewShader_FragmentDefs(t *testing.T) {
	plain, err := NewShader("quad_fs", ShaderTypeFragment, testQuadSource)
	require.NoError(t, err)
	premul, err := NewShader("quad_fs", ShaderTypeFragment, testQuadSource, "PREMULTIPLY")
	require.NoError(t, err)

	assert.Equal(t, "fragment", plain.EntryPoint())
	assert.Empty(t, plain.VertexLayouts())
	assert.NotContains(t, plain.Source(), "color.rgb * color.a")
	assert.Contains(t, premul.Source(), "color.rgb * color.a")
	assert.Equal(t, []string{"PREMULTIPLY"}, premul.Defs())
	assert.Equal(t, wgpu.ShaderStageFragment, plain.BindGroupLayoutDescriptor(1).Entries[0].Visibility)
}

func TestNewShader_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"unknown include", "//@oxy:include nope\n@vertex fn vertex() {}", "unknown @oxy:include"},
		{"unterminated ifdef", "//@oxy:ifdef FOO\n@vertex fn vertex() {}", "unterminated"},
		{"stray endif", "//@oxy:endif\n@vertex fn vertex() {}", "without matching ifdef"},
		{"bad def name", "//@oxy:ifdef foo\n//@oxy:endif", "upper-case"},
		{"missing entry point", "fn helper() {}", "no @vertex entry point"},
		{"dynamic on texture", "@group(0) @binding(0) var t: texture_2d<f32>;\n//@oxy:dynamic 0 0\n@vertex fn vertex() {}", "non-buffer binding"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewShader("bad", ShaderTypeVertex, tt.source)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPreProcessor_IncludeCycle(t *testing.T) {
	RegisterInclude("cycle_a", "A", "//@oxy:include cycle_b")
	RegisterInclude("cycle_b", "B", "//@oxy:include cycle_a")

	_, err := NewPreProcessor().Process("//@oxy:include cycle_a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "include cycle")
}

func TestPreProcessor_NestedConditionals(t *testing.T) {
	src := strings.Join([]string{
		"//@oxy:ifdef A",
		"a",
		"//@oxy:ifndef B",
		"not_b",
		"//@oxy:endif",
		"//@oxy:else",
		"no_a",
		"//@oxy:endif",
	}, "\n")

	out, err := NewPreProcessor().Process(src, "A")
	require.NoError(t, err)
	assert.Equal(t, "a\nnot_b", out)

	out, err = NewPreProcessor().Process(src, "A", "B")
	require.NoError(t, err)
	assert.Equal(t, "a", out)

	out, err = NewPreProcessor().Process(src)
	require.NoError(t, err)
	assert.Equal(t, "no_a", out)
}

func TestResolveTypeLayout(t *testing.T) {
	known := map[string]wgslTypeLayout{"Item": {size: 32, align: 16}}

	l, ok := resolveTypeLayout("array<vec3<f32>, 4>", known)
	require.True(t, ok)
	assert.Equal(t, uint64(64), l.size)

	l, ok = resolveTypeLayout("array<Item>", known)
	require.True(t, ok)
	assert.Equal(t, uint64(32), l.size)

	_, ok = resolveTypeLayout("Unknown", known)
	assert.False(t, ok)
}
