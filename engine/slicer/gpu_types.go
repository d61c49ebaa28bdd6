package slicer

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-ui/common"
)

// TextureSliceShaderSource is the WGSL source of the slice pipeline. Its SliceVertex input struct
// matches GPUSliceVertex exactly.
//
//go:embed assets/ui_texture_slice.wgsl
var TextureSliceShaderSource string

// GPUSliceVertex is one corner of a sliced quad as uploaded to the vertex buffer (100 bytes).
type GPUSliceVertex struct {
	Position [3]float32 // offset  0: vec3<f32>
	UV       [2]float32 // offset 12: vec2<f32>
	Color    [4]float32 // offset 20: vec4<f32>
	Slices   [4]float32 // offset 36: normalized image slicing lines
	Border   [4]float32 // offset 52: normalized target slicing lines
	Repeat   [4]float32 // offset 68: side x, side y, center x, center y
	Atlas    [4]float32 // offset 84: normalized atlas rect
}

// Size returns the size of the GPUSliceVertex struct in bytes.
func (v *GPUSliceVertex) Size() int {
	return int(unsafe.Sizeof(*v))
}

// quadVertexPositions are the corners of the unit quad centered on the origin, clockwise from the top
// left in a y-down space.
var quadVertexPositions = [4]common.Vec2{
	{X: -0.5, Y: -0.5},
	{X: 0.5, Y: -0.5},
	{X: 0.5, Y: 0.5},
	{X: -0.5, Y: 0.5},
}

// quadIndices are the two triangles of a quad.
var quadIndices = [6]uint32{0, 1, 2, 0, 2, 3}

// untexturedUVs map the default image over the whole quad.
var untexturedUVs = [4]common.Vec2{
	{X: 0, Y: 0},
	{X: 1, Y: 0},
	{X: 1, Y: 1},
	{X: 0, Y: 1},
}
