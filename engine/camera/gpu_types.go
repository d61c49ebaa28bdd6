package camera

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/shader"
)

// GPUViewUniformSource is the canonical WGSL definition of the View struct, registered as the "view"
// shader include.
//
//go:embed assets/view.wgsl
var GPUViewUniformSource string

// GPUViewUniformStride is the distance between two view uniforms in the per-frame view buffer. It is
// the minimum dynamic uniform offset alignment WebGPU guarantees.
const GPUViewUniformStride = 256

func init() {
	shader.RegisterInclude("view", "View", GPUViewUniformSource)
}

// GPUViewUniform is the GPU-aligned representation of one view. The WGSL View struct covers the
// leading 148 bytes; the rest pads the struct to GPUViewUniformStride so views can be packed into
// one buffer and bound with dynamic offsets.
type GPUViewUniform struct {
	ViewProj        [16]float32 // offset   0: mat4x4<f32>
	InverseViewProj [16]float32 // offset  64: mat4x4<f32>
	Viewport        [4]float32  // offset 128: vec4<f32>
	ScaleFactor     float32     // offset 144: f32
	_pad            [27]float32 // offset 148: padding to 256 bytes
}

// Size returns the size of the GPUViewUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (256)
func (g *GPUViewUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}
