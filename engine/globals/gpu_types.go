package globals

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/shader"
)

// GPUGlobalsUniformSource is the canonical WGSL definition of the Globals struct, registered as the
// "globals" shader include.
//
//go:embed assets/globals.wgsl
var GPUGlobalsUniformSource string

func init() {
	shader.RegisterInclude("globals", "Globals", GPUGlobalsUniformSource)
}

// GPUGlobalsUniform matches the WGSL Globals struct layout exactly (16 bytes).
type GPUGlobalsUniform struct {
	Time       float32 // offset  0
	DeltaTime  float32 // offset  4
	FrameCount uint32  // offset  8
	_pad       float32 // offset 12
}

// Size returns the size of the GPUGlobalsUniform struct in bytes.
func (g *GPUGlobalsUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the uniform for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUGlobalsUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(g.Time))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(g.DeltaTime))
	binary.LittleEndian.PutUint32(buf[8:], g.FrameCount)
	return buf
}
