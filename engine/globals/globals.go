// Package globals tracks the per-frame values every shader can read: wrapped time, frame delta and
// frame count.
package globals

import (
	"time"

	"github.com/Carmen-Shannon/oxy-ui/engine/renderer"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
)

// WrapPeriod is the period after which Globals.Time starts over from zero. Keeping the value small
// keeps f32 time precise in shaders.
const WrapPeriod = time.Hour

// Globals holds the values uploaded to the globals uniform each frame.
type Globals struct {
	// Time is the elapsed time since startup in seconds, wrapped to WrapPeriod.
	Time float32
	// DeltaTime is the time since the previous frame in seconds.
	DeltaTime float32
	// FrameCount is the number of frames since startup, wrapping at the maximum uint32.
	FrameCount uint32

	elapsed time.Duration
}

// Update advances the globals by one frame.
//
// Parameters:
//   - dt: the time since the previous frame
func (g *Globals) Update(dt time.Duration) {
	g.elapsed = (g.elapsed + dt) % WrapPeriod
	g.Time = float32(g.elapsed.Seconds())
	g.DeltaTime = float32(dt.Seconds())
	g.FrameCount++
}

// Uniform returns the GPU representation of g.
func (g *Globals) Uniform() GPUGlobalsUniform {
	return GPUGlobalsUniform{Time: g.Time, DeltaTime: g.DeltaTime, FrameCount: g.FrameCount}
}

// Buffer is the uniform buffer holding the current globals.
type Buffer struct {
	uniform *renderer.RawBufferVec[GPUGlobalsUniform]
}

// NewBuffer creates an unwritten globals buffer.
func NewBuffer() *Buffer {
	return &Buffer{
		uniform: renderer.NewRawBufferVec[GPUGlobalsUniform]("globals_uniform", wgpu.BufferUsageUniform),
	}
}

// Prepare uploads g.
//
// Parameters:
//   - g: the globals of the current frame
//   - device: the device used to create and write the buffer
//
// Returns:
//   - error: an error if the buffer could not be created
func (b *Buffer) Prepare(g *Globals, device renderer.RenderDevice) error {
	b.uniform.Clear()
	b.uniform.Push(g.Uniform())
	return b.uniform.Write(device)
}

// Binding returns the globals buffer binding, or false before the first Prepare.
func (b *Buffer) Binding() (bind_group_provider.BufferBinding, bool) {
	buf := b.uniform.Buffer()
	if buf == nil {
		return bind_group_provider.BufferBinding{}, false
	}
	return bind_group_provider.BufferBinding{Buffer: buf}, true
}

// Release frees the buffer.
func (b *Buffer) Release() {
	b.uniform.Release()
}
