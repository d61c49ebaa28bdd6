package camera

import (
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
)

// viewUniformBindingSize is the size of the WGSL View struct rounded to its 16 byte alignment.
const viewUniformBindingSize = 160

// ViewUniforms packs the uniforms of all views of a frame into one uniform buffer addressed with
// dynamic offsets.
type ViewUniforms struct {
	uniforms *renderer.RawBufferVec[GPUViewUniform]
}

// NewViewUniforms creates an empty view uniform buffer.
func NewViewUniforms() *ViewUniforms {
	return &ViewUniforms{
		uniforms: renderer.NewRawBufferVec[GPUViewUniform]("view_uniforms", wgpu.BufferUsageUniform),
	}
}

// Clear drops the uniforms of the previous frame.
func (u *ViewUniforms) Clear() {
	u.uniforms.Clear()
}

// Push appends a uniform and returns its dynamic offset.
//
// Parameters:
//   - uniform: the view uniform
//
// Returns:
//   - uint32: the byte offset to bind the uniform at
func (u *ViewUniforms) Push(uniform GPUViewUniform) uint32 {
	return u.uniforms.Push(uniform) * GPUViewUniformStride
}

// Write uploads the pushed uniforms.
//
// Parameters:
//   - device: the device used to create and write the buffer
//
// Returns:
//   - error: an error if the buffer could not be grown
func (u *ViewUniforms) Write(device renderer.RenderDevice) error {
	return u.uniforms.Write(device)
}

// Prepare uploads one uniform per view and stores each view's dynamic offset on it.
//
// Parameters:
//   - views: the views of the frame
//   - device: the device used to create and write the buffer
//
// Returns:
//   - error: an error if the buffer could not be grown
func (u *ViewUniforms) Prepare(views *Views, device renderer.RenderDevice) error {
	u.Clear()
	for _, v := range views.All() {
		v.UniformOffset = u.Push(v.Uniform)
	}
	return u.Write(device)
}

// Binding returns the binding of one view uniform within the buffer. Draws select the view with a
// dynamic offset.
//
// Returns:
//   - bind_group_provider.BufferBinding: the binding
//   - bool: false until a uniform has been written
func (u *ViewUniforms) Binding() (bind_group_provider.BufferBinding, bool) {
	buf := u.uniforms.Buffer()
	if buf == nil {
		return bind_group_provider.BufferBinding{}, false
	}
	return bind_group_provider.BufferBinding{Buffer: buf, Size: viewUniformBindingSize}, true
}

// Release frees the uniform buffer.
func (u *ViewUniforms) Release() {
	u.uniforms.Release()
}
