package slicer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/asset"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/render_resource"
	"github.com/cogentcore/webgpu/wgpu"
)

// SliceBatch is one indexed draw: a range of the shared index buffer drawn with one image.
type SliceBatch struct {
	// Range is in index units.
	Range common.Range
	Image asset.AssetID
}

// SliceMeta holds the shared per-frame GPU data of all slice draws.
type SliceMeta struct {
	vertices      *renderer.RawBufferVec[GPUSliceVertex]
	indices       *renderer.RawBufferVec[uint32]
	viewBindGroup bind_group_provider.BindGroupProvider

	// batches are keyed by the render entity of the phase item that draws them.
	batches map[common.Entity]SliceBatch
}

// NewSliceMeta creates empty vertex and index buffers.
func NewSliceMeta() *SliceMeta {
	return &SliceMeta{
		vertices: renderer.NewRawBufferVec[GPUSliceVertex]("ui_texture_slice_vertices", wgpu.BufferUsageVertex),
		indices:  renderer.NewRawBufferVec[uint32]("ui_texture_slice_indices", wgpu.BufferUsageIndex),
		batches:  make(map[common.Entity]SliceBatch),
	}
}

// clear empties the buffers and batches for a new frame.
func (m *SliceMeta) clear() {
	m.vertices.Clear()
	m.indices.Clear()
	clear(m.batches)
}

// createViewBindGroup replaces the view bind group with one bound to the frame's view and globals
// uniforms.
func (m *SliceMeta) createViewBindGroup(device renderer.RenderDevice, layout *render_resource.BindGroupLayout, view, globals bind_group_provider.BufferBinding) error {
	if m.viewBindGroup != nil {
		m.viewBindGroup.Release()
		m.viewBindGroup = nil
	}
	p := bind_group_provider.NewBindGroupProvider("ui_texture_slice_view_bind_group",
		bind_group_provider.WithBufferBinding(viewUniformBinding, view),
		bind_group_provider.WithBufferBinding(globalsUniformBinding, globals),
	)
	if err := device.CreateBindGroup(p, layout); err != nil {
		return fmt.Errorf("failed to create slice view bind group: %w", err)
	}
	m.viewBindGroup = p
	return nil
}

// write flushes the vertices and indices to the GPU.
func (m *SliceMeta) write(device renderer.RenderDevice) error {
	if err := m.vertices.Write(device); err != nil {
		return err
	}
	return m.indices.Write(device)
}

// Batch returns the batch drawn by the phase item with render entity e.
func (m *SliceMeta) Batch(e common.Entity) (SliceBatch, bool) {
	b, ok := m.batches[e]
	return b, ok
}

// Batches returns the number of batches prepared this frame.
func (m *SliceMeta) Batches() int {
	return len(m.batches)
}

// Vertices returns the vertices prepared this frame.
func (m *SliceMeta) Vertices() []GPUSliceVertex {
	return m.vertices.Values()
}

// Indices returns the indices prepared this frame.
func (m *SliceMeta) Indices() []uint32 {
	return m.indices.Values()
}

// ViewBindGroup returns the frame's view bind group, or nil if none has been created.
func (m *SliceMeta) ViewBindGroup() *render_resource.BindGroup {
	if m.viewBindGroup == nil {
		return nil
	}
	return m.viewBindGroup.BindGroup()
}

// Release frees the buffers and the view bind group.
func (m *SliceMeta) Release() {
	m.vertices.Release()
	m.indices.Release()
	if m.viewBindGroup != nil {
		m.viewBindGroup.Release()
		m.viewBindGroup = nil
	}
	clear(m.batches)
}
