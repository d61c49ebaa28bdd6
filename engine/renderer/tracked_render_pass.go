package renderer

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/render_resource"
	"github.com/cogentcore/webgpu/wgpu"
)

// maxTrackedBindGroups bounds the bind group slots a tracked pass remembers.
const maxTrackedBindGroups = 8

// TrackedRenderPass records draw commands into a render pass, skipping state changes that would set
// what is already bound.
type TrackedRenderPass interface {
	// SetRenderPipeline binds a render pipeline.
	//
	// Parameters:
	//   - p: the pipeline to bind
	SetRenderPipeline(p *render_resource.RenderPipeline)

	// SetBindGroup binds a bind group at a group index with optional dynamic offsets.
	//
	// Parameters:
	//   - index: the group index
	//   - bg: the bind group
	//   - dynamicOffsets: one offset per dynamic binding in the group, in binding order
	SetBindGroup(index uint32, bg *render_resource.BindGroup, dynamicOffsets ...uint32)

	// SetVertexBuffer binds a whole buffer to a vertex buffer slot.
	//
	// Parameters:
	//   - slot: the vertex buffer slot
	//   - buf: the vertex buffer
	SetVertexBuffer(slot uint32, buf *render_resource.Buffer)

	// SetIndexBuffer binds a whole buffer as the index buffer.
	//
	// Parameters:
	//   - buf: the index buffer
	//   - format: the index format
	SetIndexBuffer(buf *render_resource.Buffer, format wgpu.IndexFormat)

	// DrawIndexed draws indexed primitives from the bound buffers.
	//
	// Parameters:
	//   - indices: the half-open range of indices to draw
	//   - baseVertex: the value added to each index before reading the vertex buffer
	//   - instances: the half-open range of instances to draw
	DrawIndexed(indices common.Range, baseVertex int32, instances common.Range)
}

// passEncoder is the subset of render pass encoding a tracked pass drives.
type passEncoder interface {
	setPipeline(p *render_resource.RenderPipeline)
	setBindGroup(index uint32, bg *render_resource.BindGroup, dynamicOffsets []uint32)
	setVertexBuffer(slot uint32, buf *render_resource.Buffer)
	setIndexBuffer(buf *render_resource.Buffer, format wgpu.IndexFormat)
	drawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32)
}

type boundBindGroup struct {
	id      render_resource.ResourceID
	offsets []uint32
}

// trackedRenderPass is the implementation of the TrackedRenderPass interface.
type trackedRenderPass struct {
	encoder passEncoder

	pipeline    render_resource.ResourceID
	bindGroups  [maxTrackedBindGroups]boundBindGroup
	vertex      map[uint32]render_resource.ResourceID
	index       render_resource.ResourceID
	indexFormat wgpu.IndexFormat
}

var _ TrackedRenderPass = &trackedRenderPass{}

func newTrackedRenderPass(encoder passEncoder) *trackedRenderPass {
	return &trackedRenderPass{
		encoder: encoder,
		vertex:  make(map[uint32]render_resource.ResourceID),
	}
}

func (t *trackedRenderPass) SetRenderPipeline(p *render_resource.RenderPipeline) {
	if p == nil || t.pipeline == p.ID() {
		return
	}
	t.pipeline = p.ID()
	t.encoder.setPipeline(p)
}

func (t *trackedRenderPass) SetBindGroup(index uint32, bg *render_resource.BindGroup, dynamicOffsets ...uint32) {
	if bg == nil {
		return
	}
	if index < maxTrackedBindGroups {
		bound := &t.bindGroups[index]
		if bound.id == bg.ID() && slices.Equal(bound.offsets, dynamicOffsets) {
			return
		}
		bound.id = bg.ID()
		bound.offsets = append(bound.offsets[:0], dynamicOffsets...)
	}
	t.encoder.setBindGroup(index, bg, dynamicOffsets)
}

func (t *trackedRenderPass) SetVertexBuffer(slot uint32, buf *render_resource.Buffer) {
	if buf == nil || t.vertex[slot] == buf.ID() {
		return
	}
	t.vertex[slot] = buf.ID()
	t.encoder.setVertexBuffer(slot, buf)
}

func (t *trackedRenderPass) SetIndexBuffer(buf *render_resource.Buffer, format wgpu.IndexFormat) {
	if buf == nil || (t.index == buf.ID() && t.indexFormat == format) {
		return
	}
	t.index = buf.ID()
	t.indexFormat = format
	t.encoder.setIndexBuffer(buf, format)
}

func (t *trackedRenderPass) DrawIndexed(indices common.Range, baseVertex int32, instances common.Range) {
	if indices.IsEmpty() || instances.IsEmpty() {
		return
	}
	t.encoder.drawIndexed(indices.Len(), instances.Len(), indices.Start, baseVertex, instances.Start)
}

// wgpuPassEncoder encodes into a wgpu render pass.
type wgpuPassEncoder struct {
	raw *wgpu.RenderPassEncoder
}

func (e wgpuPassEncoder) setPipeline(p *render_resource.RenderPipeline) {
	e.raw.SetPipeline(p.Raw())
}

func (e wgpuPassEncoder) setBindGroup(index uint32, bg *render_resource.BindGroup, dynamicOffsets []uint32) {
	e.raw.SetBindGroup(index, bg.Raw(), dynamicOffsets)
}

func (e wgpuPassEncoder) setVertexBuffer(slot uint32, buf *render_resource.Buffer) {
	e.raw.SetVertexBuffer(slot, buf.Raw(), 0, wgpu.WholeSize)
}

func (e wgpuPassEncoder) setIndexBuffer(buf *render_resource.Buffer, format wgpu.IndexFormat) {
	e.raw.SetIndexBuffer(buf.Raw(), format, 0, wgpu.WholeSize)
}

func (e wgpuPassEncoder) drawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	e.raw.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
}
