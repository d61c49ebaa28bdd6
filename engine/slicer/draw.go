package slicer

import (
	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/phase"
	"github.com/cogentcore/webgpu/wgpu"
)

// DrawFunctionName is the name the slice draw is registered under.
const DrawFunctionName = "DrawUiTextureSlices"

// Draw failure reasons.
const (
	reasonNoViewBindGroup  = "view bind group not available"
	reasonNoImageBindGroup = "image bind group not available"
	reasonNoVertices       = "missing vertices to draw ui"
	reasonNoIndices        = "missing indices to draw ui"
)

// NewDrawCommands returns the draw of a slice batch: bind the pipeline, the view bind group and the
// batch image bind group, then draw the batch's index range.
//
// Parameters:
//   - meta: the prepared vertices, indices and batches
//   - images: the image bind group cache
//
// Returns:
//   - phase.RenderCommands: the commands in recording order
func NewDrawCommands(meta *SliceMeta, images *ImageBindGroups) phase.RenderCommands {
	return phase.RenderCommands{
		phase.SetItemPipeline(),
		SetSlicerViewBindGroup(meta),
		SetSlicerTextureBindGroup(meta, images),
		DrawSlicer(meta),
	}
}

// SetSlicerViewBindGroup binds the view bind group at the view's uniform offset.
func SetSlicerViewBindGroup(meta *SliceMeta) phase.RenderCommand {
	return phase.NewRenderCommand("SetSlicerViewBindGroup", func(view phase.View, _ *phase.TransparentUi, pass renderer.TrackedRenderPass) phase.RenderCommandResult {
		bg := meta.ViewBindGroup()
		if bg == nil {
			return phase.Failure(reasonNoViewBindGroup)
		}
		pass.SetBindGroup(viewBindGroupIndex, bg, view.UniformOffset)
		return phase.Success
	})
}

// SetSlicerTextureBindGroup binds the bind group of the batch image. Items that start no batch are
// skipped, they were drawn with an earlier item.
func SetSlicerTextureBindGroup(meta *SliceMeta, images *ImageBindGroups) phase.RenderCommand {
	return phase.NewRenderCommand("SetSlicerTextureBindGroup", func(_ phase.View, item *phase.TransparentUi, pass renderer.TrackedRenderPass) phase.RenderCommandResult {
		batch, ok := meta.Batch(item.RenderEntity())
		if !ok {
			return phase.Skip
		}
		p, ok := images.Get(batch.Image)
		if !ok || p.BindGroup() == nil {
			return phase.Failure(reasonNoImageBindGroup)
		}
		pass.SetBindGroup(imageBindGroupIndex, p.BindGroup())
		return phase.Success
	})
}

// DrawSlicer draws the index range of the item's batch.
func DrawSlicer(meta *SliceMeta) phase.RenderCommand {
	return phase.NewRenderCommand("DrawSlicer", func(_ phase.View, item *phase.TransparentUi, pass renderer.TrackedRenderPass) phase.RenderCommandResult {
		batch, ok := meta.Batch(item.RenderEntity())
		if !ok {
			return phase.Skip
		}
		vertices := meta.vertices.Buffer()
		if vertices == nil {
			return phase.Failure(reasonNoVertices)
		}
		indices := meta.indices.Buffer()
		if indices == nil {
			return phase.Failure(reasonNoIndices)
		}
		pass.SetVertexBuffer(0, vertices)
		pass.SetIndexBuffer(indices, wgpu.IndexFormatUint32)
		pass.DrawIndexed(batch.Range, 0, common.Range{Start: 0, End: 1})
		return phase.Success
	})
}
