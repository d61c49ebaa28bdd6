package slicer

import (
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/asset"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/phase"
	"github.com/Carmen-Shannon/oxy-ui/engine/sprite"
	"github.com/chewxy/math32"
)

// pendingBatch is a batch built by one view walk. Its range is relative to the view's own indices.
type pendingBatch struct {
	entity common.Entity
	batch  SliceBatch
}

// viewGeometry is everything one view walk produces. Indices are relative to the view's first vertex.
type viewGeometry struct {
	vertices []GPUSliceVertex
	indices  []uint32
	batches  []pendingBatch
	stats    Stats
}

// imageResolver makes an image drawable: it returns the pixel size of its GPU image after making sure
// the image has a bind group. False means the image cannot be drawn this frame.
type imageResolver func(id asset.AssetID) (common.Vec2, bool)

// batchView walks one sorted phase, merging runs of items that share an image into batches and
// emitting four vertices and six indices per drawn quad. The batch range of the first item of every
// batch is widened by one per quad merged into the batch.
//
// The default image acts as a wildcard: an item showing it joins the running batch whatever its image,
// and a batch started by it takes on the image of the first concrete item that joins it. A batch that
// has a concrete image keeps it.
func batchView(items []phase.TransparentUi, extracted []ExtractedSlice, resolve imageResolver) viewGeometry {
	var g viewGeometry

	batchItemIndex := 0
	batchImage := asset.InvalidID
	var batchImageSize common.Vec2
	current := -1

	for itemIndex := range items {
		item := &items[itemIndex]
		if item.Index < 0 || item.Index >= len(extracted) || extracted[item.Index].Entity.Render != item.RenderEntity() {
			// not a slice, so a running batch cannot be continued past it
			batchImage = asset.InvalidID
			continue
		}
		s := &extracted[item.Index]

		switch {
		case batchImage == asset.InvalidID || current < 0 ||
			(!batchImage.IsDefault() && !s.Image.IsDefault() && batchImage != s.Image):
			size, ok := resolve(s.Image)
			if !ok {
				g.stats.Skipped++
				batchImage = asset.InvalidID
				continue
			}
			batchItemIndex = itemIndex
			batchImage = s.Image
			batchImageSize = size
			g.batches = append(g.batches, pendingBatch{
				entity: item.RenderEntity(),
				batch: SliceBatch{
					Range: common.Range{Start: uint32(len(g.indices)), End: uint32(len(g.indices))},
					Image: s.Image,
				},
			})
			current = len(g.batches) - 1
		case batchImage.IsDefault() && !s.Image.IsDefault():
			size, ok := resolve(s.Image)
			if !ok {
				g.stats.Skipped++
				batchImage = asset.InvalidID
				continue
			}
			batchImage = s.Image
			batchImageSize = size
			g.batches[current].batch.Image = s.Image
		}

		if !emitQuad(&g, s, batchImageSize) {
			continue
		}
		g.batches[current].batch.Range.End = uint32(len(g.indices))
		items[batchItemIndex].BatchRange.End++
	}
	g.stats.Batches = len(g.batches)
	return g
}

// emitQuad appends the quad of s to g. It reports false, appending nothing, for quads that are fully
// clipped or have no area.
func emitQuad(g *viewGeometry, s *ExtractedSlice, batchImageSize common.Vec2) bool {
	rectSize := s.Rect.Size()
	if rectSize.IsZeroArea() {
		g.stats.Skipped++
		return false
	}

	var positions [4]common.Vec2
	for i, p := range quadVertexPositions {
		positions[i] = s.Transform.TransformPoint2(p.Mul(rectSize))
	}

	diff := clipDiff(positions, s.Clip)

	// Rotated quads are never culled, their corners are not on axis aligned lines.
	transformedSize := s.Transform.TransformVector2(rectSize)
	if s.Transform.XAxis.Y == 0 {
		if diff[0].X-diff[1].X >= transformedSize.X || diff[1].Y-diff[2].Y >= transformedSize.Y {
			g.stats.Culled++
			return false
		}
	}

	uvs := untexturedUVs
	if !s.Image.IsDefault() {
		extent := s.Rect.Max
		corners := [4]common.Vec2{
			{X: s.Rect.Min.X, Y: s.Rect.Min.Y},
			{X: s.Rect.Max.X, Y: s.Rect.Min.Y},
			{X: s.Rect.Max.X, Y: s.Rect.Max.Y},
			{X: s.Rect.Min.X, Y: s.Rect.Max.Y},
		}
		for i := range uvs {
			uvs[i] = corners[i].Add(diff[i]).Div(extent)
		}
	}

	imageSize := batchImageSize
	atlas := [4]float32{0, 0, 1, 1}
	if s.AtlasRect != nil {
		imageSize = s.AtlasRect.Size()
		atlas = [4]float32{
			s.AtlasRect.Min.X / batchImageSize.X,
			s.AtlasRect.Min.Y / batchImageSize.Y,
			s.AtlasRect.Max.X / batchImageSize.X,
			s.AtlasRect.Max.Y / batchImageSize.Y,
		}
	}
	if imageSize.IsZeroArea() {
		g.stats.Skipped++
		return false
	}
	if s.FlipX {
		atlas[0], atlas[2] = atlas[2], atlas[0]
	}
	if s.FlipY {
		atlas[1], atlas[3] = atlas[3], atlas[1]
	}

	slices := sprite.ComputeSlices(imageSize, rectSize.Scale(s.InverseScaleFactor), s.ScaleMode)
	color := s.Color.ToArray()

	base := uint32(len(g.vertices))
	for i := range 4 {
		p := positions[i].Add(diff[i])
		g.vertices = append(g.vertices, GPUSliceVertex{
			Position: [3]float32{p.X, p.Y, 0},
			UV:       uvs[i].Array(),
			Color:    color,
			Slices:   slices.Slices,
			Border:   slices.Border,
			Repeat:   slices.Repeat,
			Atlas:    atlas,
		})
	}
	for _, i := range quadIndices {
		g.indices = append(g.indices, base+i)
	}
	g.stats.Quads++
	return true
}

// clipDiff returns how far each corner has to move to lie inside clip. Every corner is only pulled
// along the two clip edges it touches.
func clipDiff(positions [4]common.Vec2, clip *common.Rect) [4]common.Vec2 {
	if clip == nil {
		return [4]common.Vec2{}
	}
	return [4]common.Vec2{
		{
			X: math32.Max(clip.Min.X-positions[0].X, 0),
			Y: math32.Max(clip.Min.Y-positions[0].Y, 0),
		},
		{
			X: math32.Min(clip.Max.X-positions[1].X, 0),
			Y: math32.Max(clip.Min.Y-positions[1].Y, 0),
		},
		{
			X: math32.Min(clip.Max.X-positions[2].X, 0),
			Y: math32.Min(clip.Max.Y-positions[2].Y, 0),
		},
		{
			X: math32.Max(clip.Min.X-positions[3].X, 0),
			Y: math32.Min(clip.Max.Y-positions[3].Y, 0),
		},
	}
}

// walkViews runs batchView for every view phase, through submit when it is not nil. Each view owns its
// phase and output, so views never share mutable state except the bind group cache.
func walkViews(submit func(worker.Task), phases []*phase.SortedRenderPhase, extracted []ExtractedSlice, resolve imageResolver) []viewGeometry {
	out := make([]viewGeometry, len(phases))
	if submit == nil || len(phases) < 2 {
		for i, p := range phases {
			out[i] = batchView(p.Items, extracted, resolve)
		}
		return out
	}

	var wg sync.WaitGroup
	for i, p := range phases {
		wg.Add(1)
		idx, items := i, p.Items
		submit(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				out[idx] = batchView(items, extracted, resolve)
				return nil, nil
			},
		})
	}
	wg.Wait()
	return out
}

// mergeGeometry appends the output of every view to meta in view order, rebasing indices onto the
// shared vertex buffer and batch ranges onto the shared index buffer.
func mergeGeometry(meta *SliceMeta, views []viewGeometry) Stats {
	var stats Stats
	for _, g := range views {
		vertexBase := uint32(meta.vertices.Len())
		indexBase := uint32(meta.indices.Len())

		meta.vertices.Extend(g.vertices...)
		for _, i := range g.indices {
			meta.indices.Push(vertexBase + i)
		}
		for _, b := range g.batches {
			b.batch.Range.Start += indexBase
			b.batch.Range.End += indexBase
			meta.batches[b.entity] = b.batch
		}

		stats.add(g.stats)
	}
	return stats
}
