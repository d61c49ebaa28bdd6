package slicer

import (
	"testing"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/asset"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/phase"
	"github.com/Carmen-Shannon/oxy-ui/engine/sprite"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	imageA = asset.AssetID(100)
	imageB = asset.AssetID(101)
)

var testSlicer = sprite.NewTextureSlicer(sprite.BorderSquare(10))

// testSlice is a 100x100 sliced quad whose top left corner is at the origin.
func testSlice(render common.Entity, image asset.AssetID) ExtractedSlice {
	return ExtractedSlice{
		Entity:             common.EntityPair{Main: render, Render: render},
		Transform:          common.Affine2FromTranslation(common.V2(50, 50)),
		Rect:               common.Rect{Max: common.V2(100, 100)},
		Image:              image,
		Color:              common.White,
		ScaleMode:          sprite.Sliced{Slicer: testSlicer},
		InverseScaleFactor: 1,
	}
}

func testSlices(images ...asset.AssetID) []ExtractedSlice {
	out := make([]ExtractedSlice, len(images))
	for i, img := range images {
		out[i] = testSlice(common.Entity(i+1), img)
	}
	return out
}

func testItems(extracted []ExtractedSlice) []phase.TransparentUi {
	items := make([]phase.TransparentUi, len(extracted))
	for i, s := range extracted {
		items[i] = phase.TransparentUi{
			Entity:     s.Entity,
			SortKey:    float32(i),
			ExtraIndex: phase.NoExtraIndex,
			Index:      i,
			Indexed:    true,
		}
	}
	return items
}

// resolveAll resolves every image to size except the missing ones.
func resolveAll(size common.Vec2, missing ...asset.AssetID) imageResolver {
	return func(id asset.AssetID) (common.Vec2, bool) {
		for _, m := range missing {
			if id == m {
				return common.Vec2{}, false
			}
		}
		return size, true
	}
}

func batchRanges(items []phase.TransparentUi) []uint32 {
	out := make([]uint32, len(items))
	for i, it := range items {
		out[i] = it.BatchRange.End
	}
	return out
}

func batchesByEntity(g viewGeometry) map[common.Entity]SliceBatch {
	out := make(map[common.Entity]SliceBatch, len(g.batches))
	for _, b := range g.batches {
		out[b.entity] = b.batch
	}
	return out
}

func TestBatchView_SharedImageIsOneBatch(t *testing.T) {
	extracted := testSlices(imageA, imageA)
	items := testItems(extracted)

	g := batchView(items, extracted, resolveAll(common.V2(100, 100)))

	require.Len(t, g.batches, 1)
	assert.Equal(t, SliceBatch{Range: common.Range{Start: 0, End: 12}, Image: imageA}, g.batches[0].batch)
	assert.Equal(t, common.Entity(1), g.batches[0].entity)
	assert.Len(t, g.vertices, 8)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3, 4, 5, 6, 4, 6, 7}, g.indices)
	assert.Equal(t, []uint32{2, 0}, batchRanges(items))
	assert.Equal(t, 2, g.stats.Quads)
	assert.Equal(t, 1, g.stats.Batches)
}

func TestBatchView_DefaultImageJoinsRunningBatch(t *testing.T) {
	extracted := testSlices(imageA, imageA, asset.DefaultImageID, imageB, imageB)
	items := testItems(extracted)

	g := batchView(items, extracted, resolveAll(common.V2(100, 100)))

	assert.Equal(t, map[common.Entity]SliceBatch{
		1: {Range: common.Range{Start: 0, End: 18}, Image: imageA},
		4: {Range: common.Range{Start: 18, End: 30}, Image: imageB},
	}, batchesByEntity(g))
	assert.Equal(t, []uint32{3, 0, 0, 2, 0}, batchRanges(items))
	assert.Len(t, g.vertices, 20)
	assert.Len(t, g.indices, 30)
}

func TestBatchView_DefaultBatchTakesFirstConcreteImage(t *testing.T) {
	extracted := testSlices(asset.DefaultImageID, imageA, asset.DefaultImageID, imageB)
	items := testItems(extracted)

	g := batchView(items, extracted, resolveAll(common.V2(100, 100)))

	assert.Equal(t, map[common.Entity]SliceBatch{
		1: {Range: common.Range{Start: 0, End: 18}, Image: imageA},
		4: {Range: common.Range{Start: 18, End: 24}, Image: imageB},
	}, batchesByEntity(g))
	assert.Equal(t, []uint32{3, 0, 0, 1}, batchRanges(items))
}

func TestBatchView_DefaultOnlyBatch(t *testing.T) {
	extracted := testSlices(asset.DefaultImageID, asset.DefaultImageID)
	items := testItems(extracted)

	g := batchView(items, extracted, resolveAll(common.V2(1, 1)))

	require.Len(t, g.batches, 1)
	assert.Equal(t, asset.DefaultImageID, g.batches[0].batch.Image)
	assert.Equal(t, untexturedUVs[2].Array(), g.vertices[2].UV)
}

func TestBatchView_MissingImageBreaksBatch(t *testing.T) {
	extracted := testSlices(imageA, imageB, imageA)
	items := testItems(extracted)

	g := batchView(items, extracted, resolveAll(common.V2(100, 100), imageB))

	assert.Equal(t, map[common.Entity]SliceBatch{
		1: {Range: common.Range{Start: 0, End: 6}, Image: imageA},
		3: {Range: common.Range{Start: 6, End: 12}, Image: imageA},
	}, batchesByEntity(g))
	assert.Equal(t, []uint32{1, 0, 1}, batchRanges(items))
	assert.Equal(t, 1, g.stats.Skipped)
	assert.Equal(t, 2, g.stats.Quads)
}

func TestBatchView_ForeignItemsBreakBatch(t *testing.T) {
	extracted := testSlices(imageA, imageA, imageA)
	items := testItems(extracted)
	items[1].Index = 99

	g := batchView(items, extracted, resolveAll(common.V2(100, 100)))
	assert.Len(t, g.batches, 2)
	assert.Equal(t, []uint32{1, 0, 1}, batchRanges(items))

	items = testItems(extracted)
	items[1].Entity.Render = 42

	g = batchView(items, extracted, resolveAll(common.V2(100, 100)))
	assert.Len(t, g.batches, 2)
	assert.Equal(t, 2, g.stats.Quads)
}

func TestBatchView_QuadGeometry(t *testing.T) {
	extracted := testSlices(imageA)
	g := batchView(testItems(extracted), extracted, resolveAll(common.V2(100, 100)))

	require.Len(t, g.vertices, 4)
	want := [4][3]float32{{0, 0, 0}, {100, 0, 0}, {100, 100, 0}, {0, 100, 0}}
	wantUV := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	slices := sprite.ComputeSlices(common.V2(100, 100), common.V2(100, 100), extracted[0].ScaleMode)
	for i, v := range g.vertices {
		assert.Equal(t, want[i], v.Position, "corner %d", i)
		assert.Equal(t, wantUV[i], v.UV, "corner %d", i)
		assert.Equal(t, common.White.ToArray(), v.Color)
		assert.Equal(t, [4]float32{0, 0, 1, 1}, v.Atlas)
		assert.Equal(t, slices.Slices, v.Slices)
		assert.Equal(t, slices.Border, v.Border)
		assert.Equal(t, slices.Repeat, v.Repeat)
	}
}

func TestBatchView_InverseScaleFactorShrinksTarget(t *testing.T) {
	extracted := testSlices(imageA)
	extracted[0].InverseScaleFactor = 0.5
	g := batchView(testItems(extracted), extracted, resolveAll(common.V2(100, 100)))

	slices := sprite.ComputeSlices(common.V2(100, 100), common.V2(50, 50), extracted[0].ScaleMode)
	require.Len(t, g.vertices, 4)
	assert.Equal(t, slices.Border, g.vertices[0].Border)
}

func TestBatchView_ClipMovesCorners(t *testing.T) {
	extracted := testSlices(imageA)
	clip := common.NewRect(0, 0, 50, 100)
	extracted[0].Clip = &clip

	g := batchView(testItems(extracted), extracted, resolveAll(common.V2(100, 100)))

	require.Len(t, g.vertices, 4)
	assert.Equal(t, [3]float32{50, 0, 0}, g.vertices[1].Position)
	assert.Equal(t, [3]float32{50, 100, 0}, g.vertices[2].Position)
	assert.Equal(t, [2]float32{0.5, 0}, g.vertices[1].UV)
	assert.Equal(t, [2]float32{0.5, 1}, g.vertices[2].UV)
	assert.Equal(t, [2]float32{0, 1}, g.vertices[3].UV)
}

func TestBatchView_FullyClippedIsCulled(t *testing.T) {
	extracted := testSlices(imageA)
	clip := common.NewRect(200, 200, 300, 300)
	extracted[0].Clip = &clip
	items := testItems(extracted)

	g := batchView(items, extracted, resolveAll(common.V2(100, 100)))

	assert.Empty(t, g.vertices)
	assert.Empty(t, g.indices)
	assert.Equal(t, 1, g.stats.Culled)
	assert.True(t, items[0].BatchRange.IsEmpty())
}

func TestBatchView_RotatedQuadIsNeverCulled(t *testing.T) {
	extracted := testSlices(imageA)
	extracted[0].Transform = common.Affine2FromScaleAngleTranslation(common.V2(1, 1), math32.Pi/4, common.V2(50, 50))
	clip := common.NewRect(200, 200, 300, 300)
	extracted[0].Clip = &clip

	g := batchView(testItems(extracted), extracted, resolveAll(common.V2(100, 100)))

	assert.Equal(t, 0, g.stats.Culled)
	assert.Equal(t, 1, g.stats.Quads)
}

func TestBatchView_AtlasAndFlip(t *testing.T) {
	extracted := testSlices(imageA)
	cell := common.NewRect(0, 0, 16, 16)
	extracted[0].AtlasRect = &cell

	g := batchView(testItems(extracted), extracted, resolveAll(common.V2(64, 32)))
	require.Len(t, g.vertices, 4)
	assert.Equal(t, [4]float32{0, 0, 0.25, 0.5}, g.vertices[0].Atlas)
	slices := sprite.ComputeSlices(common.V2(16, 16), common.V2(100, 100), extracted[0].ScaleMode)
	assert.Equal(t, slices.Slices, g.vertices[0].Slices)

	extracted[0].FlipX = true
	extracted[0].FlipY = true
	g = batchView(testItems(extracted), extracted, resolveAll(common.V2(64, 32)))
	require.Len(t, g.vertices, 4)
	assert.Equal(t, [4]float32{0.25, 0.5, 0, 0}, g.vertices[0].Atlas)
}

func TestBatchView_ZeroExtentIsSkipped(t *testing.T) {
	extracted := testSlices(imageA, imageA)
	extracted[0].Rect = common.Rect{}
	empty := common.NewRect(4, 4, 4, 10)
	extracted[1].AtlasRect = &empty

	g := batchView(testItems(extracted), extracted, resolveAll(common.V2(100, 100)))

	assert.Empty(t, g.vertices)
	assert.Equal(t, 2, g.stats.Skipped)
}

func TestMergeGeometry_RebasesViews(t *testing.T) {
	first := testSlices(imageA)
	second := testSlices(imageB, imageB)
	for i := range second {
		second[i].Entity.Render = common.Entity(10 + i)
	}
	resolve := resolveAll(common.V2(100, 100))
	views := []viewGeometry{
		batchView(testItems(first), first, resolve),
		batchView(testItems(second), second, resolve),
	}

	meta := NewSliceMeta()
	stats := mergeGeometry(meta, views)

	assert.Equal(t, 3, stats.Quads)
	assert.Equal(t, 2, stats.Batches)
	assert.Len(t, meta.Vertices(), 12)
	assert.Equal(t, []uint32{4, 5, 6, 4, 6, 7}, meta.Indices()[6:12])

	b, ok := meta.Batch(10)
	require.True(t, ok)
	assert.Equal(t, common.Range{Start: 6, End: 18}, b.Range)
	assert.Equal(t, imageB, b.Image)
}

func TestWalkViews_SubmittedMatchesSerial(t *testing.T) {
	build := func() []*phase.SortedRenderPhase {
		extracted := testSlices(imageA, imageB, asset.DefaultImageID, imageB)
		return []*phase.SortedRenderPhase{
			{Items: testItems(extracted)},
			{Items: testItems(extracted[:2])},
			{Items: testItems(extracted[1:])},
		}
	}
	extracted := testSlices(imageA, imageB, asset.DefaultImageID, imageB)
	resolve := resolveAll(common.V2(100, 100))

	serialPhases := build()
	serial := walkViews(nil, serialPhases, extracted, resolve)

	parallelPhases := build()
	parallel := walkViews(func(task worker.Task) { go task.Do() }, parallelPhases, extracted, resolve)

	require.Len(t, parallel, len(serial))
	for i := range serial {
		assert.Equal(t, serial[i], parallel[i], "view %d", i)
		assert.Equal(t, serialPhases[i].Items, parallelPhases[i].Items, "view %d", i)
	}
}
