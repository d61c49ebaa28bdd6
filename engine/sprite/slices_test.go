package sprite

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/stretchr/testify/assert"
)

func assertArray(t *testing.T, expected, actual [4]float32) {
	t.Helper()
	for i := range expected {
		assert.InDelta(t, expected[i], actual[i], 1e-5, "component %d of %v", i, actual)
	}
}

func TestComputeSlices_NineSliceScenario(t *testing.T) {
	s := ComputeSlices(common.V2(100, 100), common.V2(50, 50), Sliced{Slicer: NewTextureSlicer(BorderSquare(10))})

	assertArray(t, [4]float32{0.1, 0.1, 0.9, 0.9}, s.Slices)
	assertArray(t, [4]float32{0.1, 0.1, 0.9, 0.9}, s.Border)
	assertArray(t, [4]float32{1, 1, 1, 1}, s.Repeat)
}

func TestComputeSlices_MaxCornerScaleCapsGrowth(t *testing.T) {
	slicer := NewTextureSlicer(BorderAxes(10, 20))
	slicer.MaxCornerScale = 2

	// target is 4x the image, corners grow at most 2x
	s := ComputeSlices(common.V2(100, 100), common.V2(400, 400), Sliced{Slicer: slicer})

	assertArray(t, [4]float32{0.1, 0.2, 0.9, 0.8}, s.Slices)
	assertArray(t, [4]float32{20.0 / 400, 40.0 / 400, 1 - 20.0/400, 1 - 40.0/400}, s.Border)
}

func TestComputeSlices_StretchAlwaysRepeatsOnce(t *testing.T) {
	sizes := []struct{ image, target common.Vec2 }{
		{common.V2(100, 100), common.V2(50, 50)},
		{common.V2(16, 64), common.V2(900, 12)},
		{common.V2(3, 3), common.V2(3, 3)},
	}
	for _, sz := range sizes {
		s := ComputeSlices(sz.image, sz.target, Sliced{Slicer: NewTextureSlicer(BorderSquare(1))})
		assertArray(t, [4]float32{1, 1, 1, 1}, s.Repeat)
	}
}

func TestComputeSlices_TiledSidesAndCenter(t *testing.T) {
	slicer := TextureSlicer{
		Border:          BorderSquare(10),
		SidesScaleMode:  Tile(1),
		CenterScaleMode: Tile(0.5),
		MaxCornerScale:  1,
	}
	s := ComputeSlices(common.V2(100, 100), common.V2(200, 100), Sliced{Slicer: slicer})

	// image side is 80px; target sides are 180x80 after 10px corners
	assertArray(t, [4]float32{180.0 / 80, 1, 180.0 / 40, 2}, s.Repeat)
}

func TestComputeSlices_Tiled(t *testing.T) {
	tests := []struct {
		name     string
		mode     Tiled
		expected [4]float32
	}{
		{"no tiling", Tiled{StretchValue: 7}, [4]float32{1, 1, 1, 1}},
		{"x only", Tiled{TileX: true, StretchValue: 1}, [4]float32{1, 1, 4, 1}},
		{"both stretched", Tiled{TileX: true, TileY: true, StretchValue: 2}, [4]float32{1, 1, 2, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ComputeSlices(common.V2(32, 64), common.V2(128, 128), tt.mode)
			assertArray(t, [4]float32{0, 0, 1, 1}, s.Slices)
			assertArray(t, [4]float32{0, 0, 1, 1}, s.Border)
			assertArray(t, tt.expected, s.Repeat)
		})
	}
}

func TestComputeSlices_PanicsWithoutSlicing(t *testing.T) {
	assert.Panics(t, func() { ComputeSlices(common.V2(1, 1), common.V2(1, 1), Auto{}) })
	assert.Panics(t, func() { ComputeSlices(common.V2(1, 1), common.V2(1, 1), Scale{Mode: ScalingFitCenter}) })
	assert.Panics(t, func() { ComputeSlices(common.V2(1, 1), common.V2(1, 1), nil) })
}

func TestUsesSlices(t *testing.T) {
	assert.True(t, UsesSlices(Sliced{}))
	assert.True(t, UsesSlices(Tiled{}))
	assert.False(t, UsesSlices(Auto{}))
	assert.False(t, UsesSlices(Scale{}))
	assert.False(t, UsesSlices(nil))
}
