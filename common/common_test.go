package common

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 0, 3, 4))
	assert.Equal(t, "", Coalesce[string]())
	assert.Equal(t, float32(32), Coalesce(float32(0), 32))
}

func TestAffine2Transforms(t *testing.T) {
	a := Affine2FromTranslation(V2(10, 20))
	assert.Equal(t, V2(11, 19), a.TransformPoint2(V2(1, -1)))
	assert.Equal(t, V2(1, -1), a.TransformVector2(V2(1, -1)))

	r := Affine2FromScaleAngleTranslation(V2(2, 2), math32.Pi/2, Vec2{})
	p := r.TransformVector2(V2(1, 0))
	assert.InDelta(t, 0, p.X, 1e-5)
	assert.InDelta(t, 2, p.Y, 1e-5)
	assert.NotZero(t, r.XAxis.Y)

	composed := Affine2FromTranslation(V2(5, 5)).Mul(Affine2FromScaleAngleTranslation(V2(2, 3), 0, Vec2{}))
	assert.Equal(t, V2(7, 8), composed.TransformPoint2(V2(1, 1)))
}

func TestRects(t *testing.T) {
	r := NewRect(2, 3, 12, 8)
	assert.Equal(t, V2(10, 5), r.Size())

	u := URect{Min: UVec2{4, 4}, Max: UVec2{36, 20}}
	assert.Equal(t, UVec2{32, 16}, u.Size())
	assert.Equal(t, NewRect(4, 4, 36, 20), u.AsRect())
	assert.True(t, V2(0, 5).IsZeroArea())
	assert.False(t, V2(1, 5).IsZeroArea())
}

func TestOrthographicInvert(t *testing.T) {
	var proj, inv, product [16]float32
	Orthographic(proj[:], 0, 800, 600, 0, 0, 1000)
	require.True(t, Invert4(inv[:], proj[:]))
	Mul4(product[:], proj[:], inv[:])

	var ident [16]float32
	Identity(ident[:])
	for i := range product {
		assert.InDelta(t, ident[i], product[i], 1e-4)
	}

	var singular [16]float32
	assert.False(t, Invert4(inv[:], singular[:]))
}

func TestLinearRgba(t *testing.T) {
	assert.True(t, Transparent.IsFullyTransparent())
	assert.False(t, White.IsFullyTransparent())
	assert.Equal(t, [4]float32{1, 1, 1, 1}, White.ToArray())

	c := SrgbToLinear(255, 0, 255, 128)
	assert.InDelta(t, 1, c.R, 1e-5)
	assert.InDelta(t, 0, c.G, 1e-5)
	assert.InDelta(t, 128.0/255, c.A, 1e-5)
}

func TestEntityAllocator(t *testing.T) {
	var a EntityAllocator
	first := a.Alloc()
	second := a.Alloc()
	assert.True(t, first.IsValid())
	assert.NotEqual(t, first, second)

	a.Reset()
	assert.Equal(t, first, a.Alloc())
	assert.False(t, NoEntity.IsValid())
}

func TestRange(t *testing.T) {
	assert.Equal(t, uint32(12), Range{Start: 0, End: 12}.Len())
	assert.True(t, Range{Start: 6, End: 6}.IsEmpty())
	assert.Equal(t, uint32(0), Range{Start: 8, End: 2}.Len())
}

func TestLogger(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })
	assert.False(t, Logger().Enabled(t.Context(), slog.LevelError))

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	Logger().Info("hello", "k", 1)
	assert.Contains(t, buf.String(), "hello")

	SetLogger(nil)
	assert.False(t, Logger().Enabled(t.Context(), slog.LevelError))
}
