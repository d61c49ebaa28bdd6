package common

import (
	"github.com/chewxy/math32"
)

// Vec2 is a two component float32 vector used for sizes, positions and UV coordinates.
type Vec2 struct {
	X, Y float32
}

// V2 is shorthand for constructing a Vec2.
func V2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Mul(o Vec2) Vec2      { return Vec2{v.X * o.X, v.Y * o.Y} }
func (v Vec2) Div(o Vec2) Vec2      { return Vec2{v.X / o.X, v.Y / o.Y} }
func (v Vec2) Scale(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }

// MinElement returns the smaller of the two components.
func (v Vec2) MinElement() float32 {
	return math32.Min(v.X, v.Y)
}

// Array returns the vector as a fixed size array, the layout used by GPU vertex types.
func (v Vec2) Array() [2]float32 {
	return [2]float32{v.X, v.Y}
}

// IsZeroArea reports whether either component is zero or negative.
func (v Vec2) IsZeroArea() bool {
	return v.X <= 0 || v.Y <= 0
}

// UVec2 is a two component unsigned vector used for pixel sizes.
type UVec2 struct {
	X, Y uint32
}

// AsVec2 converts the vector to float32 components.
func (u UVec2) AsVec2() Vec2 {
	return Vec2{float32(u.X), float32(u.Y)}
}

// Rect is an axis aligned rectangle defined by its minimum and maximum corners.
type Rect struct {
	Min, Max Vec2
}

// NewRect builds a Rect from the corner coordinates x0, y0, x1, y1.
func NewRect(x0, y0, x1, y1 float32) Rect {
	return Rect{Min: Vec2{x0, y0}, Max: Vec2{x1, y1}}
}

// Size returns the extent of the rectangle.
func (r Rect) Size() Vec2 {
	return r.Max.Sub(r.Min)
}

// URect is an axis aligned rectangle in integer pixel coordinates, used by texture atlases.
type URect struct {
	Min, Max UVec2
}

// AsRect converts the rectangle to float32 coordinates.
func (r URect) AsRect() Rect {
	return Rect{Min: r.Min.AsVec2(), Max: r.Max.AsVec2()}
}

// Size returns the pixel extent of the rectangle.
func (r URect) Size() UVec2 {
	return UVec2{r.Max.X - r.Min.X, r.Max.Y - r.Min.Y}
}

// Affine2 is a 2D affine transform stored as two basis columns plus a translation.
// XAxis[1] is the rotation/shear term read by the clip culling shortcut.
type Affine2 struct {
	XAxis       Vec2
	YAxis       Vec2
	Translation Vec2
}

// IdentityAffine2 returns the identity transform.
func IdentityAffine2() Affine2 {
	return Affine2{XAxis: Vec2{1, 0}, YAxis: Vec2{0, 1}}
}

// Affine2FromTranslation returns a pure translation transform.
func Affine2FromTranslation(t Vec2) Affine2 {
	return Affine2{XAxis: Vec2{1, 0}, YAxis: Vec2{0, 1}, Translation: t}
}

// Affine2FromScaleAngleTranslation composes scale, then rotation by angle radians, then translation.
func Affine2FromScaleAngleTranslation(scale Vec2, angle float32, t Vec2) Affine2 {
	sin, cos := math32.Sincos(angle)
	return Affine2{
		XAxis:       Vec2{cos * scale.X, sin * scale.X},
		YAxis:       Vec2{-sin * scale.Y, cos * scale.Y},
		Translation: t,
	}
}

// TransformPoint2 applies the full transform, translation included, to p.
func (a Affine2) TransformPoint2(p Vec2) Vec2 {
	return Vec2{
		X: a.XAxis.X*p.X + a.YAxis.X*p.Y + a.Translation.X,
		Y: a.XAxis.Y*p.X + a.YAxis.Y*p.Y + a.Translation.Y,
	}
}

// TransformVector2 applies the linear part of the transform to v.
func (a Affine2) TransformVector2(v Vec2) Vec2 {
	return Vec2{
		X: a.XAxis.X*v.X + a.YAxis.X*v.Y,
		Y: a.XAxis.Y*v.X + a.YAxis.Y*v.Y,
	}
}

// Mul returns a * b, applying b first.
func (a Affine2) Mul(b Affine2) Affine2 {
	return Affine2{
		XAxis:       a.TransformVector2(b.XAxis),
		YAxis:       a.TransformVector2(b.YAxis),
		Translation: a.TransformPoint2(b.Translation),
	}
}
