package common

import (
	"github.com/chewxy/math32"
)

// LinearRgba is a color in linear RGB space with straight alpha.
type LinearRgba struct {
	R, G, B, A float32
}

var (
	// White is opaque white, the default tint of image nodes.
	White = LinearRgba{1, 1, 1, 1}
	// Transparent is fully transparent black.
	Transparent = LinearRgba{}
)

// Rgba builds a LinearRgba from its components.
func Rgba(r, g, b, a float32) LinearRgba {
	return LinearRgba{R: r, G: g, B: b, A: a}
}

// IsFullyTransparent reports whether the color contributes nothing when alpha blended.
func (c LinearRgba) IsFullyTransparent() bool {
	return c.A <= 0
}

// ToArray returns the color as [r, g, b, a], the layout used by GPU vertex types.
func (c LinearRgba) ToArray() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

// SrgbToLinear converts an 8-bit sRGB encoded color into linear space.
func SrgbToLinear(r, g, b, a uint8) LinearRgba {
	return LinearRgba{
		R: srgbChannelToLinear(float32(r) / 255),
		G: srgbChannelToLinear(float32(g) / 255),
		B: srgbChannelToLinear(float32(b) / 255),
		A: float32(a) / 255,
	}
}

func srgbChannelToLinear(c float32) float32 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math32.Pow((c+0.055)/1.055, 2.4)
}
