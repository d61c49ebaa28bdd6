package sprite

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/chewxy/math32"
)

// Slices is the per-vertex slicing payload of a textured quad. Every field is ordered left, top, right,
// bottom except Repeat.
type Slices struct {
	// Slices are the slicing lines in normalized image space.
	Slices [4]float32
	// Border are the slicing lines in normalized target space.
	Border [4]float32
	// Repeat holds the side repeats (horizontal, vertical) then the center repeats (horizontal, vertical).
	// A repeat of 1 stretches.
	Repeat [4]float32
}

// ComputeSlices computes the slicing payload for drawing an image of imageSize over targetSize. Both sizes
// must be non-zero. Only Sliced and Tiled modes have a slicing; any other mode is a caller bug and panics.
//
// Parameters:
//   - imageSize: the pixel size of the image, or of its atlas cell
//   - targetSize: the size of the rectangle the image covers
//   - mode: a Sliced or Tiled image mode
//
// Returns:
//   - Slices: the normalized slices, target borders and repeat counts
func ComputeSlices(imageSize, targetSize common.Vec2, mode ImageMode) Slices {
	switch m := mode.(type) {
	case Sliced:
		return computeNineSlices(imageSize, targetSize, m.Slicer)
	case Tiled:
		rx := computeTiledAxis(m.TileX, imageSize.X, targetSize.X, m.StretchValue)
		ry := computeTiledAxis(m.TileY, imageSize.Y, targetSize.Y, m.StretchValue)
		return Slices{
			Slices: [4]float32{0, 0, 1, 1},
			Border: [4]float32{0, 0, 1, 1},
			Repeat: [4]float32{1, 1, rx, ry},
		}
	default:
		panic(fmt.Sprintf("sprite: slices cannot be computed for image mode %T", mode))
	}
}

func computeNineSlices(imageSize, targetSize common.Vec2, slicer TextureSlicer) Slices {
	b := slicer.Border
	minCoeff := math32.Min(targetSize.Div(imageSize).MinElement(), slicer.MaxCornerScale)

	slices := [4]float32{
		b.Left / imageSize.X,
		b.Top / imageSize.Y,
		1 - b.Right/imageSize.X,
		1 - b.Bottom/imageSize.Y,
	}
	border := [4]float32{
		(b.Left / targetSize.X) * minCoeff,
		(b.Top / targetSize.Y) * minCoeff,
		1 - (b.Right/targetSize.X)*minCoeff,
		1 - (b.Bottom/targetSize.Y)*minCoeff,
	}

	imageSideWidth := imageSize.X * (slices[2] - slices[0])
	imageSideHeight := imageSize.Y * (slices[3] - slices[1])
	targetSideWidth := targetSize.X * (border[2] - border[0])
	targetSideHeight := targetSize.Y * (border[3] - border[1])

	return Slices{
		Slices: slices,
		Border: border,
		Repeat: [4]float32{
			computeTiledSubaxis(imageSideWidth, targetSideWidth, slicer.SidesScaleMode),
			computeTiledSubaxis(imageSideHeight, targetSideHeight, slicer.SidesScaleMode),
			computeTiledSubaxis(imageSideWidth, targetSideWidth, slicer.CenterScaleMode),
			computeTiledSubaxis(imageSideHeight, targetSideHeight, slicer.CenterScaleMode),
		},
	}
}

// computeTiledAxis returns how often an image repeats along one axis of the target.
func computeTiledAxis(tile bool, imageExtent, targetExtent, stretch float32) float32 {
	if !tile {
		return 1
	}
	return targetExtent / (imageExtent * stretch)
}

// computeTiledSubaxis returns how often a side or center slice repeats along one axis.
func computeTiledSubaxis(imageExtent, targetExtent float32, mode SliceScaleMode) float32 {
	if mode.Kind == SliceStretch {
		return 1
	}
	return targetExtent / (imageExtent * mode.StretchValue)
}
