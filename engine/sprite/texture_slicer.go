// Package sprite describes how an image is fitted to a target rectangle: stretched, nine-sliced or tiled.
package sprite

// BorderRect holds the inset of each image edge in pixels.
type BorderRect struct {
	Left, Right, Top, Bottom float32
}

// BorderSquare returns a BorderRect with the same inset on every edge.
func BorderSquare(v float32) BorderRect {
	return BorderRect{Left: v, Right: v, Top: v, Bottom: v}
}

// BorderAxes returns a BorderRect with x on the left and right edges and y on the top and bottom.
func BorderAxes(x, y float32) BorderRect {
	return BorderRect{Left: x, Right: x, Top: y, Bottom: y}
}

// SliceScaleKind selects how a slice fills the space it is given.
type SliceScaleKind int

const (
	// SliceStretch stretches the slice over its whole target extent.
	SliceStretch SliceScaleKind = iota
	// SliceTile repeats the slice, each repetition scaled by the stretch value.
	SliceTile
)

// SliceScaleMode is how the sides or the center of a nine-slice image fill their target extent.
type SliceScaleMode struct {
	Kind         SliceScaleKind
	StretchValue float32
}

// Stretch returns the stretching scale mode.
func Stretch() SliceScaleMode {
	return SliceScaleMode{Kind: SliceStretch}
}

// Tile returns the tiling scale mode. A tile is drawn at stretchValue times its image extent.
func Tile(stretchValue float32) SliceScaleMode {
	return SliceScaleMode{Kind: SliceTile, StretchValue: stretchValue}
}

// TextureSlicer splits an image into a 3x3 grid by its border insets. Corners keep their size, scaled down
// uniformly when the target is smaller than the image; sides and center follow their scale modes.
type TextureSlicer struct {
	Border          BorderRect
	CenterScaleMode SliceScaleMode
	SidesScaleMode  SliceScaleMode

	// MaxCornerScale caps how much the corners may grow when the target is larger than the image.
	MaxCornerScale float32
}

// NewTextureSlicer returns a slicer with the given border that stretches sides and center and never
// grows the corners.
func NewTextureSlicer(border BorderRect) TextureSlicer {
	return TextureSlicer{
		Border:          border,
		CenterScaleMode: Stretch(),
		SidesScaleMode:  Stretch(),
		MaxCornerScale:  1,
	}
}

// ImageMode is how an image is fitted to its target. It is one of Auto, Scale, Sliced or Tiled.
type ImageMode interface {
	imageMode()
}

// Auto draws the image stretched over the target.
type Auto struct{}

// ScalingMode selects how Scale keeps the image aspect ratio.
type ScalingMode int

const (
	ScalingFillCenter ScalingMode = iota
	ScalingFillStart
	ScalingFillEnd
	ScalingFitCenter
	ScalingFitStart
	ScalingFitEnd
)

// Scale fits the image into the target while keeping its aspect ratio.
type Scale struct {
	Mode ScalingMode
}

// Sliced draws the image as a nine-slice.
type Sliced struct {
	Slicer TextureSlicer
}

// Tiled repeats the whole image along the enabled axes. Each tile is drawn at StretchValue times the
// image size.
type Tiled struct {
	TileX, TileY bool
	StretchValue float32
}

func (Auto) imageMode()   {}
func (Scale) imageMode()  {}
func (Sliced) imageMode() {}
func (Tiled) imageMode()  {}

// UsesSlices reports whether the mode is drawn by the slice path, i.e. it is Sliced or Tiled.
func UsesSlices(mode ImageMode) bool {
	switch mode.(type) {
	case Sliced, Tiled:
		return true
	}
	return false
}
