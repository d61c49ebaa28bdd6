package slicer

import (
	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/asset"
	"github.com/Carmen-Shannon/oxy-ui/engine/camera"
	"github.com/Carmen-Shannon/oxy-ui/engine/node"
	"github.com/Carmen-Shannon/oxy-ui/engine/scene"
	"github.com/Carmen-Shannon/oxy-ui/engine/sprite"
)

// ExtractedSlice is the render world snapshot of one sliced or tiled image node.
type ExtractedSlice struct {
	Entity     common.EntityPair
	StackIndex uint32
	Transform  common.Affine2
	// Rect spans from the origin to the node size.
	Rect common.Rect
	// AtlasRect is the pixel region of the image to draw, nil for the whole image.
	AtlasRect *common.Rect
	Image     asset.AssetID
	Clip      *common.Rect
	// Camera is the render entity of the camera the slice is drawn by.
	Camera             common.Entity
	Color              common.LinearRgba
	ScaleMode          sprite.ImageMode
	FlipX, FlipY       bool
	InverseScaleFactor float32
}

// ExtractedSlices is the frame's list of extracted slices. It is filled by Extract and emptied by
// Prepare.
type ExtractedSlices struct {
	Slices []ExtractedSlice
}

// Len returns the number of extracted slices.
func (e *ExtractedSlices) Len() int {
	return len(e.Slices)
}

// Clear drops every slice, keeping the storage.
func (e *ExtractedSlices) Clear() {
	clear(e.Slices)
	e.Slices = e.Slices[:0]
}

// Extract snapshots every drawable sliced or tiled image node of src into dst. Nodes are skipped when
// they are invisible, fully transparent, show the transparent placeholder, use an image mode without
// slicing, or target a camera that is not rendered this frame.
//
// Parameters:
//   - dst: the list extracted slices are appended to
//   - src: the scene to extract from
//   - layouts: the atlas layouts atlas cells are resolved against
//   - cameras: maps a node's target camera to the camera's render entity
//   - entities: allocates the frame-scoped render entity of each slice
func Extract(dst *ExtractedSlices, src scene.Scene, layouts *asset.TextureAtlasLayouts, cameras camera.UiCameraMap, entities *common.EntityAllocator) {
	src.EachNode(func(n node.Node) bool {
		if s, ok := extractNode(n, layouts, cameras); ok {
			s.Entity.Render = entities.Alloc()
			dst.Slices = append(dst.Slices, s)
		}
		return true
	})
}

func extractNode(n node.Node, layouts *asset.TextureAtlasLayouts, cameras camera.UiCameraMap) (ExtractedSlice, bool) {
	if !n.Visible() {
		return ExtractedSlice{}, false
	}
	img, ok := n.Image()
	if !ok || img.Color.IsFullyTransparent() || img.Image == asset.TransparentImageID {
		return ExtractedSlice{}, false
	}
	mode, ok := img.Mode.SpriteMode()
	if !ok {
		return ExtractedSlice{}, false
	}
	cameraRender, ok := cameras.Map(n.TargetCamera())
	if !ok {
		return ExtractedSlice{}, false
	}

	computed := n.Computed()
	s := ExtractedSlice{
		Entity:             common.EntityPair{Main: n.Entity()},
		StackIndex:         computed.StackIndex,
		Transform:          n.Transform(),
		Rect:               common.Rect{Max: computed.Size},
		AtlasRect:          atlasRect(img, layouts),
		Image:              img.Image,
		Camera:             cameraRender,
		Color:              img.Color,
		ScaleMode:          mode,
		FlipX:              img.FlipX,
		FlipY:              img.FlipY,
		InverseScaleFactor: computed.InverseScaleFactor,
	}
	if clip, ok := n.Clip(); ok {
		s.Clip = &clip
	}
	return s, true
}

// atlasRect combines the atlas cell and the explicit rect of an image node. An explicit rect is
// relative to the atlas cell when both are set.
func atlasRect(img node.ImageNode, layouts *asset.TextureAtlasLayouts) *common.Rect {
	var cell *common.Rect
	if img.Atlas != nil && layouts != nil {
		if r, ok := img.Atlas.TextureRect(layouts); ok {
			c := r.AsRect()
			cell = &c
		}
	}

	switch {
	case cell == nil && img.Rect == nil:
		return nil
	case cell == nil:
		r := *img.Rect
		return &r
	case img.Rect == nil:
		return cell
	default:
		r := common.Rect{
			Min: img.Rect.Min.Add(cell.Min),
			Max: img.Rect.Max.Add(cell.Min),
		}
		return &r
	}
}
