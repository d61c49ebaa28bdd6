package node

import (
	"github.com/Carmen-Shannon/oxy-ui/common"
)

// NodeBuilderOption is a functional option for configuring a Node during construction.
type NodeBuilderOption func(*uiNode)

// WithSize sets the laid out size of the node.
//
// Parameters:
//   - size: the node size in logical pixels
//
// Returns:
//   - NodeBuilderOption: functional option to set the size
func WithSize(size common.Vec2) NodeBuilderOption {
	return func(n *uiNode) {
		n.computed.Size = size
	}
}

// WithStackIndex sets the paint order of the node.
//
// Parameters:
//   - index: the stack index, higher draws on top
//
// Returns:
//   - NodeBuilderOption: functional option to set the stack index
func WithStackIndex(index uint32) NodeBuilderOption {
	return func(n *uiNode) {
		n.computed.StackIndex = index
	}
}

// WithInverseScaleFactor sets the factor converting physical pixels to logical ones.
func WithInverseScaleFactor(f float32) NodeBuilderOption {
	return func(n *uiNode) {
		n.computed.InverseScaleFactor = f
	}
}

// WithTransform sets the global transform of the node center.
//
// Parameters:
//   - t: the transform
//
// Returns:
//   - NodeBuilderOption: functional option to set the transform
func WithTransform(t common.Affine2) NodeBuilderOption {
	return func(n *uiNode) {
		n.transform = t
	}
}

// WithCenter places the node center at p without rotation or scale.
func WithCenter(p common.Vec2) NodeBuilderOption {
	return func(n *uiNode) {
		n.transform = common.Affine2FromTranslation(p)
	}
}

// WithVisible sets the inherited visibility.
func WithVisible(visible bool) NodeBuilderOption {
	return func(n *uiNode) {
		n.visible = visible
	}
}

// WithClip clips the node to rect.
//
// Parameters:
//   - rect: the clip rect in the camera's space
//
// Returns:
//   - NodeBuilderOption: functional option to set the clip
func WithClip(rect common.Rect) NodeBuilderOption {
	return func(n *uiNode) {
		n.clip = &rect
	}
}

// WithTargetCamera renders the node to a specific camera instead of the default UI camera.
func WithTargetCamera(cam common.Entity) NodeBuilderOption {
	return func(n *uiNode) {
		n.targetCamera = cam
	}
}

// WithImage makes the node display an image.
//
// Parameters:
//   - img: the image state
//
// Returns:
//   - NodeBuilderOption: functional option to set the image
func WithImage(img ImageNode) NodeBuilderOption {
	return func(n *uiNode) {
		n.image = &img
	}
}
