package node

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/asset"
	"github.com/Carmen-Shannon/oxy-ui/engine/sprite"
)

// ComputedNode is the laid out state of a node.
type ComputedNode struct {
	// Size is the node size in logical pixels.
	Size common.Vec2
	// StackIndex is the paint order of the node among all nodes of its camera.
	StackIndex uint32
	// InverseScaleFactor converts physical pixels back to logical ones.
	InverseScaleFactor float32
}

// ImageModeKind enumerates how an image node fills its rectangle.
type ImageModeKind int

const (
	// ImageModeAuto sizes the node from the image.
	ImageModeAuto ImageModeKind = iota
	// ImageModeStretch stretches the image over the node.
	ImageModeStretch
	// ImageModeSliced draws the image as a nine-slice.
	ImageModeSliced
	// ImageModeTiled repeats the image.
	ImageModeTiled
)

// NodeImageMode is the image fitting of a UI image node.
type NodeImageMode struct {
	Kind         ImageModeKind
	Slicer       sprite.TextureSlicer
	TileX, TileY bool
	StretchValue float32
}

// SlicedMode returns a nine-slice image mode.
func SlicedMode(slicer sprite.TextureSlicer) NodeImageMode {
	return NodeImageMode{Kind: ImageModeSliced, Slicer: slicer}
}

// TiledMode returns a tiling image mode.
func TiledMode(tileX, tileY bool, stretchValue float32) NodeImageMode {
	return NodeImageMode{Kind: ImageModeTiled, TileX: tileX, TileY: tileY, StretchValue: stretchValue}
}

// SpriteMode converts the mode for the slice renderer. Auto and Stretch have no slicing and report false.
func (m NodeImageMode) SpriteMode() (sprite.ImageMode, bool) {
	switch m.Kind {
	case ImageModeSliced:
		return sprite.Sliced{Slicer: m.Slicer}, true
	case ImageModeTiled:
		return sprite.Tiled{TileX: m.TileX, TileY: m.TileY, StretchValue: m.StretchValue}, true
	}
	return nil, false
}

// ImageNode is the image a node displays.
type ImageNode struct {
	Image asset.AssetID
	Color common.LinearRgba
	Mode  NodeImageMode
	FlipX bool
	FlipY bool

	// Atlas selects a cell of a texture atlas image.
	Atlas *asset.TextureAtlas
	// Rect selects a pixel region of the image, relative to the atlas cell when Atlas is set.
	Rect *common.Rect
}

// NewImageNode returns an untinted, stretched image node of img.
func NewImageNode(img asset.AssetID) ImageNode {
	return ImageNode{Image: img, Color: common.White, Mode: NodeImageMode{Kind: ImageModeStretch}}
}

type uiNode struct {
	mu *sync.RWMutex

	entity       common.Entity
	computed     ComputedNode
	transform    common.Affine2
	visible      bool
	clip         *common.Rect
	targetCamera common.Entity
	image        *ImageNode
}

// Node is a UI element with a laid out rectangle that may display an image. Its transform places the
// center of the rectangle. Safe for concurrent use.
type Node interface {
	// Entity returns the node's entity, assigned when it is spawned into a scene.
	//
	// Returns:
	//   - common.Entity: the entity, or common.NoEntity before spawning
	Entity() common.Entity

	// SetEntity assigns the node's entity. Called by the scene on spawn.
	//
	// Parameters:
	//   - e: the entity
	SetEntity(e common.Entity)

	// Computed returns the laid out size, stack index and scale factor.
	//
	// Returns:
	//   - ComputedNode: the computed node state
	Computed() ComputedNode

	// SetComputed replaces the laid out state.
	//
	// Parameters:
	//   - c: the new computed state
	SetComputed(c ComputedNode)

	// Transform returns the global transform of the node center.
	Transform() common.Affine2

	// SetTransform replaces the global transform.
	//
	// Parameters:
	//   - t: the new transform
	SetTransform(t common.Affine2)

	// Visible reports whether the node and all its ancestors are visible.
	Visible() bool

	// SetVisible sets the inherited visibility.
	//
	// Parameters:
	//   - visible: true to draw the node
	SetVisible(visible bool)

	// Clip returns the clipping rect inherited from the node's ancestors, if any.
	//
	// Returns:
	//   - common.Rect: the clip rect in the camera's space
	//   - bool: false when the node is not clipped
	Clip() (common.Rect, bool)

	// SetClip sets or, with nil, removes the clipping rect.
	//
	// Parameters:
	//   - clip: the clip rect or nil
	SetClip(clip *common.Rect)

	// TargetCamera returns the camera the node renders to. common.NoEntity selects the default UI camera.
	TargetCamera() common.Entity

	// SetTargetCamera sets the camera the node renders to.
	//
	// Parameters:
	//   - cam: the camera entity, or common.NoEntity for the default camera
	SetTargetCamera(cam common.Entity)

	// Image returns the image the node displays.
	//
	// Returns:
	//   - ImageNode: a copy of the image state
	//   - bool: false when the node displays no image
	Image() (ImageNode, bool)

	// SetImage sets or, with nil, removes the displayed image.
	//
	// Parameters:
	//   - img: the image state or nil
	SetImage(img *ImageNode)
}

var _ Node = &uiNode{}

// NewNode creates a visible node with an identity transform and no image.
//
// Parameters:
//   - options: variadic list of NodeBuilderOption functions to configure the node
//
// Returns:
//   - Node: the new node
func NewNode(options ...NodeBuilderOption) Node {
	n := &uiNode{
		mu:        &sync.RWMutex{},
		transform: common.IdentityAffine2(),
		visible:   true,
		computed: ComputedNode{
			InverseScaleFactor: 1,
		},
	}
	for _, opt := range options {
		opt(n)
	}
	return n
}

func (n *uiNode) Entity() common.Entity {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.entity
}

func (n *uiNode) SetEntity(e common.Entity) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.entity = e
}

func (n *uiNode) Computed() ComputedNode {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.computed
}

func (n *uiNode) SetComputed(c ComputedNode) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.computed = c
}

func (n *uiNode) Transform() common.Affine2 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.transform
}

func (n *uiNode) SetTransform(t common.Affine2) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.transform = t
}

func (n *uiNode) Visible() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.visible
}

func (n *uiNode) SetVisible(visible bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.visible = visible
}

func (n *uiNode) Clip() (common.Rect, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.clip == nil {
		return common.Rect{}, false
	}
	return *n.clip, true
}

func (n *uiNode) SetClip(clip *common.Rect) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if clip == nil {
		n.clip = nil
		return
	}
	c := *clip
	n.clip = &c
}

func (n *uiNode) TargetCamera() common.Entity {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.targetCamera
}

func (n *uiNode) SetTargetCamera(cam common.Entity) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.targetCamera = cam
}

func (n *uiNode) Image() (ImageNode, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.image == nil {
		return ImageNode{}, false
	}
	return *n.image, true
}

func (n *uiNode) SetImage(img *ImageNode) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if img == nil {
		n.image = nil
		return
	}
	c := *img
	n.image = &c
}
