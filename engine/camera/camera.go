package camera

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-ui/common"
)

// cameraCount is an atomic counter used to generate unique labels for each camera instance.
var cameraCount atomic.Uint64

const (
	uiNear float32 = -1000
	uiFar  float32 = 1000
)

type cameraImpl struct {
	mu *sync.Mutex

	label       string
	entity      common.Entity
	order       int
	viewport    common.UVec2
	scaleFactor float32
	hdr         bool
	active      bool
	defaultUi   bool

	projectionMatrix        [16]float32
	inverseProjectionMatrix [16]float32
}

// Camera is a 2D UI camera. Its projection maps physical pixels with the origin at the top left corner
// of the viewport.
type Camera interface {
	// Label returns the camera's debug label.
	Label() string

	// Entity returns the camera's scene entity, assigned when it is added to a scene.
	//
	// Returns:
	//   - common.Entity: the entity, or common.NoEntity before the camera is added
	Entity() common.Entity

	// SetEntity assigns the camera's scene entity.
	//
	// Parameters:
	//   - e: the entity
	SetEntity(e common.Entity)

	// Order returns the draw order of the camera. Cameras draw in ascending order.
	Order() int

	// SetOrder sets the draw order.
	//
	// Parameters:
	//   - order: the new draw order
	SetOrder(order int)

	// Viewport returns the viewport size in physical pixels.
	//
	// Returns:
	//   - common.UVec2: the viewport size
	Viewport() common.UVec2

	// SetViewport resizes the viewport and recomputes the projection.
	//
	// Parameters:
	//   - size: the viewport size in physical pixels
	SetViewport(size common.UVec2)

	// ScaleFactor returns the ratio of physical to logical pixels.
	ScaleFactor() float32

	// SetScaleFactor sets the ratio of physical to logical pixels.
	//
	// Parameters:
	//   - f: the scale factor, must be positive
	SetScaleFactor(f float32)

	// HDR reports whether the camera renders into the HDR intermediate target.
	HDR() bool

	// SetHDR enables or disables HDR rendering for the camera.
	//
	// Parameters:
	//   - hdr: true to render in HDR
	SetHDR(hdr bool)

	// Active reports whether the camera is extracted for rendering.
	Active() bool

	// SetActive enables or disables the camera.
	//
	// Parameters:
	//   - active: true to render the camera
	SetActive(active bool)

	// IsDefaultUi reports whether nodes without a target camera render to this camera.
	IsDefaultUi() bool

	// SetDefaultUi marks the camera as the default UI camera.
	//
	// Parameters:
	//   - isDefault: true to receive nodes without a target camera
	SetDefaultUi(isDefault bool)

	// ProjectionMatrix returns the current 4x4 projection matrix as 16 floats (column-major).
	// UI cameras have an identity view so this is also the view-projection matrix.
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32

	// Uniform builds the GPU view uniform for the current camera state.
	//
	// Returns:
	//   - GPUViewUniform: the view uniform
	Uniform() GPUViewUniform
}

var _ Camera = &cameraImpl{}

// NewCamera creates an active camera with a 1x1 viewport, a scale factor of 1 and order 0.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:          &sync.Mutex{},
		label:       "ui_camera_" + strconv.FormatUint(cameraCount.Add(1)-1, 10),
		viewport:    common.UVec2{X: 1, Y: 1},
		scaleFactor: 1,
		active:      true,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Label() string {
	return c.label
}

func (c *cameraImpl) Entity() common.Entity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entity
}

func (c *cameraImpl) SetEntity(e common.Entity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entity = e
}

func (c *cameraImpl) Order() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order
}

func (c *cameraImpl) SetOrder(order int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = order
}

func (c *cameraImpl) Viewport() common.UVec2 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewport
}

func (c *cameraImpl) SetViewport(size common.UVec2) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewport = size
	c.updateMatrices()
}

func (c *cameraImpl) ScaleFactor() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scaleFactor
}

func (c *cameraImpl) SetScaleFactor(f float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scaleFactor = f
}

func (c *cameraImpl) HDR() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hdr
}

func (c *cameraImpl) SetHDR(hdr bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hdr = hdr
}

func (c *cameraImpl) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

func (c *cameraImpl) SetActive(active bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = active
}

func (c *cameraImpl) IsDefaultUi() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.defaultUi
}

func (c *cameraImpl) SetDefaultUi(isDefault bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaultUi = isDefault
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) Uniform() GPUViewUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return GPUViewUniform{
		ViewProj:        c.projectionMatrix,
		InverseViewProj: c.inverseProjectionMatrix,
		Viewport:        [4]float32{0, 0, float32(c.viewport.X), float32(c.viewport.Y)},
		ScaleFactor:     c.scaleFactor,
	}
}

// updateMatrices recomputes the projection from the viewport. Must be called with c.mu held.
func (c *cameraImpl) updateMatrices() {
	w := float32(max(c.viewport.X, 1))
	h := float32(max(c.viewport.Y, 1))
	common.Orthographic(c.projectionMatrix[:], 0, w, h, 0, uiNear, uiFar)
	common.Invert4(c.inverseProjectionMatrix[:], c.projectionMatrix[:])
}
