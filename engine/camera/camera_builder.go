package camera

import (
	"github.com/Carmen-Shannon/oxy-ui/common"
)

type CameraBuilderOption func(*cameraImpl)

// WithLabel sets the camera's debug label.
func WithLabel(label string) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.label = label
	}
}

// WithOrder sets the camera's draw order.
//
// Parameters:
//   - order: cameras draw in ascending order
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's order
func WithOrder(order int) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.order = order
	}
}

// WithViewport sets the viewport size in physical pixels.
//
// Parameters:
//   - width, height: the viewport size
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's viewport
func WithViewport(width, height uint32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.viewport = common.UVec2{X: width, Y: height}
	}
}

// WithScaleFactor sets the ratio of physical to logical pixels.
//
// Parameters:
//   - f: the scale factor
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's scale factor
func WithScaleFactor(f float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.scaleFactor = f
	}
}

// WithHDR renders the camera into the HDR intermediate target.
func WithHDR(hdr bool) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.hdr = hdr
	}
}

// WithActive sets whether the camera is extracted for rendering.
func WithActive(active bool) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.active = active
	}
}

// WithDefaultUi marks the camera as the one nodes without a target camera render to.
//
// Parameters:
//   - isDefault: true to make this the default UI camera
//
// Returns:
//   - CameraBuilderOption: a function that marks the camera
func WithDefaultUi(isDefault bool) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.defaultUi = isDefault
	}
}
