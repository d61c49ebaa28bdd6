package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window is the platform window a UI is presented in.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in physical pixels
	SetResizeCallback(callback func(width, height int))

	// SetScaleCallback sets the function called when the window moves to a monitor with a different
	// content scale.
	//
	// Parameters:
	//   - callback: function receiving the new ratio of physical to logical pixels
	SetScaleCallback(callback func(scale float32))

	// SetKeyCallback sets the callback for key events. Escape always closes the window and is not
	// forwarded.
	//
	// Parameters:
	//   - callback: function receiving the key and whether it was pressed or released
	SetKeyCallback(callback func(key Key, pressed bool))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still open.
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls the update callback each iteration.
	ProcessMessages()

	// Width returns the framebuffer width in physical pixels.
	Width() int

	// Height returns the framebuffer height in physical pixels.
	Height() int

	// ScaleFactor returns the ratio of physical to logical pixels of the monitor the window is on.
	ScaleFactor() float32
}

// Key identifies a keyboard key. Values match GLFW key codes.
type Key int

const (
	KeySpace  Key = 32
	KeyH      Key = 72
	KeyP      Key = 80
	KeyR      Key = 82
	KeyEscape Key = 256
)

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	title string

	minWidth, minHeight int
	maxWidth, maxHeight int
	resizable           bool

	width, height int
	scale         float32

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onUpdate func()
	onResize func(width, height int)
	onScale  func(scale float32)
	onKey    func(key Key, pressed bool)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a new Window with the specified options.
// Applies default values first, then each option in order. Panics if the platform window cannot be
// created.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the window
func NewWindow(options ...WindowBuilderOption) Window {
	w := &engineWindow{
		title:     "oxy-ui",
		minWidth:  320,
		minHeight: 240,
		resizable: true,
		width:     1280,
		height:    720,
		scale:     1,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScaleCallback(callback func(scale float32)) {
	w.onScale = callback
}

func (w *engineWindow) SetKeyCallback(callback func(key Key, pressed bool)) {
	w.onKey = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

func (w *engineWindow) ScaleFactor() float32 {
	return w.scale
}
