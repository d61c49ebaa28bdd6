package renderer

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-ui/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	config             backendConfig
	pendingPresentMode *PresentMode
}

// Renderer is the frame-level entry point to the GPU.
//
// Render stages create their resources through Device and record draws into the TrackedRenderPass
// returned by BeginFrame. A frame is BeginFrame, draws, EndFrame, Present.
type Renderer interface {
	// Device returns the resource creation capability of the backend.
	//
	// Returns:
	//   - RenderDevice: the device
	Device() RenderDevice

	// Compiler returns the pipeline compilation capability of the backend.
	//
	// Returns:
	//   - pipeline.Compiler: the compiler
	Compiler() pipeline.Compiler

	// Resize reconfigures the surface and its attachments for new window dimensions.
	//
	// Parameters:
	//   - width: the new surface width in pixels
	//   - height: the new surface height in pixels
	Resize(width, height int)

	// SetPresentMode changes the surface present mode. The change takes effect on the next Resize.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// BeginFrame acquires the next surface texture and opens the main render pass.
	//
	// Returns:
	//   - TrackedRenderPass: the pass to record draws into, valid until EndFrame
	//   - error: an error if a previous frame is still held or the surface could not be acquired
	BeginFrame() (TrackedRenderPass, error)

	// EndFrame closes the main pass and submits the frame's commands.
	EndFrame()

	// Present presents the last submitted frame.
	Present()

	// WriteBuffers applies a batch of queued buffer writes. Writes whose provider has no buffer at the
	// target binding are dropped.
	//
	// Parameters:
	//   - writes: the writes to apply in order
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// SurfaceFormat returns the color format of the window surface.
	SurfaceFormat() wgpu.TextureFormat

	// TargetFormat returns the color format the main pass renders into. It differs from
	// SurfaceFormat when HDR is enabled.
	TargetFormat() wgpu.TextureFormat

	// SampleCount returns the main pass sample count.
	SampleCount() MSAASampleCount

	// HDR reports whether the main pass renders into the HDR target.
	HDR() bool

	// Release frees the backend and every GPU object it owns.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer, selecting the backend, requesting a device and configuring the
// window surface.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - window: the window whose surface is rendered to
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		config: backendConfig{
			sampleCount: MSAA4x,
		},
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}
	if r.config.sampleCount != MSAAOff {
		r.config.sampleCount = MSAA4x
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(window.SurfaceDescriptor(), r.config)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.backend.ConfigureSurface(window.Width(), window.Height())
	return r
}

func (r *renderer) Device() RenderDevice {
	return r.backend
}

func (r *renderer) Compiler() pipeline.Compiler {
	return r.backend
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) BeginFrame() (TrackedRenderPass, error) {
	return r.backend.BeginFrame()
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.mu.Lock()
	defer r.mu.Unlock()
	writeBuffers(r.backend, writes)
}

// writeBuffers applies writes through device, skipping the ones with no target buffer.
func writeBuffers(device RenderDevice, writes []bind_group_provider.BufferWrite) {
	for _, w := range writes {
		buf := w.Target()
		if buf == nil {
			continue
		}
		device.WriteBuffer(buf, w.Offset, w.Data)
	}
}

func (r *renderer) SurfaceFormat() wgpu.TextureFormat {
	return r.backend.SurfaceFormat()
}

func (r *renderer) TargetFormat() wgpu.TextureFormat {
	return r.backend.TargetFormat()
}

func (r *renderer) SampleCount() MSAASampleCount {
	return r.backend.SampleCount()
}

func (r *renderer) HDR() bool {
	return r.config.hdr
}

func (r *renderer) Release() {
	r.backend.Release()
}
