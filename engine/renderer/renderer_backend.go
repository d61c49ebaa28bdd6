package renderer

import (
	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	PresentModeUncapped
)

// MSAASampleCount is the number of samples per pixel of the main pass color target.
// WebGPU guarantees 1 and 4; UI pipelines are specialized for exactly these two.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing.
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing.
	MSAA4x MSAASampleCount = 4
)

// AntiAliased reports whether the count enables multisampling.
func (c MSAASampleCount) AntiAliased() bool {
	return c > MSAAOff
}

// backendConfig collects the settings a backend needs before the adapter is requested.
type backendConfig struct {
	forceFallbackAdapter bool
	sampleCount          MSAASampleCount
	hdr                  bool
	tonemap              bool
	clearColor           common.LinearRgba
}

// RendererBackend is the GPU API a Renderer drives. It owns the device, the surface and the
// per-frame command encoding.
type RendererBackend interface {
	RenderDevice
	pipeline.Compiler

	// ConfigureSurface (re)creates the surface configuration and every size-dependent attachment.
	//
	// Parameters:
	//   - width: the surface width in pixels
	//   - height: the surface height in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode changes the present mode used by the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// BeginFrame acquires the next surface texture and opens the main render pass.
	//
	// Returns:
	//   - TrackedRenderPass: the pass draw commands are recorded into
	//   - error: an error if the surface texture could not be acquired
	BeginFrame() (TrackedRenderPass, error)

	// EndFrame closes the main pass, resolves the HDR target when enabled and submits the frame.
	EndFrame()

	// Present presents the submitted frame and releases the surface texture.
	Present()

	// SurfaceFormat returns the color format of the configured surface.
	SurfaceFormat() wgpu.TextureFormat

	// TargetFormat returns the color format the main pass renders into.
	TargetFormat() wgpu.TextureFormat

	// SampleCount returns the main pass sample count.
	SampleCount() MSAASampleCount

	// Release frees every GPU object the backend owns.
	Release()
}
