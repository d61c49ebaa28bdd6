package renderer

import "github.com/Carmen-Shannon/oxy-ui/common"

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPresentMode = &mode
	}
}

// WithMSAA sets the main pass sample count. When not specified, the default is MSAA4x.
//
// Parameters:
//   - count: MSAAOff or MSAA4x
//
// Returns:
//   - RendererBuilderOption: a function that applies the MSAA option to a renderer
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.config.sampleCount = count
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.config.forceFallbackAdapter = force
	}
}

// WithHDR renders the main pass into an RGBA16Float target that is copied onto the surface at the
// end of every frame. With tonemap set the copy applies Reinhard tone mapping, otherwise it clamps.
//
// Parameters:
//   - enabled: true to render through the HDR target
//   - tonemap: true to tone map instead of clamping
//
// Returns:
//   - RendererBuilderOption: a function that applies the HDR option to a renderer
func WithHDR(enabled, tonemap bool) RendererBuilderOption {
	return func(r *renderer) {
		r.config.hdr = enabled
		r.config.tonemap = tonemap
	}
}

// WithClearColor sets the color the main pass clears to.
func WithClearColor(c common.LinearRgba) RendererBuilderOption {
	return func(r *renderer) {
		r.config.clearColor = c
	}
}
