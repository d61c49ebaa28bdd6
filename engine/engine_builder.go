package engine

import (
	"github.com/Carmen-Shannon/oxy-ui/engine/config"
	"github.com/Carmen-Shannon/oxy-ui/engine/loader"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer"
	"github.com/Carmen-Shannon/oxy-ui/engine/scene"
	"github.com/Carmen-Shannon/oxy-ui/engine/slicer"
	"github.com/Carmen-Shannon/oxy-ui/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithConfig applies every section of a settings file. Options given after it override its values.
//
// Parameters:
//   - c: the validated settings
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithConfig(c config.Config) EngineBuilderOption {
	return func(e *engine) {
		e.windowOptions = append(e.windowOptions, c.WindowOptions()...)
		e.rendererOptions = append(e.rendererOptions, c.RendererOptions()...)
		e.slicerOptions = append(e.slicerOptions, c.SlicerOptions()...)
		e.loaderOptions = append(e.loaderOptions, c.LoaderOptions()...)
		e.watchAssets = c.Assets.Watch
		e.profilingEnabled.Store(c.Engine.Profiling)
		e.engineTickRate = tickInterval(c.Engine.TickRate)
		e.renderFrameLimit = frameInterval(c.Engine.FrameLimit)
	}
}

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled.Store(enabled)
	}
}

// WithTickRate sets the engine tick rate in frames per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.engineTickRate = tickInterval(fps)
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.renderFrameLimit = frameInterval(fps)
	}
}

// WithWindow sets a custom configured window for the engine to use rather than allowing the engine
// to create one from its window options.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithWindowOptions appends options for the window the engine creates.
func WithWindowOptions(options ...window.WindowBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.windowOptions = append(e.windowOptions, options...)
	}
}

// WithRenderer sets a renderer created by the caller for the engine's window.
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithRendererOptions appends options for the renderer the engine creates.
func WithRendererOptions(options ...renderer.RendererBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.rendererOptions = append(e.rendererOptions, options...)
	}
}

// WithSlicerOptions appends slicer options. The target format and anti-aliasing always follow the
// renderer.
func WithSlicerOptions(options ...slicer.SlicerBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.slicerOptions = append(e.slicerOptions, options...)
	}
}

// WithLoaderOptions appends options for the engine's file loader.
func WithLoaderOptions(options ...loader.LoaderBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.loaderOptions = append(e.loaderOptions, options...)
	}
}

// WithAssetWatch reloads loaded files when they change on disk while the engine runs.
func WithAssetWatch(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.watchAssets = enabled
	}
}

// WithScene sets the UI scene the engine renders.
//
// Parameters:
//   - s: the Scene to render
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScene(s scene.Scene) EngineBuilderOption {
	return func(e *engine) {
		e.scene = s
	}
}
