package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/asset"
	"github.com/Carmen-Shannon/oxy-ui/engine/camera"
	"github.com/Carmen-Shannon/oxy-ui/engine/loader"
	"github.com/Carmen-Shannon/oxy-ui/engine/profiler"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer"
	"github.com/Carmen-Shannon/oxy-ui/engine/scene"
	"github.com/Carmen-Shannon/oxy-ui/engine/slicer"
	"github.com/Carmen-Shannon/oxy-ui/engine/window"
)

// engine implements the Engine interface.
// Coordinates the tick, render and window threads.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window          window.Window
	windowOptions   []window.WindowBuilderOption
	renderer        renderer.Renderer
	rendererOptions []renderer.RendererBuilderOption

	scene   scene.Scene
	events  *asset.Events
	images  *asset.Images
	layouts *asset.TextureAtlasLayouts

	loader        loader.Loader
	loaderOptions []loader.LoaderBuilderOption
	watchAssets   bool
	cancelWatch   context.CancelFunc

	world         *renderWorld
	slicerOptions []slicer.SlicerBuilderOption

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	engineTickRate   time.Duration
	tickCallback     func(deltaTime float32)
	renderCallback   func(deltaTime float32)
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the main entry point for the engine.
// It owns the window, the renderer, the UI scene and its assets, and runs the tick and render loops.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer presenting to the window.
	Renderer() renderer.Renderer

	// Scene returns the UI scene the engine renders.
	Scene() scene.Scene

	// Images returns the image store. Changes made to it are uploaded at the start of the next frame.
	Images() *asset.Images

	// Layouts returns the texture atlas layout store.
	Layouts() *asset.TextureAtlasLayouts

	// Loader returns the file loader writing into Images and Layouts.
	Loader() loader.Loader

	// Stats returns the slicer statistics of the last prepared frame.
	Stats() slicer.Stats

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in frames per second.
	// The tick callback will be called at this rate for UI logic updates.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called after each rendered frame.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the engine loops and blocks until the window closes. GPU resources are released
	// before it returns.
	Run()

	// Quit signals all engine goroutines to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine with the provided options. A window and renderer are created unless
// given through WithWindow and WithRenderer. A scene without cameras gets a default UI camera covering
// the window.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
//   - error: error if the render world cannot be created
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		events:          asset.NewEvents(),
		layouts:         asset.NewTextureAtlasLayouts(),
		profiler:        profiler.NewProfiler(time.Second),
		engineTickRate:  time.Second / 60,
	}
	e.images = asset.NewImages(e.events)

	for _, opt := range options {
		opt(e)
	}

	if e.window == nil {
		e.window = window.NewWindow(e.windowOptions...)
	}
	if e.renderer == nil {
		e.renderer = renderer.NewRenderer(renderer.BackendTypeWGPU, e.window, e.rendererOptions...)
	}
	if e.scene == nil {
		e.scene = scene.NewScene("ui")
	}
	if len(e.scene.Cameras()) == 0 {
		e.scene.AddCamera(camera.NewCamera(
			camera.WithLabel("default_ui_camera"),
			camera.WithViewport(uint32(e.window.Width()), uint32(e.window.Height())),
			camera.WithScaleFactor(e.window.ScaleFactor()),
			camera.WithDefaultUi(true),
		))
	}
	if e.loader == nil {
		e.loader = loader.NewLoader(e.images, e.layouts, e.loaderOptions...)
	}

	slicerOptions := append([]slicer.SlicerBuilderOption{
		slicer.WithTargetFormat(e.renderer.TargetFormat()),
		slicer.WithAntiAlias(e.renderer.SampleCount().AntiAliased()),
	}, e.slicerOptions...)
	world, err := newRenderWorld(e.renderer.Device(), e.scene, e.events, e.images, e.layouts, e.renderer.HDR(), slicerOptions...)
	if err != nil {
		return nil, err
	}
	e.world = world

	e.window.SetResizeCallback(func(width, height int) {
		if width == 0 || height == 0 {
			return
		}
		e.renderer.Resize(width, height)
		e.scene.ResizeCameras(common.UVec2{X: uint32(width), Y: uint32(height)})
	})
	// GLFW may only be touched from the thread running the message loop
	e.window.SetUpdateCallback(func() {
		select {
		case <-e.quitChannel:
			_ = e.window.Close()
		default:
		}
	})
	e.window.SetScaleCallback(func(scale float32) {
		for _, c := range e.scene.Cameras() {
			c.SetScaleFactor(scale)
		}
	})

	return e, nil
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Images() *asset.Images {
	return e.images
}

func (e *engine) Layouts() *asset.TextureAtlasLayouts {
	return e.layouts
}

func (e *engine) Loader() loader.Loader {
	return e.loader
}

func (e *engine) Stats() slicer.Stats {
	return e.world.slicer.Stats()
}

func (e *engine) Run() {
	if e.watchAssets {
		var ctx context.Context
		ctx, e.cancelWatch = context.WithCancel(context.Background())
		go func() {
			if err := e.loader.Watch(ctx); err != nil {
				common.Logger().Warn("asset watcher stopped", "error", err)
			}
		}()
	}

	e.running = true
	e.handle()
	e.window.ProcessMessages()

	e.signalQuit()
	e.wg.Wait()
	e.shutdown()
}

func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running = false
		close(e.quitChannel)
	})
}

func (e *engine) shutdown() {
	if e.cancelWatch != nil {
		e.cancelWatch()
	}
	e.loader.Close()
	e.world.release()
	e.renderer.Release()
	if e.window.IsRunning() {
		_ = e.window.Close()
	}
}

// handle launches the tick and render goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleEngine()
	go e.handleRender()
}

// handleEngine runs the fixed-rate tick loop in its own goroutine.
// Fires the tick callback at the configured tick rate and listens for dynamic rate changes
// via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleRender runs the uncapped (or frame-limited) render loop in its own goroutine.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			common.Logger().Error("render goroutine recovered from panic", "panic", fmt.Sprint(r))
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			frameStart := time.Now()
			dt := frameStart.Sub(lastRender)
			lastRender = frameStart

			if e.scene.Active() {
				e.renderFrame(dt)
			}

			if e.renderCallback != nil {
				e.renderCallback(float32(dt.Seconds()))
			}

			if e.profilingEnabled.Load() && e.profiler != nil {
				e.profiler.Record(e.world.slicer.Stats())
				e.profiler.Tick()
			}

			// Frame rate limiting
			if e.renderFrameLimit > 0 {
				if remaining := e.renderFrameLimit - time.Since(frameStart); remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// renderFrame prepares the UI and records it into one main pass.
func (e *engine) renderFrame(dt time.Duration) {
	if err := e.world.prepare(e.renderer.Device(), e.renderer.Compiler(), dt); err != nil {
		common.Logger().Warn("frame preparation failed", "error", err)
	}

	pass, err := e.renderer.BeginFrame()
	if err != nil {
		common.Logger().Debug("frame skipped", "error", err)
		return
	}
	if err := e.world.render(pass); err != nil {
		common.Logger().Warn("ui draw failed", "error", err)
	}
	e.renderer.EndFrame()
	e.renderer.Present()
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

// SetTickRate sets the engine tick rate in frames per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	newRate := tickInterval(fps)

	if e.running {
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		e.engineTickRate = newRate
	}
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameInterval(fps)
}

// tickInterval converts a tick rate into a ticker period. Non-positive rates mean 60 Hz.
func tickInterval(fps float64) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Duration(float64(time.Second) / fps)
}

// frameInterval converts a frame limit into a minimum frame duration. Non-positive limits uncap.
func frameInterval(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
