// Package config loads the engine settings file. Every section translates into the builder options of
// the package it configures, so a Config is never consulted after start up.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/loader"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer"
	"github.com/Carmen-Shannon/oxy-ui/engine/slicer"
	"github.com/Carmen-Shannon/oxy-ui/engine/window"
	"github.com/pelletier/go-toml/v2"

	"github.com/cogentcore/webgpu/wgpu"
)

// Config is the root of the settings file.
type Config struct {
	Window   WindowConfig   `toml:"window"`
	Renderer RendererConfig `toml:"renderer"`
	Slicer   SlicerConfig   `toml:"slicer"`
	Assets   AssetsConfig   `toml:"assets"`
	Engine   EngineConfig   `toml:"engine"`
}

// WindowConfig is the [window] section.
type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// RendererConfig is the [renderer] section.
type RendererConfig struct {
	// PresentMode is "vsync" or "uncapped".
	PresentMode   string     `toml:"present_mode"`
	MSAA          bool       `toml:"msaa"`
	HDR           bool       `toml:"hdr"`
	Tonemap       bool       `toml:"tonemap"`
	ForceSoftware bool       `toml:"force_software"`
	ClearColor    [4]float32 `toml:"clear_color"`
}

// SlicerConfig is the [slicer] section.
type SlicerConfig struct {
	// Workers above 1 prepare views in parallel.
	Workers               int `toml:"workers"`
	InitialVertexCapacity int `toml:"initial_vertex_capacity"`
}

// AssetsConfig is the [assets] section.
type AssetsConfig struct {
	Root    string `toml:"root"`
	Watch   bool   `toml:"watch"`
	Workers int    `toml:"workers"`
	// Filter is "linear" or "nearest".
	Filter string `toml:"filter"`
}

// EngineConfig is the [engine] section.
type EngineConfig struct {
	TickRate   float64 `toml:"tick_rate"`
	FrameLimit float64 `toml:"frame_limit"`
	Profiling  bool    `toml:"profiling"`
}

// Default returns the settings used for keys a file leaves out.
//
// Returns:
//   - Config: the default settings
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "oxy-ui",
			Width:  1280,
			Height: 720,
		},
		Renderer: RendererConfig{
			PresentMode: "vsync",
			MSAA:        true,
			ClearColor:  [4]float32{0.05, 0.05, 0.07, 1},
		},
		Slicer: SlicerConfig{
			Workers: 1,
		},
		Assets: AssetsConfig{
			Root:    "assets",
			Workers: 2,
			Filter:  "linear",
		},
		Engine: EngineConfig{
			TickRate: 60,
		},
	}
}

// Load reads and validates the settings file at path.
//
// Parameters:
//   - path: the TOML file to read
//
// Returns:
//   - Config: the settings, defaults filled in for missing keys
//   - error: error if the file cannot be read, has unknown keys or invalid values
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Decode reads and validates settings from r.
//
// Parameters:
//   - r: the TOML document
//
// Returns:
//   - Config: the settings, defaults filled in for missing keys
//   - error: error if the document has unknown keys or invalid values
func Decode(r io.Reader) (Config, error) {
	c := Default()
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			keys := make([]string, 0, len(strict.Errors))
			for _, e := range strict.Errors {
				keys = append(keys, strings.Join(e.Key(), "."))
			}
			return Config{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
		}
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate reports every invalid value in c.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if _, err := c.Renderer.presentMode(); err != nil {
		errs = append(errs, err)
	}
	if c.Slicer.Workers < 0 {
		errs = append(errs, fmt.Errorf("slicer workers %d must not be negative", c.Slicer.Workers))
	}
	if c.Slicer.InitialVertexCapacity < 0 {
		errs = append(errs, fmt.Errorf("slicer initial_vertex_capacity %d must not be negative", c.Slicer.InitialVertexCapacity))
	}
	if c.Assets.Workers < 1 {
		errs = append(errs, fmt.Errorf("assets workers %d must be at least 1", c.Assets.Workers))
	}
	if _, err := c.Assets.filter(); err != nil {
		errs = append(errs, err)
	}
	if c.Engine.TickRate < 0 || c.Engine.FrameLimit < 0 {
		errs = append(errs, errors.New("engine tick_rate and frame_limit must not be negative"))
	}
	return errors.Join(errs...)
}

func (r RendererConfig) presentMode() (renderer.PresentMode, error) {
	switch strings.ToLower(r.PresentMode) {
	case "", "vsync":
		return renderer.PresentModeVSync, nil
	case "uncapped":
		return renderer.PresentModeUncapped, nil
	}
	return 0, fmt.Errorf("unknown present_mode %q, want vsync or uncapped", r.PresentMode)
}

func (a AssetsConfig) filter() (wgpu.FilterMode, error) {
	switch strings.ToLower(a.Filter) {
	case "", "linear":
		return wgpu.FilterModeLinear, nil
	case "nearest":
		return wgpu.FilterModeNearest, nil
	}
	return 0, fmt.Errorf("unknown assets filter %q, want linear or nearest", a.Filter)
}

// WindowOptions translates the [window] section.
func (c Config) WindowOptions() []window.WindowBuilderOption {
	return []window.WindowBuilderOption{
		window.WithTitle(c.Window.Title),
		window.WithWidth(c.Window.Width),
		window.WithHeight(c.Window.Height),
	}
}

// RendererOptions translates the [renderer] section. c must be valid.
func (c Config) RendererOptions() []renderer.RendererBuilderOption {
	mode, _ := c.Renderer.presentMode()
	msaa := renderer.MSAAOff
	if c.Renderer.MSAA {
		msaa = renderer.MSAA4x
	}
	cc := c.Renderer.ClearColor
	return []renderer.RendererBuilderOption{
		renderer.WithPresentMode(mode),
		renderer.WithMSAA(msaa),
		renderer.WithHDR(c.Renderer.HDR, c.Renderer.Tonemap),
		renderer.WithForceSoftwareRenderer(c.Renderer.ForceSoftware),
		renderer.WithClearColor(common.Rgba(cc[0], cc[1], cc[2], cc[3])),
	}
}

// SlicerOptions translates the [slicer] section. The target format and anti-aliasing follow the
// renderer and are added by the engine.
func (c Config) SlicerOptions() []slicer.SlicerBuilderOption {
	options := []slicer.SlicerBuilderOption{slicer.WithWorkers(c.Slicer.Workers)}
	if c.Slicer.InitialVertexCapacity > 0 {
		options = append(options, slicer.WithInitialVertexCapacity(c.Slicer.InitialVertexCapacity))
	}
	return options
}

// LoaderOptions translates the [assets] section. c must be valid.
func (c Config) LoaderOptions() []loader.LoaderBuilderOption {
	filter, _ := c.Assets.filter()
	return []loader.LoaderBuilderOption{
		loader.WithRoot(c.Assets.Root),
		loader.WithWorkers(c.Assets.Workers),
		loader.WithSampler(common.SamplerStagingData{
			AddressModeU: wgpu.AddressModeClampToEdge,
			AddressModeV: wgpu.AddressModeClampToEdge,
			AddressModeW: wgpu.AddressModeClampToEdge,
			MagFilter:    filter,
			MinFilter:    filter,
		}),
	}
}
