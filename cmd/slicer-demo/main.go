// Command slicer-demo opens a window showing nine-slice, tiled and atlas image nodes.
//
// Images are read from the configured asset root when present (panel.png, icons.png and
// icons.atlas.yaml) and generated otherwise. P toggles the profiler, H hides the panels.
package main

import (
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine"
	"github.com/Carmen-Shannon/oxy-ui/engine/asset"
	"github.com/Carmen-Shannon/oxy-ui/engine/config"
	"github.com/Carmen-Shannon/oxy-ui/engine/node"
	"github.com/Carmen-Shannon/oxy-ui/engine/sprite"
	"github.com/Carmen-Shannon/oxy-ui/engine/window"
)

const (
	iconTile    = 16
	iconColumns = 4
	iconRows    = 4
)

func main() {
	var (
		configPath = flag.String("config", "oxy-ui.toml", "settings file")
		logLevel   = flag.String("log-level", "info", "log level (debug, info, warn, error)")
	)
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		log.Fatalf("invalid log level %q: %v", *logLevel, err)
	}
	common.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := config.Load(*configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		cfg = config.Default()
	case err != nil:
		log.Fatalf("failed to load %s: %v", *configPath, err)
	}

	eng, err := engine.NewEngine(engine.WithConfig(cfg))
	if err != nil {
		log.Fatalf("failed to start engine: %v", err)
	}

	d := newDemo(eng)
	d.spawn(float32(eng.Window().Width()), float32(eng.Window().Height()))

	profiling := cfg.Engine.Profiling
	eng.Window().SetKeyCallback(func(key window.Key, pressed bool) {
		if !pressed {
			return
		}
		switch key {
		case window.KeyP:
			profiling = !profiling
			if profiling {
				eng.EnableProfiler()
			} else {
				eng.DisableProfiler()
			}
		case window.KeyH:
			d.togglePanels()
		}
	})
	eng.SetTickCallback(d.tick)

	eng.Run()
}

type demo struct {
	eng engine.Engine

	panel   asset.AssetID
	checker asset.AssetID
	icons   asset.AssetID
	layout  asset.AssetID

	panels  []node.Node
	spinner node.Node
	center  common.Vec2
	angle   float32
	hidden  bool
}

func newDemo(eng engine.Engine) *demo {
	d := &demo{eng: eng}
	l := eng.Loader()

	var err error
	if d.panel, err = l.Load("panel.png"); err != nil {
		common.Logger().Debug("generating panel image", "error", err)
		d.panel = eng.Images().Add(panelImage(32, 8))
	}

	d.checker = eng.Images().Add(checkerImage(32, 16))

	if d.icons, err = l.Load("icons.png"); err != nil {
		common.Logger().Debug("generating icon sheet", "error", err)
		d.icons = eng.Images().Add(iconSheet(iconTile, iconColumns, iconRows))
	}
	if d.layout, err = l.LoadAtlasLayout("icons.atlas.yaml"); err != nil {
		common.Logger().Debug("generating icon layout", "error", err)
		d.layout = eng.Layouts().Add(asset.TextureAtlasLayoutFromGrid(
			common.UVec2{X: iconTile, Y: iconTile}, iconColumns, iconRows, common.UVec2{}, common.UVec2{},
		))
	}
	return d
}

func (d *demo) spawn(width, height float32) {
	sc := d.eng.Scene()

	background := node.NewImageNode(d.checker)
	background.Mode = node.TiledMode(true, true, 1)
	sc.Spawn(node.NewNode(
		node.WithSize(common.V2(width, height)),
		node.WithCenter(common.V2(width/2, height/2)),
		node.WithImage(background),
	))

	sliced := node.SlicedMode(sprite.NewTextureSlicer(sprite.BorderSquare(8)))

	frame := node.NewImageNode(d.panel)
	frame.Mode = sliced
	d.addPanel(node.NewNode(
		node.WithSize(common.V2(360, 240)),
		node.WithCenter(common.V2(220, 160)),
		node.WithStackIndex(1),
		node.WithImage(frame),
	))

	for i := range iconColumns * iconRows {
		icon := node.NewImageNode(d.icons)
		icon.Atlas = &asset.TextureAtlas{Layout: d.layout, Index: i}
		d.addPanel(node.NewNode(
			node.WithSize(common.V2(32, 32)),
			node.WithCenter(common.V2(72+float32(i%8)*40, 120+float32(i/8)*40)),
			node.WithStackIndex(2),
			node.WithImage(icon),
		))
	}

	tinted := node.NewImageNode(d.panel)
	tinted.Mode = sliced
	tinted.Color = common.Rgba(0.6, 0.9, 1, 1)
	d.addPanel(node.NewNode(
		node.WithSize(common.V2(300, 120)),
		node.WithCenter(common.V2(220, 380)),
		node.WithStackIndex(1),
		node.WithClip(common.Rect{Min: common.V2(70, 340), Max: common.V2(300, 460)}),
		node.WithImage(tinted),
	))

	d.center = common.V2(width-200, height/2)
	spinner := node.NewImageNode(d.panel)
	spinner.Mode = sliced
	d.spinner = node.NewNode(
		node.WithSize(common.V2(160, 160)),
		node.WithCenter(d.center),
		node.WithStackIndex(3),
		node.WithImage(spinner),
	)
	d.addPanel(d.spinner)
}

func (d *demo) addPanel(n node.Node) {
	d.eng.Scene().Spawn(n)
	d.panels = append(d.panels, n)
}

func (d *demo) togglePanels() {
	d.hidden = !d.hidden
	for _, n := range d.panels {
		n.SetVisible(!d.hidden)
	}
}

func (d *demo) tick(dt float32) {
	d.angle += dt
	d.spinner.SetTransform(common.Affine2FromScaleAngleTranslation(common.V2(1, 1), d.angle, d.center))
}
