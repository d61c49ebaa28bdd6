package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/asset"
	"github.com/Carmen-Shannon/oxy-ui/engine/camera"
	"github.com/Carmen-Shannon/oxy-ui/engine/globals"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/phase"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-ui/engine/scene"
	"github.com/Carmen-Shannon/oxy-ui/engine/slicer"
)

// renderWorld holds everything that lives for one frame on the render side and runs the frame stages
// in order: realize images, extract, queue, sort, prepare, render.
type renderWorld struct {
	scene   scene.Scene
	events  *asset.Events
	images  *asset.Images
	layouts *asset.TextureAtlasLayouts

	gpuImages  *asset.GpuImages
	entities   common.EntityAllocator
	views      *camera.Views
	phases     *phase.ViewSortedRenderPhases
	functions  *phase.DrawFunctions
	uniforms   *camera.ViewUniforms
	globals    globals.Globals
	globalsBuf *globals.Buffer

	slicer slicer.Slicer
	hdr    bool
}

func newRenderWorld(device renderer.RenderDevice, sc scene.Scene, events *asset.Events, images *asset.Images, layouts *asset.TextureAtlasLayouts, hdr bool, options ...slicer.SlicerBuilderOption) (*renderWorld, error) {
	s, err := slicer.NewSlicer(device, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create slicer: %w", err)
	}

	w := &renderWorld{
		scene:      sc,
		events:     events,
		images:     images,
		layouts:    layouts,
		gpuImages:  asset.NewGpuImages(),
		views:      camera.NewViews(),
		phases:     phase.NewViewSortedRenderPhases(),
		functions:  phase.NewDrawFunctions(),
		uniforms:   camera.NewViewUniforms(),
		globalsBuf: globals.NewBuffer(),
		slicer:     s,
		hdr:        hdr,
	}
	w.slicer.RegisterDraw(w.functions)
	return w, nil
}

// prepare runs every stage up to and including prepare. Errors from one stage do not stop the later
// ones; a frame with a failed image upload still draws everything else.
func (w *renderWorld) prepare(device renderer.RenderDevice, compiler pipeline.Compiler, dt time.Duration) error {
	var errs []error

	events := w.events.Flush()
	if err := w.gpuImages.Prepare(device, w.images, events); err != nil {
		errs = append(errs, err)
	}

	cams := w.scene.Cameras()
	for _, c := range cams {
		if c.HDR() != w.hdr {
			c.SetHDR(w.hdr)
		}
	}

	w.entities.Reset()
	views, cameraMap := camera.ExtractViews(cams, &w.entities)
	w.views = views
	w.phases.Retain(views.Retained())
	for _, id := range views.Retained() {
		w.phases.Insert(id)
	}

	w.slicer.Extract(w.scene, w.layouts, cameraMap, &w.entities)
	if err := w.slicer.Queue(views, w.phases, compiler); err != nil {
		errs = append(errs, err)
	}
	w.phases.SortAll()

	w.globals.Update(dt)
	if err := w.uniforms.Prepare(views, device); err != nil {
		errs = append(errs, err)
	}
	if err := w.globalsBuf.Prepare(&w.globals, device); err != nil {
		errs = append(errs, err)
	}
	if err := w.slicer.Prepare(slicer.PrepareParams{
		Device:       device,
		Phases:       w.phases,
		ViewUniforms: w.uniforms,
		Globals:      w.globalsBuf,
		GpuImages:    w.gpuImages,
		Events:       events,
	}); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// render draws every view's phase in camera order into pass.
func (w *renderWorld) render(pass renderer.TrackedRenderPass) error {
	var errs []error
	for _, v := range w.views.All() {
		p, ok := w.phases.GetMut(v.RetainedView)
		if !ok {
			continue
		}
		if err := p.Render(pass, v.DrawView(), w.functions); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (w *renderWorld) release() {
	w.slicer.Release()
	w.uniforms.Release()
	w.globalsBuf.Release()
	w.gpuImages.Release()
}
