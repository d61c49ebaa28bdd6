package slicer

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/asset"
	"github.com/Carmen-Shannon/oxy-ui/engine/camera"
	"github.com/Carmen-Shannon/oxy-ui/engine/globals"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/phase"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-ui/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrDrawNotRegistered is returned by Queue before RegisterDraw has been called.
var ErrDrawNotRegistered = errors.New("slice draw function not registered")

// Stats counts what the last Prepare did.
type Stats struct {
	Views   int
	Quads   int
	Batches int
	// Culled counts quads fully outside their clip rect.
	Culled int
	// Skipped counts items left out for a missing image or a zero extent.
	Skipped           int
	BindGroupsCreated int
	BindGroupsEvicted int
}

func (s *Stats) add(o Stats) {
	s.Quads += o.Quads
	s.Batches += o.Batches
	s.Culled += o.Culled
	s.Skipped += o.Skipped
}

// PrepareParams are the render world resources the prepare stage reads.
type PrepareParams struct {
	Device       renderer.RenderDevice
	Phases       *phase.ViewSortedRenderPhases
	ViewUniforms *camera.ViewUniforms
	Globals      *globals.Buffer
	GpuImages    *asset.GpuImages
	// Events are the image events of the frame.
	Events []asset.Event
}

// slicer is the implementation of the Slicer interface.
type slicer struct {
	mu *sync.Mutex

	pipeline   *SlicePipeline
	pipelines  *pipeline.SpecializedRenderPipelines[SlicePipelineKey]
	meta       *SliceMeta
	bindGroups *ImageBindGroups
	extracted  *ExtractedSlices

	drawFunction   phase.DrawFunctionID
	drawRegistered bool

	targetFormat   wgpu.TextureFormat
	antiAlias      bool
	workers        int
	vertexCapacity int
	pool           worker.DynamicWorkerPool

	stats Stats
}

// Slicer renders sliced and tiled image nodes. A frame runs Extract, Queue, Prepare and then the
// phase render, which replays the registered draw for every queued item.
type Slicer interface {
	// Extract snapshots the drawable image nodes of a scene.
	//
	// Parameters:
	//   - src: the scene to extract from
	//   - layouts: the atlas layouts atlas cells are resolved against
	//   - cameras: maps node target cameras to camera render entities
	//   - entities: allocates frame-scoped render entities
	Extract(src scene.Scene, layouts *asset.TextureAtlasLayouts, cameras camera.UiCameraMap, entities *common.EntityAllocator)

	// Queue adds a phase item per extracted slice to the phase of its view.
	//
	// Parameters:
	//   - views: the frame's extracted views
	//   - phases: the per-view transparent phases
	//   - compiler: compiles pipeline variants on first use
	//
	// Returns:
	//   - error: ErrDrawNotRegistered, or the joined specialization failures
	Queue(views *camera.Views, phases *phase.ViewSortedRenderPhases, compiler pipeline.Compiler) error

	// Prepare batches the sorted phases into GPU vertices and indices and empties the extracted list.
	//
	// Parameters:
	//   - params: the device, phases, uniforms, GPU images and image events of the frame
	//
	// Returns:
	//   - error: an error if a bind group cannot be created or the buffers cannot be written
	Prepare(params PrepareParams) error

	// RegisterDraw registers the slice draw with functions. Queue uses the returned id.
	//
	// Parameters:
	//   - functions: the draw function registry
	//
	// Returns:
	//   - phase.DrawFunctionID: the id of the slice draw
	RegisterDraw(functions *phase.DrawFunctions) phase.DrawFunctionID

	// Extracted returns the extracted slices waiting for Prepare.
	Extracted() *ExtractedSlices

	// Meta returns the GPU data of the last Prepare.
	Meta() *SliceMeta

	// BindGroups returns the image bind group cache.
	BindGroups() *ImageBindGroups

	// Pipeline returns the pipeline family.
	Pipeline() *SlicePipeline

	// PipelineCount returns the number of compiled pipeline variants.
	PipelineCount() int

	// Stats returns the counters of the last Prepare.
	Stats() Stats

	// Release frees every GPU object the slicer owns.
	Release()
}

var _ Slicer = &slicer{}

// NewSlicer creates the slice pipeline family and empty per-frame buffers.
//
// Parameters:
//   - device: the device layouts and buffers are created with
//   - options: variadic list of SlicerBuilderOption functions
//
// Returns:
//   - Slicer: the slicer
//   - error: an error if the pipeline layouts or the initial buffers cannot be created
func NewSlicer(device renderer.RenderDevice, options ...SlicerBuilderOption) (Slicer, error) {
	s := &slicer{
		mu:           &sync.Mutex{},
		pipelines:    pipeline.NewSpecializedRenderPipelines[SlicePipelineKey](),
		meta:         NewSliceMeta(),
		bindGroups:   NewImageBindGroups(),
		extracted:    &ExtractedSlices{},
		targetFormat: wgpu.TextureFormatRGBA8UnormSrgb,
	}
	for _, opt := range options {
		opt(s)
	}

	p, err := NewSlicePipeline(device, s.targetFormat)
	if err != nil {
		return nil, err
	}
	s.pipeline = p

	if s.vertexCapacity > 0 {
		if err := s.meta.vertices.Reserve(s.vertexCapacity, device); err != nil {
			p.Release()
			return nil, fmt.Errorf("failed to reserve slice vertices: %w", err)
		}
		if err := s.meta.indices.Reserve(s.vertexCapacity/4*6, device); err != nil {
			s.meta.Release()
			p.Release()
			return nil, fmt.Errorf("failed to reserve slice indices: %w", err)
		}
	}

	if s.workers > 1 {
		s.pool = worker.NewDynamicWorkerPool(s.workers, 256, 1*time.Second)
	}
	return s, nil
}

func (s *slicer) Extract(src scene.Scene, layouts *asset.TextureAtlasLayouts, cameras camera.UiCameraMap, entities *common.EntityAllocator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	Extract(s.extracted, src, layouts, cameras, entities)
}

func (s *slicer) Queue(views *camera.Views, phases *phase.ViewSortedRenderPhases, compiler pipeline.Compiler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.drawRegistered {
		return ErrDrawNotRegistered
	}
	return Queue(s.extracted, QueueParams{
		Views:        views,
		Phases:       phases,
		Pipelines:    s.pipelines,
		Compiler:     compiler,
		Specializer:  s.pipeline,
		DrawFunction: s.drawFunction,
		AntiAlias:    s.antiAlias,
	})
}

func (s *slicer) Prepare(params PrepareParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.extracted.Clear()

	stats := Stats{BindGroupsEvicted: s.bindGroups.ApplyEvents(params.Events)}
	s.meta.clear()
	s.stats = stats

	viewBinding, ok := params.ViewUniforms.Binding()
	if !ok {
		return nil
	}
	globalsBinding, ok := params.Globals.Binding()
	if !ok {
		return nil
	}
	if err := s.meta.createViewBindGroup(params.Device, s.pipeline.ViewLayout(), viewBinding, globalsBinding); err != nil {
		return err
	}

	var created atomic.Int64
	var errMu sync.Mutex
	var errs []error
	resolve := func(id asset.AssetID) (common.Vec2, bool) {
		img, ok := params.GpuImages.Get(id)
		if !ok {
			return common.Vec2{}, false
		}
		_, isNew, err := s.bindGroups.GetOrCreate(id, img, params.Device, s.pipeline.ImageLayout())
		if err != nil {
			errMu.Lock()
			errs = append(errs, err)
			errMu.Unlock()
			return common.Vec2{}, false
		}
		if isNew {
			created.Add(1)
		}
		return img.Size.AsVec2(), true
	}

	var phases []*phase.SortedRenderPhase
	for _, id := range params.Phases.Views() {
		if p, ok := params.Phases.GetMut(id); ok {
			phases = append(phases, p)
		}
	}

	var submit func(worker.Task)
	if s.pool != nil {
		submit = s.pool.SubmitTask
	}
	geometry := walkViews(submit, phases, s.extracted.Slices, resolve)
	stats.add(mergeGeometry(s.meta, geometry))
	stats.Views = len(phases)
	stats.BindGroupsCreated = int(created.Load())
	s.stats = stats

	if err := s.meta.write(params.Device); err != nil {
		errs = append(errs, fmt.Errorf("failed to write slice buffers: %w", err))
	}
	return errors.Join(errs...)
}

func (s *slicer) RegisterDraw(functions *phase.DrawFunctions) phase.DrawFunctionID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawFunction = functions.Add(DrawFunctionName, NewDrawCommands(s.meta, s.bindGroups))
	s.drawRegistered = true
	return s.drawFunction
}

func (s *slicer) Extracted() *ExtractedSlices {
	return s.extracted
}

func (s *slicer) Meta() *SliceMeta {
	return s.meta
}

func (s *slicer) BindGroups() *ImageBindGroups {
	return s.bindGroups
}

func (s *slicer) Pipeline() *SlicePipeline {
	return s.pipeline
}

func (s *slicer) PipelineCount() int {
	return s.pipelines.Len()
}

func (s *slicer) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *slicer) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta.Release()
	s.bindGroups.Release()
	s.pipelines.Release()
	s.pipeline.Release()
	if s.pool != nil {
		s.pool.Stop()
		s.pool = nil
	}
}
