package slicer

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/camera"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/phase"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/pipeline"
)

// QueueParams are the render world resources the queue stage reads and writes.
type QueueParams struct {
	Views        *camera.Views
	Phases       *phase.ViewSortedRenderPhases
	Pipelines    *pipeline.SpecializedRenderPipelines[SlicePipelineKey]
	Compiler     pipeline.Compiler
	Specializer  pipeline.Specializer[SlicePipelineKey]
	DrawFunction phase.DrawFunctionID
	// AntiAlias selects the multisampled pipeline variants.
	AntiAlias bool
}

// Queue adds one phase item per extracted slice to the phase of the view the slice's camera renders.
// Slices whose camera has no view this frame, or whose view has no phase, are left out. A variant that
// fails to compile leaves its slices out and is reported once.
//
// Parameters:
//   - slices: the extracted slices
//   - params: the views, phases and pipeline cache
//
// Returns:
//   - error: the joined pipeline specialization failures, or nil
func Queue(slices *ExtractedSlices, params QueueParams) error {
	failed := make(map[SlicePipelineKey]bool)
	var errs []error

	for index, s := range slices.Slices {
		viewEntity, ok := params.Views.DefaultView(s.Camera)
		if !ok {
			continue
		}
		view, ok := params.Views.Get(viewEntity)
		if !ok {
			continue
		}
		transparentPhase, ok := params.Phases.GetMut(view.RetainedView)
		if !ok {
			continue
		}

		key := SlicePipelineKey{HDR: view.HDR, AntiAlias: params.AntiAlias}
		if failed[key] {
			continue
		}
		p, err := params.Pipelines.Specialize(params.Compiler, params.Specializer, key)
		if err != nil {
			failed[key] = true
			errs = append(errs, err)
			continue
		}

		transparentPhase.Add(phase.TransparentUi{
			DrawFunction: params.DrawFunction,
			Pipeline:     p,
			Entity:       s.Entity,
			SortKey:      float32(s.StackIndex) + phase.ZOffsetImage,
			BatchRange:   common.Range{},
			ExtraIndex:   phase.NoExtraIndex,
			Index:        index,
			Indexed:      true,
		})
	}
	return errors.Join(errs...)
}
