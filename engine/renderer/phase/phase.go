package phase

import (
	"cmp"
	"errors"
	"slices"

	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/render_resource"
)

// ViewID is the retained identity of a view. It survives across frames while the view's render
// entity is reallocated every frame.
type ViewID uint64

// Fixed sort key offsets layering the content types drawn for one UI node. A node's items sort by its
// stack index plus the offset of the content type, so sibling content never interleaves.
const (
	ZOffsetBoxShadow         float32 = -0.1
	ZOffsetBackgroundColor   float32 = 0.0
	ZOffsetBorder            float32 = 0.01
	ZOffsetGradient          float32 = 0.02
	ZOffsetBorderGradient    float32 = 0.03
	ZOffsetImage             float32 = 0.04
	ZOffsetMaterial          float32 = 0.05
	ZOffsetText              float32 = 0.06
	ZOffsetTextStrikethrough float32 = 0.07
)

// NoExtraIndex marks a phase item without a per-item dynamic offset or indirect index.
const NoExtraIndex = ^uint32(0)

// TransparentUi is one queued UI draw in a view's transparent phase.
type TransparentUi struct {
	DrawFunction DrawFunctionID
	Pipeline     *render_resource.RenderPipeline
	Entity       common.EntityPair
	SortKey      float32

	// BatchRange starts empty. Batching widens the range of the first item of each batch by one per
	// quad merged into it; items whose range stays empty are drawn as part of an earlier item.
	BatchRange common.Range
	ExtraIndex uint32

	// Index is the position of the extracted item this phase item was queued from.
	Index   int
	Indexed bool
}

// RenderEntity returns the frame-scoped render entity the item draws.
func (t *TransparentUi) RenderEntity() common.Entity {
	return t.Entity.Render
}

// SortedRenderPhase is the ordered list of items one view draws.
type SortedRenderPhase struct {
	Items []TransparentUi
}

// Add appends an item. Items are not ordered until Sort.
func (p *SortedRenderPhase) Add(item TransparentUi) {
	p.Items = append(p.Items, item)
}

// Sort orders items by ascending sort key. Items with equal keys keep their insertion order.
func (p *SortedRenderPhase) Sort() {
	slices.SortStableFunc(p.Items, func(a, b TransparentUi) int {
		return cmp.Compare(a.SortKey, b.SortKey)
	})
}

// Len returns the number of queued items.
func (p *SortedRenderPhase) Len() int {
	return len(p.Items)
}

// Clear drops every item, keeping the storage for the next frame.
func (p *SortedRenderPhase) Clear() {
	clear(p.Items)
	p.Items = p.Items[:0]
}

// Render walks the items in order and runs each item's draw function. An item with a non-empty batch
// range draws for the items it absorbed, so those are skipped; items with an empty range draw nothing.
// A failing draw is logged and reported in the returned error but does not stop the walk.
//
// Parameters:
//   - pass: the render pass draws are recorded into
//   - view: the view the phase belongs to
//   - functions: the draw function registry the items' ids resolve against
//
// Returns:
//   - error: every draw failure joined, or nil
func (p *SortedRenderPhase) Render(pass renderer.TrackedRenderPass, view View, functions *DrawFunctions) error {
	var errs []error
	for i := 0; i < len(p.Items); {
		item := &p.Items[i]
		if item.BatchRange.IsEmpty() {
			i++
			continue
		}

		draw, ok := functions.Get(item.DrawFunction)
		if !ok {
			errs = append(errs, &DrawError{Command: "lookup", Reason: "draw function not registered"})
		} else if err := draw.Draw(pass, view, item); err != nil {
			common.Logger().Warn("ui draw failed", "view", view.Retained, "entity", item.Entity.Render, "error", err)
			errs = append(errs, err)
		}
		i += int(item.BatchRange.Len())
	}
	return errors.Join(errs...)
}
