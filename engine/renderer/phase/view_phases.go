package phase

import (
	"maps"
	"slices"
	"sync"
)

// ViewSortedRenderPhases holds one transparent phase per retained view. Phases are kept across frames
// and cleared rather than recreated.
type ViewSortedRenderPhases struct {
	mu     *sync.Mutex
	phases map[ViewID]*SortedRenderPhase
}

// NewViewSortedRenderPhases creates an empty set of view phases.
func NewViewSortedRenderPhases() *ViewSortedRenderPhases {
	return &ViewSortedRenderPhases{
		mu:     &sync.Mutex{},
		phases: make(map[ViewID]*SortedRenderPhase),
	}
}

// Insert makes sure view has a phase and empties it for a new frame.
//
// Parameters:
//   - view: the retained view identity
//
// Returns:
//   - *SortedRenderPhase: the cleared phase
func (v *ViewSortedRenderPhases) Insert(view ViewID) *SortedRenderPhase {
	v.mu.Lock()
	defer v.mu.Unlock()

	p, ok := v.phases[view]
	if !ok {
		p = &SortedRenderPhase{}
		v.phases[view] = p
	}
	p.Clear()
	return p
}

// GetMut returns the phase of view, or false when the view has none this frame.
func (v *ViewSortedRenderPhases) GetMut(view ViewID) (*SortedRenderPhase, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	p, ok := v.phases[view]
	return p, ok
}

// Views returns the views that have a phase, in ascending order.
func (v *ViewSortedRenderPhases) Views() []ViewID {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Sorted(maps.Keys(v.phases))
}

// Retain drops the phases of every view not in live.
func (v *ViewSortedRenderPhases) Retain(live []ViewID) {
	v.mu.Lock()
	defer v.mu.Unlock()
	maps.DeleteFunc(v.phases, func(id ViewID, _ *SortedRenderPhase) bool {
		return !slices.Contains(live, id)
	})
}

// SortAll sorts every phase.
func (v *ViewSortedRenderPhases) SortAll() {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, p := range v.phases {
		p.Sort()
	}
}

// Len returns the number of views with a phase.
func (v *ViewSortedRenderPhases) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.phases)
}
