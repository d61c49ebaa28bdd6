package camera

import (
	"cmp"
	"slices"

	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/phase"
)

// ExtractedView is the render world copy of one camera view.
type ExtractedView struct {
	// Entity is the frame-scoped render entity of the view.
	Entity common.Entity
	// Camera is the scene entity of the camera the view was extracted from.
	Camera common.Entity
	// RetainedView identifies the view across frames.
	RetainedView phase.ViewID
	HDR          bool
	Viewport     common.UVec2
	Uniform      GPUViewUniform
	// UniformOffset is the dynamic offset of the view's uniform, set by ViewUniforms.Prepare.
	UniformOffset uint32
}

// DrawView returns what draw commands need to know about the view.
func (v *ExtractedView) DrawView() phase.View {
	return phase.View{Entity: v.Entity, Retained: v.RetainedView, UniformOffset: v.UniformOffset}
}

// Views holds the views extracted for one frame, in camera order.
type Views struct {
	views []*ExtractedView
	byID  map[common.Entity]*ExtractedView
	// uiViews maps a camera render entity to the entity of its default UI view.
	uiViews map[common.Entity]common.Entity
}

// NewViews returns an empty set of views.
func NewViews() *Views {
	return &Views{
		byID:    make(map[common.Entity]*ExtractedView),
		uiViews: make(map[common.Entity]common.Entity),
	}
}

// Add registers a view as the default UI view of the camera render entity cameraRender.
//
// Parameters:
//   - cameraRender: the render entity of the view's camera
//   - view: the extracted view
func (v *Views) Add(cameraRender common.Entity, view *ExtractedView) {
	v.views = append(v.views, view)
	v.byID[view.Entity] = view
	v.uiViews[cameraRender] = view.Entity
}

// Get returns the view with render entity e.
func (v *Views) Get(e common.Entity) (*ExtractedView, bool) {
	view, ok := v.byID[e]
	return view, ok
}

// DefaultView returns the default UI view entity of a camera render entity.
//
// Parameters:
//   - cameraRender: the render entity of the camera
//
// Returns:
//   - common.Entity: the view entity
//   - bool: false if the camera has no UI view this frame
func (v *Views) DefaultView(cameraRender common.Entity) (common.Entity, bool) {
	e, ok := v.uiViews[cameraRender]
	return e, ok
}

// All returns the views in camera order.
func (v *Views) All() []*ExtractedView {
	return v.views
}

// Retained returns the retained ids of all views.
func (v *Views) Retained() []phase.ViewID {
	ids := make([]phase.ViewID, len(v.views))
	for i, view := range v.views {
		ids[i] = view.RetainedView
	}
	return ids
}

// Len returns the number of views.
func (v *Views) Len() int {
	return len(v.views)
}

// UiCameraMap resolves the camera a node targets to the render entity of that camera for the current
// frame. Nodes without a target camera resolve to the default UI camera.
type UiCameraMap struct {
	cameras       map[common.Entity]common.Entity
	defaultCamera common.Entity
}

// Map returns the camera render entity for a node's target camera.
//
// Parameters:
//   - target: the node's target camera, or common.NoEntity for the default camera
//
// Returns:
//   - common.Entity: the camera render entity
//   - bool: false if the camera is not rendered this frame or there is no default camera
func (m UiCameraMap) Map(target common.Entity) (common.Entity, bool) {
	if !target.IsValid() {
		target = m.defaultCamera
	}
	e, ok := m.cameras[target]
	return e, ok
}

// ExtractViews extracts one view per active camera. The default UI camera is the first camera marked
// with IsDefaultUi, or else the active camera with the highest order.
//
// Parameters:
//   - cams: the scene cameras
//   - entities: the allocator for frame-scoped render entities
//
// Returns:
//   - *Views: the extracted views in camera order
//   - UiCameraMap: the mapping from scene camera to camera render entity
func ExtractViews(cams []Camera, entities *common.EntityAllocator) (*Views, UiCameraMap) {
	active := make([]Camera, 0, len(cams))
	for _, c := range cams {
		if c.Active() && c.Entity().IsValid() {
			active = append(active, c)
		}
	}
	slices.SortStableFunc(active, func(a, b Camera) int {
		return cmp.Compare(a.Order(), b.Order())
	})

	views := NewViews()
	m := UiCameraMap{cameras: make(map[common.Entity]common.Entity, len(active))}
	for _, c := range active {
		cameraRender := entities.Alloc()
		view := &ExtractedView{
			Entity:       entities.Alloc(),
			Camera:       c.Entity(),
			RetainedView: phase.ViewID(c.Entity()),
			HDR:          c.HDR(),
			Viewport:     c.Viewport(),
			Uniform:      c.Uniform(),
		}
		views.Add(cameraRender, view)
		m.cameras[c.Entity()] = cameraRender

		if c.IsDefaultUi() && !m.defaultCamera.IsValid() {
			m.defaultCamera = c.Entity()
		}
	}
	if !m.defaultCamera.IsValid() && len(active) > 0 {
		m.defaultCamera = active[len(active)-1].Entity()
	}
	return views, m
}
