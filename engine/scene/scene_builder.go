package scene

import (
	"github.com/Carmen-Shannon/oxy-ui/engine/camera"
	"github.com/Carmen-Shannon/oxy-ui/engine/node"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithNodes spawns initial nodes into the scene in the given order.
//
// Parameters:
//   - nodes: the nodes to spawn
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithNodes(nodes ...node.Node) SceneBuilderOption {
	return func(s *scene) {
		for _, n := range nodes {
			s.spawnLocked(n)
		}
	}
}

// WithCameras registers initial cameras with the scene.
//
// Parameters:
//   - cams: the cameras to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCameras(cams ...camera.Camera) SceneBuilderOption {
	return func(s *scene) {
		for _, c := range cams {
			s.addCameraLocked(c)
		}
	}
}
