package scene

import (
	"cmp"
	"maps"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/camera"
	"github.com/Carmen-Shannon/oxy-ui/engine/node"
)

// Scene is the main world of a UI: a registry of nodes and the cameras they render to.
// Nodes and cameras share one entity space. Scenes can be hot-swapped via the Active flag.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Spawn registers a node and assigns it a new entity.
	//
	// Parameters:
	//   - n: the node to register
	//
	// Returns:
	//   - common.Entity: the node's entity
	Spawn(n node.Node) common.Entity

	// Despawn removes a node.
	//
	// Parameters:
	//   - e: the node's entity
	//
	// Returns:
	//   - bool: false if no node has that entity
	Despawn(e common.Entity) bool

	// Node retrieves a node by entity.
	//
	// Parameters:
	//   - e: the node's entity
	//
	// Returns:
	//   - node.Node: the node
	//   - bool: false if not found
	Node(e common.Entity) (node.Node, bool)

	// EachNode calls fn for every node in ascending entity order until fn returns false.
	// Nodes spawned or despawned by fn do not affect the current walk.
	//
	// Parameters:
	//   - fn: the visitor
	EachNode(fn func(n node.Node) bool)

	// Count returns the number of nodes in the scene.
	Count() int

	// AddCamera registers a camera and assigns it a new entity.
	//
	// Parameters:
	//   - cam: the camera to register
	//
	// Returns:
	//   - common.Entity: the camera's entity
	AddCamera(cam camera.Camera) common.Entity

	// RemoveCamera removes a camera.
	//
	// Parameters:
	//   - e: the camera's entity
	//
	// Returns:
	//   - bool: false if no camera has that entity
	RemoveCamera(e common.Entity) bool

	// Camera retrieves a camera by entity.
	Camera(e common.Entity) (camera.Camera, bool)

	// Cameras returns all cameras in ascending draw order.
	//
	// Returns:
	//   - []camera.Camera: the cameras
	Cameras() []camera.Camera

	// ResizeCameras sets the viewport of every camera, typically after the window surface is resized.
	//
	// Parameters:
	//   - size: the new viewport size in physical pixels
	ResizeCameras(size common.UVec2)

	// Clear removes all nodes and cameras from the scene.
	Clear()
}

var _ Scene = &scene{}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool
	nextID common.Entity

	nodes   map[common.Entity]node.Node
	cameras map[common.Entity]camera.Camera
}

// NewScene creates an empty, active scene.
//
// Parameters:
//   - name: the scene's identifier
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:      &sync.RWMutex{},
		name:    name,
		active:  true,
		nextID:  1,
		nodes:   make(map[common.Entity]node.Node),
		cameras: make(map[common.Entity]camera.Camera),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Spawn(n node.Node) common.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spawnLocked(n)
}

func (s *scene) spawnLocked(n node.Node) common.Entity {
	e := s.alloc()
	n.SetEntity(e)
	s.nodes[e] = n
	return e
}

func (s *scene) Despawn(e common.Entity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[e]
	if !ok {
		return false
	}
	delete(s.nodes, e)
	n.SetEntity(common.NoEntity)
	return true
}

func (s *scene) Node(e common.Entity) (node.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[e]
	return n, ok
}

func (s *scene) EachNode(fn func(n node.Node) bool) {
	s.mu.RLock()
	ids := slices.Sorted(maps.Keys(s.nodes))
	nodes := make([]node.Node, len(ids))
	for i, id := range ids {
		nodes[i] = s.nodes[id]
	}
	s.mu.RUnlock()

	for _, n := range nodes {
		if !fn(n) {
			return
		}
	}
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

func (s *scene) AddCamera(cam camera.Camera) common.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addCameraLocked(cam)
}

func (s *scene) addCameraLocked(cam camera.Camera) common.Entity {
	e := s.alloc()
	cam.SetEntity(e)
	s.cameras[e] = cam
	return e
}

func (s *scene) RemoveCamera(e common.Entity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cam, ok := s.cameras[e]
	if !ok {
		return false
	}
	delete(s.cameras, e)
	cam.SetEntity(common.NoEntity)
	return true
}

func (s *scene) Camera(e common.Entity) (camera.Camera, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cameras[e]
	return c, ok
}

func (s *scene) Cameras() []camera.Camera {
	s.mu.RLock()
	ids := slices.Sorted(maps.Keys(s.cameras))
	cams := make([]camera.Camera, len(ids))
	for i, id := range ids {
		cams[i] = s.cameras[id]
	}
	s.mu.RUnlock()

	slices.SortStableFunc(cams, func(a, b camera.Camera) int {
		return cmp.Compare(a.Order(), b.Order())
	})
	return cams
}

func (s *scene) ResizeCameras(size common.UVec2) {
	for _, c := range s.Cameras() {
		c.SetViewport(size)
	}
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = make(map[common.Entity]node.Node)
	s.cameras = make(map[common.Entity]camera.Camera)
}

// alloc returns the next entity. Must be called with s.mu held.
func (s *scene) alloc() common.Entity {
	e := s.nextID
	s.nextID++
	return e
}
