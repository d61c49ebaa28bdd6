package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/camera"
	"github.com/Carmen-Shannon/oxy-ui/engine/node"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScene_SpawnAndDespawn(t *testing.T) {
	s := NewScene("ui")
	a := node.NewNode()
	b := node.NewNode()

	ea := s.Spawn(a)
	eb := s.Spawn(b)
	assert.NotEqual(t, ea, eb)
	assert.Equal(t, ea, a.Entity())
	assert.Equal(t, 2, s.Count())

	got, ok := s.Node(eb)
	require.True(t, ok)
	assert.Same(t, b, got)

	assert.True(t, s.Despawn(ea))
	assert.False(t, s.Despawn(ea))
	assert.False(t, a.Entity().IsValid())
	assert.Equal(t, 1, s.Count())
}

func TestScene_EachNodeAscending(t *testing.T) {
	s := NewScene("ui", WithNodes(node.NewNode(), node.NewNode(), node.NewNode()))

	var seen []common.Entity
	s.EachNode(func(n node.Node) bool {
		seen = append(seen, n.Entity())
		return true
	})
	assert.Equal(t, []common.Entity{1, 2, 3}, seen)

	seen = seen[:0]
	s.EachNode(func(n node.Node) bool {
		seen = append(seen, n.Entity())
		return len(seen) < 2
	})
	assert.Len(t, seen, 2)
}

func TestScene_EachNodeToleratesDespawn(t *testing.T) {
	s := NewScene("ui", WithNodes(node.NewNode(), node.NewNode()))
	visited := 0
	s.EachNode(func(n node.Node) bool {
		visited++
		s.Despawn(2)
		return true
	})
	assert.Equal(t, 2, visited)
	assert.Equal(t, 1, s.Count())
}

func TestScene_CamerasByOrder(t *testing.T) {
	late := camera.NewCamera(camera.WithOrder(3))
	early := camera.NewCamera(camera.WithOrder(-2))
	s := NewScene("ui", WithCameras(late, early))

	cams := s.Cameras()
	require.Len(t, cams, 2)
	assert.Same(t, early, cams[0])
	assert.True(t, late.Entity().IsValid())

	s.ResizeCameras(common.UVec2{X: 640, Y: 480})
	assert.Equal(t, common.UVec2{X: 640, Y: 480}, early.Viewport())

	assert.True(t, s.RemoveCamera(late.Entity()))
	assert.Len(t, s.Cameras(), 1)
}

func TestScene_SharedEntitySpace(t *testing.T) {
	s := NewScene("ui")
	ec := s.AddCamera(camera.NewCamera())
	en := s.Spawn(node.NewNode())
	assert.NotEqual(t, ec, en)

	_, ok := s.Camera(ec)
	assert.True(t, ok)
	_, ok = s.Node(ec)
	assert.False(t, ok)

	s.Clear()
	assert.Zero(t, s.Count())
	assert.Empty(t, s.Cameras())
}
