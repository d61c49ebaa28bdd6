package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/phase"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/rendertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCamera(e common.Entity, options ...CameraBuilderOption) Camera {
	c := NewCamera(options...)
	c.SetEntity(e)
	return c
}

func TestGPUViewUniform_Size(t *testing.T) {
	var u GPUViewUniform
	assert.Equal(t, GPUViewUniformStride, u.Size())
}

func TestCamera_ProjectionMapsViewportCorners(t *testing.T) {
	c := NewCamera(WithViewport(800, 600))
	m := c.ProjectionMatrix()

	clip := func(x, y float32) (float32, float32) {
		return m[0]*x + m[4]*y + m[12], m[1]*x + m[5]*y + m[13]
	}

	x, y := clip(0, 0)
	assert.InDelta(t, -1, x, 1e-6)
	assert.InDelta(t, 1, y, 1e-6)

	x, y = clip(800, 600)
	assert.InDelta(t, 1, x, 1e-6)
	assert.InDelta(t, -1, y, 1e-6)

	u := c.Uniform()
	assert.Equal(t, [4]float32{0, 0, 800, 600}, u.Viewport)
	assert.Equal(t, float32(1), u.ScaleFactor)
}

func TestExtractViews_OrderAndDefault(t *testing.T) {
	var entities common.EntityAllocator
	front := newTestCamera(10, WithOrder(2))
	back := newTestCamera(11, WithOrder(-1))
	off := newTestCamera(12, WithActive(false))

	views, cams := ExtractViews([]Camera{front, off, back}, &entities)
	require.Equal(t, 2, views.Len())
	assert.Equal(t, common.Entity(11), views.All()[0].Camera)
	assert.Equal(t, []phase.ViewID{11, 10}, views.Retained())

	// without a marked default the highest order camera is used
	defRender, ok := cams.Map(common.NoEntity)
	require.True(t, ok)
	frontRender, ok := cams.Map(10)
	require.True(t, ok)
	assert.Equal(t, frontRender, defRender)

	viewEntity, ok := views.DefaultView(frontRender)
	require.True(t, ok)
	view, ok := views.Get(viewEntity)
	require.True(t, ok)
	assert.Equal(t, common.Entity(10), view.Camera)

	_, ok = cams.Map(12)
	assert.False(t, ok)
}

func TestExtractViews_MarkedDefault(t *testing.T) {
	var entities common.EntityAllocator
	marked := newTestCamera(1, WithOrder(0), WithDefaultUi(true))
	other := newTestCamera(2, WithOrder(5))

	_, cams := ExtractViews([]Camera{marked, other}, &entities)
	defRender, _ := cams.Map(common.NoEntity)
	markedRender, _ := cams.Map(1)
	assert.Equal(t, markedRender, defRender)
}

func TestExtractViews_NoCameras(t *testing.T) {
	var entities common.EntityAllocator
	views, cams := ExtractViews(nil, &entities)
	assert.Zero(t, views.Len())
	_, ok := cams.Map(common.NoEntity)
	assert.False(t, ok)
}

func TestViewUniforms_Prepare(t *testing.T) {
	device := rendertest.NewDevice()
	var entities common.EntityAllocator
	views, _ := ExtractViews([]Camera{newTestCamera(1), newTestCamera(2, WithOrder(1))}, &entities)

	u := NewViewUniforms()
	_, ok := u.Binding()
	assert.False(t, ok)

	require.NoError(t, u.Prepare(views, device))
	assert.Equal(t, uint32(0), views.All()[0].UniformOffset)
	assert.Equal(t, uint32(GPUViewUniformStride), views.All()[1].UniformOffset)

	binding, ok := u.Binding()
	require.True(t, ok)
	assert.Equal(t, uint64(viewUniformBindingSize), binding.Size)
	assert.Len(t, device.Contents(binding.Buffer), 2*GPUViewUniformStride)
	assert.Equal(t, phase.View{Entity: views.All()[1].Entity, Retained: 2, UniformOffset: GPUViewUniformStride}, views.All()[1].DrawView())
}
