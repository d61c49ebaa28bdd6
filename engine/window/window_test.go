package window

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
)

func TestBuilderOptions(t *testing.T) {
	w := &engineWindow{}
	for _, opt := range []WindowBuilderOption{
		WithTitle("panels"),
		WithWidth(800),
		WithHeight(600),
		WithMinSize(200, 100),
		WithMaxSize(1600, 0),
		WithResizable(true),
	} {
		opt(w)
	}

	assert.Equal(t, "panels", w.title)
	assert.Equal(t, 800, w.Width())
	assert.Equal(t, 600, w.Height())
	assert.Equal(t, [4]int{200, 100, 1600, 0}, [4]int{w.minWidth, w.minHeight, w.maxWidth, w.maxHeight})
	assert.True(t, w.resizable)
}

func TestPlatformHints(t *testing.T) {
	assert.Equal(t, glfw.DontCare, sizeLimit(0))
	assert.Equal(t, glfw.DontCare, sizeLimit(-5))
	assert.Equal(t, 640, sizeLimit(640))
	assert.Equal(t, glfw.True, boolHint(true))
	assert.Equal(t, glfw.False, boolHint(false))
}

func TestUncreatedWindow(t *testing.T) {
	w := &engineWindow{scale: 1}
	assert.False(t, w.IsRunning())
	assert.Error(t, w.Close())
	assert.Equal(t, float32(1), w.ScaleFactor())

	// ProcessMessages returns immediately when there is no platform window.
	called := false
	w.SetUpdateCallback(func() { called = true })
	w.ProcessMessages()
	assert.False(t, called)
}
