package phase

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/render_resource"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/rendertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDraw struct {
	drawn []common.Entity
	err   error
}

func (d *recordingDraw) Draw(_ renderer.TrackedRenderPass, _ View, item *TransparentUi) error {
	d.drawn = append(d.drawn, item.Entity.Render)
	return d.err
}

func item(render common.Entity, key float32, batch uint32) TransparentUi {
	return TransparentUi{
		Entity:     common.EntityPair{Render: render},
		SortKey:    key,
		BatchRange: common.Range{End: batch},
		ExtraIndex: NoExtraIndex,
		Indexed:    true,
	}
}

func TestSortedRenderPhase_SortIsStable(t *testing.T) {
	var p SortedRenderPhase
	p.Add(item(1, 2+ZOffsetImage, 0))
	p.Add(item(2, 0+ZOffsetImage, 0))
	p.Add(item(3, 2+ZOffsetImage, 0))
	p.Add(item(4, 1+ZOffsetImage, 0))

	p.Sort()

	var order []common.Entity
	for _, it := range p.Items {
		order = append(order, it.Entity.Render)
	}
	assert.Equal(t, []common.Entity{2, 4, 1, 3}, order)

	p.Clear()
	assert.Zero(t, p.Len())
}

func TestSortedRenderPhase_RenderSkipsAbsorbedItems(t *testing.T) {
	fns := NewDrawFunctions()
	draw := &recordingDraw{}
	id := fns.Add("slices", draw)

	var p SortedRenderPhase
	for _, it := range []TransparentUi{
		item(1, 0, 3), // batch of three quads
		item(2, 1, 0),
		item(3, 2, 0),
		item(4, 3, 0), // culled, draws nothing
		item(5, 4, 1),
	} {
		it.DrawFunction = id
		p.Add(it)
	}

	require.NoError(t, p.Render(&rendertest.Pass{}, View{}, fns))
	assert.Equal(t, []common.Entity{1, 5}, draw.drawn)
}

func TestSortedRenderPhase_RenderContinuesAfterFailure(t *testing.T) {
	fns := NewDrawFunctions()
	failing := fns.Add("failing", &recordingDraw{err: &DrawError{Command: "SetView", Reason: "view bind group not available"}})
	ok := &recordingDraw{}
	okID := fns.Add("ok", ok)

	var p SortedRenderPhase
	a := item(1, 0, 1)
	a.DrawFunction = failing
	b := item(2, 1, 1)
	b.DrawFunction = okID
	c := item(3, 2, 1)
	c.DrawFunction = DrawFunctionID(42)
	p.Add(a)
	p.Add(b)
	p.Add(c)

	err := p.Render(&rendertest.Pass{}, View{}, fns)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDrawFailure))
	assert.Contains(t, err.Error(), "view bind group not available")
	assert.Contains(t, err.Error(), "draw function not registered")
	assert.Equal(t, []common.Entity{2}, ok.drawn)
}

func TestRenderCommands_Results(t *testing.T) {
	var ran []string
	step := func(name string, result RenderCommandResult) RenderCommand {
		return NewRenderCommand(name, func(View, *TransparentUi, renderer.TrackedRenderPass) RenderCommandResult {
			ran = append(ran, name)
			return result
		})
	}
	it := item(1, 0, 1)

	err := RenderCommands{step("a", Success), step("b", Skip), step("c", Success)}.Draw(&rendertest.Pass{}, View{}, &it)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ran)

	ran = nil
	err = RenderCommands{step("a", Success), step("b", Failure("missing vertices")), step("c", Success)}.Draw(&rendertest.Pass{}, View{}, &it)
	var drawErr *DrawError
	require.ErrorAs(t, err, &drawErr)
	assert.Equal(t, "b", drawErr.Command)
	assert.Equal(t, "missing vertices", drawErr.Reason)
	assert.ErrorIs(t, err, ErrDrawFailure)
	assert.Equal(t, []string{"a", "b"}, ran)
}

func TestSetItemPipeline(t *testing.T) {
	pass := &rendertest.Pass{}
	it := item(1, 0, 1)

	assert.Equal(t, Skip, SetItemPipeline().Render(View{}, &it, pass))
	assert.Empty(t, pass.Commands)

	it.Pipeline = render_resource.NewRenderPipeline("ui", nil)
	assert.Equal(t, Success, SetItemPipeline().Render(View{}, &it, pass))
	require.Len(t, pass.Commands, 1)
	assert.Equal(t, it.Pipeline.ID(), pass.Commands[0].ResourceID)
}

func TestDrawFunctions_AddReplacesByName(t *testing.T) {
	fns := NewDrawFunctions()
	first := fns.Add("a", &recordingDraw{})
	second := fns.Add("b", &recordingDraw{})
	replacement := &recordingDraw{}
	again := fns.Add("a", replacement)

	assert.Equal(t, first, again)
	assert.NotEqual(t, first, second)
	d, ok := fns.Get(first)
	require.True(t, ok)
	assert.Same(t, replacement, d)

	id, ok := fns.ID("b")
	assert.True(t, ok)
	assert.Equal(t, second, id)
	_, ok = fns.ID("missing")
	assert.False(t, ok)
}

func TestViewSortedRenderPhases(t *testing.T) {
	phases := NewViewSortedRenderPhases()
	p := phases.Insert(7)
	p.Add(item(1, 0, 0))
	phases.Insert(3)

	_, ok := phases.GetMut(9)
	assert.False(t, ok)
	got, ok := phases.GetMut(7)
	require.True(t, ok)
	assert.Equal(t, 1, got.Len())
	assert.Equal(t, []ViewID{3, 7}, phases.Views())

	// reinserting clears for the new frame
	assert.Zero(t, phases.Insert(7).Len())

	phases.Retain([]ViewID{7})
	assert.Equal(t, []ViewID{7}, phases.Views())
	assert.Equal(t, 1, phases.Len())
}
