package renderer

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/render_resource"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/rendertest"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ RenderDevice = rendertest.NewDevice()
var _ TrackedRenderPass = &rendertest.Pass{}

type encodedCall struct {
	op         string
	id         render_resource.ResourceID
	index      uint32
	offsets    []uint32
	count      uint32
	first      uint32
	baseVertex int32
}

type recordingEncoder struct {
	calls []encodedCall
}

func (e *recordingEncoder) setPipeline(p *render_resource.RenderPipeline) {
	e.calls = append(e.calls, encodedCall{op: "pipeline", id: p.ID()})
}

func (e *recordingEncoder) setBindGroup(index uint32, bg *render_resource.BindGroup, dynamicOffsets []uint32) {
	e.calls = append(e.calls, encodedCall{op: "bind", id: bg.ID(), index: index, offsets: dynamicOffsets})
}

func (e *recordingEncoder) setVertexBuffer(slot uint32, buf *render_resource.Buffer) {
	e.calls = append(e.calls, encodedCall{op: "vertex", id: buf.ID(), index: slot})
}

func (e *recordingEncoder) setIndexBuffer(buf *render_resource.Buffer, format wgpu.IndexFormat) {
	e.calls = append(e.calls, encodedCall{op: "index", id: buf.ID()})
}

func (e *recordingEncoder) drawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	e.calls = append(e.calls, encodedCall{op: "draw", count: indexCount, first: firstIndex, baseVertex: baseVertex})
}

func (e *recordingEncoder) ops() []string {
	out := make([]string, len(e.calls))
	for i, c := range e.calls {
		out[i] = c.op
	}
	return out
}

func TestTrackedRenderPass_ElidesRedundantState(t *testing.T) {
	enc := &recordingEncoder{}
	pass := newTrackedRenderPass(enc)

	p := render_resource.NewRenderPipeline("ui", nil)
	view := render_resource.NewBindGroup("view", nil, nil)
	image := render_resource.NewBindGroup("image", nil, nil)
	vertices := render_resource.NewBuffer("vertices", 100, wgpu.BufferUsageVertex, nil)
	indices := render_resource.NewBuffer("indices", 24, wgpu.BufferUsageIndex, nil)

	for range 2 {
		pass.SetRenderPipeline(p)
		pass.SetBindGroup(0, view, 256)
		pass.SetBindGroup(1, image)
		pass.SetVertexBuffer(0, vertices)
		pass.SetIndexBuffer(indices, wgpu.IndexFormatUint32)
		pass.DrawIndexed(common.Range{Start: 0, End: 6}, 0, common.Range{Start: 0, End: 1})
	}

	assert.Equal(t, []string{"pipeline", "bind", "bind", "vertex", "index", "draw", "draw"}, enc.ops())
	assert.Equal(t, []uint32{256}, enc.calls[1].offsets)
}

func TestTrackedRenderPass_RebindsOnChange(t *testing.T) {
	enc := &recordingEncoder{}
	pass := newTrackedRenderPass(enc)

	view := render_resource.NewBindGroup("view", nil, nil)
	a := render_resource.NewBindGroup("a", nil, nil)
	b := render_resource.NewBindGroup("b", nil, nil)

	pass.SetBindGroup(0, view, 0)
	pass.SetBindGroup(0, view, 256)
	pass.SetBindGroup(1, a)
	pass.SetBindGroup(1, b)
	pass.SetBindGroup(1, b)

	require.Len(t, enc.calls, 4)
	assert.Equal(t, []uint32{256}, enc.calls[1].offsets)
	assert.Equal(t, b.ID(), enc.calls[3].id)
}

func TestTrackedRenderPass_SkipsEmptyDrawsAndNilHandles(t *testing.T) {
	enc := &recordingEncoder{}
	pass := newTrackedRenderPass(enc)

	pass.SetRenderPipeline(nil)
	pass.SetBindGroup(0, nil)
	pass.SetVertexBuffer(0, nil)
	pass.SetIndexBuffer(nil, wgpu.IndexFormatUint32)
	pass.DrawIndexed(common.Range{Start: 6, End: 6}, 0, common.Range{Start: 0, End: 1})
	pass.DrawIndexed(common.Range{Start: 0, End: 6}, 0, common.Range{})
	assert.Empty(t, enc.calls)

	pass.DrawIndexed(common.Range{Start: 6, End: 12}, 4, common.Range{Start: 0, End: 1})
	require.Len(t, enc.calls, 1)
	assert.Equal(t, uint32(6), enc.calls[0].count)
	assert.Equal(t, uint32(6), enc.calls[0].first)
	assert.Equal(t, int32(4), enc.calls[0].baseVertex)
}

func TestGrowCapacity(t *testing.T) {
	tests := []struct {
		name             string
		current, needed  int
		expectedCapacity int
	}{
		{"empty takes needed", 0, 10, 10},
		{"fits", 64, 10, 64},
		{"doubles below threshold", 64, 65, 128},
		{"doubles repeatedly", 16, 100, 128},
		{"quarter growth above threshold", 512, 513, 640},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedCapacity, growCapacity(tt.current, tt.needed))
		})
	}
}

func TestRawBufferVec_WriteGrowsAndReuses(t *testing.T) {
	device := rendertest.NewDevice()
	vec := NewRawBufferVec[uint32]("indices", wgpu.BufferUsageIndex)

	// nothing to write, no buffer
	require.NoError(t, vec.Write(device))
	assert.Nil(t, vec.Buffer())

	for i := range uint32(6) {
		assert.Equal(t, i, vec.Push(i))
	}
	require.NoError(t, vec.Write(device))
	require.NotNil(t, vec.Buffer())
	assert.Equal(t, 6, vec.Capacity())
	assert.Equal(t, uint64(24), vec.Buffer().Size())
	assert.Equal(t, wgpu.BufferUsageIndex|wgpu.BufferUsageCopyDst, vec.Buffer().Usage())

	contents := device.Contents(vec.Buffer())
	require.Len(t, contents, 24)
	assert.Equal(t, uint32(5), binary.LittleEndian.Uint32(contents[20:]))

	// same size next frame reuses the buffer
	first := vec.Buffer()
	vec.Clear()
	vec.Extend(6, 7, 8, 9, 10, 11)
	require.NoError(t, vec.Write(device))
	assert.Same(t, first, vec.Buffer())

	vec.Push(12)
	require.NoError(t, vec.Write(device))
	assert.NotSame(t, first, vec.Buffer())
	assert.Equal(t, 12, vec.Capacity())
	assert.Len(t, device.Buffers, 2)

	vec.Release()
	assert.Nil(t, vec.Buffer())
	assert.True(t, vec.IsEmpty())
}

func TestRawBufferVec_PadsToWord(t *testing.T) {
	device := rendertest.NewDevice()
	vec := NewRawBufferVec[[3]byte]("odd", wgpu.BufferUsageVertex)
	vec.Push([3]byte{1, 2, 3})

	require.NoError(t, vec.Write(device))
	assert.Equal(t, uint64(4), vec.Buffer().Size())
	assert.Equal(t, []byte{1, 2, 3, 0}, device.Contents(vec.Buffer()))
}

func TestRawBufferVec_ReserveError(t *testing.T) {
	device := rendertest.NewDevice()
	device.FailBuffers = errors.New("out of memory")
	vec := NewRawBufferVec[float32]("vertices", wgpu.BufferUsageVertex)
	vec.Push(1)

	err := vec.Write(device)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vertices")
	assert.Zero(t, vec.Capacity())
}

func TestWriteBuffers_SkipsUnboundTargets(t *testing.T) {
	device := rendertest.NewDevice()
	buf, err := device.CreateBuffer("uniform", 16, wgpu.BufferUsageUniform)
	require.NoError(t, err)
	provider := bind_group_provider.NewBindGroupProvider("view", bind_group_provider.WithBuffer(0, buf))

	writeBuffers(device, []bind_group_provider.BufferWrite{
		{Provider: provider, Binding: 0, Offset: 4, Data: []byte{9, 9, 9, 9}},
		{Provider: provider, Binding: 3, Data: []byte{1}},
		{Binding: 0, Data: []byte{1}},
	})

	assert.Equal(t, []byte{0, 0, 0, 0, 9, 9, 9, 9}, device.Contents(buf))
	assert.Len(t, device.Writes, 1)
}

func TestMSAASampleCount_AntiAliased(t *testing.T) {
	assert.False(t, MSAAOff.AntiAliased())
	assert.True(t, MSAA4x.AntiAliased())
}
