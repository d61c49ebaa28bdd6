package pipeline

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/render_resource"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testKey struct {
	HDR       bool
	AntiAlias bool
}

type countingCompiler struct {
	calls atomic.Int32
	delay time.Duration
	err   error
}

func (c *countingCompiler) CreateRenderPipeline(desc RenderPipelineDescriptor) (*render_resource.RenderPipeline, error) {
	c.calls.Add(1)
	time.Sleep(c.delay)
	if c.err != nil {
		return nil, c.err
	}
	return render_resource.NewRenderPipeline(desc.Label(), nil), nil
}

func testSpecializer() SpecializerFunc[testKey] {
	return func(key testKey) (RenderPipelineDescriptor, error) {
		format := wgpu.TextureFormatRGBA8UnormSrgb
		if key.HDR {
			format = wgpu.TextureFormatRGBA16Float
		}
		return NewRenderPipelineDescriptor("test", nil, nil, WithFormat(format)), nil
	}
}

func TestSpecialize_MemoizesByKey(t *testing.T) {
	cache := NewSpecializedRenderPipelines[testKey]()
	compiler := &countingCompiler{}

	a, err := cache.Specialize(compiler, testSpecializer(), testKey{HDR: true})
	require.NoError(t, err)
	b, err := cache.Specialize(compiler, testSpecializer(), testKey{HDR: true})
	require.NoError(t, err)
	c, err := cache.Specialize(compiler, testSpecializer(), testKey{HDR: false})
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.NotEqual(t, a.ID(), c.ID())
	assert.Equal(t, int32(2), compiler.calls.Load())
	assert.Equal(t, 2, cache.Len())
}

func TestSpecialize_ConcurrentSameKeyCompilesOnce(t *testing.T) {
	cache := NewSpecializedRenderPipelines[testKey]()
	compiler := &countingCompiler{delay: 20 * time.Millisecond}

	const workers = 16
	results := make([]*render_resource.RenderPipeline, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := cache.Specialize(compiler, testSpecializer(), testKey{AntiAlias: true})
			assert.NoError(t, err)
			results[i] = p
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), compiler.calls.Load())
	for _, p := range results {
		assert.Same(t, results[0], p)
	}
}

func TestSpecialize_ErrorsAreNotCached(t *testing.T) {
	cache := NewSpecializedRenderPipelines[testKey]()
	compiler := &countingCompiler{err: errors.New("device lost")}

	_, err := cache.Specialize(compiler, testSpecializer(), testKey{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device lost")
	assert.Equal(t, 0, cache.Len())

	compiler.err = nil
	p, err := cache.Specialize(compiler, testSpecializer(), testKey{})
	require.NoError(t, err)
	assert.NotNil(t, p)
	assert.Equal(t, int32(2), compiler.calls.Load())

	cache.Release()
	assert.Equal(t, 0, cache.Len())
}

func TestDescriptorDefaults(t *testing.T) {
	d := NewRenderPipelineDescriptor("ui", nil, nil,
		WithSampleCount(0),
		WithDepthTestEnabled(false),
		WithDepthWriteEnabled(false),
	)

	assert.Equal(t, uint32(1), d.SampleCount())
	ds := d.DepthStencil()
	require.NotNil(t, ds)
	assert.Equal(t, wgpu.CompareFunctionAlways, ds.DepthCompare)
	assert.False(t, ds.DepthWriteEnabled)
	assert.NotNil(t, d.ColorTarget().Blend)

	opaque := NewRenderPipelineDescriptor("opaque", nil, nil, WithBlendState(nil), WithDepthFormat(wgpu.TextureFormatUndefined))
	assert.Nil(t, opaque.ColorTarget().Blend)
	assert.Nil(t, opaque.DepthStencil())
	assert.Empty(t, opaque.BindGroupLayoutDescriptors())
}

func TestMergeBindGroupLayouts(t *testing.T) {
	vertex := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageVertex},
		}},
	}
	fragment := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 1, Visibility: wgpu.ShaderStageFragment},
			{Binding: 0, Visibility: wgpu.ShaderStageFragment},
		}},
		2: {Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageFragment},
		}},
	}

	merged := MergeBindGroupLayouts(vertex, fragment)
	require.Len(t, merged, 2)
	require.Len(t, merged[0].Entries, 2)
	assert.Equal(t, uint32(0), merged[0].Entries[0].Binding)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, merged[0].Entries[0].Visibility)
	assert.Equal(t, uint32(1), merged[0].Entries[1].Binding)
	assert.Equal(t, 3, GroupCount(merged))

	// inputs are not mutated
	assert.Equal(t, wgpu.ShaderStageVertex, vertex[0].Entries[0].Visibility)
}
