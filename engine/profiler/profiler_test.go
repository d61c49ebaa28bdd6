package profiler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/slicer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfiler_ReportsPerInterval(t *testing.T) {
	var buf bytes.Buffer
	common.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { common.SetLogger(nil) })

	p := NewProfiler(time.Second)
	start := p.lastTime

	p.Record(slicer.Stats{Views: 1, Quads: 10, Batches: 2, BindGroupsCreated: 3})
	assert.False(t, p.tick(start.Add(500*time.Millisecond)))
	p.Record(slicer.Stats{Views: 1, Quads: 20, Batches: 4, Culled: 2, BindGroupsEvicted: 1})
	require.True(t, p.tick(start.Add(time.Second)))

	r := p.Last()
	assert.InDelta(t, 2.0, r.FPS, 1e-9)
	assert.Equal(t, slicer.Stats{Views: 1, Quads: 15, Batches: 3, Culled: 1}, r.Slices)
	assert.Equal(t, 3, r.BindGroupsCreated)
	assert.Equal(t, 1, r.BindGroupsEvicted)
	assert.Positive(t, r.SysMB)

	out := buf.String()
	assert.Contains(t, out, "msg=profiler")
	assert.Contains(t, out, "quads=15")
	assert.Contains(t, out, "bind_groups_created=3")

	// the interval counters start over
	assert.False(t, p.tick(start.Add(1500*time.Millisecond)))
	require.True(t, p.tick(start.Add(2*time.Second)))
	assert.Equal(t, slicer.Stats{}, p.Last().Slices)
	assert.Zero(t, p.Last().BindGroupsCreated)
}

func TestNewProfiler_DefaultInterval(t *testing.T) {
	p := NewProfiler(0)
	assert.Equal(t, time.Second, p.updateInterval)
	assert.False(t, p.Tick())
}
