package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/slicer"
)

// Report is one interval of frame statistics.
type Report struct {
	FPS float64
	// HeapMB is the live heap, SysMB the memory obtained from the OS.
	HeapMB, SysMB float64
	// AllocRateMB is the heap allocation rate in MB per second.
	AllocRateMB float64
	GCCount     uint32
	// LastPauseUs and MaxPauseUs are GC pauses in microseconds, the max taken over the interval.
	LastPauseUs, MaxPauseUs uint64

	// Slices is the per-frame average of the slicer statistics recorded over the interval.
	Slices slicer.Stats
	// BindGroupsCreated and BindGroupsEvicted are interval totals.
	BindGroupsCreated, BindGroupsEvicted int
}

// Profiler tracks frame rate, memory and slicer statistics. It logs a Report every interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	slices  slicer.Stats
	created int
	evicted int
	last    Report
}

// NewProfiler creates a new Profiler that reports every interval. A non-positive interval reports
// every second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(interval time.Duration) *Profiler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: interval,
	}
}

// Record adds one frame's slicer statistics to the current interval.
func (p *Profiler) Record(stats slicer.Stats) {
	p.slices.Views += stats.Views
	p.slices.Quads += stats.Quads
	p.slices.Batches += stats.Batches
	p.slices.Culled += stats.Culled
	p.slices.Skipped += stats.Skipped
	p.created += stats.BindGroupsCreated
	p.evicted += stats.BindGroupsEvicted
}

// Tick should be called once per frame to track frame timing.
// Logs a Report when the update interval has elapsed.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	return p.tick(time.Now())
}

// Last returns the most recently logged Report.
func (p *Profiler) Last() Report {
	return p.last
}

func (p *Profiler) tick(now time.Time) bool {
	p.frameCount++
	elapsed := now.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	r := Report{
		FPS:               float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:            float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:             float64(p.memStats.Sys) / 1024 / 1024,
		AllocRateMB:       float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:           p.memStats.NumGC,
		Slices:            p.average(),
		BindGroupsCreated: p.created,
		BindGroupsEvicted: p.evicted,
	}

	if gcCount := p.memStats.NumGC; gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 pauses
		r.LastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
		start := p.lastGCCount
		if gcCount-start > 256 {
			start = gcCount - 256
		}
		for i := start; i < gcCount; i++ {
			r.MaxPauseUs = max(r.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	common.Logger().Info("profiler",
		"fps", r.FPS,
		"heap_mb", r.HeapMB,
		"alloc_rate_mb", r.AllocRateMB,
		"gc", r.GCCount,
		"gc_last_us", r.LastPauseUs,
		"gc_max_us", r.MaxPauseUs,
		"sys_mb", r.SysMB,
		"views", r.Slices.Views,
		"quads", r.Slices.Quads,
		"batches", r.Slices.Batches,
		"culled", r.Slices.Culled,
		"bind_groups_created", r.BindGroupsCreated,
		"bind_groups_evicted", r.BindGroupsEvicted,
	)

	p.last = r
	p.frameCount = 0
	p.lastTime = now
	p.lastGCCount = p.memStats.NumGC
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.slices = slicer.Stats{}
	p.created = 0
	p.evicted = 0
	return true
}

func (p *Profiler) average() slicer.Stats {
	n := max(p.frameCount, 1)
	return slicer.Stats{
		Views:   p.slices.Views / n,
		Quads:   p.slices.Quads / n,
		Batches: p.slices.Batches / n,
		Culled:  p.slices.Culled / n,
		Skipped: p.slices.Skipped / n,
	}
}
