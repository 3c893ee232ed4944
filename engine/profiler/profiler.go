package profiler

import (
	"runtime"
	"time"

	"go.uber.org/zap"
)

// ChunkStats is a snapshot of the chunk counters summed over every registered tilemap view.
// Rebuilds, RebuildFailures and Repartitions are cumulative; the profiler reports their change
// per interval.
type ChunkStats struct {
	Chunks          int
	Dirty           int
	Rebuilds        uint64
	RebuildFailures uint64
	Repartitions    uint64
}

// Report is one interval's worth of statistics, as logged by Tick.
type Report struct {
	FPS             float64
	HeapMB          float64
	AllocRateMB     float64
	SysMB           float64
	GCCount         uint32
	LastPauseUs     uint64
	MaxPauseUs      uint64
	Chunks          int
	Dirty           int
	Rebuilds        uint64
	RebuildFailures uint64
	Repartitions    uint64
	// DrawCalls and Indices are averaged per frame over the interval.
	DrawCalls float64
	Indices   float64
}

// Profiler tracks frame rate, memory and chunk rebuild statistics for performance monitoring.
// Logs a Report at a configurable interval.
type Profiler struct {
	log            *zap.Logger
	now            func() time.Time
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	lastChunks     ChunkStats
	drawCalls      int
	indices        int
	last           Report
}

// NewProfiler creates a new Profiler. The update interval defaults to 1 second and the logger
// to a no-op logger.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		log:            zap.NewNop(),
		now:            time.Now,
		updateInterval: time.Second,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// RecordDraws adds one frame's draw counters to the current interval. Call it before Tick.
//
// Parameters:
//   - drawCalls: the draw calls the frame submitted
//   - indices: the indices the frame drew
func (p *Profiler) RecordDraws(drawCalls, indices int) {
	p.drawCalls += drawCalls
	p.indices += indices
}

// Tick should be called once per frame with the current chunk counters.
// Logs a Report when the update interval has elapsed.
//
// Parameters:
//   - chunks: the cumulative chunk counters of every registered view
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(chunks ChunkStats) bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval || elapsed <= 0 {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	r := Report{
		FPS:             float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:          float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:           float64(p.memStats.Sys) / 1024 / 1024,
		AllocRateMB:     float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:         p.memStats.NumGC,
		Chunks:          chunks.Chunks,
		Dirty:           chunks.Dirty,
		Rebuilds:        delta(chunks.Rebuilds, p.lastChunks.Rebuilds),
		RebuildFailures: delta(chunks.RebuildFailures, p.lastChunks.RebuildFailures),
		Repartitions:    delta(chunks.Repartitions, p.lastChunks.Repartitions),
		DrawCalls:       float64(p.drawCalls) / float64(p.frameCount),
		Indices:         float64(p.indices) / float64(p.frameCount),
	}
	r.LastPauseUs, r.MaxPauseUs = p.pauses()

	p.log.Info("profiler",
		zap.Float64("fps", r.FPS),
		zap.Float64("heap_mb", r.HeapMB),
		zap.Float64("alloc_rate_mb_s", r.AllocRateMB),
		zap.Uint32("gc", r.GCCount),
		zap.Uint64("gc_last_us", r.LastPauseUs),
		zap.Uint64("gc_max_us", r.MaxPauseUs),
		zap.Float64("sys_mb", r.SysMB),
		zap.Int("chunks", r.Chunks),
		zap.Int("dirty", r.Dirty),
		zap.Uint64("rebuilds", r.Rebuilds),
		zap.Uint64("rebuild_failures", r.RebuildFailures),
		zap.Uint64("repartitions", r.Repartitions),
		zap.Float64("draw_calls", r.DrawCalls),
		zap.Float64("indices", r.Indices),
	)

	p.frameCount = 0
	p.drawCalls, p.indices = 0, 0
	p.lastTime = currentTime
	p.lastGCCount = p.memStats.NumGC
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.lastChunks = chunks
	p.last = r
	return true
}

// Last returns the most recently logged Report, or the zero Report before the first interval.
//
// Returns:
//   - Report: the last report
func (p *Profiler) Last() Report {
	return p.last
}

// pauses returns the last GC pause and the longest pause since the previous report, in microseconds.
func (p *Profiler) pauses() (lastUs, maxUs uint64) {
	gcCount := p.memStats.NumGC
	if gcCount == 0 {
		return 0, 0
	}
	// PauseNs is a circular buffer of the last 256 pauses
	lastUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
	start := p.lastGCCount
	if gcCount-start > 256 {
		start = gcCount - 256
	}
	for i := start; i < gcCount; i++ {
		maxUs = max(maxUs, p.memStats.PauseNs[i%256]/1000)
	}
	return lastUs, maxUs
}

// delta tolerates counters that went backwards, which happens when a view is removed.
func delta(cur, prev uint64) uint64 {
	if cur < prev {
		return cur
	}
	return cur - prev
}
