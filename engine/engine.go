// Package engine drives the frame loop for a set of tilemap views: grid logic, chunk rebuilds,
// then a single render pass that draws every view under the camera.
package engine

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-tilemap/common"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/camera"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/profiler"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/tilemap_view"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Host is the part of window.Window the engine runs on.
type Host interface {
	SetUpdateCallback(callback func())
	SetResizeCallback(callback func(width, height int))
	ProcessMessages()
	RequestClose()
	Width() int
	Height() int
}

// FrameTarget is the part of renderer.Renderer the engine frames each draw with.
type FrameTarget interface {
	BeginFrame() error
	EndFrame()
	Present()
	Resize(width, height int)
	// DrawStats reports the draw calls and indices of the last submitted frame.
	DrawStats() (drawCalls, indices int)
}

// engine implements the Engine interface.
// Every step of a frame runs on the goroutine that called Run.
type engine struct {
	log *zap.Logger

	host   Host
	target FrameTarget
	camera camera.Camera

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickCallback func(deltaTime float32)

	views map[int]tilemap_view.TilemapView

	frameLimit time.Duration // minimum frame duration; 0 = uncapped
	lastFrame  time.Time

	quitOnce sync.Once
	quitting bool
}

// Engine is the main entry point for the engine.
// It runs the frame loop on the window's goroutine and owns the registered tilemap views.
type Engine interface {
	// Host returns the window the engine runs on.
	//
	// Returns:
	//   - Host: the window, or nil when none was configured
	Host() Host

	// Camera returns the camera whose view-projection every view is drawn under.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickCallback registers the function called at the start of every frame, before any view
	// rebuilds. Use this for grid edits, rotation and input handling.
	//
	// Parameters:
	//   - callback: function receiving the time since the previous frame in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// AddView registers a view at the given z-index key, replacing any view already there.
	// Views are updated and drawn in ascending key order.
	//
	// Parameters:
	//   - key: the z-index determining draw order (lower draws first)
	//   - v: the view to register
	AddView(key int, v tilemap_view.TilemapView)

	// RemoveView unregisters the view at the given key. The view is not detached.
	//
	// Parameters:
	//   - key: the z-index of the view to remove
	RemoveView(key int)

	// View retrieves the view registered at the given key, or nil.
	//
	// Parameters:
	//   - key: the z-index of the view to retrieve
	//
	// Returns:
	//   - tilemap_view.TilemapView: the view at the key, or nil if not found
	View(key int) tilemap_view.TilemapView

	// Views returns a copy of all registered views keyed by z-index.
	//
	// Returns:
	//   - map[int]tilemap_view.TilemapView: a copy of the views map
	Views() map[int]tilemap_view.TilemapView

	// Step runs a single frame: the tick callback, every attached view's Update, then one render
	// pass drawing every attached view in key order, and finally the profiler.
	// A panic inside the frame is logged and turns into Quit.
	Step()

	// Run drives Step from the window message loop. Blocks until the window closes or Quit is called.
	Run()

	// Quit asks the loop to stop after the current frame.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()

	// Shutdown detaches every registered view in key order, continuing past failures.
	//
	// Returns:
	//   - error: the aggregated detach errors
	Shutdown() error
}

var _ Engine = &engine{}

// NewEngine creates a new Engine with the provided options.
// When both a host and a camera are configured the camera viewport follows the window size,
// and window resizes reconfigure the frame target's surface.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		log:   zap.NewNop(),
		views: make(map[int]tilemap_view.TilemapView),
	}
	for _, opt := range options {
		opt(e)
	}
	if e.camera == nil {
		e.camera = camera.NewCamera()
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.log))
	}

	if e.host != nil {
		e.camera.SetViewport(e.host.Width(), e.host.Height())
		e.host.SetResizeCallback(e.resize)
	}
	return e
}

func (e *engine) Host() Host {
	return e.host
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.frameLimit = 0
		return
	}
	e.frameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) AddView(key int, v tilemap_view.TilemapView) {
	if v == nil {
		panic("engine: AddView requires a non-nil TilemapView")
	}
	e.views[key] = v
}

func (e *engine) RemoveView(key int) {
	delete(e.views, key)
}

func (e *engine) View(key int) tilemap_view.TilemapView {
	return e.views[key]
}

func (e *engine) Views() map[int]tilemap_view.TilemapView {
	cp := make(map[int]tilemap_view.TilemapView, len(e.views))
	for k, v := range e.views {
		cp[k] = v
	}
	return cp
}

func (e *engine) Run() {
	if e.host == nil {
		panic("engine: Run requires a Host")
	}
	e.lastFrame = time.Now()
	e.host.SetUpdateCallback(e.Step)
	e.host.ProcessMessages()
	e.host.SetUpdateCallback(nil)
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		e.quitting = true
		if e.host != nil {
			e.host.RequestClose()
		}
	})
}

func (e *engine) Shutdown() error {
	var errs error
	for _, k := range e.sortedKeys() {
		if err := e.views[k].Detach(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("view %d: %w", k, err))
		}
	}
	return errs
}

func (e *engine) Step() {
	if e.quitting {
		return
	}
	// Recover from panics inside the frame so the window and GPU objects can still be released.
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("frame recovered from panic", zap.Any("panic", r))
			e.Quit()
		}
	}()

	now := time.Now()
	if e.lastFrame.IsZero() {
		e.lastFrame = now
	}
	dt := float32(now.Sub(e.lastFrame).Seconds())
	e.lastFrame = now

	if e.tickCallback != nil {
		e.tickCallback(dt)
	}

	keys := e.sortedKeys()
	for _, k := range keys {
		v := e.views[k]
		if !v.Attached() {
			continue
		}
		if err := v.Update(); err != nil {
			e.log.Warn("view update failed", zap.Int("view", k), zap.Error(err))
		}
	}

	e.render(keys)

	if e.profilingEnabled {
		e.profiler.Tick(e.chunkStats())
	}

	if e.frameLimit > 0 {
		if remaining := e.frameLimit - time.Since(now); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

// render draws every attached view in a single render pass.
func (e *engine) render(keys []int) {
	if e.target == nil {
		return
	}
	if err := e.target.BeginFrame(); err != nil {
		// the surface is lost or minimized; the renderer reconfigures it on a later frame
		e.log.Debug("begin frame skipped", zap.Error(err))
		return
	}

	vp := common.IdentityMat4()
	if e.camera != nil {
		vp = e.camera.ViewProjection()
	}
	for _, k := range keys {
		v := e.views[k]
		if !v.Attached() {
			continue
		}
		if err := v.Draw(vp); err != nil {
			e.log.Warn("view draw failed", zap.Int("view", k), zap.Error(err))
		}
	}

	e.target.EndFrame()
	e.target.Present()
	if e.profilingEnabled {
		e.profiler.RecordDraws(e.target.DrawStats())
	}
}

func (e *engine) resize(width, height int) {
	if e.target != nil {
		e.target.Resize(width, height)
	}
	e.camera.SetViewport(width, height)
}

func (e *engine) chunkStats() profiler.ChunkStats {
	var cs profiler.ChunkStats
	for _, v := range e.views {
		s := v.Stats()
		cs.Chunks += s.Chunks
		cs.Dirty += s.Dirty
		cs.Rebuilds += s.Rebuilds
		cs.RebuildFailures += s.RebuildFailures
		cs.Repartitions += s.Repartitions
	}
	return cs
}

func (e *engine) sortedKeys() []int {
	keys := make([]int, 0, len(e.views))
	for k := range e.views {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
