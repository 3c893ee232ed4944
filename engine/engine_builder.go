package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-tilemap/engine/camera"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/profiler"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/tilemap_view"
	"go.uber.org/zap"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithLogger sets the logger for frame diagnostics. The default profiler logs through it too.
//
// Parameters:
//   - log: the logger to use (nil keeps the no-op default)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogger(log *zap.Logger) EngineBuilderOption {
	return func(e *engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler replaces the default profiler.
//
// Parameters:
//   - p: the profiler to tick each frame
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithHost sets the window the engine loop runs on.
//
// Parameters:
//   - h: a window, typically a window.Window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithHost(h Host) EngineBuilderOption {
	return func(e *engine) {
		e.host = h
	}
}

// WithFrameTarget sets the renderer each frame begins, ends and presents.
//
// Parameters:
//   - t: a frame target, typically a renderer.Renderer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFrameTarget(t FrameTarget) EngineBuilderOption {
	return func(e *engine) {
		e.target = t
	}
}

// WithCamera sets the camera views are drawn under. Defaults to a camera at the origin with a zoom of 1.
//
// Parameters:
//   - c: the camera
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCamera(c camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.camera = c
	}
}

// WithView registers a view at the given z-index key during engine construction.
//
// Parameters:
//   - key: the z-index determining draw order (lower draws first)
//   - v: the view to register
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithView(key int, v tilemap_view.TilemapView) EngineBuilderOption {
	return func(e *engine) {
		if v != nil {
			e.views[key] = v
		}
	}
}

// WithRenderFrameLimit sets an optional frame rate cap in frames per second.
// Pass 0 to uncap the loop (default).
//
// Parameters:
//   - fps: maximum frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.frameLimit = 0
			return
		}
		e.frameLimit = time.Duration(float64(time.Second) / fps)
	}
}
