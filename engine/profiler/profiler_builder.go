package profiler

import (
	"time"

	"go.uber.org/zap"
)

// ProfilerBuilderOption is a functional option for configuring a Profiler during construction.
type ProfilerBuilderOption func(*Profiler)

// WithLogger sets the logger reports are written to.
//
// Parameters:
//   - log: the logger to use (nil keeps the no-op default)
//
// Returns:
//   - ProfilerBuilderOption: functional option to set the logger
func WithLogger(log *zap.Logger) ProfilerBuilderOption {
	return func(p *Profiler) {
		if log != nil {
			p.log = log
		}
	}
}

// WithInterval sets how often a report is logged. Non-positive values are ignored.
//
// Parameters:
//   - d: the report interval
//
// Returns:
//   - ProfilerBuilderOption: functional option to set the interval
func WithInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}
