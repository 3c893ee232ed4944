package tilemap_view

import "go.uber.org/zap"

// TilemapViewBuilderOption is a functional option for configuring a TilemapView during construction.
type TilemapViewBuilderOption func(*tilemapView)

// WithLogger sets the logger used for repartition, rebuild, draw and disposal diagnostics.
//
// Parameters:
//   - log: the logger to use (nil keeps the no-op default)
//
// Returns:
//   - TilemapViewBuilderOption: functional option to set the logger
func WithLogger(log *zap.Logger) TilemapViewBuilderOption {
	return func(v *tilemapView) {
		if log != nil {
			v.log = log
		}
	}
}

// WithRebuildWorkers fans the rebuild pass out over a pool of n workers.
// Values below 2 keep rebuilds serial on the calling goroutine, which is the default.
//
// Parameters:
//   - n: the number of rebuild workers
//
// Returns:
//   - TilemapViewBuilderOption: functional option to set the rebuild worker count
func WithRebuildWorkers(n int) TilemapViewBuilderOption {
	return func(v *tilemapView) {
		v.rebuildWorkers = n
	}
}

// WithChunkTileArea sets the target tile count per chunk. Non-positive values are ignored.
// Defaults to DefaultChunkTileArea.
//
// Parameters:
//   - area: the target tile count per chunk
//
// Returns:
//   - TilemapViewBuilderOption: functional option to set the chunk tile area
func WithChunkTileArea(area int) TilemapViewBuilderOption {
	return func(v *tilemapView) {
		if area > 0 {
			v.chunkTileArea = area
		}
	}
}

// WithMaxChunks sets the upper bound on the chunk count. Non-positive values are ignored.
// Defaults to DefaultMaxChunks.
//
// Parameters:
//   - n: the maximum number of chunks
//
// Returns:
//   - TilemapViewBuilderOption: functional option to set the chunk cap
func WithMaxChunks(n int) TilemapViewBuilderOption {
	return func(v *tilemapView) {
		if n > 0 {
			v.maxChunks = n
		}
	}
}

// WithLocalOffset sets an offset added to the grid position when composing the draw transform.
//
// Parameters:
//   - x, y: the offset in the parent's space
//
// Returns:
//   - TilemapViewBuilderOption: functional option to set the local offset
func WithLocalOffset(x, y float32) TilemapViewBuilderOption {
	return func(v *tilemapView) {
		v.localX = x
		v.localY = y
	}
}
