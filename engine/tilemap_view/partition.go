package tilemap_view

import "github.com/Carmen-Shannon/oxy-tilemap/common"

const (
	// DefaultChunkTileArea is the number of tiles a chunk covers on average (32x32).
	DefaultChunkTileArea = 32 * 32

	// DefaultMaxChunks bounds the number of chunks, and therefore chunk draw calls, per view.
	DefaultMaxChunks = 256
)

// Window is the half-open column range [FromX, ToX) owned by one chunk. It spans every row of the grid.
type Window struct {
	FromX int
	ToX   int
}

// Width returns the number of columns in the window. Trailing windows may be empty.
func (w Window) Width() int {
	return w.ToX - w.FromX
}

// Contains reports whether column x lies inside the window.
func (w Window) Contains(x int) bool {
	return x >= w.FromX && x < w.ToX
}

// ChunkCount returns the number of chunks used for a width x height grid:
// clamp(ceil(width*height / tileArea), 1, maxChunks).
//
// Parameters:
//   - width: the grid column count (>= 0)
//   - height: the grid row count (>= 0)
//   - tileArea: the target tile count per chunk
//   - maxChunks: the upper bound on the chunk count
//
// Returns:
//   - int: the chunk count, always >= 1
func ChunkCount(width, height, tileArea, maxChunks int) int {
	return common.Clamp(common.CeilDiv(width*height, tileArea), 1, max(maxChunks, 1))
}

// Partition splits the columns [0, width) into n contiguous windows of ceil(width/n) columns each.
// When n*ceil(width/n) exceeds width the trailing windows are empty and sit at [width, width);
// they are kept so that column / ceil(width/n) always indexes the owning window.
//
// Parameters:
//   - width: the grid column count (>= 0)
//   - n: the number of windows (>= 1)
//
// Returns:
//   - []Window: n windows ordered by FromX
func Partition(width, n int) []Window {
	if n < 1 {
		n = 1
	}
	sizeX := common.CeilDiv(width, n)
	windows := make([]Window, n)
	fromX := 0
	for i := range windows {
		toX := min(fromX+sizeX, width)
		if fromX > toX {
			fromX = toX
		}
		windows[i] = Window{FromX: fromX, ToX: toX}
		fromX += sizeX
	}
	return windows
}
