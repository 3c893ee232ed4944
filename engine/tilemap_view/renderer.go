package tilemap_view

import (
	"github.com/Carmen-Shannon/oxy-tilemap/common"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/tilemap"
)

// Owner is the view as seen by the renderers it drives.
type Owner interface {
	// Tilemap returns the grid the owner is currently attached to, or nil when detached.
	Tilemap() tilemap.Tilemap
}

// ChunkRenderer builds and draws the mesh of one column window.
//
// The view calls Init once per renderer, before any other method. Dispose is called exactly once,
// including on a renderer whose Init returned an error. Rebuilds of distinct renderers may run
// concurrently when the view is configured with more than one rebuild worker.
type ChunkRenderer interface {
	// Init binds the renderer to the owner's grid and the column window [fromX, toX).
	//
	// Parameters:
	//   - owner: the view driving this renderer
	//   - fromX: the first column of the window
	//   - toX: one past the last column of the window
	//
	// Returns:
	//   - error: if the renderer could not allocate its resources
	Init(owner Owner, fromX, toX int) error

	// MarkDirty flags the mesh as stale so the next RebuildIfDirty regenerates it.
	MarkDirty()

	// RebuildIfDirty regenerates the mesh if it is flagged dirty. On error the previous mesh
	// stays in use and the renderer must remain dirty.
	//
	// Returns:
	//   - error: if the mesh could not be rebuilt
	RebuildIfDirty() error

	// Draw submits the last successfully built mesh inside the batch opened by Backend.BeginChunks.
	//
	// Returns:
	//   - error: if the draw could not be recorded
	Draw() error

	// Dispose releases every resource held by the renderer.
	//
	// Returns:
	//   - error: if a resource failed to release
	Dispose() error
}

// BackdropRenderer draws the single background layer under every chunk.
// Init may be called again on a live renderer to rebind it to a different grid of the same size.
type BackdropRenderer interface {
	// Init binds the renderer to the owner's grid.
	//
	// Parameters:
	//   - owner: the view driving this renderer
	//
	// Returns:
	//   - error: if the renderer could not allocate its resources
	Init(owner Owner) error

	// Draw records the backdrop under transform.
	//
	// Parameters:
	//   - transform: the view's effective transform for this frame
	//
	// Returns:
	//   - error: if the draw could not be recorded
	Draw(transform common.Mat4) error

	// Dispose releases every resource held by the renderer.
	//
	// Returns:
	//   - error: if a resource failed to release
	Dispose() error
}

// Backend creates renderers and owns the batch state shared by every chunk of a view.
type Backend interface {
	// NewChunkRenderer returns a fresh, uninitialized chunk renderer.
	NewChunkRenderer() ChunkRenderer

	// NewBackdropRenderer returns a fresh, uninitialized backdrop renderer.
	NewBackdropRenderer() BackdropRenderer

	// BeginChunks opens the shared batch (texture, sampler and transform bindings) for chunk draws.
	//
	// Parameters:
	//   - transform: the view's effective transform for this frame
	//
	// Returns:
	//   - error: if the batch could not be opened
	BeginChunks(transform common.Mat4) error

	// EndChunks closes the batch opened by BeginChunks.
	//
	// Returns:
	//   - error: if the batch could not be closed
	EndChunks() error
}
