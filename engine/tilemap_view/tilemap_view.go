// Package tilemap_view renders a circular tilemap as a fixed number of column chunks.
//
// The view splits the grid's columns into windows, pairs each window with a ChunkRenderer and
// tracks a dirty flag per chunk. Tile edits flag only the owning chunk; topology changes flag
// every chunk. Meshes are rebuilt in Update, never inside a grid notification, and Draw only
// submits what the last Update produced.
package tilemap_view

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-tilemap/common"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/tilemap"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var (
	// ErrNotAttached is returned by operations that need a bound grid.
	ErrNotAttached = errors.New("tilemap_view: not attached")

	// ErrNilGrid is returned by Attach when given a nil grid.
	ErrNilGrid = errors.New("tilemap_view: nil grid")

	// ErrRebuild wraps every chunk rebuild failure reported by Update.
	ErrRebuild = errors.New("tilemap_view: chunk rebuild failed")
)

// RebuildError reports one chunk that failed to rebuild. It matches ErrRebuild with errors.Is
// and unwraps to the renderer's error.
type RebuildError struct {
	Chunk  int
	Window Window
	Err    error
}

func (e *RebuildError) Error() string {
	return fmt.Sprintf("%v: chunk %d [%d, %d): %v", ErrRebuild, e.Chunk, e.Window.FromX, e.Window.ToX, e.Err)
}

func (e *RebuildError) Unwrap() error { return e.Err }

func (e *RebuildError) Is(target error) bool { return target == ErrRebuild }

// Stats holds cumulative counters for a view.
type Stats struct {
	Chunks          int
	Dirty           int
	Rebuilds        uint64
	RebuildFailures uint64
	Repartitions    uint64
}

type chunk struct {
	window   Window
	renderer ChunkRenderer
	dirty    bool
}

// tilemapView is the implementation of the TilemapView interface.
type tilemapView struct {
	log     *zap.Logger
	backend Backend

	chunkTileArea  int
	maxChunks      int
	rebuildWorkers int
	pool           worker.DynamicWorkerPool

	grid       tilemap.Tilemap
	chunks     []*chunk
	backdrop   BackdropRenderer
	lastWidth  int
	lastHeight int

	// set when a repartition triggered by a topology change failed; retried by Update.
	pendingRepartition bool

	localX    float32
	localY    float32
	positionX float32
	positionY float32
	rotation  float32

	stats Stats
}

// TilemapView draws a bound tilemap through per-chunk renderers and a single backdrop.
// It is the grid's registered Listener while attached.
//
// All methods must be called from the update/render goroutine. Listener callbacks only flag
// chunks; Update performs the rebuilds.
type TilemapView interface {
	tilemap.Listener
	Owner

	// Attach binds the view to tm, replacing tm's listener. The chunk layout is rebuilt only when
	// the chunk count, width or height differ from the current layout; otherwise only the backdrop
	// is rebound. Every chunk is then flagged dirty and Update runs.
	// If a renderer fails to initialize, everything created is disposed and the view is left detached.
	// A rebuild failure leaves the view attached with the failing chunks dirty and is returned wrapped in ErrRebuild.
	//
	// Parameters:
	//   - tm: the grid to render
	//
	// Returns:
	//   - error: ErrNilGrid, a renderer init error, or aggregated rebuild errors
	Attach(tm tilemap.Tilemap) error

	// Detach disposes every chunk renderer and the backdrop exactly once, unregisters the view from
	// the grid if it is still the grid's listener, and drops the grid. Disposal continues past
	// failures. Calling Detach on a detached view does nothing.
	//
	// Returns:
	//   - error: the aggregated disposal errors
	Detach() error

	// Recycle detaches the view, logging instead of returning disposal errors.
	Recycle()

	// Update retries a pending repartition and rebuilds every dirty chunk. A successful rebuild
	// clears the chunk's dirty flag; a failed one leaves it dirty for the next Update.
	//
	// Returns:
	//   - error: ErrNotAttached, or the aggregated rebuild errors, each wrapping ErrRebuild
	Update() error

	// Draw draws the backdrop and then every chunk in ascending column order under
	// base · translate(position) · rotateZ(rotation). Position and rotation are read from the grid
	// on every call. Draw never rebuilds meshes or changes dirty flags; a chunk that fails to draw
	// is logged and the remaining chunks still draw.
	//
	// Parameters:
	//   - base: the projection and parent transform
	//
	// Returns:
	//   - error: ErrNotAttached, or the aggregated draw errors
	Draw(base common.Mat4) error

	// ResolveChunk returns the index of the chunk owning column tileX. It panics when the index
	// falls outside the current chunk range, which indicates a broken partition.
	//
	// Parameters:
	//   - tileX: a column in [0, Width)
	//
	// Returns:
	//   - int: the chunk index
	ResolveChunk(tileX int) int

	// Attached reports whether the view is bound to a grid.
	Attached() bool

	// ChunkCount returns the number of chunks in the current layout.
	ChunkCount() int

	// Windows returns a copy of the current chunk windows in ascending column order.
	Windows() []Window

	// Dirty reports whether chunk i is waiting for a rebuild.
	//
	// Parameters:
	//   - i: the chunk index
	//
	// Returns:
	//   - bool: the chunk's dirty flag, false for out-of-range indices
	Dirty(i int) bool

	// DirtyCount returns the number of chunks waiting for a rebuild.
	DirtyCount() int

	// Position returns the grid position last read by the view plus the local offset.
	Position() (x, y float32)

	// RotationDegrees returns the grid rotation last read by the view, in degrees.
	RotationDegrees() float32

	// Stats returns the view's counters.
	Stats() Stats
}

var _ TilemapView = &tilemapView{}

// NewTilemapView creates a new, detached TilemapView that creates its renderers through backend.
//
// Parameters:
//   - backend: the renderer factory and shared batch state
//   - options: functional options to configure the view
//
// Returns:
//   - TilemapView: the newly created view
func NewTilemapView(backend Backend, options ...TilemapViewBuilderOption) TilemapView {
	if backend == nil {
		panic("tilemap_view: NewTilemapView requires a non-nil Backend")
	}
	v := &tilemapView{
		log:           zap.NewNop(),
		backend:       backend,
		chunkTileArea: DefaultChunkTileArea,
		maxChunks:     DefaultMaxChunks,
		lastWidth:     -1,
		lastHeight:    -1,
	}
	for _, option := range options {
		option(v)
	}

	if v.rebuildWorkers > 1 {
		v.pool = worker.NewDynamicWorkerPool(v.rebuildWorkers, v.maxChunks, 1*time.Second)
	}
	return v
}

func (v *tilemapView) Tilemap() tilemap.Tilemap {
	return v.grid
}

func (v *tilemapView) Attach(tm tilemap.Tilemap) error {
	if tm == nil {
		return ErrNilGrid
	}
	if v.grid != nil && v.grid != tm {
		v.unbind()
	}
	v.grid = tm
	tm.SetListener(v)
	v.syncTransform()

	if err := v.initRenderers(); err != nil {
		v.pendingRepartition = false
		derr := v.disposeRenderers()
		v.unbind()
		return multierr.Append(fmt.Errorf("tilemap_view: attach: %w", err), derr)
	}
	v.markAllDirty()
	return v.Update()
}

func (v *tilemapView) Detach() error {
	err := v.disposeRenderers()
	v.pendingRepartition = false
	v.unbind()
	return err
}

func (v *tilemapView) Recycle() {
	if err := v.Detach(); err != nil {
		v.log.Warn("tilemap view recycled with disposal errors", zap.Error(err))
	}
}

func (v *tilemapView) OnTileChanged(x, y int) {
	if v.grid == nil || len(v.chunks) == 0 || v.lastWidth <= 0 {
		return
	}
	c := v.chunks[v.ResolveChunk(tilemap.WrapX(x, v.lastWidth))]
	c.dirty = true
	c.renderer.MarkDirty()
}

func (v *tilemapView) OnTopologyChanged() {
	if v.grid == nil {
		return
	}
	v.syncTransform()
	if err := v.initRenderers(); err != nil {
		v.log.Error("tilemap view repartition failed", zap.Error(err))
		v.disposeRenderers()
		v.pendingRepartition = true
		return
	}
	v.markAllDirty()
}

func (v *tilemapView) Update() error {
	if v.grid == nil {
		return ErrNotAttached
	}
	if v.pendingRepartition {
		if err := v.initRenderers(); err != nil {
			v.disposeRenderers()
			return fmt.Errorf("tilemap_view: repartition: %w", err)
		}
		v.pendingRepartition = false
		v.markAllDirty()
	}

	dirty := make([]int, 0, len(v.chunks))
	for i, c := range v.chunks {
		if c.dirty {
			dirty = append(dirty, i)
		}
	}
	if len(dirty) == 0 {
		return nil
	}

	results := make([]error, len(dirty))
	if v.pool != nil && len(dirty) > 1 {
		var wg sync.WaitGroup
		for i, idx := range dirty {
			wg.Add(1)
			r := v.chunks[idx].renderer
			v.pool.SubmitTask(worker.Task{
				ID: idx,
				Do: func() (any, error) {
					defer wg.Done()
					results[i] = r.RebuildIfDirty()
					return nil, nil
				},
			})
		}
		wg.Wait()
	} else {
		for i, idx := range dirty {
			results[i] = v.chunks[idx].renderer.RebuildIfDirty()
		}
	}

	var errs error
	for i, idx := range dirty {
		c := v.chunks[idx]
		if err := results[i]; err != nil {
			v.stats.RebuildFailures++
			v.log.Warn("chunk rebuild failed",
				zap.Int("chunk", idx),
				zap.Int("from_x", c.window.FromX),
				zap.Int("to_x", c.window.ToX),
				zap.Error(err),
			)
			errs = multierr.Append(errs, &RebuildError{Chunk: idx, Window: c.window, Err: err})
			continue
		}
		c.dirty = false
		v.stats.Rebuilds++
	}
	return errs
}

func (v *tilemapView) Draw(base common.Mat4) error {
	if v.grid == nil {
		return ErrNotAttached
	}
	v.syncTransform()
	transform := EffectiveTransform(base, v.positionX+v.localX, v.positionY+v.localY, v.rotation)

	var errs error
	if v.backdrop != nil {
		if err := v.backdrop.Draw(transform); err != nil {
			v.log.Warn("backdrop draw failed", zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("tilemap_view: draw backdrop: %w", err))
		}
	}

	if err := v.backend.BeginChunks(transform); err != nil {
		return multierr.Append(errs, fmt.Errorf("tilemap_view: begin chunks: %w", err))
	}
	for i, c := range v.chunks {
		if err := c.renderer.Draw(); err != nil {
			v.log.Warn("chunk draw failed", zap.Int("chunk", i), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("tilemap_view: draw chunk %d: %w", i, err))
		}
	}
	if err := v.backend.EndChunks(); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("tilemap_view: end chunks: %w", err))
	}
	return errs
}

func (v *tilemapView) ResolveChunk(tileX int) int {
	n := len(v.chunks)
	sizeX := common.CeilDiv(v.lastWidth, n)
	if sizeX <= 0 || tileX < 0 {
		panic(fmt.Sprintf("tilemap_view: column %d has no chunk (width %d, %d chunks)", tileX, v.lastWidth, n))
	}
	idx := tileX / sizeX
	if idx >= n {
		panic(fmt.Sprintf("tilemap_view: column %d resolves to chunk %d outside [0, %d)", tileX, idx, n))
	}
	return idx
}

func (v *tilemapView) Attached() bool {
	return v.grid != nil
}

func (v *tilemapView) ChunkCount() int {
	return len(v.chunks)
}

func (v *tilemapView) Windows() []Window {
	windows := make([]Window, len(v.chunks))
	for i, c := range v.chunks {
		windows[i] = c.window
	}
	return windows
}

func (v *tilemapView) Dirty(i int) bool {
	if i < 0 || i >= len(v.chunks) {
		return false
	}
	return v.chunks[i].dirty
}

func (v *tilemapView) DirtyCount() int {
	n := 0
	for _, c := range v.chunks {
		if c.dirty {
			n++
		}
	}
	return n
}

func (v *tilemapView) Position() (x, y float32) {
	return v.positionX + v.localX, v.positionY + v.localY
}

func (v *tilemapView) RotationDegrees() float32 {
	return v.rotation * common.RadiansToDegrees
}

func (v *tilemapView) Stats() Stats {
	s := v.stats
	s.Chunks = len(v.chunks)
	s.Dirty = v.DirtyCount()
	return s
}

// initRenderers rebuilds the chunk layout when the chunk count or grid size changed,
// otherwise rebinds the backdrop to the current grid.
func (v *tilemapView) initRenderers() error {
	w, h := v.grid.Width(), v.grid.Height()
	n := ChunkCount(w, h, v.chunkTileArea, v.maxChunks)
	if n != len(v.chunks) || w != v.lastWidth || h != v.lastHeight || v.backdrop == nil {
		return v.repartition(n, w, h)
	}
	if err := v.backdrop.Init(v); err != nil {
		return fmt.Errorf("init backdrop: %w", err)
	}
	return nil
}

// repartition disposes the current chunks and backdrop, then creates n chunks over [0, w) and a new backdrop.
// Renderers are recorded before Init so that a failed init leaves them reachable for disposal.
func (v *tilemapView) repartition(n, w, h int) error {
	// disposal failures are logged per renderer and do not block the new layout
	_ = v.disposeRenderers()

	windows := Partition(w, n)
	v.chunks = make([]*chunk, 0, n)
	for i, win := range windows {
		c := &chunk{
			window:   win,
			renderer: v.backend.NewChunkRenderer(),
			dirty:    true,
		}
		v.chunks = append(v.chunks, c)
		if err := c.renderer.Init(v, win.FromX, win.ToX); err != nil {
			return fmt.Errorf("init chunk %d [%d, %d): %w", i, win.FromX, win.ToX, err)
		}
	}

	v.backdrop = v.backend.NewBackdropRenderer()
	if err := v.backdrop.Init(v); err != nil {
		return fmt.Errorf("init backdrop: %w", err)
	}

	v.lastWidth, v.lastHeight = w, h
	v.stats.Repartitions++
	v.log.Debug("tilemap view repartitioned",
		zap.Int("chunks", n),
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Int("chunk_width", common.CeilDiv(w, n)),
	)
	return nil
}

// disposeRenderers disposes every chunk renderer and the backdrop, continuing past failures.
// The view holds no renderers afterwards, so nothing is disposed twice.
func (v *tilemapView) disposeRenderers() error {
	var errs error
	for i, c := range v.chunks {
		if err := c.renderer.Dispose(); err != nil {
			v.log.Warn("chunk dispose failed", zap.Int("chunk", i), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("tilemap_view: dispose chunk %d: %w", i, err))
		}
	}
	v.chunks = nil

	if v.backdrop != nil {
		if err := v.backdrop.Dispose(); err != nil {
			v.log.Warn("backdrop dispose failed", zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("tilemap_view: dispose backdrop: %w", err))
		}
		v.backdrop = nil
	}

	v.lastWidth, v.lastHeight = -1, -1
	return errs
}

func (v *tilemapView) markAllDirty() {
	for _, c := range v.chunks {
		c.dirty = true
		c.renderer.MarkDirty()
	}
}

// unbind clears the grid's listener if it still points at this view and drops the grid.
func (v *tilemapView) unbind() {
	if v.grid == nil {
		return
	}
	if l := v.grid.Listener(); l == tilemap.Listener(v) {
		v.grid.SetListener(nil)
	}
	v.grid = nil
}

func (v *tilemapView) syncTransform() {
	v.positionX = v.grid.PositionX()
	v.positionY = v.grid.PositionY()
	v.rotation = v.grid.Rotation()
}
