package tilemap_view

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-tilemap/common"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/tilemap"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var errBoom = errors.New("boom")

// spyBackend records every renderer it creates and the order of draw-time calls.
// Chunk renderers created at or after ordinal failInitAt fail Init; -1 disables.
type spyBackend struct {
	events        []string
	chunks        []*spyChunk
	backdrops     []*spyBackdrop
	failInitAt    int
	lastTransform common.Mat4
}

func newSpyBackend() *spyBackend {
	return &spyBackend{failInitAt: -1}
}

func (b *spyBackend) NewChunkRenderer() ChunkRenderer {
	c := &spyChunk{backend: b, ordinal: len(b.chunks)}
	b.chunks = append(b.chunks, c)
	return c
}

func (b *spyBackend) NewBackdropRenderer() BackdropRenderer {
	d := &spyBackdrop{backend: b}
	b.backdrops = append(b.backdrops, d)
	return d
}

func (b *spyBackend) BeginChunks(transform common.Mat4) error {
	b.events = append(b.events, "begin")
	b.lastTransform = transform
	return nil
}

func (b *spyBackend) EndChunks() error {
	b.events = append(b.events, "end")
	return nil
}

// live returns the chunk renderers created by the most recent repartition.
func (b *spyBackend) live(v TilemapView) []*spyChunk {
	return b.chunks[len(b.chunks)-v.ChunkCount():]
}

type spyChunk struct {
	backend *spyBackend
	ordinal int

	owner    Owner
	fromX    int
	toX      int
	dirty    bool
	inits    int
	marks    int
	rebuilds int
	draws    int
	disposes int

	failRebuild bool
	failDraw    bool
	failDispose bool
}

func (c *spyChunk) Init(owner Owner, fromX, toX int) error {
	c.inits++
	c.owner, c.fromX, c.toX = owner, fromX, toX
	if c.backend.failInitAt >= 0 && c.ordinal >= c.backend.failInitAt {
		return errBoom
	}
	return nil
}

func (c *spyChunk) MarkDirty() {
	c.marks++
	c.dirty = true
}

func (c *spyChunk) RebuildIfDirty() error {
	if c.failRebuild {
		return errBoom
	}
	if c.dirty {
		c.rebuilds++
		c.dirty = false
	}
	return nil
}

func (c *spyChunk) Draw() error {
	c.draws++
	c.backend.events = append(c.backend.events, fmt.Sprintf("chunk:%d", c.fromX))
	if c.failDraw {
		return errBoom
	}
	return nil
}

func (c *spyChunk) Dispose() error {
	c.disposes++
	if c.failDispose {
		return errBoom
	}
	return nil
}

type spyBackdrop struct {
	backend  *spyBackend
	owner    Owner
	inits    int
	draws    int
	disposes int
}

func (d *spyBackdrop) Init(owner Owner) error {
	d.inits++
	d.owner = owner
	return nil
}

func (d *spyBackdrop) Draw(transform common.Mat4) error {
	d.draws++
	d.backend.events = append(d.backend.events, "backdrop")
	return nil
}

func (d *spyBackdrop) Dispose() error {
	d.disposes++
	return nil
}

func newGrid(w, h int) tilemap.TilemapCircle {
	return tilemap.NewTilemapCircle(tilemap.WithSize(w, h))
}

func attach(t *testing.T, v TilemapView, tm tilemap.Tilemap) {
	t.Helper()
	if err := v.Attach(tm); err != nil {
		t.Fatalf("Attach: %v", err)
	}
}

func TestAttachSmallGridSingleChunk(t *testing.T) {
	b := newSpyBackend()
	v := NewTilemapView(b)
	tm := newGrid(100, 10)
	attach(t, v, tm)

	if v.ChunkCount() != 1 {
		t.Fatalf("ChunkCount = %d, want 1", v.ChunkCount())
	}
	if got := v.Windows()[0]; got != (Window{0, 100}) {
		t.Errorf("window = %+v, want [0, 100)", got)
	}
	c := b.chunks[0]
	if c.inits != 1 || c.rebuilds != 1 || c.owner != v {
		t.Errorf("chunk inits = %d, rebuilds = %d, owner = %v", c.inits, c.rebuilds, c.owner)
	}
	if len(b.backdrops) != 1 || b.backdrops[0].inits != 1 {
		t.Errorf("backdrop not created once")
	}
	if v.DirtyCount() != 0 {
		t.Errorf("DirtyCount = %d after attach, want 0", v.DirtyCount())
	}
	if !v.Attached() || v.Tilemap() != tilemap.Tilemap(tm) {
		t.Error("view not bound to grid")
	}
	if tm.Listener() != tilemap.Listener(v) {
		t.Error("view not registered as grid listener")
	}
}

func TestAttachLargeGridPartition(t *testing.T) {
	tests := []struct {
		name      string
		options   []TilemapViewBuilderOption
		wantN     int
		wantWidth int
		wantEmpty int
	}{
		{"default cap", nil, 256, 8, 6},
		{"raised cap", []TilemapViewBuilderOption{WithMaxChunks(391)}, 391, 6, 57},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newSpyBackend()
			v := NewTilemapView(b, tt.options...)
			attach(t, v, newGrid(2000, 200))

			if v.ChunkCount() != tt.wantN {
				t.Fatalf("ChunkCount = %d, want %d", v.ChunkCount(), tt.wantN)
			}
			empty := 0
			for i, w := range v.Windows() {
				if w.ToX-w.FromX > tt.wantWidth {
					t.Errorf("window %d = %+v, wider than %d", i, w, tt.wantWidth)
				}
				if w.FromX == w.ToX {
					empty++
				}
			}
			if empty != tt.wantEmpty {
				t.Errorf("empty trailing windows = %d, want %d", empty, tt.wantEmpty)
			}
			if last := v.Windows()[tt.wantN-1]; last.ToX != 2000 {
				t.Errorf("last window = %+v, want ToX 2000", last)
			}
		})
	}
}

func TestAttachNilGrid(t *testing.T) {
	v := NewTilemapView(newSpyBackend())
	if err := v.Attach(nil); !errors.Is(err, ErrNilGrid) {
		t.Errorf("Attach(nil) = %v, want ErrNilGrid", err)
	}
}

func TestResolveChunkContainsColumn(t *testing.T) {
	for _, size := range [][2]int{{100, 10}, {2000, 200}, {33, 32}, {4099, 64}} {
		v := NewTilemapView(newSpyBackend())
		attach(t, v, newGrid(size[0], size[1]))
		windows := v.Windows()
		for x := 0; x < size[0]; x++ {
			if i := v.ResolveChunk(x); !windows[i].Contains(x) {
				t.Fatalf("%dx%d: ResolveChunk(%d) = %d with window %+v", size[0], size[1], x, i, windows[i])
			}
		}
	}
}

func TestResolveChunkPanicsOutsideRange(t *testing.T) {
	v := NewTilemapView(newSpyBackend())
	attach(t, v, newGrid(100, 10))

	for _, x := range []int{-1, 100, 250} {
		t.Run(fmt.Sprint(x), func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("ResolveChunk(%d) did not panic", x)
				}
			}()
			v.ResolveChunk(x)
		})
	}
}

func TestTileChangedMarksOnlyOwningChunk(t *testing.T) {
	tests := []struct {
		name      string
		x         int
		wantChunk int
	}{
		{"first column", 0, 0},
		{"window edge", 8, 1},
		{"inside window", 1000, 125},
		{"last column", 1999, 249},
		{"wrapped negative", -1, 249},
		{"wrapped past end", 2003, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newSpyBackend()
			v := NewTilemapView(b)
			tm := newGrid(2000, 200)
			attach(t, v, tm)

			tm.SetTile(tt.x, 5, 1)

			if v.DirtyCount() != 1 {
				t.Fatalf("DirtyCount = %d, want 1", v.DirtyCount())
			}
			if !v.Dirty(tt.wantChunk) {
				t.Errorf("chunk %d not dirty", tt.wantChunk)
			}
			if b.chunks[tt.wantChunk].rebuilds != 1 {
				t.Error("tile notification triggered a rebuild")
			}
		})
	}
}

func TestTopologyChangedMarksAllDirty(t *testing.T) {
	b := newSpyBackend()
	v := NewTilemapView(b)
	tm := newGrid(300, 64)
	attach(t, v, tm)
	before := v.Stats().Repartitions

	tm.Invalidate()

	if v.DirtyCount() != v.ChunkCount() {
		t.Errorf("DirtyCount = %d, want all %d", v.DirtyCount(), v.ChunkCount())
	}
	if v.Stats().Repartitions != before {
		t.Error("same-size topology change repartitioned")
	}
	for i, c := range b.chunks {
		if c.disposes != 0 || c.rebuilds != 1 {
			t.Errorf("chunk %d disposes = %d, rebuilds = %d", i, c.disposes, c.rebuilds)
		}
	}
}

func TestUpdateRebuildsOnlyTouchedChunks(t *testing.T) {
	b := newSpyBackend()
	v := NewTilemapView(b)
	tm := newGrid(2000, 200)
	attach(t, v, tm)

	// chunk width is 8: columns 0, 3 and 7 share chunk 0
	for _, x := range []int{0, 3, 7, 9, 17, 1999} {
		tm.SetTile(x, 0, 2)
	}
	touched := map[int]bool{0: true, 1: true, 2: true, 249: true}

	if err := v.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if v.DirtyCount() != 0 {
		t.Errorf("DirtyCount = %d after Update, want 0", v.DirtyCount())
	}
	for i, c := range b.chunks {
		want := 1
		if touched[i] {
			want = 2
		}
		if c.rebuilds != want {
			t.Errorf("chunk %d rebuilds = %d, want %d", i, c.rebuilds, want)
		}
	}
}

func TestUpdateWithoutDirtyChunksIsNoop(t *testing.T) {
	b := newSpyBackend()
	v := NewTilemapView(b)
	attach(t, v, newGrid(100, 100))
	before := v.Stats().Rebuilds

	if err := v.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if v.Stats().Rebuilds != before {
		t.Error("Update rebuilt clean chunks")
	}
}

func TestReattachSameSizeKeepsChunks(t *testing.T) {
	b := newSpyBackend()
	v := NewTilemapView(b)
	first := newGrid(500, 40)
	attach(t, v, first)
	windows := v.Windows()
	created := len(b.chunks)

	attach(t, v, first)

	if len(b.chunks) != created || len(b.backdrops) != 1 {
		t.Fatalf("reattach created renderers: chunks %d -> %d, backdrops %d", created, len(b.chunks), len(b.backdrops))
	}
	for i, w := range v.Windows() {
		if w != windows[i] {
			t.Errorf("window %d changed: %+v -> %+v", i, windows[i], w)
		}
	}
	for i, c := range b.chunks {
		if c.disposes != 0 || c.rebuilds != 2 {
			t.Errorf("chunk %d disposes = %d, rebuilds = %d", i, c.disposes, c.rebuilds)
		}
	}
	if b.backdrops[0].inits != 2 {
		t.Errorf("backdrop inits = %d, want 2", b.backdrops[0].inits)
	}

	second := newGrid(500, 40)
	attach(t, v, second)
	if len(b.chunks) != created {
		t.Error("attaching a same-size grid recreated chunks")
	}
	if first.Listener() != nil {
		t.Error("previous grid still points at the view")
	}
	if second.Listener() != tilemap.Listener(v) || v.Tilemap() != tilemap.Tilemap(second) {
		t.Error("view not bound to the new grid")
	}
	if b.backdrops[0].inits != 3 {
		t.Errorf("backdrop inits = %d, want 3", b.backdrops[0].inits)
	}
}

func TestResizeRepartitions(t *testing.T) {
	b := newSpyBackend()
	v := NewTilemapView(b)
	tm := newGrid(100, 10)
	attach(t, v, tm)
	old := b.chunks[0]
	oldBackdrop := b.backdrops[0]

	if err := tm.Resize(2000, 200); err != nil {
		t.Fatal(err)
	}

	if old.disposes != 1 || oldBackdrop.disposes != 1 {
		t.Errorf("old renderers disposes = %d/%d, want 1/1", old.disposes, oldBackdrop.disposes)
	}
	if v.ChunkCount() != DefaultMaxChunks || len(b.backdrops) != 2 {
		t.Fatalf("ChunkCount = %d, backdrops = %d", v.ChunkCount(), len(b.backdrops))
	}
	if v.DirtyCount() != DefaultMaxChunks {
		t.Errorf("DirtyCount = %d, want %d before Update", v.DirtyCount(), DefaultMaxChunks)
	}
	for _, c := range b.live(v) {
		if c.rebuilds != 0 {
			t.Fatal("repartition rebuilt inside the notification")
		}
	}
	if err := v.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if v.DirtyCount() != 0 {
		t.Errorf("DirtyCount = %d after Update", v.DirtyCount())
	}

	// same chunk count, different width
	if err := tm.Resize(1999, 200); err != nil {
		t.Fatal(err)
	}
	if v.Windows()[v.ChunkCount()-1].ToX != 1999 {
		t.Error("width change with unchanged chunk count did not repartition")
	}
}

func TestDetachDisposesOnceAndUnbinds(t *testing.T) {
	b := newSpyBackend()
	v := NewTilemapView(b)
	tm := newGrid(300, 64)
	attach(t, v, tm)

	if err := v.Detach(); err != nil {
		t.Fatalf("Detach: %v", err)
	}
	if err := v.Detach(); err != nil {
		t.Fatalf("second Detach: %v", err)
	}
	v.Recycle()

	for i, c := range b.chunks {
		if c.disposes != 1 {
			t.Errorf("chunk %d disposes = %d, want 1", i, c.disposes)
		}
	}
	if b.backdrops[0].disposes != 1 {
		t.Errorf("backdrop disposes = %d, want 1", b.backdrops[0].disposes)
	}
	if v.Attached() || v.ChunkCount() != 0 || tm.Listener() != nil {
		t.Error("view still bound after Detach")
	}

	// late callbacks and frame calls are harmless
	v.OnTileChanged(3, 3)
	v.OnTopologyChanged()
	if err := v.Update(); !errors.Is(err, ErrNotAttached) {
		t.Errorf("Update after Detach = %v, want ErrNotAttached", err)
	}
	if err := v.Draw(common.IdentityMat4()); !errors.Is(err, ErrNotAttached) {
		t.Errorf("Draw after Detach = %v, want ErrNotAttached", err)
	}
}

func TestDetachKeepsForeignListener(t *testing.T) {
	v := NewTilemapView(newSpyBackend())
	tm := newGrid(10, 10)
	attach(t, v, tm)

	other := NewTilemapView(newSpyBackend())
	tm.SetListener(other)

	if err := v.Detach(); err != nil {
		t.Fatal(err)
	}
	if tm.Listener() != tilemap.Listener(other) {
		t.Error("Detach cleared a listener it does not own")
	}
}

func TestReattachAfterDetachMatchesFreshAttach(t *testing.T) {
	tm := newGrid(700, 90)

	fresh := newSpyBackend()
	fv := NewTilemapView(fresh)
	attach(t, fv, tm)
	if err := fv.Detach(); err != nil {
		t.Fatal(err)
	}

	reused := newSpyBackend()
	rv := NewTilemapView(reused)
	attach(t, rv, tm)
	if err := rv.Detach(); err != nil {
		t.Fatal(err)
	}
	created := len(reused.chunks)
	attach(t, rv, tm)

	live := reused.chunks[created:]
	if len(live) != len(fresh.chunks) {
		t.Fatalf("reattach created %d chunks, fresh attach %d", len(live), len(fresh.chunks))
	}
	for i := range live {
		if live[i].fromX != fresh.chunks[i].fromX || live[i].toX != fresh.chunks[i].toX {
			t.Errorf("chunk %d window differs", i)
		}
		if live[i].rebuilds != 1 || live[i].dirty {
			t.Errorf("chunk %d rebuilds = %d, dirty = %v", i, live[i].rebuilds, live[i].dirty)
		}
	}
	if rv.DirtyCount() != 0 || len(reused.backdrops) != 2 {
		t.Errorf("DirtyCount = %d, backdrops = %d", rv.DirtyCount(), len(reused.backdrops))
	}
}

func TestRebuildFailureStaysDirty(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	b := newSpyBackend()
	v := NewTilemapView(b, WithLogger(zap.New(core)))
	tm := newGrid(300, 64)
	attach(t, v, tm)

	b.chunks[1].failRebuild = true
	tm.Invalidate()

	err := v.Update()
	if !errors.Is(err, ErrRebuild) || !errors.Is(err, errBoom) {
		t.Fatalf("Update = %v, want ErrRebuild wrapping the renderer error", err)
	}
	if len(multierr.Errors(err)) != 1 {
		t.Errorf("aggregated errors = %d, want 1", len(multierr.Errors(err)))
	}
	var rerr *RebuildError
	if !errors.As(err, &rerr) || rerr.Chunk != 1 || rerr.Window != v.Windows()[1] {
		t.Errorf("RebuildError = %+v, want chunk 1 with its window", rerr)
	}
	if !v.Dirty(1) || v.DirtyCount() != 1 {
		t.Errorf("Dirty(1) = %v, DirtyCount = %d", v.Dirty(1), v.DirtyCount())
	}
	if logs.FilterMessage("chunk rebuild failed").Len() != 1 {
		t.Error("rebuild failure not logged")
	}
	if v.Stats().RebuildFailures != 1 {
		t.Errorf("RebuildFailures = %d", v.Stats().RebuildFailures)
	}

	b.chunks[1].failRebuild = false
	if err := v.Update(); err != nil {
		t.Fatalf("retry Update: %v", err)
	}
	if v.DirtyCount() != 0 {
		t.Error("chunk still dirty after successful retry")
	}
}

func TestAttachReportsRebuildFailureButStaysAttached(t *testing.T) {
	b := &failingRebuildBackend{spyBackend: newSpyBackend()}
	v := NewTilemapView(b)
	err := v.Attach(newGrid(100, 10))
	if !errors.Is(err, ErrRebuild) {
		t.Fatalf("Attach = %v, want ErrRebuild", err)
	}
	if !v.Attached() || !v.Dirty(0) {
		t.Error("view should stay attached with the chunk dirty")
	}
}

type failingRebuildBackend struct {
	*spyBackend
}

func (b *failingRebuildBackend) NewChunkRenderer() ChunkRenderer {
	c := b.spyBackend.NewChunkRenderer().(*spyChunk)
	c.failRebuild = true
	return c
}

func TestDisposeErrorsDoNotStopTeardown(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	b := newSpyBackend()
	v := NewTilemapView(b, WithLogger(zap.New(core)))
	attach(t, v, newGrid(300, 64))
	b.chunks[0].failDispose = true
	b.chunks[2].failDispose = true

	err := v.Detach()
	if len(multierr.Errors(err)) != 2 {
		t.Fatalf("Detach errors = %v, want 2", err)
	}
	for i, c := range b.chunks {
		if c.disposes != 1 {
			t.Errorf("chunk %d disposes = %d, want 1", i, c.disposes)
		}
	}
	if b.backdrops[0].disposes != 1 {
		t.Error("backdrop not disposed after chunk failures")
	}
	if logs.FilterMessage("chunk dispose failed").Len() != 2 {
		t.Errorf("logged dispose failures = %d, want 2", logs.FilterMessage("chunk dispose failed").Len())
	}
}

func TestAttachInitFailureLeavesViewDetached(t *testing.T) {
	b := newSpyBackend()
	b.failInitAt = 2
	v := NewTilemapView(b)
	tm := newGrid(300, 64)

	if err := v.Attach(tm); !errors.Is(err, errBoom) {
		t.Fatalf("Attach = %v, want init error", err)
	}
	if v.Attached() || v.ChunkCount() != 0 || tm.Listener() != nil {
		t.Error("view left partially attached")
	}
	if len(b.chunks) != 3 || len(b.backdrops) != 0 {
		t.Fatalf("created chunks = %d, backdrops = %d", len(b.chunks), len(b.backdrops))
	}
	for i, c := range b.chunks {
		if c.disposes != 1 {
			t.Errorf("chunk %d disposes = %d, want 1", i, c.disposes)
		}
	}

	b.failInitAt = -1
	attach(t, v, tm)
	if v.ChunkCount() != ChunkCount(300, 64, DefaultChunkTileArea, DefaultMaxChunks) {
		t.Errorf("retry ChunkCount = %d", v.ChunkCount())
	}
}

func TestTopologyRepartitionFailureRetriedByUpdate(t *testing.T) {
	b := newSpyBackend()
	v := NewTilemapView(b)
	tm := newGrid(100, 10)
	attach(t, v, tm)

	b.failInitAt = len(b.chunks)
	if err := tm.Resize(300, 64); err != nil {
		t.Fatal(err)
	}
	if v.ChunkCount() != 0 || !v.Attached() {
		t.Fatalf("after failed repartition: ChunkCount = %d, Attached = %v", v.ChunkCount(), v.Attached())
	}
	if err := v.Update(); !errors.Is(err, errBoom) {
		t.Fatalf("Update = %v, want init error", err)
	}

	b.failInitAt = -1
	if err := v.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if v.ChunkCount() != 19 || v.DirtyCount() != 0 {
		t.Errorf("ChunkCount = %d, DirtyCount = %d", v.ChunkCount(), v.DirtyCount())
	}
}

func TestDrawSequence(t *testing.T) {
	b := newSpyBackend()
	v := NewTilemapView(b)
	tm := newGrid(100, 30)
	attach(t, v, tm)
	tm.SetTile(40, 0, 1)
	b.events = nil

	if err := v.Draw(common.IdentityMat4()); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	want := []string{"backdrop", "begin"}
	for _, w := range v.Windows() {
		want = append(want, fmt.Sprintf("chunk:%d", w.FromX))
	}
	want = append(want, "end")
	if fmt.Sprint(b.events) != fmt.Sprint(want) {
		t.Errorf("events = %v, want %v", b.events, want)
	}
	if v.DirtyCount() != 1 {
		t.Error("Draw changed dirty flags")
	}
	for i, c := range b.chunks {
		if c.rebuilds != 1 {
			t.Errorf("chunk %d rebuilt during Draw", i)
		}
	}
}

func TestDrawContinuesAfterChunkFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	b := newSpyBackend()
	v := NewTilemapView(b, WithLogger(zap.New(core)))
	attach(t, v, newGrid(300, 64))
	b.chunks[0].failDraw = true

	err := v.Draw(common.IdentityMat4())
	if !errors.Is(err, errBoom) {
		t.Fatalf("Draw = %v, want chunk error", err)
	}
	for i, c := range b.chunks {
		if c.draws != 1 {
			t.Errorf("chunk %d draws = %d, want 1", i, c.draws)
		}
	}
	if b.events[len(b.events)-1] != "end" {
		t.Error("batch not closed after chunk failure")
	}
	if logs.FilterMessage("chunk draw failed").Len() != 1 {
		t.Error("chunk draw failure not logged")
	}
}

func TestDrawReadsTransformEveryFrame(t *testing.T) {
	b := newSpyBackend()
	v := NewTilemapView(b, WithLocalOffset(1, 1))
	tm := newGrid(64, 8)
	attach(t, v, tm)

	tm.SetPosition(10, 20)
	tm.SetRotation(math.Pi / 2)
	if err := v.Draw(common.IdentityMat4()); err != nil {
		t.Fatal(err)
	}

	want := EffectiveTransform(common.IdentityMat4(), 11, 21, math.Pi/2)
	if b.lastTransform != want {
		t.Errorf("transform = %v, want %v", b.lastTransform, want)
	}
	if x, y := v.Position(); x != 11 || y != 21 {
		t.Errorf("Position = (%v, %v), want (11, 21)", x, y)
	}
	if d := v.RotationDegrees(); math.Abs(float64(d-90)) > 1e-4 {
		t.Errorf("RotationDegrees = %v, want 90", d)
	}

	tm.SetRotation(0)
	if err := v.Draw(common.IdentityMat4()); err != nil {
		t.Fatal(err)
	}
	if b.lastTransform != EffectiveTransform(common.IdentityMat4(), 11, 21, 0) {
		t.Error("rotation not re-read on the next frame")
	}
}

func TestGridUpdateRotatesWithoutRebuilding(t *testing.T) {
	b := newSpyBackend()
	v := NewTilemapView(b)
	tm := tilemap.NewTilemapCircle(tilemap.WithSize(300, 64), tilemap.WithRotationSpeed(1))
	attach(t, v, tm)

	for range 3 {
		tm.Update(0.25)
		if err := v.Update(); err != nil {
			t.Fatal(err)
		}
		if err := v.Draw(common.IdentityMat4()); err != nil {
			t.Fatal(err)
		}
	}

	if v.DirtyCount() != 0 || v.Stats().Rebuilds != uint64(v.ChunkCount()) {
		t.Errorf("rotation dirtied chunks: dirty = %d, rebuilds = %d", v.DirtyCount(), v.Stats().Rebuilds)
	}
	if b.lastTransform != EffectiveTransform(common.IdentityMat4(), 0, 0, 0.75) {
		t.Error("Draw did not pick up the advanced rotation")
	}
}

func TestZeroWidthGrid(t *testing.T) {
	b := newSpyBackend()
	v := NewTilemapView(b)
	tm := newGrid(0, 10)
	attach(t, v, tm)

	if v.ChunkCount() != 1 || v.Windows()[0] != (Window{0, 0}) {
		t.Fatalf("windows = %v, want one empty window", v.Windows())
	}
	v.OnTileChanged(0, 0)
	if v.DirtyCount() != 0 {
		t.Error("tile event on an empty grid flagged a chunk")
	}
}

func TestParallelRebuild(t *testing.T) {
	b := newSpyBackend()
	v := NewTilemapView(b, WithRebuildWorkers(4))
	tm := newGrid(2000, 200)
	attach(t, v, tm)

	for i, c := range b.chunks {
		if c.rebuilds != 1 {
			t.Fatalf("chunk %d rebuilds = %d, want 1", i, c.rebuilds)
		}
	}

	tm.Invalidate()
	if err := v.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if v.DirtyCount() != 0 {
		t.Errorf("DirtyCount = %d after parallel Update", v.DirtyCount())
	}
	if got := v.Stats().Rebuilds; got != 2*DefaultMaxChunks {
		t.Errorf("Rebuilds = %d, want %d", got, 2*DefaultMaxChunks)
	}
}

func TestChunkOptions(t *testing.T) {
	v := NewTilemapView(newSpyBackend(), WithChunkTileArea(100), WithMaxChunks(4))
	attach(t, v, newGrid(100, 10))
	if v.ChunkCount() != 4 {
		t.Errorf("ChunkCount = %d, want 4", v.ChunkCount())
	}
}
