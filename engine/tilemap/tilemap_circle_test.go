package tilemap

import (
	"math"
	"testing"
)

type recordingListener struct {
	tiles    [][2]int
	topology int
}

func (r *recordingListener) OnTileChanged(x, y int) {
	r.tiles = append(r.tiles, [2]int{x, y})
}

func (r *recordingListener) OnTopologyChanged() {
	r.topology++
}

func TestSetTileNotifiesOnlyOnChange(t *testing.T) {
	l := &recordingListener{}
	tm := NewTilemapCircle(WithSize(8, 4), WithListener(l))

	if !tm.SetTile(3, 2, 5) {
		t.Fatal("SetTile(3, 2) returned false")
	}
	if !tm.SetTile(3, 2, 5) {
		t.Fatal("SetTile(3, 2) with same id returned false")
	}
	if len(l.tiles) != 1 || l.tiles[0] != [2]int{3, 2} {
		t.Fatalf("notifications = %v, want [[3 2]]", l.tiles)
	}
	if got := tm.TileAt(3, 2); got != 5 {
		t.Errorf("TileAt(3, 2) = %d, want 5", got)
	}
}

func TestSetTileWrapsColumns(t *testing.T) {
	tests := []struct {
		name  string
		x     int
		wantX int
	}{
		{"in range", 2, 2},
		{"one past end", 8, 0},
		{"negative", -1, 7},
		{"far negative", -17, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &recordingListener{}
			tm := NewTilemapCircle(WithSize(8, 1), WithListener(l))
			tm.SetTile(tt.x, 0, 1)
			if len(l.tiles) != 1 || l.tiles[0][0] != tt.wantX {
				t.Fatalf("notifications = %v, want column %d", l.tiles, tt.wantX)
			}
			if tm.TileAt(tt.wantX, 0) != 1 {
				t.Errorf("TileAt(%d, 0) not set", tt.wantX)
			}
		})
	}
}

func TestSetTileRejectsOutOfRangeRows(t *testing.T) {
	l := &recordingListener{}
	tm := NewTilemapCircle(WithSize(4, 2), WithListener(l))
	if tm.SetTile(0, 2, 1) {
		t.Error("SetTile with y == height returned true")
	}
	if tm.SetTile(0, -1, 1) {
		t.Error("SetTile with negative y returned true")
	}
	if len(l.tiles) != 0 {
		t.Errorf("unexpected notifications %v", l.tiles)
	}
	if got := tm.TileAt(9, 9); got != EmptyTile {
		t.Errorf("TileAt out of range = %d, want EmptyTile", got)
	}
}

func TestResizePreservesOverlapAndNotifies(t *testing.T) {
	l := &recordingListener{}
	tm := NewTilemapCircle(WithSize(4, 4), WithListener(l))
	tm.SetTile(1, 1, 7)
	tm.SetTile(3, 3, 9)

	if err := tm.Resize(2, 6); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if tm.Width() != 2 || tm.Height() != 6 {
		t.Fatalf("size = %dx%d, want 2x6", tm.Width(), tm.Height())
	}
	if got := tm.TileAt(1, 1); got != 7 {
		t.Errorf("TileAt(1, 1) = %d, want 7", got)
	}
	if got := tm.TileAt(1, 5); got != EmptyTile {
		t.Errorf("TileAt(1, 5) = %d, want EmptyTile", got)
	}
	if l.topology != 1 {
		t.Errorf("topology notifications = %d, want 1", l.topology)
	}

	if err := tm.Resize(-1, 2); err == nil {
		t.Error("Resize(-1, 2) returned nil error")
	}
}

func TestFillNotifiesTopologyOnce(t *testing.T) {
	l := &recordingListener{}
	tm := NewTilemapCircle(WithSize(16, 16), WithListener(l))
	tm.Fill(3)
	if l.topology != 1 || len(l.tiles) != 0 {
		t.Errorf("topology = %d, tiles = %d; want 1, 0", l.topology, len(l.tiles))
	}
	if tm.TileAt(15, 15) != 3 {
		t.Error("Fill did not set last tile")
	}
}

func TestTransformChangesDoNotNotify(t *testing.T) {
	l := &recordingListener{}
	tm := NewTilemapCircle(WithSize(4, 4), WithListener(l), WithRotationSpeed(2))
	tm.SetPosition(10, 20)
	tm.SetRotation(1)
	tm.Update(0.5)

	if l.topology != 0 || len(l.tiles) != 0 {
		t.Errorf("unexpected notifications: topology = %d, tiles = %v", l.topology, l.tiles)
	}
	if tm.Rotation() != 2 {
		t.Errorf("Rotation = %v, want 2", tm.Rotation())
	}
	if tm.PositionX() != 10 || tm.PositionY() != 20 {
		t.Errorf("Position = (%v, %v), want (10, 20)", tm.PositionX(), tm.PositionY())
	}
}

func TestGeometryChangesNotify(t *testing.T) {
	l := &recordingListener{}
	tm := NewTilemapCircle(WithSize(4, 4), WithListener(l))
	tm.SetTileSize(2)
	tm.SetTileSize(2)
	tm.SetInnerRadius(5)
	tm.Invalidate()
	if l.topology != 3 {
		t.Errorf("topology notifications = %d, want 3", l.topology)
	}
}

func TestSetListenerReplacesPrevious(t *testing.T) {
	first := &recordingListener{}
	second := &recordingListener{}
	tm := NewTilemapCircle(WithSize(4, 4), WithListener(first))
	tm.SetListener(second)
	tm.SetTile(0, 0, 1)
	if len(first.tiles) != 0 || len(second.tiles) != 1 {
		t.Errorf("first = %v, second = %v", first.tiles, second.tiles)
	}
	tm.SetListener(nil)
	tm.SetTile(0, 0, 2)
	if len(second.tiles) != 1 {
		t.Errorf("unregistered listener still notified: %v", second.tiles)
	}
}

func TestGeometryRoundTrip(t *testing.T) {
	g := Geometry{Width: 64, Height: 8, TileSize: 2, InnerRadius: 10}
	for _, tc := range [][2]int{{0, 0}, {13, 3}, {63, 7}, {32, 5}} {
		corners := g.TileCorners(tc[0], tc[1])
		var cx, cy float32
		for _, c := range corners {
			cx += c[0] / 4
			cy += c[1] / 4
		}
		x, y, ok := g.TileFromPosition(cx, cy)
		if !ok || x != tc[0] || y != tc[1] {
			t.Errorf("TileFromPosition(center of %v) = (%d, %d, %v)", tc, x, y, ok)
		}
	}

	if _, _, ok := g.TileFromPosition(1, 1); ok {
		t.Error("point inside inner radius resolved to a tile")
	}
	if _, _, ok := g.TileFromPosition(100, 0); ok {
		t.Error("point beyond outer radius resolved to a tile")
	}
}

func TestGeometryRadii(t *testing.T) {
	g := Geometry{Width: 4, Height: 3, TileSize: 1.5, InnerRadius: 2}
	if got := g.OuterRadius(); got != 6.5 {
		t.Errorf("OuterRadius = %v, want 6.5", got)
	}
	r0, r1 := g.RowRadii(1)
	if r0 != 3.5 || r1 != 5 {
		t.Errorf("RowRadii(1) = (%v, %v), want (3.5, 5)", r0, r1)
	}
	a0, a1 := g.ColumnAngles(1)
	if math.Abs(a0-math.Pi/2) > 1e-9 || math.Abs(a1-math.Pi) > 1e-9 {
		t.Errorf("ColumnAngles(1) = (%v, %v)", a0, a1)
	}
}

func TestWrapX(t *testing.T) {
	tests := []struct{ x, width, want int }{
		{0, 10, 0},
		{9, 10, 9},
		{10, 10, 0},
		{-1, 10, 9},
		{-21, 10, 9},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := WrapX(tt.x, tt.width); got != tt.want {
			t.Errorf("WrapX(%d, %d) = %d, want %d", tt.x, tt.width, got, tt.want)
		}
	}
}
