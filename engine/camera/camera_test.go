package camera

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-tilemap/common"
)

// near compares with a tolerance relative to b, so pixel coordinates get float32 headroom.
func near(a, b float32) bool {
	return math.Abs(float64(a-b)) <= 1e-5*math.Max(1, math.Abs(float64(b)))
}

func TestViewProjectionMapsViewportEdges(t *testing.T) {
	c := NewCamera(WithViewport(800, 600), WithZoom(2), WithPosition(10, -5))
	vp := c.ViewProjection()

	tests := []struct {
		name         string
		wx, wy       float32
		clipX, clipY float32
	}{
		{"centre", 10, -5, 0, 0},
		{"right edge", 10 + 200, -5, 1, 0},
		{"top edge", 10, -5 + 150, 0, 1},
		{"bottom left", 10 - 200, -5 - 150, -1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := common.TransformPoint(vp[:], tt.wx, tt.wy)
			if !near(x, tt.clipX) || !near(y, tt.clipY) {
				t.Errorf("(%v, %v) -> (%v, %v), want (%v, %v)", tt.wx, tt.wy, x, y, tt.clipX, tt.clipY)
			}
		})
	}
}

func TestZoomIsClamped(t *testing.T) {
	c := NewCamera(WithZoomRange(0.5, 8))
	c.SetZoom(100)
	if c.Zoom() != 8 {
		t.Errorf("Zoom = %v, want 8", c.Zoom())
	}
	c.ZoomBy(0.001)
	if c.Zoom() != 0.5 {
		t.Errorf("Zoom = %v, want 0.5", c.Zoom())
	}
	c.ZoomBy(-1)
	if c.Zoom() != 0.5 {
		t.Errorf("negative factor changed zoom to %v", c.Zoom())
	}
}

func TestPanScalesWithZoom(t *testing.T) {
	c := NewCamera(WithZoom(4))
	c.Pan(8, -4)
	if x, y := c.Position(); x != 2 || y != -1 {
		t.Errorf("Position = (%v, %v), want (2, -1)", x, y)
	}
}

func TestSetViewportIgnoresEmptySize(t *testing.T) {
	c := NewCamera(WithViewport(640, 480))
	before := c.ViewProjection()
	c.SetViewport(0, 0)
	if w, h := c.Viewport(); w != 640 || h != 480 {
		t.Errorf("Viewport = %vx%v, want 640x480", w, h)
	}
	if c.ViewProjection() != before {
		t.Error("empty viewport changed the projection")
	}
}

func TestScreenToWorldInvertsProjection(t *testing.T) {
	c := NewCamera(WithViewport(400, 200), WithZoom(5), WithPosition(3, 7))
	vp := c.ViewProjection()

	for _, p := range [][2]float32{{0, 0}, {200, 100}, {400, 200}, {37, 151}} {
		wx, wy := c.ScreenToWorld(p[0], p[1])
		cx, cy := common.TransformPoint(vp[:], wx, wy)
		// clip -> pixel, y flipped
		px := (cx + 1) / 2 * 400
		py := (1 - cy) / 2 * 200
		// float32 rounding in clip space is scaled up by the viewport size
		if math.Abs(float64(px-p[0])) > 1e-3 || math.Abs(float64(py-p[1])) > 1e-3 {
			t.Errorf("pixel %v round-tripped to (%v, %v)", p, px, py)
		}
	}
}
