package tilemap

import "math"

// Geometry maps tile coordinates of a circular tilemap to its local space.
// Column x spans the angle [x, x+1) * 2π / Width; row y spans the radius
// [InnerRadius + y*TileSize, InnerRadius + (y+1)*TileSize). Row 0 is the innermost ring.
type Geometry struct {
	Width       int
	Height      int
	TileSize    float32
	InnerRadius float32
}

// OuterRadius returns the radius of the outer edge of the last row.
//
// Returns:
//   - float32: the outer radius
func (g Geometry) OuterRadius() float32 {
	return g.InnerRadius + float32(g.Height)*g.TileSize
}

// RowRadii returns the inner and outer radius of row y.
//
// Parameters:
//   - y: the tile row
//
// Returns:
//   - r0, r1: inner and outer radius of the row
func (g Geometry) RowRadii(y int) (r0, r1 float32) {
	r0 = g.InnerRadius + float32(y)*g.TileSize
	return r0, r0 + g.TileSize
}

// ColumnAngles returns the start and end angle in radians of column x.
//
// Parameters:
//   - x: the tile column
//
// Returns:
//   - a0, a1: start and end angle of the column
func (g Geometry) ColumnAngles(x int) (a0, a1 float64) {
	if g.Width <= 0 {
		return 0, 0
	}
	step := 2 * math.Pi / float64(g.Width)
	return float64(x) * step, float64(x+1) * step
}

// TileCorners returns the four local-space corners of tile (x, y) in counter-clockwise
// order: inner-start, inner-end, outer-end, outer-start.
//
// Parameters:
//   - x: the tile column
//   - y: the tile row
//
// Returns:
//   - [4][2]float32: the corner positions
func (g Geometry) TileCorners(x, y int) [4][2]float32 {
	a0, a1 := g.ColumnAngles(x)
	r0, r1 := g.RowRadii(y)
	s0, c0 := math.Sincos(a0)
	s1, c1 := math.Sincos(a1)
	return [4][2]float32{
		{r0 * float32(c0), r0 * float32(s0)},
		{r0 * float32(c1), r0 * float32(s1)},
		{r1 * float32(c1), r1 * float32(s1)},
		{r1 * float32(c0), r1 * float32(s0)},
	}
}

// TileFromPosition maps a local-space point to the tile containing it.
//
// Parameters:
//   - px, py: the local-space point
//
// Returns:
//   - x, y: the tile coordinates
//   - bool: false if the point lies inside the inner radius or beyond the outer radius
func (g Geometry) TileFromPosition(px, py float32) (x, y int, ok bool) {
	if g.Width <= 0 || g.Height <= 0 || g.TileSize <= 0 {
		return 0, 0, false
	}
	r := float32(math.Hypot(float64(px), float64(py)))
	if r < g.InnerRadius || r >= g.OuterRadius() {
		return 0, 0, false
	}
	y = int((r - g.InnerRadius) / g.TileSize)
	if y >= g.Height {
		y = g.Height - 1
	}

	angle := math.Atan2(float64(py), float64(px))
	if angle < 0 {
		angle += 2 * math.Pi
	}
	x = WrapX(int(angle/(2*math.Pi)*float64(g.Width)), g.Width)
	return x, y, true
}

// WrapX normalizes any column index into [0, width). Returns 0 for non-positive widths.
//
// Parameters:
//   - x: the column index, possibly negative or >= width
//   - width: the number of columns
//
// Returns:
//   - int: the wrapped column index
func WrapX(x, width int) int {
	if width <= 0 {
		return 0
	}
	x %= width
	if x < 0 {
		x += width
	}
	return x
}
