package tilemap_renderer

import (
	"math"

	"github.com/Carmen-Shannon/oxy-tilemap/engine/tilemap"
)

// Vertex is the GPU vertex layout shared by chunk and backdrop meshes.
type Vertex struct {
	Position [2]float32
	UV       [2]float32
}

// Mesh is CPU-side indexed triangle geometry ready for upload.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// Empty reports whether the mesh has nothing to draw.
func (m Mesh) Empty() bool {
	return len(m.Indices) == 0
}

// Atlas describes a tileset texture cut into a grid of equally sized cells.
// Tile id 1 maps to cell 0, counting left to right then top to bottom. Ids past the last
// cell wrap around.
type Atlas struct {
	Columns int
	Rows    int
}

// Cells returns the number of cells in the atlas, at least 1.
//
// Returns:
//   - int: the cell count
func (a Atlas) Cells() int {
	return max(a.Columns, 1) * max(a.Rows, 1)
}

// UV returns the texture rectangle of a tile id. The v axis points down the texture.
//
// Parameters:
//   - id: the tile id, must not be tilemap.EmptyTile
//
// Returns:
//   - u0, v0, u1, v1: the top-left and bottom-right texture coordinates of the cell
func (a Atlas) UV(id tilemap.TileID) (u0, v0, u1, v1 float32) {
	cols, rows := max(a.Columns, 1), max(a.Rows, 1)
	cell := (int(id) - 1) % a.Cells()
	if cell < 0 {
		cell += a.Cells()
	}
	col, row := cell%cols, cell/cols
	cw, ch := 1/float32(cols), 1/float32(rows)
	return float32(col) * cw, float32(row) * ch, float32(col+1) * cw, float32(row+1) * ch
}

// BuildChunkMesh builds one textured quad per non-empty tile in the column window [fromX, toX).
// The outer edge of each tile samples the top of its atlas cell. The window is clamped to the grid.
//
// Parameters:
//   - tm: the grid to read tiles from
//   - fromX: the first column of the window
//   - toX: one past the last column of the window
//   - atlas: the atlas used to map tile ids to texture coordinates
//
// Returns:
//   - Mesh: the chunk geometry in the grid's local space, empty if the window holds no tiles
func BuildChunkMesh(tm tilemap.Tilemap, fromX, toX int, atlas Atlas) Mesh {
	fromX = max(fromX, 0)
	toX = min(toX, tm.Width())
	if fromX >= toX || tm.Height() <= 0 {
		return Mesh{}
	}

	g := tm.Geometry()
	var m Mesh
	for x := fromX; x < toX; x++ {
		for y := 0; y < tm.Height(); y++ {
			id := tm.TileAt(x, y)
			if id == tilemap.EmptyTile {
				continue
			}
			c := g.TileCorners(x, y)
			u0, v0, u1, v1 := atlas.UV(id)

			base := uint32(len(m.Vertices))
			m.Vertices = append(m.Vertices,
				Vertex{Position: c[0], UV: [2]float32{u0, v1}},
				Vertex{Position: c[1], UV: [2]float32{u1, v1}},
				Vertex{Position: c[2], UV: [2]float32{u1, v0}},
				Vertex{Position: c[3], UV: [2]float32{u0, v0}},
			)
			m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
		}
	}
	return m
}

// BuildBackdropMesh builds a ring spanning the grid's inner to outer radius, split into
// segments around the circle.
//
// Parameters:
//   - tm: the grid whose geometry the ring covers
//   - segments: the number of segments, raised to 3 if lower
//
// Returns:
//   - Mesh: the ring geometry, empty if the grid has no rows
func BuildBackdropMesh(tm tilemap.Tilemap, segments int) Mesh {
	g := tm.Geometry()
	r0, r1 := g.InnerRadius, g.OuterRadius()
	if r1 <= r0 {
		return Mesh{}
	}
	segments = max(segments, 3)

	m := Mesh{
		Vertices: make([]Vertex, 0, 2*segments),
		Indices:  make([]uint32, 0, 6*segments),
	}
	for i := 0; i < segments; i++ {
		s, c := math.Sincos(2 * math.Pi * float64(i) / float64(segments))
		u := float32(i) / float32(segments)
		m.Vertices = append(m.Vertices,
			Vertex{Position: [2]float32{r0 * float32(c), r0 * float32(s)}, UV: [2]float32{u, 1}},
			Vertex{Position: [2]float32{r1 * float32(c), r1 * float32(s)}, UV: [2]float32{u, 0}},
		)
	}
	n := uint32(2 * segments)
	for i := uint32(0); i < uint32(segments); i++ {
		in0, out0 := 2*i, 2*i+1
		in1, out1 := (2*i+2)%n, (2*i+3)%n
		m.Indices = append(m.Indices, in0, in1, out1, in0, out1, out0)
	}
	return m
}
