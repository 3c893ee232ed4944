package tilemap

import (
	"fmt"
)

// tilemapCircle is the implementation of the TilemapCircle interface.
// Tiles are stored row-major (index = y*width + x).
type tilemapCircle struct {
	width  int
	height int
	tiles  []TileID

	tileSize    float32
	innerRadius float32

	positionX     float32
	positionY     float32
	rotation      float32
	rotationSpeed float32

	listener Listener
}

// TilemapCircle is a mutable wrap-around tile grid laid out as concentric rings.
// Every mutation that changes content notifies the registered Listener synchronously
// before returning. Position and rotation changes do not notify; renderers re-read them every frame.
//
// Not safe for concurrent mutation; all calls are expected on the update thread.
type TilemapCircle interface {
	Tilemap

	// SetTile sets the tile at (x, y). Columns wrap around. Notifies OnTileChanged when the content changes.
	//
	// Parameters:
	//   - x: the tile column (wrapped into [0, Width))
	//   - y: the tile row
	//   - id: the new tile content
	//
	// Returns:
	//   - bool: false if y is out of range or the grid is empty
	SetTile(x, y int, id TileID) bool

	// Fill sets every tile to id without per-tile notifications, then notifies OnTopologyChanged once.
	//
	// Parameters:
	//   - id: the tile content to fill with
	Fill(id TileID)

	// Resize changes the grid dimensions, preserving tiles in the overlapping region,
	// and notifies OnTopologyChanged.
	//
	// Parameters:
	//   - width: the new column count (>= 0)
	//   - height: the new row count (>= 0)
	//
	// Returns:
	//   - error: if either dimension is negative
	Resize(width, height int) error

	// SetTileSize changes the radial size of every row and notifies OnTopologyChanged.
	//
	// Parameters:
	//   - size: the new tile size (> 0)
	SetTileSize(size float32)

	// SetInnerRadius changes the radius of the innermost ring and notifies OnTopologyChanged.
	//
	// Parameters:
	//   - radius: the new inner radius (>= 0)
	SetInnerRadius(radius float32)

	// SetPosition moves the tilemap's origin in its parent's space.
	//
	// Parameters:
	//   - x, y: the new origin
	SetPosition(x, y float32)

	// SetRotation sets the tilemap's rotation.
	//
	// Parameters:
	//   - radians: the new rotation in radians
	SetRotation(radians float32)

	// RotationSpeed returns the rotation applied per second by Update.
	RotationSpeed() float32

	// SetRotationSpeed sets the rotation applied per second by Update.
	//
	// Parameters:
	//   - radiansPerSecond: the angular speed
	SetRotationSpeed(radiansPerSecond float32)

	// Update advances time-dependent state (rotation) by deltaTime seconds.
	//
	// Parameters:
	//   - deltaTime: elapsed time in seconds
	Update(deltaTime float32)

	// Invalidate notifies OnTopologyChanged without changing any state, forcing listeners
	// to treat every tile as changed.
	Invalidate()
}

var _ TilemapCircle = &tilemapCircle{}

// NewTilemapCircle creates a new TilemapCircle configured with the given options.
// Defaults to an empty 0x0 grid with tile size 1 and inner radius 0.
//
// Parameters:
//   - options: functional options to configure the tilemap
//
// Returns:
//   - TilemapCircle: the newly created tilemap
func NewTilemapCircle(options ...TilemapCircleBuilderOption) TilemapCircle {
	t := &tilemapCircle{
		tileSize: 1,
	}
	for _, option := range options {
		option(t)
	}
	if t.width < 0 {
		t.width = 0
	}
	if t.height < 0 {
		t.height = 0
	}
	t.tiles = make([]TileID, t.width*t.height)
	return t
}

func (t *tilemapCircle) Width() int {
	return t.width
}

func (t *tilemapCircle) Height() int {
	return t.height
}

func (t *tilemapCircle) PositionX() float32 {
	return t.positionX
}

func (t *tilemapCircle) PositionY() float32 {
	return t.positionY
}

func (t *tilemapCircle) Rotation() float32 {
	return t.rotation
}

func (t *tilemapCircle) RotationSpeed() float32 {
	return t.rotationSpeed
}

func (t *tilemapCircle) Geometry() Geometry {
	return Geometry{
		Width:       t.width,
		Height:      t.height,
		TileSize:    t.tileSize,
		InnerRadius: t.innerRadius,
	}
}

func (t *tilemapCircle) TileAt(x, y int) TileID {
	if x < 0 || x >= t.width || y < 0 || y >= t.height {
		return EmptyTile
	}
	return t.tiles[y*t.width+x]
}

func (t *tilemapCircle) SetTile(x, y int, id TileID) bool {
	if t.width == 0 || y < 0 || y >= t.height {
		return false
	}
	x = WrapX(x, t.width)
	idx := y*t.width + x
	if t.tiles[idx] == id {
		return true
	}
	t.tiles[idx] = id
	if t.listener != nil {
		t.listener.OnTileChanged(x, y)
	}
	return true
}

func (t *tilemapCircle) Fill(id TileID) {
	for i := range t.tiles {
		t.tiles[i] = id
	}
	t.notifyTopology()
}

func (t *tilemapCircle) Resize(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("tilemap: invalid size %dx%d", width, height)
	}
	tiles := make([]TileID, width*height)
	for y := 0; y < min(height, t.height); y++ {
		copy(tiles[y*width:y*width+min(width, t.width)], t.tiles[y*t.width:y*t.width+min(width, t.width)])
	}
	t.tiles = tiles
	t.width = width
	t.height = height
	t.notifyTopology()
	return nil
}

func (t *tilemapCircle) SetTileSize(size float32) {
	if size <= 0 || size == t.tileSize {
		return
	}
	t.tileSize = size
	t.notifyTopology()
}

func (t *tilemapCircle) SetInnerRadius(radius float32) {
	if radius < 0 || radius == t.innerRadius {
		return
	}
	t.innerRadius = radius
	t.notifyTopology()
}

func (t *tilemapCircle) SetPosition(x, y float32) {
	t.positionX = x
	t.positionY = y
}

func (t *tilemapCircle) SetRotation(radians float32) {
	t.rotation = radians
}

func (t *tilemapCircle) SetRotationSpeed(radiansPerSecond float32) {
	t.rotationSpeed = radiansPerSecond
}

func (t *tilemapCircle) Update(deltaTime float32) {
	t.rotation += t.rotationSpeed * deltaTime
}

func (t *tilemapCircle) Invalidate() {
	t.notifyTopology()
}

func (t *tilemapCircle) SetListener(l Listener) {
	t.listener = l
}

func (t *tilemapCircle) Listener() Listener {
	return t.listener
}

func (t *tilemapCircle) notifyTopology() {
	if t.listener != nil {
		t.listener.OnTopologyChanged()
	}
}
