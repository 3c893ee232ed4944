package tilemap

// TileID identifies the content of a single tile. EmptyTile marks a tile with no content.
type TileID uint16

// EmptyTile is the TileID of a tile that renders nothing.
const EmptyTile TileID = 0

// Listener receives synchronous change notifications from a Tilemap.
// Callbacks run on the caller's goroutine at the point of mutation and must return quickly;
// they are expected to record the change (e.g. flag a chunk dirty) and defer any heavy work.
type Listener interface {
	// OnTileChanged is called after the tile at (x, y) changed content.
	//
	// Parameters:
	//   - x: the tile column
	//   - y: the tile row
	OnTileChanged(x, y int)

	// OnTopologyChanged is called after the grid's dimensions or global layout changed
	// (resize, geometry change, explicit invalidation).
	OnTopologyChanged()
}

// Tilemap is the read-only view of a wrap-around tile grid consumed by renderers.
// A Tilemap delivers change events to at most one registered Listener.
type Tilemap interface {
	// Width returns the number of tile columns. Columns wrap around: column Width() is column 0.
	//
	// Returns:
	//   - int: the column count
	Width() int

	// Height returns the number of tile rows.
	//
	// Returns:
	//   - int: the row count
	Height() int

	// PositionX returns the x position of the tilemap's origin in its parent's space.
	PositionX() float32

	// PositionY returns the y position of the tilemap's origin in its parent's space.
	PositionY() float32

	// Rotation returns the tilemap's rotation in radians.
	Rotation() float32

	// TileAt returns the tile at column x and row y, or EmptyTile when out of range.
	//
	// Parameters:
	//   - x: the tile column
	//   - y: the tile row
	//
	// Returns:
	//   - TileID: the tile content
	TileAt(x, y int) TileID

	// Geometry returns the mapping between tile coordinates and local space.
	//
	// Returns:
	//   - Geometry: the tilemap's current geometry
	Geometry() Geometry

	// SetListener registers the single change listener, replacing any previous one.
	// Pass nil to unregister.
	//
	// Parameters:
	//   - l: the listener to register, or nil
	SetListener(l Listener)

	// Listener returns the currently registered listener, or nil.
	//
	// Returns:
	//   - Listener: the registered listener or nil
	Listener() Listener
}
