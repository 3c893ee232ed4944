package tilemap

// TilemapCircleBuilderOption is a functional option for configuring a TilemapCircle during construction.
type TilemapCircleBuilderOption func(*tilemapCircle)

// WithSize sets the initial grid dimensions. Negative values are treated as zero.
//
// Parameters:
//   - width: the number of tile columns
//   - height: the number of tile rows
//
// Returns:
//   - TilemapCircleBuilderOption: functional option to set the size
func WithSize(width, height int) TilemapCircleBuilderOption {
	return func(t *tilemapCircle) {
		t.width = width
		t.height = height
	}
}

// WithTileSize sets the radial size of each row. Non-positive values are ignored.
//
// Parameters:
//   - size: the tile size in world units
//
// Returns:
//   - TilemapCircleBuilderOption: functional option to set the tile size
func WithTileSize(size float32) TilemapCircleBuilderOption {
	return func(t *tilemapCircle) {
		if size > 0 {
			t.tileSize = size
		}
	}
}

// WithInnerRadius sets the radius of the innermost ring.
//
// Parameters:
//   - radius: the inner radius in world units
//
// Returns:
//   - TilemapCircleBuilderOption: functional option to set the inner radius
func WithInnerRadius(radius float32) TilemapCircleBuilderOption {
	return func(t *tilemapCircle) {
		if radius >= 0 {
			t.innerRadius = radius
		}
	}
}

// WithPosition sets the initial origin of the tilemap.
//
// Parameters:
//   - x, y: the origin in the parent's space
//
// Returns:
//   - TilemapCircleBuilderOption: functional option to set the position
func WithPosition(x, y float32) TilemapCircleBuilderOption {
	return func(t *tilemapCircle) {
		t.positionX = x
		t.positionY = y
	}
}

// WithRotation sets the initial rotation of the tilemap.
//
// Parameters:
//   - radians: the rotation in radians
//
// Returns:
//   - TilemapCircleBuilderOption: functional option to set the rotation
func WithRotation(radians float32) TilemapCircleBuilderOption {
	return func(t *tilemapCircle) {
		t.rotation = radians
	}
}

// WithRotationSpeed sets the rotation applied per second by Update.
//
// Parameters:
//   - radiansPerSecond: the angular speed
//
// Returns:
//   - TilemapCircleBuilderOption: functional option to set the rotation speed
func WithRotationSpeed(radiansPerSecond float32) TilemapCircleBuilderOption {
	return func(t *tilemapCircle) {
		t.rotationSpeed = radiansPerSecond
	}
}

// WithListener registers the initial change listener.
//
// Parameters:
//   - l: the listener to register
//
// Returns:
//   - TilemapCircleBuilderOption: functional option to set the listener
func WithListener(l Listener) TilemapCircleBuilderOption {
	return func(t *tilemapCircle) {
		t.listener = l
	}
}
