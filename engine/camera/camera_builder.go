package camera

// CameraBuilderOption is a functional option for configuring a Camera during construction.
type CameraBuilderOption func(*cameraImpl)

// WithPosition sets the initial world point at the centre of the viewport.
//
// Parameters:
//   - x, y: the camera position
//
// Returns:
//   - CameraBuilderOption: functional option to set the position
func WithPosition(x, y float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = [2]float32{x, y}
	}
}

// WithZoom sets the initial number of pixels per world unit.
//
// Parameters:
//   - zoom: the zoom factor
//
// Returns:
//   - CameraBuilderOption: functional option to set the zoom
func WithZoom(zoom float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if zoom > 0 {
			c.zoom = zoom
		}
	}
}

// WithZoomRange bounds the zoom factor. Ignored unless 0 < min <= max.
//
// Parameters:
//   - min: the smallest zoom factor
//   - max: the largest zoom factor
//
// Returns:
//   - CameraBuilderOption: functional option to set the zoom range
func WithZoomRange(min, max float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if min > 0 && min <= max {
			c.minZoom, c.maxZoom = min, max
		}
	}
}

// WithViewport sets the initial viewport size in pixels.
//
// Parameters:
//   - width, height: the viewport size
//
// Returns:
//   - CameraBuilderOption: functional option to set the viewport
func WithViewport(width, height int) CameraBuilderOption {
	return func(c *cameraImpl) {
		if width > 0 && height > 0 {
			c.viewportWidth, c.viewportHeight = float32(width), float32(height)
		}
	}
}
