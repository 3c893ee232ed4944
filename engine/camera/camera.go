package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-tilemap/common"
)

type cameraImpl struct {
	mu *sync.Mutex

	// position is the world point at the centre of the viewport
	position [2]float32
	// zoom is the number of pixels per world unit
	zoom             float32
	minZoom, maxZoom float32

	viewportWidth, viewportHeight float32

	viewProjectionMatrix common.Mat4
	dirty                bool
}

// Camera is a 2D orthographic camera. It maps world units to clip space for a viewport of a
// given pixel size, centred on a world position and scaled by a zoom factor.
type Camera interface {
	// Position returns the world point at the centre of the viewport.
	//
	// Returns:
	//   - x, y: the camera position
	Position() (x, y float32)

	// SetPosition moves the camera centre to a world point.
	//
	// Parameters:
	//   - x, y: the new camera position
	SetPosition(x, y float32)

	// Pan moves the camera by a screen-space distance in pixels, independent of zoom.
	//
	// Parameters:
	//   - dx, dy: the distance in pixels, y pointing up
	Pan(dx, dy float32)

	// Zoom returns the number of pixels per world unit.
	//
	// Returns:
	//   - float32: the zoom factor
	Zoom() float32

	// SetZoom sets the number of pixels per world unit, clamped to the camera's zoom range.
	//
	// Parameters:
	//   - zoom: the new zoom factor
	SetZoom(zoom float32)

	// ZoomBy multiplies the zoom factor, clamped to the camera's zoom range.
	//
	// Parameters:
	//   - factor: the multiplier, above 1 to zoom in
	ZoomBy(factor float32)

	// Viewport returns the viewport size in pixels.
	//
	// Returns:
	//   - width, height: the viewport size
	Viewport() (width, height float32)

	// SetViewport sets the viewport size in pixels, typically on window resize.
	// Non-positive sizes are ignored so a minimized window keeps the last projection.
	//
	// Parameters:
	//   - width, height: the new viewport size
	SetViewport(width, height int)

	// ViewProjection returns the matrix mapping world space to clip space (column-major).
	//
	// Returns:
	//   - common.Mat4: the view-projection matrix
	ViewProjection() common.Mat4

	// ScreenToWorld maps a pixel position, origin top-left with y pointing down, to world space.
	//
	// Parameters:
	//   - px, py: the pixel position
	//
	// Returns:
	//   - x, y: the world position under the pixel
	ScreenToWorld(px, py float32) (x, y float32)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera centred on the origin with a zoom of 1 and a 1x1 viewport.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:             &sync.Mutex{},
		zoom:           1,
		minZoom:        0.05,
		maxZoom:        256,
		viewportWidth:  1,
		viewportHeight: 1,
		dirty:          true,
	}
	for _, option := range options {
		option(c)
	}
	c.zoom = clampZoom(c.zoom, c.minZoom, c.maxZoom)
	return c
}

func (c *cameraImpl) Position() (x, y float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position[0], c.position[1]
}

func (c *cameraImpl) SetPosition(x, y float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = [2]float32{x, y}
	c.dirty = true
}

func (c *cameraImpl) Pan(dx, dy float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position[0] += dx / c.zoom
	c.position[1] += dy / c.zoom
	c.dirty = true
}

func (c *cameraImpl) Zoom() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zoom
}

func (c *cameraImpl) SetZoom(zoom float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.zoom = clampZoom(zoom, c.minZoom, c.maxZoom)
	c.dirty = true
}

func (c *cameraImpl) ZoomBy(factor float32) {
	if factor <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.zoom = clampZoom(c.zoom*factor, c.minZoom, c.maxZoom)
	c.dirty = true
}

func (c *cameraImpl) Viewport() (width, height float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewportWidth, c.viewportHeight
}

func (c *cameraImpl) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewportWidth, c.viewportHeight = float32(width), float32(height)
	c.dirty = true
}

func (c *cameraImpl) ViewProjection() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dirty {
		c.updateMatrices()
	}
	return c.viewProjectionMatrix
}

func (c *cameraImpl) ScreenToWorld(px, py float32) (x, y float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	x = c.position[0] + (px-c.viewportWidth/2)/c.zoom
	y = c.position[1] - (py-c.viewportHeight/2)/c.zoom
	return x, y
}

// updateMatrices recalculates the view-projection matrix. Caller must hold the mutex.
// The projection spans the viewport in world units around the origin; the view translates the
// camera position to the origin.
func (c *cameraImpl) updateMatrices() {
	halfW := c.viewportWidth / (2 * c.zoom)
	halfH := c.viewportHeight / (2 * c.zoom)

	var projection, view common.Mat4
	common.Ortho(projection[:], -halfW, halfW, -halfH, halfH, -1, 1)
	common.Identity(view[:])
	common.Translate(view[:], -c.position[0], -c.position[1], 0)

	common.Mul4(c.viewProjectionMatrix[:], projection[:], view[:])
	c.dirty = false
}

func clampZoom(zoom, lo, hi float32) float32 {
	return max(lo, min(zoom, hi))
}
