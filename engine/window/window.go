package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// MouseButton identifies a mouse button in mouse callbacks, using the GLFW numbering
// (see common.MouseButtonLeft and friends).
type MouseButton int

// Size is a width and height in pixels.
type Size struct {
	Width, Height int
}

// SizeLimits bounds the client area while the user resizes the window. A zero component
// leaves that side unbounded.
type SizeLimits struct {
	Min, Max Size
}

// Clamp returns s constrained to the limits.
//
// Parameters:
//   - s: the requested size
//
// Returns:
//   - Size: the size within the limits
func (l SizeLimits) Clamp(s Size) Size {
	return Size{
		Width:  clampSide(s.Width, l.Min.Width, l.Max.Width),
		Height: clampSide(s.Height, l.Min.Height, l.Max.Height),
	}
}

func clampSide(v, lo, hi int) int {
	if lo > 0 && v < lo {
		v = lo
	}
	if hi > 0 && v > hi {
		v = hi
	}
	return v
}

// glfwLimit maps an unbounded side to glfw.DontCare.
func glfwLimit(v int) int {
	if v <= 0 {
		return glfw.DontCare
	}
	return v
}

// Window is the platform window the tilemap is presented in. It forwards keyboard, scroll,
// mouse and resize input to the registered callbacks, all of which run on the goroutine
// driving ProcessMessages.
type Window interface {
	// SetUpdateCallback sets the function called once per message loop iteration.
	//
	// Parameters:
	//   - callback: the function, or nil
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called with the new framebuffer size in pixels.
	//
	// Parameters:
	//   - callback: the function, or nil
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the function called on vertical wheel movement. Positive is away
	// from the user.
	//
	// Parameters:
	//   - callback: the function, or nil
	SetScrollCallback(callback func(delta float32))

	// SetKeyDownCallback sets the function called on key press and key repeat.
	//
	// Parameters:
	//   - callback: receives the key code (common.Key*)
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the function called on key release.
	//
	// Parameters:
	//   - callback: receives the key code (common.Key*)
	SetKeyUpCallback(callback func(keyCode uint32))

	// SetMouseDownCallback sets the function called on a mouse button press.
	//
	// Parameters:
	//   - callback: receives the button and the cursor position in framebuffer pixels
	SetMouseDownCallback(callback func(button MouseButton, x, y int32))

	// SurfaceDescriptor returns the platform surface descriptor for wgpu, or nil once the
	// window is closed.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the descriptor or nil
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// ProcessMessages polls input on the calling goroutine, which must be the one that created
	// the window, and calls the update callback after each poll. Returns when the window is
	// closed by the user, the close key, or RequestClose.
	ProcessMessages()

	// RequestClose makes ProcessMessages return after the current iteration. The window stays
	// valid until Close.
	RequestClose()

	// Close destroys the window and terminates GLFW. Calling it twice is an error.
	//
	// Returns:
	//   - error: when the window is already closed
	Close() error

	// Width returns the framebuffer width in pixels.
	//
	// Returns:
	//   - int: the width
	Width() int

	// Height returns the framebuffer height in pixels.
	//
	// Returns:
	//   - int: the height
	Height() int
}

type callbacks struct {
	update    func()
	resize    func(width, height int)
	scroll    func(delta float32)
	keyDown   func(keyCode uint32)
	keyUp     func(keyCode uint32)
	mouseDown func(button MouseButton, x, y int32)
}

// engineWindow is the GLFW implementation of Window.
type engineWindow struct {
	title     string
	size      Size
	limits    SizeLimits
	resizable bool
	// closeKey closes the window when pressed; 0 disables it
	closeKey uint32

	handle  *glfw.Window
	running bool
	on      callbacks
}

var _ Window = &engineWindow{}

// NewWindow opens a GLFW window without a client API, for use as a wgpu surface. The calling
// goroutine is locked to its OS thread and must also run ProcessMessages.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the open window
//   - error: when GLFW fails to initialize or to create the window
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:     "circleworld",
		size:      Size{Width: 1280, Height: 720},
		limits:    SizeLimits{Min: Size{Width: 320, Height: 240}},
		resizable: true,
		closeKey:  uint32(glfw.KeyEscape),
	}
	for _, opt := range options {
		opt(w)
	}
	w.size = w.limits.Clamp(w.size)

	runtime.LockOSThread()
	if err := w.open(); err != nil {
		return nil, fmt.Errorf("window: %w", err)
	}
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func()) { w.on.update = callback }

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) { w.on.resize = callback }

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) { w.on.scroll = callback }

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) { w.on.keyDown = callback }

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) { w.on.keyUp = callback }

func (w *engineWindow) SetMouseDownCallback(callback func(button MouseButton, x, y int32)) {
	w.on.mouseDown = callback
}

func (w *engineWindow) ProcessMessages() {
	for w.alive() {
		glfw.PollEvents()
		if !w.alive() {
			return
		}
		if w.on.update != nil {
			w.on.update()
		}
		runtime.Gosched()
	}
}

func (w *engineWindow) RequestClose() {
	w.running = false
	if w.handle != nil {
		w.handle.SetShouldClose(true)
	}
}

func (w *engineWindow) Width() int { return w.size.Width }

func (w *engineWindow) Height() int { return w.size.Height }

func (w *engineWindow) alive() bool {
	return w.handle != nil && w.running && !w.handle.ShouldClose()
}

// onKey routes a key event. It returns true when the event was the close key.
func (w *engineWindow) onKey(key uint32, action glfw.Action) bool {
	if w.closeKey != 0 && key == w.closeKey && action == glfw.Press {
		w.RequestClose()
		return true
	}
	switch action {
	case glfw.Press, glfw.Repeat:
		if w.on.keyDown != nil {
			w.on.keyDown(key)
		}
	case glfw.Release:
		if w.on.keyUp != nil {
			w.on.keyUp(key)
		}
	}
	return false
}

func (w *engineWindow) onFramebufferSize(width, height int) {
	w.size = Size{Width: width, Height: height}
	if w.on.resize != nil {
		w.on.resize(width, height)
	}
}

// cursorScale converts a cursor position in screen coordinates to framebuffer pixels, which
// differ on high-DPI displays.
func cursorScale(x, y float64, window, framebuffer Size) (int32, int32) {
	if window.Width > 0 && window.Height > 0 {
		x *= float64(framebuffer.Width) / float64(window.Width)
		y *= float64(framebuffer.Height) / float64(window.Height)
	}
	return int32(x), int32(y)
}
