package window

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// ErrClosed is returned by Close on a window that was already closed.
var ErrClosed = errors.New("window: already closed")

// open initializes GLFW, creates the window and installs the input callbacks.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
func (w *engineWindow) open() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("init glfw: %w", err)
	}

	// wgpu owns the swapchain, so no GL context
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfwBool(w.resizable))

	handle, err := glfw.CreateWindow(w.size.Width, w.size.Height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("create glfw window: %w", err)
	}
	w.handle = handle
	w.running = true

	handle.SetSizeLimits(
		glfwLimit(w.limits.Min.Width), glfwLimit(w.limits.Min.Height),
		glfwLimit(w.limits.Max.Width), glfwLimit(w.limits.Max.Height),
	)

	handle.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		w.onKey(uint32(key), action)
	})
	handle.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		if w.on.scroll != nil {
			w.on.scroll(float32(yoff))
		}
	})
	handle.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press || w.on.mouseDown == nil {
			return
		}
		x, y := w.cursor()
		w.on.mouseDown(MouseButton(button), x, y)
	})
	// framebuffer size, not window size: the surface is configured in pixels
	handle.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.onFramebufferSize(width, height)
	})

	fbw, fbh := handle.GetFramebufferSize()
	w.size = Size{Width: fbw, Height: fbh}
	return nil
}

func (w *engineWindow) cursor() (int32, int32) {
	x, y := w.handle.GetCursorPos()
	ww, wh := w.handle.GetSize()
	fw, fh := w.handle.GetFramebufferSize()
	return cursorScale(x, y, Size{Width: ww, Height: wh}, Size{Width: fw, Height: fh})
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	if w.handle == nil {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(w.handle)
}

func (w *engineWindow) Close() error {
	if w.handle == nil {
		return ErrClosed
	}
	w.running = false
	w.handle.Destroy()
	w.handle = nil
	glfw.Terminate()
	return nil
}

func glfwBool(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}
