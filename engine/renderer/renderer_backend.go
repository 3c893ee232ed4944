package renderer

import "github.com/cogentcore/webgpu/wgpu"

// RendererBackendType selects the GPU API behind a Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU draws through WebGPU (wgpu-native).
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls when a finished frame reaches the display.
type PresentMode int

const (
	// PresentModeVSync waits for vertical blank. No tearing, frame rate capped to the display.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents immediately. Lowest latency, may tear.
	PresentModeUncapped
)

// surfaceMode maps the mode to the WebGPU present mode requested from the surface. The surface
// falls back to FIFO when the adapter does not offer it.
func (m PresentMode) surfaceMode() wgpu.PresentMode {
	if m == PresentModeVSync {
		return wgpu.PresentModeFifo
	}
	return wgpu.PresentModeImmediate
}

// MSAASampleCount is the multisample count of the main render pass. WebGPU guarantees 1 and 4;
// 8 and 16 depend on the adapter.
type MSAASampleCount uint32

const (
	MSAAOff MSAASampleCount = 1
	MSAA4x  MSAASampleCount = 4
	MSAA8x  MSAASampleCount = 8
	MSAA16x MSAASampleCount = 16
)

// valid reports whether c is one of the sample counts WebGPU accepts.
func (c MSAASampleCount) valid() bool {
	switch c {
	case MSAAOff, MSAA4x, MSAA8x, MSAA16x:
		return true
	}
	return false
}

// RendererBackend is the backend a Renderer forwards to, one implementation per GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}
