package renderer

import (
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// RendererBuilderOption configures a renderer in NewRenderer.
type RendererBuilderOption func(*rendererConfig)

// WithLogger sets the logger for device, surface and resize events. Defaults to a no-op logger.
//
// Parameters:
//   - log: the logger
//
// Returns:
//   - RendererBuilderOption: the option
func WithLogger(log *zap.Logger) RendererBuilderOption {
	return func(c *rendererConfig) {
		if log != nil {
			c.log = log
		}
	}
}

// WithPresentMode sets the initial present mode. Defaults to PresentModeUncapped.
//
// Parameters:
//   - mode: the PresentMode to use
//
// Returns:
//   - RendererBuilderOption: the option
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(c *rendererConfig) {
		c.presentMode = mode
	}
}

// WithMSAA sets the sample count of the main render pass. Defaults to MSAA4x; counts WebGPU
// does not accept fall back to the default.
//
// Parameters:
//   - count: the sample count
//
// Returns:
//   - RendererBuilderOption: the option
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(c *rendererConfig) {
		c.msaa = count
	}
}

// WithForceSoftwareRenderer requests the fallback (CPU) adapter. Needs a software Vulkan ICD
// such as lavapipe or SwiftShader.
//
// Parameters:
//   - force: true to request the fallback adapter
//
// Returns:
//   - RendererBuilderOption: the option
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(c *rendererConfig) {
		c.fallbackAdapter = force
	}
}

// WithClearColor sets the initial clear color. Defaults to DefaultClearColor.
//
// Parameters:
//   - clear: the clear color
//
// Returns:
//   - RendererBuilderOption: the option
func WithClearColor(clear wgpu.Color) RendererBuilderOption {
	return func(c *rendererConfig) {
		c.clearColor = clear
	}
}
