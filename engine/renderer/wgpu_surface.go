package renderer

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// DefaultClearColor is the clear color used when none is configured.
var DefaultClearColor = wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1}

// surfaceSettings are the user-selected presentation settings; they outlive reconfiguration.
type surfaceSettings struct {
	presentMode wgpu.PresentMode
	sampleCount MSAASampleCount
	clearColor  wgpu.Color
}

// surfaceTarget is the state produced by the last successful ConfigureSurface.
type surfaceTarget struct {
	configured    bool
	stale         bool
	format        wgpu.TextureFormat
	width, height uint32

	msaaTexture *wgpu.Texture
	msaaView    *wgpu.TextureView
}

func (t *surfaceTarget) release() {
	if t.msaaView != nil {
		t.msaaView.Release()
		t.msaaView = nil
	}
	if t.msaaTexture != nil {
		t.msaaTexture.Release()
		t.msaaTexture = nil
	}
}

// colorAttachment describes the frame's single color attachment. With MSAA the pass renders
// into the multisampled target and resolves into the swapchain view.
func (t *surfaceTarget) colorAttachment(swapchain *wgpu.TextureView, clear wgpu.Color) wgpu.RenderPassColorAttachment {
	a := wgpu.RenderPassColorAttachment{
		View:       swapchain,
		LoadOp:     wgpu.LoadOpClear,
		StoreOp:    wgpu.StoreOpStore,
		ClearValue: clear,
	}
	if t.msaaView != nil {
		a.View = t.msaaView
		a.ResolveTarget = swapchain
		a.StoreOp = wgpu.StoreOpDiscard
	}
	return a
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Minimized windows report a zero-sized framebuffer.
	if width <= 0 || height <= 0 {
		return nil
	}
	return b.configureLocked(uint32(width), uint32(height))
}

func (b *wgpuRendererBackendImpl) configureLocked(width, height uint32) error {
	caps := b.surface.GetCapabilities(b.adapter)
	format, ok := pickSurfaceFormat(caps.Formats)
	if !ok {
		return errors.New("surface reports no texture formats")
	}
	if b.target.configured && format != b.target.format {
		b.log.Warn("surface format changed, registered pipelines target the old format",
			zap.Any("old", b.target.format), zap.Any("new", format))
	}
	presentMode := pickPresentMode(caps.PresentModes, b.settings.presentMode)

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		Width:       width,
		Height:      height,
		PresentMode: presentMode,
		AlphaMode:   pickAlphaMode(caps.AlphaModes),
	})

	b.target.release()
	b.target = surfaceTarget{configured: true, format: format, width: width, height: height}

	if count := uint32(b.settings.sampleCount); count > 1 {
		tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         "msaa target",
			Size:          wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        format,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			return fmt.Errorf("create msaa target: %w", err)
		}
		view, err := tex.CreateView(nil)
		if err != nil {
			tex.Release()
			return fmt.Errorf("create msaa view: %w", err)
		}
		b.target.msaaTexture, b.target.msaaView = tex, view
	}

	b.log.Debug("surface configured",
		zap.Uint32("width", width),
		zap.Uint32("height", height),
		zap.Any("format", format),
		zap.Any("present_mode", presentMode))
	return nil
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	want := mode.surfaceMode()
	if want == b.settings.presentMode {
		return nil
	}
	b.settings.presentMode = want
	if !b.target.configured {
		return nil
	}
	return b.configureLocked(b.target.width, b.target.height)
}

func (b *wgpuRendererBackendImpl) SetClearColor(c wgpu.Color) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.settings.clearColor = c
}

// pickSurfaceFormat prefers an sRGB swapchain so tile colors written in linear space are
// encoded on store. Falls back to the surface's first format.
func pickSurfaceFormat(formats []wgpu.TextureFormat) (wgpu.TextureFormat, bool) {
	if len(formats) == 0 {
		return wgpu.TextureFormatUndefined, false
	}
	for _, want := range []wgpu.TextureFormat{wgpu.TextureFormatBGRA8UnormSrgb, wgpu.TextureFormatRGBA8UnormSrgb} {
		if slices.Contains(formats, want) {
			return want, true
		}
	}
	return formats[0], true
}

// pickPresentMode returns want when supported, otherwise FIFO which every surface supports.
func pickPresentMode(supported []wgpu.PresentMode, want wgpu.PresentMode) wgpu.PresentMode {
	if slices.Contains(supported, want) {
		return want
	}
	return wgpu.PresentModeFifo
}

func pickAlphaMode(supported []wgpu.CompositeAlphaMode) wgpu.CompositeAlphaMode {
	if slices.Contains(supported, wgpu.CompositeAlphaModeOpaque) {
		return wgpu.CompositeAlphaModeOpaque
	}
	if len(supported) > 0 {
		return supported[0]
	}
	return wgpu.CompositeAlphaModeAuto
}
