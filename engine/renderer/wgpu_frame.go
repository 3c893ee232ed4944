package renderer

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-tilemap/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

var (
	// ErrFrameInFlight is returned by BeginFrame when the previous frame was not presented.
	ErrFrameInFlight = errors.New("renderer: previous frame not presented")
	// ErrNoFrame is returned by DrawCall outside BeginFrame/EndFrame.
	ErrNoFrame = errors.New("renderer: draw call outside of a frame")
	// ErrSurfaceNotConfigured is returned before the first successful ConfigureSurface.
	ErrSurfaceNotConfigured = errors.New("renderer: surface not configured")
)

// FrameStats counts the work encoded into one frame.
type FrameStats struct {
	DrawCalls int
	Indices   int
}

// wgpuFrame holds the objects acquired for one frame. pass and encoder are nil once the frame
// has been submitted; surface and view live until Present.
type wgpuFrame struct {
	surface *wgpu.Texture
	view    *wgpu.TextureView
	encoder *wgpu.CommandEncoder
	pass    *wgpu.RenderPassEncoder
	stats   FrameStats
}

// release drops whatever the frame still holds, in reverse acquisition order.
func (f *wgpuFrame) release() {
	if f.pass != nil {
		f.pass.Release()
		f.pass = nil
	}
	if f.encoder != nil {
		f.encoder.Release()
		f.encoder = nil
	}
	if f.view != nil {
		f.view.Release()
		f.view = nil
	}
	if f.surface != nil {
		f.surface.Release()
		f.surface = nil
	}
}

func (b *wgpuRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frame != nil {
		return ErrFrameInFlight
	}
	if !b.target.configured {
		return ErrSurfaceNotConfigured
	}
	// A failed acquire usually means the swapchain is outdated; rebuild it before retrying.
	if b.target.stale {
		if err := b.configureLocked(b.target.width, b.target.height); err != nil {
			return fmt.Errorf("reconfigure surface: %w", err)
		}
	}

	f := &wgpuFrame{}
	var err error
	if f.surface, err = b.surface.GetCurrentTexture(); err != nil {
		b.target.stale = true
		b.log.Debug("surface texture unavailable", zap.Error(err))
		return fmt.Errorf("acquire surface texture: %w", err)
	}
	if f.view, err = f.surface.CreateView(nil); err != nil {
		f.release()
		return fmt.Errorf("create surface view: %w", err)
	}
	if f.encoder, err = b.device.CreateCommandEncoder(nil); err != nil {
		f.release()
		return fmt.Errorf("create command encoder: %w", err)
	}
	f.pass = f.encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label:            "tilemap frame",
		ColorAttachments: []wgpu.RenderPassColorAttachment{b.target.colorAttachment(f.view, b.settings.clearColor)},
	})

	b.frame = f
	return nil
}

func (b *wgpuRendererBackendImpl) DrawCall(p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frame == nil || b.frame.pass == nil {
		return ErrNoFrame
	}
	rp := p.RenderPipeline()
	if rp == nil {
		return fmt.Errorf("pipeline %q is not registered", p.PipelineKey())
	}

	pass := b.frame.pass
	pass.SetPipeline(rp)
	for group, provider := range bindGroups {
		pass.SetBindGroup(uint32(group), provider.BindGroup(), nil)
	}
	pass.SetVertexBuffer(0, meshProvider.VertexBuffer(), 0, wgpu.WholeSize)
	pass.SetIndexBuffer(meshProvider.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)

	indices := meshProvider.IndexCount()
	pass.DrawIndexed(uint32(indices), 1, 0, 0, 0)

	b.frame.stats.DrawCalls++
	b.frame.stats.Indices += indices
	return nil
}

func (b *wgpuRendererBackendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	f := b.frame
	if f == nil || f.pass == nil {
		return
	}
	f.pass.End()
	f.pass.Release()
	f.pass = nil

	cmd, err := f.encoder.Finish(nil)
	f.encoder.Release()
	f.encoder = nil
	if err != nil {
		// Nothing was submitted, so there is nothing to present.
		b.log.Warn("finish command encoder", zap.Error(err))
		f.release()
		b.frame = nil
		return
	}
	b.queue.Submit(cmd)
	cmd.Release()
	b.stats = f.stats
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	f := b.frame
	if f == nil {
		return
	}
	// Presenting with an open pass would show an unsubmitted image.
	if f.pass == nil {
		b.surface.Present()
	}
	f.release()
	b.frame = nil
}
