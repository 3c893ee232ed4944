package renderer

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-tilemap/common"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// wgpuRendererBackendImpl owns the WebGPU instance, device and surface. Its methods are split
// across files: wgpu_surface.go, wgpu_resources.go and wgpu_frame.go.
type wgpuRendererBackendImpl struct {
	mu  *sync.Mutex
	log *zap.Logger

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface

	settings surfaceSettings
	target   surfaceTarget
	frame    *wgpuFrame
	stats    FrameStats
}

// wgpuRendererBackend is what the renderer forwards to. Calls must come from the render thread.
type wgpuRendererBackend interface {
	// ConfigureSurface (re)configures the swapchain for a framebuffer size. A zero-sized
	// framebuffer keeps the previous configuration.
	//
	// Parameters:
	//   - width: the framebuffer width in pixels
	//   - height: the framebuffer height in pixels
	//
	// Returns:
	//   - error: an error if the surface reports no usable format or the MSAA target fails
	ConfigureSurface(width, height int) error

	// SetPresentMode selects the present mode, reconfiguring a configured surface right away.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	//
	// Returns:
	//   - error: an error if reconfiguration fails
	SetPresentMode(mode PresentMode) error

	// SetClearColor sets the color the next frame clears to.
	//
	// Parameters:
	//   - c: the clear color
	SetClearColor(c wgpu.Color)

	// RegisterRenderPipeline compiles p's shaders and builds its layouts and GPU pipeline,
	// storing the results back on p.
	//
	// Parameters:
	//   - p: the pipeline to create
	//
	// Returns:
	//   - error: an error if any GPU object could not be created
	RegisterRenderPipeline(p pipeline.Pipeline) error

	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	BeginFrame() error
	DrawCall(p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error
	EndFrame()
	Present()

	// FrameStats returns the counters of the last submitted frame.
	//
	// Returns:
	//   - FrameStats: draw calls and indices encoded by the last frame
	FrameStats() FrameStats

	// Release drops the frame in flight, the surface targets and every device object.
	Release()
}

func newWGPURendererBackend(log *zap.Logger, surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount) (wgpuRendererBackend, error) {
	// wgpu-native surfaces must be driven from the thread that created them.
	runtime.LockOSThread()

	b := &wgpuRendererBackendImpl{
		mu:       &sync.Mutex{},
		log:      log,
		instance: wgpu.CreateInstance(nil),
		settings: surfaceSettings{
			presentMode: wgpu.PresentModeImmediate,
			sampleCount: sampleCount,
			clearColor:  DefaultClearColor,
		},
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	adapter, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	b.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:          "oxy-tilemap device",
		RequiredLimits: &wgpu.RequiredLimits{Limits: wgpu.DefaultLimits()},
	})
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("request device: %w", err)
	}
	b.device = device
	b.queue = device.GetQueue()

	b.log.Debug("wgpu device ready",
		zap.Bool("fallback_adapter", forceFallbackAdapter),
		zap.Uint32("msaa", uint32(sampleCount)))
	return b, nil
}

func (b *wgpuRendererBackendImpl) FrameStats() FrameStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frame != nil {
		b.frame.release()
		b.frame = nil
	}
	b.target.release()

	// Children before parents.
	if b.queue != nil {
		b.queue.Release()
	}
	if b.device != nil {
		b.device.Release()
	}
	if b.adapter != nil {
		b.adapter.Release()
	}
	if b.surface != nil {
		b.surface.Release()
	}
	if b.instance != nil {
		b.instance.Release()
	}
	b.queue, b.device, b.adapter, b.surface, b.instance = nil, nil, nil, nil, nil
}
