package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-tilemap/common"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// rendererConfig collects builder options before the GPU device exists.
type rendererConfig struct {
	log             *zap.Logger
	fallbackAdapter bool
	presentMode     PresentMode
	msaa            MSAASampleCount
	clearColor      wgpu.Color
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu        sync.Mutex
	log       *zap.Logger
	backend   RendererBackend
	pipelines map[string]pipeline.Pipeline
}

// Renderer draws indexed meshes into a window surface. Every frame is bracketed by
// BeginFrame, EndFrame and Present; resources are created up front through the Init methods
// and stored on BindGroupProviders owned by the caller.
type Renderer interface {
	// Pipeline returns the registered pipeline for key, or nil.
	//
	// Parameters:
	//   - key: the pipeline key
	//
	// Returns:
	//   - pipeline.Pipeline: the registered pipeline or nil
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines creates the GPU objects for each pipeline and makes it drawable under
	// its PipelineKey. Keys that are already registered are skipped.
	//
	// Parameters:
	//   - pipelines: the pipelines to register
	//
	// Returns:
	//   - error: the first creation failure; earlier pipelines stay registered
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize reconfigures the surface for a new framebuffer size. Zero sizes are ignored.
	//
	// Parameters:
	//   - width: the framebuffer width in pixels
	//   - height: the framebuffer height in pixels
	Resize(width, height int)

	// SetPresentMode switches between vsync and uncapped presentation, reconfiguring the
	// surface immediately. Must not be called between BeginFrame and Present.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	//
	// Returns:
	//   - error: an error if the surface could not be reconfigured
	SetPresentMode(mode PresentMode) error

	// InitMeshBuffers uploads vertex and index data and stores the buffers on provider.
	// Empty slices leave the corresponding buffer unset.
	//
	// Parameters:
	//   - provider: the provider receiving the buffers
	//   - vertexData: raw vertex bytes
	//   - indexData: raw uint32 index bytes
	//   - indexCount: the number of indices to draw
	//
	// Returns:
	//   - error: an error if a buffer could not be created; provider is unchanged on failure
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitBindGroup creates the bind group described by descriptor on provider. Buffer
	// bindings are created on first use, sized by MinBindingSize unless overridden. Texture
	// and sampler bindings must be initialized first.
	//
	// Parameters:
	//   - provider: the provider receiving the bind group
	//   - descriptor: the layout of the group
	//   - bufferSizeOverrides: buffer sizes keyed by binding (nil safe)
	//
	// Returns:
	//   - error: an error if a binding is missing or a GPU object could not be created
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error

	// InitTextureView uploads RGBA8 pixels into an sRGB texture and stores its view on
	// provider under bindingKey.
	//
	// Parameters:
	//   - provider: the provider receiving the view
	//   - bindingKey: the binding the view is used at
	//   - stagingData: the pixels and their size
	//
	// Returns:
	//   - error: an error if the size is zero, the pixels are short, or creation fails
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error

	// InitSampler creates a sampler and stores it on provider under bindingKey. Zero fields
	// default to repeat addressing and linear filtering.
	//
	// Parameters:
	//   - provider: the provider receiving the sampler
	//   - bindingKey: the binding the sampler is used at
	//   - samplerStagingData: the sampler settings
	//
	// Returns:
	//   - error: an error if the sampler could not be created
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error

	// WriteBuffers queues each write into its provider's buffer. Writes to bindings without a
	// buffer are dropped.
	//
	// Parameters:
	//   - writes: the writes to queue
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the next surface image and opens the frame's render pass. An
	// outdated surface is reconfigured on the following call.
	//
	// Returns:
	//   - error: ErrFrameInFlight, ErrSurfaceNotConfigured or an acquisition failure
	BeginFrame() error

	// DrawCall encodes one indexed draw. Providers without a mesh are skipped.
	//
	// Parameters:
	//   - pipelineKey: the registered pipeline to draw with
	//   - meshProvider: the provider holding the vertex and index buffers
	//   - bindGroups: providers whose bind groups are set, in group order
	//
	// Returns:
	//   - error: an error if the pipeline is unknown or no frame is open
	DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame closes the render pass and submits the frame's commands.
	EndFrame()

	// Present shows the submitted frame and releases its surface image.
	Present()

	// FrameStats returns the counters of the last submitted frame.
	//
	// Returns:
	//   - FrameStats: draw calls and indices
	FrameStats() FrameStats

	// DrawStats is FrameStats as a pair, for callers that do not import this package.
	//
	// Returns:
	//   - int: draw calls of the last submitted frame
	//   - int: indices of the last submitted frame
	DrawStats() (drawCalls, indices int)

	// Release releases the registered pipelines and every GPU object owned by the renderer.
	// Providers created by the caller must be released first.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer drawing into win's surface. Defaults to uncapped present,
// 4x MSAA and a dark grey clear color.
//
// Parameters:
//   - backendType: the GPU API to use
//   - win: the window providing the surface and its initial framebuffer size
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the new renderer
//   - error: an error if no adapter or device is available, or surface setup fails
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) (Renderer, error) {
	cfg := rendererConfig{
		log:         zap.NewNop(),
		presentMode: PresentModeUncapped,
		msaa:        MSAA4x,
		clearColor:  DefaultClearColor,
	}
	for _, opt := range options {
		opt(&cfg)
	}
	if !cfg.msaa.valid() {
		cfg.log.Warn("unsupported msaa sample count, using 4x", zap.Uint32("msaa", uint32(cfg.msaa)))
		cfg.msaa = MSAA4x
	}

	var backend RendererBackend
	var err error
	switch backendType {
	case BackendTypeWGPU:
		backend, err = newWGPURendererBackend(cfg.log, win.SurfaceDescriptor(), cfg.fallbackAdapter, cfg.msaa)
	default:
		return nil, fmt.Errorf("renderer: unknown backend type %d", backendType)
	}
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}

	r := &renderer{
		log:       cfg.log,
		backend:   backend,
		pipelines: make(map[string]pipeline.Pipeline),
	}
	// Neither setting touches the GPU before the surface is configured.
	_ = backend.SetPresentMode(cfg.presentMode)
	backend.SetClearColor(cfg.clearColor)
	if err := backend.ConfigureSurface(win.Width(), win.Height()); err != nil {
		backend.Release()
		return nil, fmt.Errorf("renderer: configure surface: %w", err)
	}
	return r, nil
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelines[key]
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, ok := r.pipelines[key]; ok {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("register pipeline %q: %w", key, err)
		}
		r.pipelines[key] = p
	}
	return nil
}

func (r *renderer) Resize(width, height int) {
	if err := r.backend.ConfigureSurface(width, height); err != nil {
		r.log.Error("resize surface", zap.Int("width", width), zap.Int("height", height), zap.Error(err))
	}
}

func (r *renderer) SetPresentMode(mode PresentMode) error {
	if err := r.backend.SetPresentMode(mode); err != nil {
		return fmt.Errorf("renderer: present mode: %w", err)
	}
	return nil
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	return r.backend.InitMeshBuffers(provider, vertexData, indexData, indexCount)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error {
	return r.backend.InitBindGroup(provider, descriptor, bufferSizeOverrides)
}

func (r *renderer) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	return r.backend.InitTextureView(provider, bindingKey, stagingData)
}

func (r *renderer) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error {
	return r.backend.InitSampler(provider, bindingKey, samplerStagingData)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.backend.WriteBuffers(writes)
}

func (r *renderer) BeginFrame() error { return r.backend.BeginFrame() }

func (r *renderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error {
	p := r.Pipeline(pipelineKey)
	if p == nil {
		return fmt.Errorf("render pipeline %q is not registered", pipelineKey)
	}
	if meshProvider == nil || !meshProvider.HasMesh() {
		return nil
	}
	return r.backend.DrawCall(p, meshProvider, bindGroups)
}

func (r *renderer) EndFrame() { r.backend.EndFrame() }

func (r *renderer) Present() { r.backend.Present() }

func (r *renderer) FrameStats() FrameStats { return r.backend.FrameStats() }

func (r *renderer) DrawStats() (int, int) {
	s := r.backend.FrameStats()
	return s.DrawCalls, s.Indices
}

func (r *renderer) Release() {
	r.mu.Lock()
	for key, p := range r.pipelines {
		p.Release()
		delete(r.pipelines, key)
	}
	r.mu.Unlock()
	r.backend.Release()
}
