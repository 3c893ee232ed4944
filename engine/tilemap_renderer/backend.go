package tilemap_renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-tilemap/common"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/tilemap_view"
	"go.uber.org/zap"
)

var (
	// ErrDisposed is returned by any call on a renderer after Dispose, and by Dispose itself
	// when called twice.
	ErrDisposed = errors.New("tilemap_renderer: renderer disposed")

	// ErrNotInitialized is returned when a renderer is used before Init succeeded.
	ErrNotInitialized = errors.New("tilemap_renderer: renderer not initialized")

	// ErrNoBatch is returned when a chunk draws outside BeginChunks / EndChunks.
	ErrNoBatch = errors.New("tilemap_renderer: no chunk batch open")

	// ErrReleased is returned by a backend used after Release.
	ErrReleased = errors.New("tilemap_renderer: backend released")
)

// backend is the implementation of the Backend interface.
type backend struct {
	mu     sync.Mutex
	log    *zap.Logger
	device Device

	atlas            Atlas
	tileset          common.TextureStagingData
	sampler          common.SamplerStagingData
	backdropColor    [4]float32
	backdropSegments int

	// view holds the transform uniform (chunk pipeline group 0)
	view bind_group_provider.BindGroupProvider
	// tilesetGroup holds the atlas texture and sampler (chunk pipeline group 1)
	tilesetGroup bind_group_provider.BindGroupProvider

	batchOpen bool
	released  bool
}

// Backend draws tilemap views through a Device. It owns the atlas texture, its sampler and the
// transform uniform shared by every chunk of one view, so each view needs its own Backend.
type Backend interface {
	tilemap_view.Backend

	// Atlas returns the atlas layout used to map tile ids to texture cells.
	//
	// Returns:
	//   - Atlas: the atlas layout
	Atlas() Atlas

	// Release releases the shared GPU resources. Renderers created by this backend must be
	// disposed first.
	Release()
}

var _ Backend = &backend{}

// NewBackend registers the tilemap pipelines on the device and uploads the atlas.
// Panics if device is nil.
//
// Parameters:
//   - device: the renderer to draw through
//   - options: functional options for the atlas, sampler, backdrop and logger
//
// Returns:
//   - Backend: the backend, ready to create renderers
//   - error: if a pipeline or a shared GPU resource could not be created
func NewBackend(device Device, options ...BackendBuilderOption) (Backend, error) {
	if device == nil {
		panic("tilemap_renderer: NewBackend requires a non-nil Device")
	}
	b := &backend{
		log:              zap.NewNop(),
		device:           device,
		atlas:            DefaultAtlas,
		sampler:          common.PixelArtSampler(),
		backdropColor:    [4]float32{0.18, 0.14, 0.11, 1},
		backdropSegments: 128,
	}
	for _, opt := range options {
		opt(b)
	}
	if b.tileset.Pixels == nil {
		b.tileset = DefaultTileset()
		b.atlas = DefaultAtlas
	}

	if err := device.RegisterPipelines(newChunkPipeline(), newBackdropPipeline()); err != nil {
		return nil, fmt.Errorf("tilemap_renderer: %w", err)
	}

	b.view = bind_group_provider.NewBindGroupProvider("tilemap view",
		bind_group_provider.WithSharedBindGroupLayout(sharedLayout(device, ChunkPipelineKey, 0)),
	)
	b.tilesetGroup = bind_group_provider.NewBindGroupProvider("tilemap tileset",
		bind_group_provider.WithSharedBindGroupLayout(sharedLayout(device, ChunkPipelineKey, 1)),
	)

	if err := b.initShared(); err != nil {
		b.view.Release()
		b.tilesetGroup.Release()
		return nil, fmt.Errorf("tilemap_renderer: %w", err)
	}

	b.log.Debug("tilemap backend ready",
		zap.Int("atlas_columns", b.atlas.Columns),
		zap.Int("atlas_rows", b.atlas.Rows),
		zap.Uint32("tileset_width", b.tileset.Width),
		zap.Uint32("tileset_height", b.tileset.Height),
	)
	return b, nil
}

func (b *backend) initShared() error {
	if err := b.device.InitBindGroup(b.view, viewLayout(), nil); err != nil {
		return fmt.Errorf("init view bind group: %w", err)
	}
	if err := b.device.InitTextureView(b.tilesetGroup, 0, b.tileset); err != nil {
		return fmt.Errorf("upload tileset: %w", err)
	}
	if err := b.device.InitSampler(b.tilesetGroup, 1, b.sampler); err != nil {
		return fmt.Errorf("init tileset sampler: %w", err)
	}
	if err := b.device.InitBindGroup(b.tilesetGroup, tilesetLayout(), nil); err != nil {
		return fmt.Errorf("init tileset bind group: %w", err)
	}
	return nil
}

func (b *backend) Atlas() Atlas {
	return b.atlas
}

func (b *backend) NewChunkRenderer() tilemap_view.ChunkRenderer {
	return &chunkRenderer{backend: b}
}

func (b *backend) NewBackdropRenderer() tilemap_view.BackdropRenderer {
	return &backdropRenderer{backend: b}
}

func (b *backend) BeginChunks(transform common.Mat4) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.released {
		return ErrReleased
	}
	if b.batchOpen {
		return errors.New("tilemap_renderer: chunk batch already open")
	}

	u := viewUniform{Transform: transform}
	b.device.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: b.view, Binding: 0, Data: common.StructToBytes(&u)},
	})
	b.batchOpen = true
	return nil
}

func (b *backend) EndChunks() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.batchOpen {
		return ErrNoBatch
	}
	b.batchOpen = false
	return nil
}

// drawChunk records one chunk mesh inside the open batch.
func (b *backend) drawChunk(mesh bind_group_provider.BindGroupProvider) error {
	b.mu.Lock()
	open := b.batchOpen
	b.mu.Unlock()

	if !open {
		return ErrNoBatch
	}
	return b.device.DrawCall(ChunkPipelineKey, mesh, []bind_group_provider.BindGroupProvider{b.view, b.tilesetGroup})
}

// upload builds a fresh mesh provider for m. The caller owns the returned provider.
func (b *backend) upload(label string, m Mesh) (bind_group_provider.BindGroupProvider, error) {
	p := bind_group_provider.NewBindGroupProvider(label)
	err := b.device.InitMeshBuffers(p, common.SliceToBytes(m.Vertices), common.SliceToBytes(m.Indices), len(m.Indices))
	if err != nil {
		p.Release()
		return nil, err
	}
	return p, nil
}

func (b *backend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.released {
		return
	}
	b.released = true
	b.batchOpen = false
	b.view.Release()
	b.tilesetGroup.Release()
}
