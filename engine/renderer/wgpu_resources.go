package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-tilemap/common"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// bindingKind classifies a layout entry by the resource it binds.
type bindingKind int

const (
	bindingBuffer bindingKind = iota
	bindingTexture
	bindingSampler
)

func kindOf(entry wgpu.BindGroupLayoutEntry) bindingKind {
	switch {
	case entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined:
		return bindingTexture
	case entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
		return bindingSampler
	default:
		return bindingBuffer
	}
}

// bufferUsage maps a buffer binding type to the usage its backing buffer needs. Every bound
// buffer is written from the CPU through the queue.
func bufferUsage(t wgpu.BufferBindingType) wgpu.BufferUsage {
	switch t {
	case wgpu.BufferBindingTypeStorage, wgpu.BufferBindingTypeReadOnlyStorage:
		return wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
	default:
		return wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst
	}
}

// samplerDescriptor fills the zero fields of s with repeat addressing and linear filtering.
func samplerDescriptor(label string, s common.SamplerStagingData) *wgpu.SamplerDescriptor {
	return &wgpu.SamplerDescriptor{
		Label:         label,
		AddressModeU:  common.Coalesce(s.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  common.Coalesce(s.AddressModeV, wgpu.AddressModeRepeat),
		AddressModeW:  common.Coalesce(s.AddressModeW, wgpu.AddressModeRepeat),
		MagFilter:     common.Coalesce(s.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(s.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(s.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   s.LodMinClamp,
		LodMaxClamp:   common.Coalesce(s.LodMaxClamp, 32),
		MaxAnisotropy: common.Coalesce(s.MaxAnisotropy, 1),
	}
}

func (b *wgpuRendererBackendImpl) RegisterRenderPipeline(p pipeline.Pipeline) error {
	if err := p.Validate(); err != nil {
		return err
	}
	vertex, fragment := p.Shader(shader.ShaderTypeVertex), p.Shader(shader.ShaderTypeFragment)

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.target.configured {
		return ErrSurfaceNotConfigured
	}

	vs, err := b.device.CreateShaderModule(vertex.Module())
	if err != nil {
		return fmt.Errorf("compile %s: %w", vertex.Key(), err)
	}
	defer vs.Release()
	fs, err := b.device.CreateShaderModule(fragment.Module())
	if err != nil {
		return fmt.Errorf("compile %s: %w", fragment.Key(), err)
	}
	defer fs.Release()

	layouts, err := b.createGroupLayouts(mergeBindGroupLayouts(vertex.BindGroupLayoutDescriptors(), fragment.BindGroupLayoutDescriptors()))
	if err != nil {
		return err
	}
	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey() + " layout",
		BindGroupLayouts: layouts,
	})
	if err != nil {
		releaseLayouts(layouts)
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	defer pipelineLayout.Release()

	rp, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey(),
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: vertex.EntryPoint(),
			Buffers:    vertex.VertexLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: fragment.EntryPoint(),
			Targets:    []wgpu.ColorTargetState{p.ColorTarget(b.target.format)},
		},
		Primitive: p.Primitive(),
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.settings.sampleCount),
			Mask:  ^uint32(0),
		},
	})
	if err != nil {
		releaseLayouts(layouts)
		return fmt.Errorf("create render pipeline: %w", err)
	}

	p.SetBindGroupLayouts(layouts)
	p.SetRenderPipeline(rp)
	return nil
}

// createGroupLayouts builds one layout per group index. Gaps in the numbering stay nil.
func (b *wgpuRendererBackendImpl) createGroupLayouts(descs map[int]wgpu.BindGroupLayoutDescriptor) ([]*wgpu.BindGroupLayout, error) {
	count := 0
	for group := range descs {
		count = max(count, group+1)
	}
	layouts := make([]*wgpu.BindGroupLayout, count)
	for group, desc := range descs {
		layout, err := b.device.CreateBindGroupLayout(&desc)
		if err != nil {
			releaseLayouts(layouts)
			return nil, fmt.Errorf("create layout for group %d: %w", group, err)
		}
		layouts[group] = layout
	}
	return layouts, nil
}

func releaseLayouts(layouts []*wgpu.BindGroupLayout) {
	for _, l := range layouts {
		if l != nil {
			l.Release()
		}
	}
}

// uploadBuffer creates a buffer sized to data and copies data into it.
func (b *wgpuRendererBackendImpl) uploadBuffer(label string, usage wgpu.BufferUsage, data []byte) (*wgpu.Buffer, error) {
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	b.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

func (b *wgpuRendererBackendImpl) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var vertices, indices *wgpu.Buffer
	var err error
	if len(vertexData) > 0 {
		if vertices, err = b.uploadBuffer(provider.Label()+" vertices", wgpu.BufferUsageVertex, vertexData); err != nil {
			return err
		}
	}
	if len(indexData) > 0 {
		if indices, err = b.uploadBuffer(provider.Label()+" indices", wgpu.BufferUsageIndex, indexData); err != nil {
			if vertices != nil {
				vertices.Release()
			}
			return err
		}
	}

	if vertices != nil {
		provider.SetVertexBuffer(vertices)
	}
	if indices != nil {
		provider.SetIndexBuffer(indices)
	}
	provider.SetIndexCount(indexCount)
	return nil
}

func (b *wgpuRendererBackendImpl) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(descriptor.Entries) == 0 {
		return nil
	}

	layout := provider.BindGroupLayout()
	if layout == nil {
		created, err := b.device.CreateBindGroupLayout(&descriptor)
		if err != nil {
			return fmt.Errorf("create %s layout: %w", provider.Label(), err)
		}
		provider.SetBindGroupLayout(created)
		layout = created
	}

	entries := make([]wgpu.BindGroupEntry, 0, len(descriptor.Entries))
	for _, le := range descriptor.Entries {
		entry, err := b.bindGroupEntry(provider, le, bufferSizeOverrides)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}

	group, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   provider.Label(),
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("create %s bind group: %w", provider.Label(), err)
	}
	provider.SetBindGroup(group)
	return nil
}

// bindGroupEntry resolves one layout entry against the provider. Textures and samplers must
// already be present; uniform and storage buffers are created on first use.
func (b *wgpuRendererBackendImpl) bindGroupEntry(provider bind_group_provider.BindGroupProvider, le wgpu.BindGroupLayoutEntry, sizes map[int]uint64) (wgpu.BindGroupEntry, error) {
	binding := int(le.Binding)
	entry := wgpu.BindGroupEntry{Binding: le.Binding}

	switch kindOf(le) {
	case bindingTexture:
		if entry.TextureView = provider.TextureView(binding); entry.TextureView == nil {
			return entry, fmt.Errorf("%s binding %d: no texture view, call InitTextureView first", provider.Label(), binding)
		}
	case bindingSampler:
		if entry.Sampler = provider.Sampler(binding); entry.Sampler == nil {
			return entry, fmt.Errorf("%s binding %d: no sampler, call InitSampler first", provider.Label(), binding)
		}
	default:
		buf := provider.Buffer(binding)
		if buf == nil {
			size, ok := sizes[binding]
			if !ok {
				size = le.Buffer.MinBindingSize
			}
			var err error
			buf, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
				Label: fmt.Sprintf("%s binding %d", provider.Label(), binding),
				Size:  size,
				Usage: bufferUsage(le.Buffer.Type),
			})
			if err != nil {
				return entry, fmt.Errorf("%s binding %d: %w", provider.Label(), binding, err)
			}
			provider.SetBuffer(binding, buf)
		}
		entry.Buffer = buf
		entry.Size = wgpu.WholeSize
	}
	return entry, nil
}

func (b *wgpuRendererBackendImpl) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := stagingData.Validate(); err != nil {
		return fmt.Errorf("%s: %w", provider.Label(), err)
	}
	w, h := stagingData.Width, stagingData.Height

	extent := wgpu.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         provider.Label() + " texture",
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		Size:          extent,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return fmt.Errorf("create %s texture: %w", provider.Label(), err)
	}
	// The view holds its own reference to the texture.
	defer tex.Release()

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{Texture: tex, Aspect: wgpu.TextureAspectAll},
		stagingData.Pixels,
		&wgpu.TextureDataLayout{BytesPerRow: stagingData.RowBytes(), RowsPerImage: h},
		&extent,
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create %s texture view: %w", provider.Label(), err)
	}
	provider.SetTextureView(bindingKey, view)
	return nil
}

func (b *wgpuRendererBackendImpl) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, err := b.device.CreateSampler(samplerDescriptor(provider.Label()+" sampler", samplerStagingData))
	if err != nil {
		return fmt.Errorf("create %s sampler: %w", provider.Label(), err)
	}
	provider.SetSampler(bindingKey, s)
	return nil
}

func (b *wgpuRendererBackendImpl) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, w := range writes {
		if buf := w.Provider.Buffer(w.Binding); buf != nil {
			b.queue.WriteBuffer(buf, w.Offset, w.Data)
		}
	}
}
