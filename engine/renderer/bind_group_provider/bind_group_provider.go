package bind_group_provider

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// slot holds the resource bound at one binding index. Exactly one field is set.
type slot struct {
	buffer  *wgpu.Buffer
	view    *wgpu.TextureView
	sampler *wgpu.Sampler
}

func (s *slot) release() {
	if s.buffer != nil {
		s.buffer.Release()
	}
	if s.view != nil {
		s.view.Release()
	}
	if s.sampler != nil {
		s.sampler.Release()
	}
	*s = slot{}
}

// mesh is the optional geometry a provider draws.
type mesh struct {
	vertices *wgpu.Buffer
	indices  *wgpu.Buffer
	count    int
}

// bindGroupProvider is the implementation of BindGroupProvider. It owns every GPU object
// stored on it except a shared layout.
type bindGroupProvider struct {
	label string

	group        *wgpu.BindGroup
	layout       *wgpu.BindGroupLayout
	sharedLayout bool
	slots        map[int]*slot

	mesh mesh
}

// BindGroupProvider owns the GPU objects behind one draw: a bind group, the buffers, texture
// views and samplers it binds, and optionally a vertex/index mesh. The renderer's Init methods
// fill it; DrawCall reads it. Storing a new object over an old one releases the old one.
type BindGroupProvider interface {
	// Release releases every object the provider owns, mesh included. Safe to call twice.
	Release()

	// ReleaseMesh releases the vertex and index buffers and zeroes the index count. The bind
	// group is kept.
	ReleaseMesh()

	// HasMesh reports whether both mesh buffers exist and there is at least one index.
	//
	// Returns:
	//   - bool: true if the provider can be drawn
	HasMesh() bool

	// Label returns the prefix used for the labels of GPU objects created for this provider.
	//
	// Returns:
	//   - string: the label
	Label() string

	// BindGroup returns the bind group, or nil before InitBindGroup.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group or nil
	BindGroup() *wgpu.BindGroup

	// BindGroupLayout returns the layout the bind group is created against, or nil.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the layout or nil
	BindGroupLayout() *wgpu.BindGroupLayout

	// Buffer returns the buffer at binding, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(binding int) *wgpu.Buffer

	// TextureView returns the texture view at binding, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.TextureView: the view or nil
	TextureView(binding int) *wgpu.TextureView

	// Sampler returns the sampler at binding, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler or nil
	Sampler(binding int) *wgpu.Sampler

	VertexBuffer() *wgpu.Buffer
	IndexBuffer() *wgpu.Buffer
	IndexCount() int

	SetBindGroup(bg *wgpu.BindGroup)
	// SetBindGroupLayout replaces the layout; the provider owns the new one.
	SetBindGroupLayout(bgl *wgpu.BindGroupLayout)
	SetBuffer(binding int, buf *wgpu.Buffer)
	SetTextureView(binding int, tv *wgpu.TextureView)
	SetSampler(binding int, s *wgpu.Sampler)
	SetVertexBuffer(buf *wgpu.Buffer)
	SetIndexBuffer(buf *wgpu.Buffer)
	SetIndexCount(count int)
}

var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates an empty BindGroupProvider.
//
// Parameters:
//   - label: the label prefix for GPU objects created for this provider
//   - options: functional options to configure the provider
//
// Returns:
//   - BindGroupProvider: the new provider
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{label: label, slots: make(map[int]*slot)}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string { return p.label }

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup { return p.group }

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout { return p.layout }

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	if s, ok := p.slots[binding]; ok {
		return s.buffer
	}
	return nil
}

func (p *bindGroupProvider) TextureView(binding int) *wgpu.TextureView {
	if s, ok := p.slots[binding]; ok {
		return s.view
	}
	return nil
}

func (p *bindGroupProvider) Sampler(binding int) *wgpu.Sampler {
	if s, ok := p.slots[binding]; ok {
		return s.sampler
	}
	return nil
}

func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer { return p.mesh.vertices }

func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer { return p.mesh.indices }

func (p *bindGroupProvider) IndexCount() int { return p.mesh.count }

func (p *bindGroupProvider) HasMesh() bool {
	return p.mesh.vertices != nil && p.mesh.indices != nil && p.mesh.count > 0
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	if p.group != nil && p.group != bg {
		p.group.Release()
	}
	p.group = bg
}

func (p *bindGroupProvider) SetBindGroupLayout(bgl *wgpu.BindGroupLayout) {
	p.releaseLayout()
	p.layout = bgl
}

// store replaces the slot at binding, releasing what it held.
func (p *bindGroupProvider) store(binding int, next slot) {
	if s, ok := p.slots[binding]; ok {
		if *s == next {
			return
		}
		s.release()
	}
	p.slots[binding] = &next
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	p.store(binding, slot{buffer: buf})
}

func (p *bindGroupProvider) SetTextureView(binding int, tv *wgpu.TextureView) {
	p.store(binding, slot{view: tv})
}

func (p *bindGroupProvider) SetSampler(binding int, s *wgpu.Sampler) {
	p.store(binding, slot{sampler: s})
}

func (p *bindGroupProvider) SetVertexBuffer(buf *wgpu.Buffer) {
	if p.mesh.vertices != nil && p.mesh.vertices != buf {
		p.mesh.vertices.Release()
	}
	p.mesh.vertices = buf
}

func (p *bindGroupProvider) SetIndexBuffer(buf *wgpu.Buffer) {
	if p.mesh.indices != nil && p.mesh.indices != buf {
		p.mesh.indices.Release()
	}
	p.mesh.indices = buf
}

func (p *bindGroupProvider) SetIndexCount(count int) { p.mesh.count = count }

func (p *bindGroupProvider) ReleaseMesh() {
	p.SetVertexBuffer(nil)
	p.SetIndexBuffer(nil)
	p.mesh.count = 0
}

func (p *bindGroupProvider) releaseLayout() {
	if p.layout != nil && !p.sharedLayout {
		p.layout.Release()
	}
	p.layout = nil
	p.sharedLayout = false
}

func (p *bindGroupProvider) Release() {
	// The bind group references the slots, so it goes first.
	p.SetBindGroup(nil)
	for binding, s := range p.slots {
		s.release()
		delete(p.slots, binding)
	}
	p.releaseLayout()
	p.ReleaseMesh()
}
