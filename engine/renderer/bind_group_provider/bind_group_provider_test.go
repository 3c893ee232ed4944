package bind_group_provider

import "testing"

func TestNewBindGroupProviderKeepsLabel(t *testing.T) {
	p := NewBindGroupProvider("chunk 3")
	if p.Label() != "chunk 3" {
		t.Errorf("Label = %q, want %q", p.Label(), "chunk 3")
	}
	if p.HasMesh() {
		t.Error("empty provider reports a mesh")
	}
}

func TestReleaseMeshOnEmptyProvider(t *testing.T) {
	p := NewBindGroupProvider("empty")
	p.SetIndexCount(12)
	if p.HasMesh() {
		t.Error("index count alone should not make a mesh")
	}
	p.ReleaseMesh()
	if p.IndexCount() != 0 || p.VertexBuffer() != nil || p.IndexBuffer() != nil {
		t.Error("ReleaseMesh left mesh state behind")
	}
	p.Release()
	p.Release()
}

func TestUnsetBindingsAreNil(t *testing.T) {
	p := NewBindGroupProvider("slots")
	p.SetBuffer(0, nil)
	tests := []struct {
		name  string
		isNil bool
	}{
		{"buffer 0", p.Buffer(0) == nil},
		{"buffer 1", p.Buffer(1) == nil},
		{"texture 0", p.TextureView(0) == nil},
		{"sampler 2", p.Sampler(2) == nil},
	}
	for _, tt := range tests {
		if !tt.isNil {
			t.Errorf("%s is not nil", tt.name)
		}
	}
	if p.BindGroup() != nil || p.BindGroupLayout() != nil {
		t.Error("new provider has a bind group")
	}
	p.Release()
}

func TestSharedLayoutOptionWithNil(t *testing.T) {
	p := NewBindGroupProvider("shared", WithSharedBindGroupLayout(nil))
	if p.BindGroupLayout() != nil {
		t.Error("nil shared layout should leave the layout unset")
	}
	p.Release()
}
