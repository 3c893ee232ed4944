package renderer

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestMergeBindGroupLayouts(t *testing.T) {
	vertex := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Label: "view", Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageVertex, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform}},
		}},
	}
	fragment := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageFragment, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform}},
		}},
		1: {Label: "tileset", Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 1, Visibility: wgpu.ShaderStageFragment, Sampler: wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering}},
			{Binding: 0, Visibility: wgpu.ShaderStageFragment, Texture: wgpu.TextureBindingLayout{SampleType: wgpu.TextureSampleTypeFloat, ViewDimension: wgpu.TextureViewDimension2D}},
		}},
	}

	merged := mergeBindGroupLayouts(vertex, fragment)
	if len(merged) != 2 {
		t.Fatalf("merged %d groups, want 2", len(merged))
	}

	view := merged[0]
	if view.Label != "view" {
		t.Errorf("group 0 label = %q, want %q", view.Label, "view")
	}
	if len(view.Entries) != 1 {
		t.Fatalf("group 0 has %d entries, want 1", len(view.Entries))
	}
	if want := wgpu.ShaderStageVertex | wgpu.ShaderStageFragment; view.Entries[0].Visibility != want {
		t.Errorf("group 0 visibility = %v, want %v", view.Entries[0].Visibility, want)
	}

	tileset := merged[1]
	if len(tileset.Entries) != 2 || tileset.Entries[0].Binding != 1 {
		t.Errorf("fragment-only group should pass through unchanged, got %+v", tileset.Entries)
	}
}

func TestMergeBindGroupLayoutsSortsBindings(t *testing.T) {
	vertex := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Entries: []wgpu.BindGroupLayoutEntry{{Binding: 2, Visibility: wgpu.ShaderStageVertex}}},
	}
	fragment := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Entries: []wgpu.BindGroupLayoutEntry{{Binding: 0, Visibility: wgpu.ShaderStageFragment}, {Binding: 1, Visibility: wgpu.ShaderStageFragment}}},
	}
	entries := mergeBindGroupLayouts(vertex, fragment)[0].Entries
	for i, e := range entries {
		if int(e.Binding) != i {
			t.Fatalf("entries[%d].Binding = %d, want %d", i, e.Binding, i)
		}
	}
}
