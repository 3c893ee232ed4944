package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

const testSource = `
// @vertex fn commented_out() {}
@vertex
fn vs_main(@location(0) pos: vec2<f32>) -> @builtin(position) vec4<f32> {
	return vec4<f32>(pos, 0.0, 1.0);
}

@fragment fn fs_main() -> @location(0) vec4<f32> {
	return vec4<f32>(1.0);
}
`

func TestEntryPointDetection(t *testing.T) {
	tests := []struct {
		name       string
		shaderType ShaderType
		options    []ShaderBuilderOption
		want       string
	}{
		{"vertex", ShaderTypeVertex, nil, "vs_main"},
		{"fragment", ShaderTypeFragment, nil, "fs_main"},
		{"explicit", ShaderTypeVertex, []ShaderBuilderOption{WithEntryPoint("custom")}, "custom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewShader("test", tt.shaderType, testSource, tt.options...)
			if got := s.EntryPoint(); got != tt.want {
				t.Errorf("EntryPoint = %q, want %q", got, tt.want)
			}
			if s.Module().WGSLDescriptor.Code != testSource {
				t.Error("module code differs from source")
			}
		})
	}
}

func TestNewShaderPanicsWithoutEntryPoint(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewShader did not panic")
		}
	}()
	NewShader("empty", ShaderTypeFragment, "fn helper() {}")
}

func TestBindGroupLayoutDefaultsVisibility(t *testing.T) {
	s := NewShader("test", ShaderTypeFragment, testSource,
		WithBindGroupLayout(1, wgpu.BindGroupLayoutDescriptor{
			Entries: []wgpu.BindGroupLayoutEntry{
				{Binding: 0, Sampler: wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering}},
				{Binding: 1, Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment},
			},
		}),
	)

	entries := s.BindGroupLayoutDescriptor(1).Entries
	if entries[0].Visibility != wgpu.ShaderStageFragment {
		t.Errorf("default visibility = %v, want fragment", entries[0].Visibility)
	}
	if entries[1].Visibility != wgpu.ShaderStageVertex|wgpu.ShaderStageFragment {
		t.Errorf("explicit visibility overwritten: %v", entries[1].Visibility)
	}
	if len(s.BindGroupLayoutDescriptors()) != 1 {
		t.Errorf("descriptor count = %d, want 1", len(s.BindGroupLayoutDescriptors()))
	}
}
