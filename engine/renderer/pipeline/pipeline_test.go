package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-tilemap/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

const testSource = `
@vertex fn vs_main(@location(0) pos: vec2<f32>) -> @builtin(position) vec4<f32> {
	return vec4<f32>(pos, 0.0, 1.0);
}
@fragment fn fs_main() -> @location(0) vec4<f32> {
	return vec4<f32>(1.0);
}
`

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("tiles")
	if p.PipelineKey() != "tiles" {
		t.Errorf("PipelineKey = %q, want %q", p.PipelineKey(), "tiles")
	}
	if !p.BlendEnabled() {
		t.Error("blending should be enabled by default")
	}
	prim := p.Primitive()
	if prim.CullMode != wgpu.CullModeNone || prim.Topology != wgpu.PrimitiveTopologyTriangleList {
		t.Errorf("Primitive = %+v, want unculled triangle list", prim)
	}
	target := p.ColorTarget(wgpu.TextureFormatBGRA8UnormSrgb)
	if target.Format != wgpu.TextureFormatBGRA8UnormSrgb || target.WriteMask != wgpu.ColorWriteMaskAll {
		t.Errorf("ColorTarget = %+v", target)
	}
	if target.Blend == nil || *target.Blend != StraightAlphaBlend {
		t.Errorf("ColorTarget blend = %+v, want straight alpha", target.Blend)
	}
	if p.RenderPipeline() != nil || p.BindGroupLayout(0) != nil {
		t.Error("unregistered pipeline should hold no GPU objects")
	}
	p.Release()
}

func TestPipelineOptions(t *testing.T) {
	lines := wgpu.PrimitiveState{Topology: wgpu.PrimitiveTopologyLineList, FrontFace: wgpu.FrontFaceCW, CullMode: wgpu.CullModeBack}
	p := NewPipeline("lines", WithBlendState(nil), WithPrimitiveState(lines))

	if p.BlendEnabled() {
		t.Error("WithBlendState(nil) should disable blending")
	}
	if p.ColorTarget(wgpu.TextureFormatRGBA8Unorm).Blend != nil {
		t.Error("opaque pipeline has a blend state")
	}
	if p.Primitive() != lines {
		t.Errorf("Primitive = %+v, want %+v", p.Primitive(), lines)
	}
	if p.BindGroupLayout(-1) != nil || p.BindGroupLayout(3) != nil {
		t.Error("out of range group should return nil")
	}
}

func TestValidate(t *testing.T) {
	vs := shader.NewShader("tiles.vs", shader.ShaderTypeVertex, testSource)
	fs := shader.NewShader("tiles.fs", shader.ShaderTypeFragment, testSource)

	tests := []struct {
		name    string
		opts    []PipelineBuilderOption
		wantErr bool
	}{
		{"complete", []PipelineBuilderOption{WithVertexShader(vs), WithFragmentShader(fs)}, false},
		{"missing fragment", []PipelineBuilderOption{WithVertexShader(vs)}, true},
		{"missing vertex", []PipelineBuilderOption{WithFragmentShader(fs)}, true},
		{"stages swapped", []PipelineBuilderOption{WithVertexShader(fs), WithFragmentShader(vs)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPipeline("tiles", tt.opts...)
			if err := p.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	p := NewPipeline("tiles", WithVertexShader(vs), WithFragmentShader(fs))
	if p.Shader(shader.ShaderTypeVertex) != vs || p.Shader(shader.ShaderTypeFragment) != fs {
		t.Error("shaders not stored by stage")
	}
}
