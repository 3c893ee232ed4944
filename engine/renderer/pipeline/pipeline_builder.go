package pipeline

import (
	"github.com/Carmen-Shannon/oxy-tilemap/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineBuilderOption configures a Pipeline in NewPipeline.
type PipelineBuilderOption func(*pipeline)

// WithVertexShader sets the vertex stage.
//
// Parameters:
//   - s: the vertex shader
//
// Returns:
//   - PipelineBuilderOption: the option
func WithVertexShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertex = s
	}
}

// WithFragmentShader sets the fragment stage.
//
// Parameters:
//   - s: the fragment shader
//
// Returns:
//   - PipelineBuilderOption: the option
func WithFragmentShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.fragment = s
	}
}

// WithBlendState replaces the default StraightAlphaBlend. nil disables blending, which suits
// fully opaque geometry.
//
// Parameters:
//   - blend: the blend state, or nil
//
// Returns:
//   - PipelineBuilderOption: the option
func WithBlendState(blend *wgpu.BlendState) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blend = blend
	}
}

// WithPrimitiveState replaces the default triangle list state.
//
// Parameters:
//   - state: the topology, winding and culling
//
// Returns:
//   - PipelineBuilderOption: the option
func WithPrimitiveState(state wgpu.PrimitiveState) PipelineBuilderOption {
	return func(p *pipeline) {
		p.primitive = state
	}
}
