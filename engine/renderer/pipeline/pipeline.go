package pipeline

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-tilemap/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// StraightAlphaBlend composites non-premultiplied colors over the target.
var StraightAlphaBlend = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
}

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	key              string
	vertex, fragment shader.Shader

	primitive wgpu.PrimitiveState
	// blend is nil when blending is disabled
	blend     *wgpu.BlendState
	writeMask wgpu.ColorWriteMask

	// set by the renderer on registration
	gpu     *wgpu.RenderPipeline
	layouts []*wgpu.BindGroupLayout
}

// Pipeline pairs a vertex and a fragment shader with the fixed-function state of a 2D draw.
// Tilemap pipelines have no depth attachment; draw order decides visibility.
type Pipeline interface {
	// PipelineKey returns the key the pipeline is registered and drawn under.
	//
	// Returns:
	//   - string: the key
	PipelineKey() string

	// Shader returns the shader for a stage, or nil.
	//
	// Parameters:
	//   - shaderType: the stage
	//
	// Returns:
	//   - shader.Shader: the shader or nil
	Shader(shaderType shader.ShaderType) shader.Shader

	// Validate checks that both stages are present and each shader was written for its slot.
	//
	// Returns:
	//   - error: nil when the pipeline can be registered
	Validate() error

	// Primitive returns the topology, winding and culling state.
	//
	// Returns:
	//   - wgpu.PrimitiveState: the primitive state
	Primitive() wgpu.PrimitiveState

	// ColorTarget returns the color target state for a surface format, with blending applied
	// when enabled.
	//
	// Parameters:
	//   - format: the render target format
	//
	// Returns:
	//   - wgpu.ColorTargetState: the target state
	ColorTarget(format wgpu.TextureFormat) wgpu.ColorTargetState

	// BlendEnabled reports whether the pipeline blends into the target.
	//
	// Returns:
	//   - bool: true when a blend state is set
	BlendEnabled() bool

	// RenderPipeline returns the GPU pipeline, or nil before registration.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the render pipeline or nil
	RenderPipeline() *wgpu.RenderPipeline

	// SetRenderPipeline stores the GPU pipeline built by the renderer.
	//
	// Parameters:
	//   - rp: the render pipeline
	SetRenderPipeline(rp *wgpu.RenderPipeline)

	// BindGroupLayout returns the GPU layout of a group, or nil when the group is unused or
	// the pipeline is not registered. Bind groups drawn with the pipeline must use it.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the layout or nil
	BindGroupLayout(group int) *wgpu.BindGroupLayout

	// SetBindGroupLayouts stores the GPU layouts built by the renderer, indexed by group.
	//
	// Parameters:
	//   - layouts: the layouts
	SetBindGroupLayouts(layouts []*wgpu.BindGroupLayout)

	// Release releases the GPU pipeline and its layouts. The pipeline can be registered again.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a Pipeline. Defaults to a counter-clockwise triangle list with no culling
// and StraightAlphaBlend, which suits quads of either winding.
//
// Parameters:
//   - pipelineKey: the key to register the pipeline under
//   - opts: functional options to configure the pipeline
//
// Returns:
//   - Pipeline: the new pipeline
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	blend := StraightAlphaBlend
	p := &pipeline{
		key: pipelineKey,
		primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		blend:     &blend,
		writeMask: wgpu.ColorWriteMaskAll,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string { return p.key }

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertex
	case shader.ShaderTypeFragment:
		return p.fragment
	}
	return nil
}

func (p *pipeline) Validate() error {
	if p.vertex == nil || p.fragment == nil {
		return errors.New("pipeline needs both a vertex and a fragment shader")
	}
	if p.vertex.ShaderType() != shader.ShaderTypeVertex {
		return fmt.Errorf("%s is not a vertex shader", p.vertex.Key())
	}
	if p.fragment.ShaderType() != shader.ShaderTypeFragment {
		return fmt.Errorf("%s is not a fragment shader", p.fragment.Key())
	}
	return nil
}

func (p *pipeline) Primitive() wgpu.PrimitiveState { return p.primitive }

func (p *pipeline) ColorTarget(format wgpu.TextureFormat) wgpu.ColorTargetState {
	return wgpu.ColorTargetState{Format: format, Blend: p.blend, WriteMask: p.writeMask}
}

func (p *pipeline) BlendEnabled() bool { return p.blend != nil }

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline { return p.gpu }

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) { p.gpu = rp }

func (p *pipeline) BindGroupLayout(group int) *wgpu.BindGroupLayout {
	if group < 0 || group >= len(p.layouts) {
		return nil
	}
	return p.layouts[group]
}

func (p *pipeline) SetBindGroupLayouts(layouts []*wgpu.BindGroupLayout) { p.layouts = layouts }

func (p *pipeline) Release() {
	if p.gpu != nil {
		p.gpu.Release()
		p.gpu = nil
	}
	for _, l := range p.layouts {
		if l != nil {
			l.Release()
		}
	}
	p.layouts = nil
}
