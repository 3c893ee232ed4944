package tilemap_renderer

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-tilemap/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	// ChunkPipelineKey is the renderer cache key of the pipeline that draws tile chunks.
	ChunkPipelineKey = "tilemap.chunks"
	// BackdropPipelineKey is the renderer cache key of the pipeline that draws the backdrop ring.
	BackdropPipelineKey = "tilemap.backdrop"
)

var (
	//go:embed shaders/chunk.wgsl
	chunkShaderSource string

	//go:embed shaders/backdrop.wgsl
	backdropShaderSource string
)

const (
	viewUniformSize     = uint64(unsafe.Sizeof(viewUniform{}))
	backdropUniformSize = uint64(unsafe.Sizeof(backdropUniform{}))
)

type viewUniform struct {
	Transform [16]float32
}

type backdropUniform struct {
	Transform [16]float32
	Color     [4]float32
}

func vertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(unsafe.Sizeof(Vertex{})),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
		},
	}
}

// viewLayout is group 0 of the chunk pipeline: the per-view transform.
func viewLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "tilemap view",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: viewUniformSize,
				},
			},
		},
	}
}

// tilesetLayout is group 1 of the chunk pipeline: the atlas texture and its sampler.
func tilesetLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "tilemap tileset",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	}
}

// backdropLayout is group 0 of the backdrop pipeline: transform and color.
func backdropLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "tilemap backdrop",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: backdropUniformSize,
				},
			},
		},
	}
}

func newChunkPipeline() pipeline.Pipeline {
	vs := shader.NewShader(ChunkPipelineKey+".vs", shader.ShaderTypeVertex, chunkShaderSource,
		shader.WithVertexLayouts(vertexLayout()),
		shader.WithBindGroupLayout(0, viewLayout()),
	)
	fs := shader.NewShader(ChunkPipelineKey+".fs", shader.ShaderTypeFragment, chunkShaderSource,
		shader.WithBindGroupLayout(1, tilesetLayout()),
	)
	return pipeline.NewPipeline(ChunkPipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
	)
}

func newBackdropPipeline() pipeline.Pipeline {
	vs := shader.NewShader(BackdropPipelineKey+".vs", shader.ShaderTypeVertex, backdropShaderSource,
		shader.WithVertexLayouts(vertexLayout()),
		shader.WithBindGroupLayout(0, backdropLayout()),
	)
	fs := shader.NewShader(BackdropPipelineKey+".fs", shader.ShaderTypeFragment, backdropShaderSource,
		shader.WithBindGroupLayout(0, backdropLayout()),
	)
	return pipeline.NewPipeline(BackdropPipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
	)
}

// sharedLayout returns the GPU layout a pipeline registered for group, or nil when the
// device has not built one.
func sharedLayout(device Device, key string, group int) *wgpu.BindGroupLayout {
	p := device.Pipeline(key)
	if p == nil {
		return nil
	}
	return p.BindGroupLayout(group)
}
