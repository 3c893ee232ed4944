package shader

import "github.com/cogentcore/webgpu/wgpu"

// ShaderBuilderOption is a functional option used to configure a Shader during construction.
type ShaderBuilderOption func(*shader)

// WithEntryPoint sets the entry point explicitly instead of detecting it from the source.
//
// Parameters:
//   - name: the WGSL function name
//
// Returns:
//   - ShaderBuilderOption: a function that sets the entry point
func WithEntryPoint(name string) ShaderBuilderOption {
	return func(s *shader) {
		s.entryPoint = name
	}
}

// WithBindGroupLayout declares the layout of one bind group used by the shader.
// Entries whose Visibility is unset default to the shader's stage.
//
// Parameters:
//   - group: the bind group index
//   - descriptor: the layout descriptor for the group
//
// Returns:
//   - ShaderBuilderOption: a function that registers the bind group layout
func WithBindGroupLayout(group int, descriptor wgpu.BindGroupLayoutDescriptor) ShaderBuilderOption {
	return func(s *shader) {
		entries := make([]wgpu.BindGroupLayoutEntry, len(descriptor.Entries))
		copy(entries, descriptor.Entries)
		for i := range entries {
			if entries[i].Visibility == wgpu.ShaderStageNone {
				entries[i].Visibility = stageVisibility(s.shaderType)
			}
		}
		descriptor.Entries = entries
		s.bindGroupLayoutDescriptors[group] = descriptor
	}
}

// WithVertexLayouts declares the vertex buffer layouts consumed by a vertex shader, in buffer slot order.
//
// Parameters:
//   - layouts: the vertex buffer layouts
//
// Returns:
//   - ShaderBuilderOption: a function that sets the vertex layouts
func WithVertexLayouts(layouts ...wgpu.VertexBufferLayout) ShaderBuilderOption {
	return func(s *shader) {
		s.vertexLayouts = layouts
	}
}

func stageVisibility(shaderType ShaderType) wgpu.ShaderStage {
	switch shaderType {
	case ShaderTypeVertex:
		return wgpu.ShaderStageVertex
	case ShaderTypeFragment:
		return wgpu.ShaderStageFragment
	default:
		return wgpu.ShaderStageNone
	}
}
