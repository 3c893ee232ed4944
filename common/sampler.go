package common

import "github.com/cogentcore/webgpu/wgpu"

// SamplerStagingData describes a sampler binding before it is created on the GPU. Zero fields
// fall back to the renderer defaults: repeat addressing and linear filtering.
type SamplerStagingData struct {
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	MagFilter, MinFilter                     wgpu.FilterMode
	MipmapFilter                             wgpu.MipmapFilterMode
	LodMinClamp, LodMaxClamp                 float32
	MaxAnisotropy                            uint16
}

// PixelArtSampler samples a tile atlas with nearest filtering and clamped edges, so cells
// keep hard pixels and never bleed into their neighbours.
//
// Returns:
//   - SamplerStagingData: the sampler settings
func PixelArtSampler() SamplerStagingData {
	return SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
		MagFilter:    wgpu.FilterModeNearest,
		MinFilter:    wgpu.FilterModeNearest,
		MipmapFilter: wgpu.MipmapFilterModeNearest,
	}
}
