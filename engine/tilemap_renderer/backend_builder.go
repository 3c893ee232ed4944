package tilemap_renderer

import (
	"github.com/Carmen-Shannon/oxy-tilemap/common"
	"go.uber.org/zap"
)

// BackendBuilderOption is a functional option for configuring a Backend during construction.
type BackendBuilderOption func(*backend)

// WithLogger sets the logger used by the backend.
//
// Parameters:
//   - log: the logger to use (nil keeps the no-op default)
//
// Returns:
//   - BackendBuilderOption: functional option to set the logger
func WithLogger(log *zap.Logger) BackendBuilderOption {
	return func(b *backend) {
		if log != nil {
			b.log = log
		}
	}
}

// WithTileset sets the atlas texture and its cell layout. Defaults to DefaultTileset with DefaultAtlas.
//
// Parameters:
//   - tileset: decoded RGBA pixels of the atlas
//   - atlas: the cell layout of the atlas
//
// Returns:
//   - BackendBuilderOption: functional option to set the tileset
func WithTileset(tileset common.TextureStagingData, atlas Atlas) BackendBuilderOption {
	return func(b *backend) {
		b.tileset = tileset
		b.atlas = atlas
	}
}

// WithSampler sets the sampler used for the atlas. Defaults to common.PixelArtSampler.
//
// Parameters:
//   - sampler: the sampler configuration
//
// Returns:
//   - BackendBuilderOption: functional option to set the sampler
func WithSampler(sampler common.SamplerStagingData) BackendBuilderOption {
	return func(b *backend) {
		b.sampler = sampler
	}
}

// WithBackdropColor sets the RGBA color of the backdrop ring.
//
// Parameters:
//   - r, g, b, a: color components in [0, 1]
//
// Returns:
//   - BackendBuilderOption: functional option to set the backdrop color
func WithBackdropColor(r, g, b, a float32) BackendBuilderOption {
	return func(be *backend) {
		be.backdropColor = [4]float32{r, g, b, a}
	}
}

// WithBackdropSegments sets how many segments approximate the backdrop ring. Values below 3 are ignored.
//
// Parameters:
//   - n: the segment count
//
// Returns:
//   - BackendBuilderOption: functional option to set the segment count
func WithBackdropSegments(n int) BackendBuilderOption {
	return func(b *backend) {
		if n >= 3 {
			b.backdropSegments = n
		}
	}
}
