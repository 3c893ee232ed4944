package tilegen

import "go.uber.org/zap"

// GeneratorBuilderOption is a functional option for configuring a Generator during construction.
type GeneratorBuilderOption func(*Generator)

// WithLogger sets the logger receiving script log output and generation diagnostics.
//
// Parameters:
//   - log: the logger to use (nil keeps the no-op default)
//
// Returns:
//   - GeneratorBuilderOption: functional option to set the logger
func WithLogger(log *zap.Logger) GeneratorBuilderOption {
	return func(g *Generator) {
		if log != nil {
			g.log = log
		}
	}
}

// WithSeed sets the seed exposed to scripts as the global `seed` and used for math.randomseed.
//
// Parameters:
//   - seed: the random seed
//
// Returns:
//   - GeneratorBuilderOption: functional option to set the seed
func WithSeed(seed int64) GeneratorBuilderOption {
	return func(g *Generator) {
		g.seed = seed
	}
}
