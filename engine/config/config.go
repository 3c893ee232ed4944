// Package config loads the world file that drives the circleworld demo: window, grid,
// rendering and logging settings. TOML and YAML files are both accepted.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Window  WindowConfig  `toml:"window" yaml:"window"`
	World   WorldConfig   `toml:"world" yaml:"world"`
	Render  RenderConfig  `toml:"render" yaml:"render"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
}

type WindowConfig struct {
	Title     string `toml:"title" yaml:"title"`
	Width     int    `toml:"width" yaml:"width"`
	Height    int    `toml:"height" yaml:"height"`
	Resizable bool   `toml:"resizable" yaml:"resizable"`
}

type WorldConfig struct {
	Width         int     `toml:"width" yaml:"width"`   // columns around the circle
	Height        int     `toml:"height" yaml:"height"` // rows from the inner radius outwards
	TileSize      float32 `toml:"tile_size" yaml:"tile_size"`
	InnerRadius   float32 `toml:"inner_radius" yaml:"inner_radius"`
	PositionX     float32 `toml:"position_x" yaml:"position_x"`
	PositionY     float32 `toml:"position_y" yaml:"position_y"`
	RotationSpeed float32 `toml:"rotation_speed" yaml:"rotation_speed"` // radians per second
	Seed          int64   `toml:"seed" yaml:"seed"`
	Generator     string  `toml:"generator" yaml:"generator"` // Lua script path, empty for the built-in generator
	Tileset       string  `toml:"tileset" yaml:"tileset"`     // atlas image path, empty for the built-in palette
	AtlasColumns  int     `toml:"atlas_columns" yaml:"atlas_columns"`
	AtlasRows     int     `toml:"atlas_rows" yaml:"atlas_rows"`
}

type RenderConfig struct {
	PresentMode    string     `toml:"present_mode" yaml:"present_mode"` // "vsync" or "uncapped"
	MSAA           int        `toml:"msaa" yaml:"msaa"`                 // 1, 4, 8 or 16
	ClearColor     [4]float32 `toml:"clear_color" yaml:"clear_color"`
	Zoom           float32    `toml:"zoom" yaml:"zoom"` // pixels per world unit
	RebuildWorkers int        `toml:"rebuild_workers" yaml:"rebuild_workers"`
	MaxChunks      int        `toml:"max_chunks" yaml:"max_chunks"`
	ChunkTileArea  int        `toml:"chunk_tile_area" yaml:"chunk_tile_area"`
	SoftwareGPU    bool       `toml:"software_gpu" yaml:"software_gpu"`
}

type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "json" or "console"
}

// Load reads a world file, choosing the decoder from the file extension (.toml, .yaml or .yml).
// Keys missing from the file keep their defaults. The result is validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a world file body over the defaults. format is a file extension with or
// without the leading dot.
func Parse(data []byte, format string) (*Config, error) {
	cfg := Default()
	switch strings.TrimPrefix(strings.ToLower(format), ".") {
	case "toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the settings used when no world file is given.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:     "circleworld",
			Width:     1280,
			Height:    720,
			Resizable: true,
		},
		World: WorldConfig{
			Width:         600,
			Height:        64,
			TileSize:      1,
			InnerRadius:   40,
			RotationSpeed: 0.05,
			Seed:          1,
			AtlasColumns:  4,
			AtlasRows:     2,
		},
		Render: RenderConfig{
			PresentMode:    "vsync",
			MSAA:           4,
			ClearColor:     [4]float32{0.04, 0.05, 0.09, 1},
			Zoom:           4,
			RebuildWorkers: 1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			err = multierr.Append(err, fmt.Errorf(format, args...))
		}
	}

	check(c.Window.Width > 0 && c.Window.Height > 0, "window size %dx%d must be positive", c.Window.Width, c.Window.Height)

	check(c.World.Width >= 0 && c.World.Height >= 0, "world size %dx%d must not be negative", c.World.Width, c.World.Height)
	check(c.World.TileSize > 0, "world tile_size %v must be positive", c.World.TileSize)
	check(c.World.InnerRadius >= 0, "world inner_radius %v must not be negative", c.World.InnerRadius)
	check(c.World.AtlasColumns > 0 && c.World.AtlasRows > 0, "atlas %dx%d must be positive", c.World.AtlasColumns, c.World.AtlasRows)

	switch c.Render.PresentMode {
	case "vsync", "uncapped":
	default:
		check(false, "unknown present_mode %q", c.Render.PresentMode)
	}
	switch c.Render.MSAA {
	case 1, 4, 8, 16:
	default:
		check(false, "msaa %d must be 1, 4, 8 or 16", c.Render.MSAA)
	}
	check(c.Render.Zoom > 0, "zoom %v must be positive", c.Render.Zoom)
	check(c.Render.RebuildWorkers >= 0, "rebuild_workers %d must not be negative", c.Render.RebuildWorkers)
	check(c.Render.MaxChunks >= 0, "max_chunks %d must not be negative", c.Render.MaxChunks)
	check(c.Render.ChunkTileArea >= 0, "chunk_tile_area %d must not be negative", c.Render.ChunkTileArea)

	switch c.Logging.Format {
	case "json", "console":
	default:
		check(false, "unknown logging format %q", c.Logging.Format)
	}
	return err
}
