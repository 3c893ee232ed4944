// Command circleworld renders a generated circular tile world and lets the player dig into it.
//
// Controls:
//
//	left/right      rotate the world
//	[ / ]           slow down / speed up the automatic rotation
//	WASD, up/down   pan
//	+/-, wheel      zoom
//	left click      dig the tile under the cursor
//	right click     place a rock tile
//	middle click    centre the camera on the cursor
//	space           dig a random tile
//	R               toggle between the configured width and twice that width
//	G               regenerate
//	V               toggle vsync
//	P               toggle the profiler
//	Esc             quit
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/Carmen-Shannon/oxy-tilemap/common"
	"github.com/Carmen-Shannon/oxy-tilemap/engine"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/camera"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/config"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/profiler"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/renderer"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/tilemap"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/tilemap/tilegen"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/tilemap_renderer"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/tilemap_view"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func init() {
	// GLFW and the surface must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "path to a world config (.toml, .yaml or .yml)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "circleworld: %v\n", err)
			os.Exit(1)
		}
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "circleworld: build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("circleworld exited with error", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	// ── Window + Renderer ───────────────────────────────────────────────
	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
		window.WithResizable(cfg.Window.Resizable),
	)
	if err != nil {
		return err
	}
	defer win.Close()

	r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, win, rendererOptions(cfg.Render, log.Named("renderer"))...)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	defer r.Release()

	// ── World ───────────────────────────────────────────────────────────
	world := tilemap.NewTilemapCircle(
		tilemap.WithSize(cfg.World.Width, cfg.World.Height),
		tilemap.WithTileSize(cfg.World.TileSize),
		tilemap.WithInnerRadius(cfg.World.InnerRadius),
		tilemap.WithPosition(cfg.World.PositionX, cfg.World.PositionY),
		tilemap.WithRotationSpeed(cfg.World.RotationSpeed),
	)
	gen := tilegen.NewGenerator(tilegen.WithLogger(log.Named("tilegen")), tilegen.WithSeed(cfg.World.Seed))
	if err := generate(gen, world, cfg.World.Generator); err != nil {
		return err
	}

	// ── Tilemap backend + view ──────────────────────────────────────────
	backendOptions := []tilemap_renderer.BackendBuilderOption{
		tilemap_renderer.WithLogger(log.Named("tilemap_renderer")),
	}
	if cfg.World.Tileset != "" {
		img := common.TilesetImage{Path: cfg.World.Tileset, Columns: cfg.World.AtlasColumns, Rows: cfg.World.AtlasRows}
		pixels, err := img.Decode()
		if err != nil {
			return fmt.Errorf("load tileset: %w", err)
		}
		backendOptions = append(backendOptions, tilemap_renderer.WithTileset(pixels, tilemap_renderer.Atlas{
			Columns: img.Columns,
			Rows:    img.Rows,
		}))
	}
	backend, err := tilemap_renderer.NewBackend(r, backendOptions...)
	if err != nil {
		return fmt.Errorf("create tilemap backend: %w", err)
	}
	defer backend.Release()

	view := tilemap_view.NewTilemapView(backend,
		tilemap_view.WithLogger(log.Named("tilemap_view")),
		tilemap_view.WithRebuildWorkers(cfg.Render.RebuildWorkers),
		tilemap_view.WithMaxChunks(cfg.Render.MaxChunks),
		tilemap_view.WithChunkTileArea(cfg.Render.ChunkTileArea),
	)
	if err := view.Attach(world); err != nil {
		return fmt.Errorf("attach world: %w", err)
	}

	// ── Engine ──────────────────────────────────────────────────────────
	cam := camera.NewCamera(
		camera.WithPosition(cfg.World.PositionX, cfg.World.PositionY),
		camera.WithZoom(cfg.Render.Zoom),
		camera.WithZoomRange(0.25, 64),
	)
	eng := engine.NewEngine(
		engine.WithLogger(log.Named("engine")),
		engine.WithHost(win),
		engine.WithFrameTarget(r),
		engine.WithCamera(cam),
		engine.WithProfiler(profiler.NewProfiler(profiler.WithLogger(log.Named("profiler")))),
		engine.WithView(0, view),
	)

	c := newControls(log, eng, r, world, gen, cfg)
	c.bind(win)
	eng.SetTickCallback(c.tick)

	log.Info("circleworld running",
		zap.Int("width", world.Width()),
		zap.Int("height", world.Height()),
		zap.Int("chunks", view.ChunkCount()),
	)
	eng.Run()

	return eng.Shutdown()
}

// generate runs the configured generator script, or the built-in one when no script is set.
func generate(gen *tilegen.Generator, world tilemap.TilemapCircle, script string) error {
	if script == "" {
		if err := gen.Generate(context.Background(), world, tilegen.DefaultScript); err != nil {
			return fmt.Errorf("generate world: %w", err)
		}
		return nil
	}
	if err := gen.GenerateFile(context.Background(), world, script); err != nil {
		return fmt.Errorf("generate world: %w", err)
	}
	return nil
}

func presentMode(cfg config.RenderConfig) renderer.PresentMode {
	if strings.EqualFold(cfg.PresentMode, "uncapped") {
		return renderer.PresentModeUncapped
	}
	return renderer.PresentModeVSync
}

func rendererOptions(cfg config.RenderConfig, log *zap.Logger) []renderer.RendererBuilderOption {
	return []renderer.RendererBuilderOption{
		renderer.WithLogger(log),
		renderer.WithPresentMode(presentMode(cfg)),
		renderer.WithMSAA(renderer.MSAASampleCount(cfg.MSAA)),
		renderer.WithForceSoftwareRenderer(cfg.SoftwareGPU),
		renderer.WithClearColor(wgpu.Color{
			R: float64(cfg.ClearColor[0]),
			G: float64(cfg.ClearColor[1]),
			B: float64(cfg.ClearColor[2]),
			A: float64(cfg.ClearColor[3]),
		}),
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
