package main

import (
	"math"
	"math/rand/v2"

	"github.com/Carmen-Shannon/oxy-tilemap/common"
	"github.com/Carmen-Shannon/oxy-tilemap/engine"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/config"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/renderer"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/tilemap"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/tilemap/tilegen"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/window"
	"go.uber.org/zap"
)

const (
	// radians per second while a rotate key is held
	manualRotationSpeed = 0.8
	// pixels per second while a pan key is held
	panSpeed = 600
	zoomStep = 1.15
	// rotation speed change per [ or ] press, in radians per second
	spinStep = 0.05
	// tile placed by a right click
	placeTile tilemap.TileID = 2
)

// controls turns window input into world edits and camera moves. Key state is collected by the
// window callbacks and applied once per frame in tick, so every edit lands before the views update.
type controls struct {
	log   *zap.Logger
	eng   engine.Engine
	world tilemap.TilemapCircle
	gen   *tilegen.Generator
	cfg   *config.Config
	rng   *rand.Rand

	// presenter switches vsync on V
	presenter interface {
		SetPresentMode(mode renderer.PresentMode) error
	}
	vsync bool

	held      map[uint32]bool
	pending   []uint32
	clicks    []click
	profiling bool
}

type click struct {
	x, y int32
	tile tilemap.TileID
}

func newControls(log *zap.Logger, eng engine.Engine, r renderer.Renderer, world tilemap.TilemapCircle, gen *tilegen.Generator, cfg *config.Config) *controls {
	return &controls{
		log:       log,
		eng:       eng,
		world:     world,
		gen:       gen,
		cfg:       cfg,
		rng:       rand.New(rand.NewPCG(uint64(cfg.World.Seed), 0x9e3779b97f4a7c15)),
		presenter: r,
		vsync:     presentMode(cfg.Render) == renderer.PresentModeVSync,
		held:      make(map[uint32]bool),
	}
}

func (c *controls) bind(win window.Window) {
	win.SetKeyDownCallback(func(key uint32) {
		if !c.held[key] {
			c.pending = append(c.pending, key)
		}
		c.held[key] = true
	})
	win.SetKeyUpCallback(func(key uint32) {
		delete(c.held, key)
	})
	win.SetScrollCallback(func(delta float32) {
		c.eng.Camera().ZoomBy(float32(math.Pow(zoomStep, float64(delta))))
	})
	win.SetMouseDownCallback(func(button window.MouseButton, x, y int32) {
		switch button {
		case common.MouseButtonLeft:
			c.clicks = append(c.clicks, click{x, y, tilemap.EmptyTile})
		case common.MouseButtonRight:
			c.clicks = append(c.clicks, click{x, y, placeTile})
		case common.MouseButtonMiddle:
			cam := c.eng.Camera()
			cam.SetPosition(cam.ScreenToWorld(float32(x), float32(y)))
		}
	})
}

func (c *controls) tick(dt float32) {
	for _, key := range c.pending {
		c.press(key)
	}
	c.pending = c.pending[:0]

	for _, cl := range c.clicks {
		c.setAt(float32(cl.x), float32(cl.y), cl.tile)
	}
	c.clicks = c.clicks[:0]

	cam := c.eng.Camera()
	var dx, dy float32
	if c.held[common.KeyA] {
		dx -= panSpeed * dt
	}
	if c.held[common.KeyD] {
		dx += panSpeed * dt
	}
	if c.held[common.KeyW] || c.held[common.KeyUp] {
		dy += panSpeed * dt
	}
	if c.held[common.KeyS] || c.held[common.KeyDown] {
		dy -= panSpeed * dt
	}
	if dx != 0 || dy != 0 {
		cam.Pan(dx, dy)
	}

	if c.held[common.KeyLeft] {
		c.world.SetRotation(c.world.Rotation() + manualRotationSpeed*dt)
	}
	if c.held[common.KeyRight] {
		c.world.SetRotation(c.world.Rotation() - manualRotationSpeed*dt)
	}
	c.world.Update(dt)
}

// press handles keys that act once per press rather than while held.
func (c *controls) press(key uint32) {
	switch key {
	case common.KeyEqual, common.KeyKPAdd:
		c.eng.Camera().ZoomBy(zoomStep)
	case common.KeyMinus, common.KeyKPSubtract:
		c.eng.Camera().ZoomBy(1 / zoomStep)
	case common.KeySpace:
		c.digRandom()
	case common.KeyR:
		c.toggleSize()
	case common.KeyG:
		c.regenerate()
	case common.KeyLeftBracket:
		c.world.SetRotationSpeed(c.world.RotationSpeed() - spinStep)
	case common.KeyRightBracket:
		c.world.SetRotationSpeed(c.world.RotationSpeed() + spinStep)
	case common.KeyV:
		c.toggleVSync()
	case common.KeyP:
		c.profiling = !c.profiling
		if c.profiling {
			c.eng.EnableProfiler()
		} else {
			c.eng.DisableProfiler()
		}
	}
}

func (c *controls) toggleVSync() {
	mode := renderer.PresentModeVSync
	if c.vsync {
		mode = renderer.PresentModeUncapped
	}
	if err := c.presenter.SetPresentMode(mode); err != nil {
		c.log.Warn("switch present mode failed", zap.Error(err))
		return
	}
	c.vsync = !c.vsync
	c.log.Info("present mode", zap.Bool("vsync", c.vsync))
}

func (c *controls) digRandom() {
	w, h := c.world.Width(), c.world.Height()
	if w == 0 || h == 0 {
		return
	}
	x, y := c.rng.IntN(w), c.rng.IntN(h)
	c.world.SetTile(x, y, tilemap.EmptyTile)
	c.log.Debug("dig", zap.Int("x", x), zap.Int("y", y))
}

// setAt writes tile under a framebuffer pixel.
func (c *controls) setAt(px, py float32, tile tilemap.TileID) {
	wx, wy := c.eng.Camera().ScreenToWorld(px, py)

	// world -> grid local: undo the grid's translation, then its rotation
	lx, ly := wx-c.world.PositionX(), wy-c.world.PositionY()
	sin, cos := math.Sincos(float64(-c.world.Rotation()))
	rx := float32(float64(lx)*cos - float64(ly)*sin)
	ry := float32(float64(lx)*sin + float64(ly)*cos)

	x, y, ok := c.world.Geometry().TileFromPosition(rx, ry)
	if !ok {
		return
	}
	c.world.SetTile(x, y, tile)
	c.log.Debug("set tile", zap.Int("x", x), zap.Int("y", y), zap.Uint16("tile", uint16(tile)))
}

// toggleSize switches between the configured width and twice that width, forcing a repartition.
func (c *controls) toggleSize() {
	w := c.cfg.World.Width
	if c.world.Width() == w {
		w *= 2
	}
	if err := c.world.Resize(w, c.cfg.World.Height); err != nil {
		c.log.Warn("resize world failed", zap.Error(err))
		return
	}
	c.regenerate()
	c.log.Info("world resized", zap.Int("width", c.world.Width()), zap.Int("height", c.world.Height()))
}

func (c *controls) regenerate() {
	if err := generate(c.gen, c.world, c.cfg.World.Generator); err != nil {
		c.log.Warn("regenerate world failed", zap.Error(err))
	}
}
