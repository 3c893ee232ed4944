// Package tilegen fills a TilemapCircle from a Lua generation script.
//
// Scripts define a global function generate() and may call:
//
//	width()              -- column count
//	height()             -- row count
//	get_tile(x, y)       -- tile id at (x, y)
//	set_tile(x, y, id)   -- set the tile id, returns false when (x, y) is out of range
//	log(msg)             -- write a debug message to the generator's logger
//
// The global `seed` holds the generator seed. math.random draws from a source private to the run
// and seeded with it, so a seed always produces the same world; math.randomseed reseeds that source.
package tilegen

import (
	"context"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-tilemap/engine/tilemap"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// DefaultScript generates a layered planet: a rock core with caves, a dirt band, and a grass surface.
const DefaultScript = `
function generate()
  local w, h = width(), height()
  local surface = math.floor(h * 0.75)
  for x = 0, w - 1 do
    local top = surface + math.random(-1, 1)
    for y = 0, h - 1 do
      local id = 0
      if y < top - 3 then
        if math.random() > 0.08 then id = 2 end
      elseif y < top then
        id = 3
      elseif y == top then
        id = 1
      end
      set_tile(x, y, id)
    end
  end
  log("generated " .. w .. "x" .. h)
end
`

// Generator runs Lua generation scripts against a TilemapCircle.
// A fresh Lua VM is created for each run, so a Generator holds no script state between runs.
type Generator struct {
	log  *zap.Logger
	seed int64
}

// NewGenerator creates a new Generator configured with the given options.
//
// Parameters:
//   - options: functional options to configure the generator
//
// Returns:
//   - *Generator: the newly created generator
func NewGenerator(options ...GeneratorBuilderOption) *Generator {
	g := &Generator{
		log: zap.NewNop(),
	}
	for _, option := range options {
		option(g)
	}
	return g
}

// GenerateFile loads a Lua script from disk and runs it against tm.
//
// Parameters:
//   - ctx: cancels a long-running script
//   - tm: the tilemap to fill
//   - path: the script file path
//
// Returns:
//   - error: if the file cannot be read or the script fails
func (g *Generator) GenerateFile(ctx context.Context, tm tilemap.TilemapCircle, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read generator script %s: %w", path, err)
	}
	return g.Generate(ctx, tm, string(src))
}

// Generate runs script against tm. Tile writes go through SetTile, so a listener attached to tm
// sees one OnTileChanged per changed tile.
//
// Parameters:
//   - ctx: cancels a long-running script
//   - tm: the tilemap to fill
//   - script: the Lua source defining generate()
//
// Returns:
//   - error: if the script fails to load, lacks generate(), raises an error, or ctx is cancelled
func (g *Generator) Generate(ctx context.Context, tm tilemap.TilemapCircle, script string) error {
	vm := lua.NewState()
	defer vm.Close()
	vm.SetContext(ctx)

	g.register(vm, tm)
	installRandom(vm, g.seed)

	if err := vm.DoString(script); err != nil {
		return fmt.Errorf("load generator script: %w", err)
	}

	fn := vm.GetGlobal("generate")
	if fn.Type() != lua.LTFunction {
		return fmt.Errorf("generator script does not define generate()")
	}

	if err := vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}); err != nil {
		return fmt.Errorf("run generator script: %w", err)
	}

	g.log.Debug("tilemap generated",
		zap.Int("width", tm.Width()),
		zap.Int("height", tm.Height()),
		zap.Int64("seed", g.seed),
	)
	return nil
}

// register exposes the tilemap API to the VM.
func (g *Generator) register(vm *lua.LState, tm tilemap.TilemapCircle) {
	vm.SetGlobal("seed", lua.LNumber(g.seed))

	vm.SetGlobal("width", vm.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(tm.Width()))
		return 1
	}))
	vm.SetGlobal("height", vm.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(tm.Height()))
		return 1
	}))
	vm.SetGlobal("get_tile", vm.NewFunction(func(L *lua.LState) int {
		x := L.CheckInt(1)
		y := L.CheckInt(2)
		L.Push(lua.LNumber(tm.TileAt(tilemap.WrapX(x, tm.Width()), y)))
		return 1
	}))
	vm.SetGlobal("set_tile", vm.NewFunction(func(L *lua.LState) int {
		x := L.CheckInt(1)
		y := L.CheckInt(2)
		id := L.CheckInt(3)
		if id < 0 || id > int(^tilemap.TileID(0)) {
			L.ArgError(3, "tile id out of range")
			return 0
		}
		L.Push(lua.LBool(tm.SetTile(x, y, tilemap.TileID(id))))
		return 1
	}))
	vm.SetGlobal("log", vm.NewFunction(func(L *lua.LState) int {
		g.log.Debug("generator script", zap.String("msg", L.CheckString(1)))
		return 0
	}))
}
