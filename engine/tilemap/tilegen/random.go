package tilegen

import (
	"math/rand/v2"

	lua "github.com/yuin/gopher-lua"
)

// seedStream is the second PCG word; the generator seed is the first.
const seedStream = 0x9e3779b97f4a7c15

// installRandom replaces math.random and math.randomseed with a PCG owned by this run. The
// stock functions use the process-wide source, whose Seed is a no-op on current Go releases.
func installRandom(vm *lua.LState, seed int64) {
	pcg := rand.NewPCG(uint64(seed), seedStream)
	rng := rand.New(pcg)

	mathLib, ok := vm.GetGlobal(lua.MathLibName).(*lua.LTable)
	if !ok {
		return
	}
	vm.SetField(mathLib, "random", vm.NewFunction(func(L *lua.LState) int {
		switch L.GetTop() {
		case 0:
			L.Push(lua.LNumber(rng.Float64()))
		case 1:
			n := L.CheckInt(1)
			if n < 1 {
				L.ArgError(1, "interval is empty")
				return 0
			}
			L.Push(lua.LNumber(rng.IntN(n) + 1))
		default:
			lo, hi := L.CheckInt(1), L.CheckInt(2)
			if lo > hi {
				L.ArgError(2, "interval is empty")
				return 0
			}
			L.Push(lua.LNumber(lo + rng.IntN(hi-lo+1)))
		}
		return 1
	}))
	vm.SetField(mathLib, "randomseed", vm.NewFunction(func(L *lua.LState) int {
		pcg.Seed(uint64(L.CheckInt64(1)), seedStream)
		return 0
	}))
}
