package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// registerModules installs the dice and rules tables into L. Formulas
// registered by scripts land in staged, which becomes the Manager's formula
// map once the whole script directory loads cleanly.
func (m *Manager) registerModules(L *lua.LState, staged map[string]*lua.LFunction) {
	diceTbl := L.NewTable()
	L.SetField(diceTbl, "roll", L.NewFunction(m.luaRoll))
	L.SetGlobal("dice", diceTbl)

	rulesTbl := L.NewTable()
	L.SetField(rulesTbl, "register_to_hit", L.NewFunction(func(L *lua.LState) int {
		kind := L.CheckString(1)
		fn := L.CheckFunction(2)
		staged[kind] = fn
		return 0
	}))
	L.SetGlobal("rules", rulesTbl)
}

// luaRoll implements dice.roll(formula) -> total. Variables are not bound
// inside scripts; formulas must be literal ("2d6+1").
func (m *Manager) luaRoll(L *lua.LState) int {
	formula := L.CheckString(1)
	result, err := m.roller.RollFormula(formula, nil)
	if err != nil {
		m.logger.Warn("scripting: dice.roll failed",
			zap.String("formula", formula),
			zap.Error(err),
		)
		L.ArgError(1, err.Error())
		return 0
	}
	L.Push(lua.LNumber(result.Total()))
	return 1
}
