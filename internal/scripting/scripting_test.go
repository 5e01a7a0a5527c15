package scripting_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/aspectsofpower/ruleset/internal/game/combat"
	"github.com/aspectsofpower/ruleset/internal/game/dice"
	"github.com/aspectsofpower/ruleset/internal/game/stat"
	"github.com/aspectsofpower/ruleset/internal/scripting"
)

// fixedSource makes dice.roll deterministic inside scripts.
type fixedSource int

func (f fixedSource) Intn(int) int { return int(f) }

func newManager(t *testing.T, src dice.Source) *scripting.Manager {
	t.Helper()
	roller := dice.NewLoggedRoller(src, zaptest.NewLogger(t))
	return scripting.NewManager(roller, zaptest.NewLogger(t))
}

func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
}

func TestLoad_RegistersToHitFormula(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "whip.lua", `
rules.register_to_hit("whip", function(mods)
  return mods.dexterity + mods.strength * 0.5
end)
`)
	m := newManager(t, fixedSource(0))
	defer m.Close()
	require.NoError(t, m.Load(dir, 0))

	base, ok := m.ToHitBase("whip", map[stat.Key]int{
		stat.Dexterity: 6,
		stat.Strength:  8,
	})
	require.True(t, ok)
	assert.InDelta(t, 10.0, base, 0.001)
	assert.Equal(t, []string{"whip"}, m.Kinds())
}

func TestToHitBase_UnregisteredKind(t *testing.T) {
	dir := t.TempDir()
	m := newManager(t, fixedSource(0))
	defer m.Close()
	require.NoError(t, m.Load(dir, 0))

	_, ok := m.ToHitBase("polearm", map[stat.Key]int{})
	assert.False(t, ok)
}

func TestToHitBase_NonNumberResultFallsBack(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "bad.lua", `
rules.register_to_hit("bad", function(mods)
  return "not a number"
end)
`)
	m := newManager(t, fixedSource(0))
	defer m.Close()
	require.NoError(t, m.Load(dir, 0))

	_, ok := m.ToHitBase("bad", map[stat.Key]int{})
	assert.False(t, ok)
}

func TestScriptsCanRollDice(t *testing.T) {
	dir := t.TempDir()
	// Source always yields 3, so 2d6 = (3+1)*2 = 8; +1 = 9.
	writeScript(t, dir, "roll.lua", `
rules.register_to_hit("ritual", function(mods)
  return dice.roll("2d6+1")
end)
`)
	m := newManager(t, fixedSource(3))
	defer m.Close()
	require.NoError(t, m.Load(dir, 0))

	base, ok := m.ToHitBase("ritual", map[stat.Key]int{})
	require.True(t, ok)
	assert.InDelta(t, 9.0, base, 0.001)
}

func TestLoad_SyntaxErrorLeavesPreviousState(t *testing.T) {
	good := t.TempDir()
	writeScript(t, good, "ok.lua", `rules.register_to_hit("ok", function(mods) return 1 end)`)
	bad := t.TempDir()
	writeScript(t, bad, "broken.lua", `this is not lua`)

	m := newManager(t, fixedSource(0))
	defer m.Close()
	require.NoError(t, m.Load(good, 0))
	require.Error(t, m.Load(bad, 0))

	// The good VM survives the failed reload.
	_, ok := m.ToHitBase("ok", map[stat.Key]int{})
	assert.True(t, ok)
}

func TestInstructionLimitStopsRunawayFormula(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "loop.lua", `
rules.register_to_hit("loop", function(mods)
  while true do end
end)
`)
	m := newManager(t, fixedSource(0))
	defer m.Close()
	require.NoError(t, m.Load(dir, 10000))

	// The runaway loop is cut off by the opcode limit and reported as a miss.
	_, ok := m.ToHitBase("loop", map[stat.Key]int{})
	assert.False(t, ok)
}

func TestSandboxStripsDangerousGlobals(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "inspect.lua", `
rules.register_to_hit("inspect", function(mods)
  if dofile == nil and loadfile == nil and require == nil then
    return 1
  end
  return 0
end)
`)
	m := newManager(t, fixedSource(0))
	defer m.Close()
	require.NoError(t, m.Load(dir, 0))

	base, ok := m.ToHitBase("inspect", map[stat.Key]int{})
	require.True(t, ok)
	assert.InDelta(t, 1.0, base, 0.001)
}

func TestOverride_DrivesAttackResolution(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "whip.lua", `
rules.register_to_hit("whip", function(mods)
  return mods.dexterity + mods.strength * 0.5
end)
`)
	m := newManager(t, fixedSource(0))
	defer m.Close()
	require.NoError(t, m.Load(dir, 0))

	attacker := &combat.Combatant{
		Mods: map[stat.Key]int{stat.Strength: 8, stat.Dexterity: 6},
	}
	defender := &combat.Combatant{
		Mods: map[stat.Key]int{stat.Strength: 4, stat.Dexterity: 9},
	}

	// base 10, d20 14: toHit 10 vs defense 10, a hit on a kind the built-in
	// dispatch table does not know.
	res, err := combat.ResolveAttackWith(attacker, defender, "whip", 0, fixedSource(13), m.Override())
	require.NoError(t, err)
	assert.Equal(t, 10, res.ToHit)
	assert.True(t, res.Hit)

	// Unregistered kinds still fall through to the dispatch table.
	_, err = combat.ResolveAttackWith(attacker, defender, combat.StrWeapon, 0, fixedSource(13), m.Override())
	assert.NoError(t, err)
}
