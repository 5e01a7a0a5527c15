package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aspectsofpower/ruleset/internal/config"
	"github.com/aspectsofpower/ruleset/internal/game/progression"
	"github.com/aspectsofpower/ruleset/internal/game/stat"
)

type cycleSource struct{ next int }

func (c *cycleSource) Intn(n int) int {
	v := c.next % n
	c.next++
	return v
}

func writeContent(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestPointTableFromConfig_OverlaysDefaults(t *testing.T) {
	rules := config.RulesConfig{TierPoints: []config.TierPointConfig{
		{Tier: 3, Fixed: 30, Free: 8},
	}}

	points := pointTableFromConfig(rules)

	assert.Equal(t, progression.TierPoints{Fixed: 30, Free: 8}, points[3])
	assert.Equal(t, progression.TierPoints{Fixed: 6, Free: 2}, points[1])
	assert.Equal(t, progression.TierPoints{Fixed: 14, Free: 4}, points[2])
	assert.Equal(t, progression.TierPoints{Fixed: 40, Free: 10}, points[4])
}

func TestBuildLeveledCombatant_FromContent(t *testing.T) {
	classDir := t.TempDir()
	writeContent(t, classDir, "duelist.yaml", `
id: duelist
name: Duelist
tier: 1
primary_stats: [strength]
`)
	cfg := config.Config{
		Rules: config.RulesConfig{
			BaseAbilityValue: 5,
			// Tier 1 override: all four fixed points land on the single
			// primary, no free points to scatter.
			TierPoints: []config.TierPointConfig{{Tier: 1, Fixed: 4, Free: 0}},
		},
		Content: config.ContentConfig{ClassesDir: classDir},
	}

	c, err := buildLeveledCombatant(cfg, stat.NewEngine(), &cycleSource{}, "attacker", "duelist", "human", 1)
	require.NoError(t, err)

	assert.Equal(t, "attacker", c.Name)
	assert.Greater(t, c.Mods[stat.Strength], c.Mods[stat.Dexterity])
	assert.Greater(t, c.Health, 0)
}

func TestBuildLeveledCombatant_UnknownClass(t *testing.T) {
	cfg := config.Config{
		Rules:   config.RulesConfig{BaseAbilityValue: 5},
		Content: config.ContentConfig{ClassesDir: t.TempDir()},
	}

	_, err := buildLeveledCombatant(cfg, stat.NewEngine(), &cycleSource{}, "attacker", "nobody", "human", 1)
	assert.Error(t, err)
}

func TestEngineFromConfig_Variants(t *testing.T) {
	linear := engineFromConfig(config.RulesConfig{
		ModifierFormula: "linear",
		HealthModel:     "modifier",
		ManaAbility:     "willpower",
	})
	// floor((110-50)/3) = 20 under the linear fallback.
	mod, err := linear.Modifier(110)
	require.NoError(t, err)
	assert.Equal(t, 20, mod)
}
