package ruleset_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aspectsofpower/ruleset/internal/game/ruleset"
	"github.com/aspectsofpower/ruleset/internal/game/stat"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadClasses(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "light_warrior.yaml", `
id: light-warrior
name: Light Warrior
tier: 1
finesse: true
gains:
  dexterity: 2
  endurance: 2
  vitality: 1
  strength: 1
free_points: 2
`)
	writeFile(t, dir, "heavy_warrior.yaml", `
id: heavy-warrior
name: Heavy Warrior
tier: 1
primary_stats: [strength, vitality, toughness]
`)

	classes, err := ruleset.LoadClasses(dir)
	require.NoError(t, err)
	require.Len(t, classes, 2)

	reg := ruleset.NewRegistry()
	for _, c := range classes {
		require.NoError(t, reg.RegisterClass(c))
	}

	lw, ok := reg.Class("light-warrior")
	require.True(t, ok)
	assert.True(t, lw.Finesse)
	assert.Equal(t, 2, lw.Gains[stat.Dexterity])
	assert.Equal(t, 2, lw.FreePoints)

	hw, ok := reg.Class("heavy-warrior")
	require.True(t, ok)
	assert.False(t, hw.Finesse)
	assert.Equal(t, []stat.Key{stat.Strength, stat.Vitality, stat.Toughness}, hw.PrimaryStats)
}

func TestLoadClasses_RejectsUnknownAbility(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.yaml", `
id: bad
name: Bad
tier: 1
gains:
  luck: 2
`)
	_, err := ruleset.LoadClasses(dir)
	assert.ErrorContains(t, err, "unknown ability")
}

func TestLoadClasses_RejectsMissingGrowth(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.yaml", `
id: bad
name: Bad
tier: 1
`)
	_, err := ruleset.LoadClasses(dir)
	assert.ErrorContains(t, err, "either gains or primary_stats")
}

func TestLoadProfessions_FreePointsOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "justiciar.yaml", `
id: justiciar
name: Justiciar
tier: 1
free_points: 8
`)
	professions, err := ruleset.LoadProfessions(dir)
	require.NoError(t, err)
	require.Len(t, professions, 1)
	assert.Empty(t, professions[0].Gains)
	assert.Equal(t, 8, professions[0].FreePoints)
}

func TestLoadRaces_RankRanges(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "human.yaml", `
id: human
name: Human
rank_ranges:
  - min_level: 0
    max_level: 9
    rank: G
    gains: {vitality: 1, endurance: 1, strength: 1, dexterity: 1, toughness: 1, intelligence: 1, willpower: 1, wisdom: 1, perception: 1}
    free_points: 1
  - min_level: 10
    max_level: 24
    rank: F
    gains: {vitality: 1, endurance: 1, strength: 1, dexterity: 1, toughness: 1, intelligence: 1, willpower: 1, wisdom: 1, perception: 1}
    free_points: 2
  - min_level: 25
    max_level: 99
    rank: E
    gains: {vitality: 2, endurance: 2, strength: 2, dexterity: 2, toughness: 2, intelligence: 2, willpower: 2, wisdom: 2, perception: 2}
    free_points: 5
`)
	races, err := ruleset.LoadRaces(dir)
	require.NoError(t, err)
	require.Len(t, races, 1)

	human := races[0]
	rr := human.RangeFor(12)
	require.NotNil(t, rr)
	assert.Equal(t, "F", rr.Rank)
	assert.Equal(t, 2, rr.FreePoints)

	rr = human.RangeFor(50)
	require.NotNil(t, rr)
	assert.Equal(t, 2, rr.Gains[stat.Toughness])

	assert.Nil(t, human.RangeFor(200))
}

func TestLoadRaces_RejectsOverlap(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.yaml", `
id: bad
name: Bad
rank_ranges:
  - {min_level: 0, max_level: 10, rank: G}
  - {min_level: 5, max_level: 24, rank: F}
`)
	_, err := ruleset.LoadRaces(dir)
	assert.ErrorContains(t, err, "overlaps")
}

func TestLoadBlessings(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shiva.yaml", `
id: blessing-of-shiva
name: Blessing of Shiva
bonuses:
  willpower: 10
  intelligence: 10
  wisdom: 8
`)
	blessings, err := ruleset.LoadBlessings(dir)
	require.NoError(t, err)
	require.Len(t, blessings, 1)
	assert.Equal(t, 10, blessings[0].Bonuses[stat.Willpower])
}

func TestRegistry_DuplicateID(t *testing.T) {
	reg := ruleset.NewRegistry()
	c := &ClassDefFixture
	require.NoError(t, reg.RegisterClass(c))
	assert.Error(t, reg.RegisterClass(c))
}

// ClassDefFixture is a minimal valid class for registry tests.
var ClassDefFixture = ruleset.ClassDef{
	ID:           "mage",
	Name:         "Mage",
	Tier:         1,
	PrimaryStats: []stat.Key{stat.Intelligence, stat.Willpower},
}

func TestLoadDirs(t *testing.T) {
	classDir := t.TempDir()
	writeFile(t, classDir, "mage.yaml", `
id: mage
name: Mage
tier: 1
gains: {intelligence: 2, willpower: 2, wisdom: 1, perception: 1}
free_points: 2
`)
	reg, err := ruleset.LoadDirs(classDir, "", "", "")
	require.NoError(t, err)
	_, ok := reg.Class("mage")
	assert.True(t, ok)
}
