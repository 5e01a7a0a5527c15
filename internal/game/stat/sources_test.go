package stat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/aspectsofpower/ruleset/internal/game/stat"
)

func TestNewSourceTable_BaseOnly(t *testing.T) {
	tbl := stat.NewSourceTable(5)
	for _, k := range stat.Keys() {
		assert.Equal(t, 5, tbl.Get(k, stat.SourceBase), "ability=%s", k)
		assert.Equal(t, 5, tbl.Total(k), "ability=%s", k)
	}
}

func TestSourceTable_TotalSumsAllSources(t *testing.T) {
	tbl := stat.NewSourceTable(5)
	tbl.Add(stat.Strength, stat.SourceClass, 4)
	tbl.Add(stat.Strength, stat.SourceRace, 2)
	tbl.Add(stat.Strength, stat.SourceItems, 9)
	tbl.Add(stat.Strength, stat.SourceBlessing, 3)
	tbl.Add(stat.Strength, stat.SourceFreePoints, 1)
	assert.Equal(t, 24, tbl.Total(stat.Strength))
	// Other abilities remain untouched.
	assert.Equal(t, 5, tbl.Total(stat.Dexterity))
}

func TestSourceTable_ReplaceColumnResetsMissingKeys(t *testing.T) {
	tbl := stat.NewSourceTable(5)
	tbl.ReplaceColumn(stat.SourceItems, map[stat.Key]int{
		stat.Toughness: 9,
		stat.Strength:  9,
	})
	assert.Equal(t, 9, tbl.Get(stat.Toughness, stat.SourceItems))
	assert.Equal(t, 9, tbl.Get(stat.Strength, stat.SourceItems))

	// A second replacement drops contributions absent from the new column.
	tbl.ReplaceColumn(stat.SourceItems, map[stat.Key]int{stat.Dexterity: 4})
	assert.Equal(t, 0, tbl.Get(stat.Toughness, stat.SourceItems))
	assert.Equal(t, 4, tbl.Get(stat.Dexterity, stat.SourceItems))
}

func TestSourceTable_Property_ChangingOneSourceLeavesOthersUnchanged(t *testing.T) {
	keys := stat.Keys()
	sources := stat.Sources()
	rapid.Check(t, func(rt *rapid.T) {
		tbl := stat.NewSourceTable(5)
		k := keys[rapid.IntRange(0, len(keys)-1).Draw(rt, "key")]
		src := sources[rapid.IntRange(0, len(sources)-1).Draw(rt, "source")]
		delta := rapid.IntRange(1, 50).Draw(rt, "delta")

		before := tbl.Clone()
		tbl.Add(k, src, delta)

		for _, kk := range keys {
			for _, ss := range sources {
				want := before.Get(kk, ss)
				if kk == k && ss == src {
					want += delta
				}
				require.Equal(rt, want, tbl.Get(kk, ss), "ability=%s source=%s", kk, ss)
			}
		}
	})
}

func TestSourceTable_Property_TotalEqualsSumOfSources(t *testing.T) {
	keys := stat.Keys()
	sources := stat.Sources()
	rapid.Check(t, func(rt *rapid.T) {
		tbl := stat.NewSourceTable(rapid.IntRange(0, 10).Draw(rt, "base"))
		n := rapid.IntRange(0, 20).Draw(rt, "mutations")
		for i := 0; i < n; i++ {
			k := keys[rapid.IntRange(0, len(keys)-1).Draw(rt, "key")]
			src := sources[rapid.IntRange(0, len(sources)-1).Draw(rt, "source")]
			tbl.Add(k, src, rapid.IntRange(-5, 20).Draw(rt, "delta"))
		}
		for _, k := range keys {
			sum := 0
			for _, src := range sources {
				sum += tbl.Get(k, src)
			}
			assert.Equal(rt, sum, tbl.Total(k), "ability=%s", k)
		}
	})
}

func TestParseKey(t *testing.T) {
	k, err := stat.ParseKey("willpower")
	require.NoError(t, err)
	assert.Equal(t, stat.Willpower, k)

	_, err = stat.ParseKey("luck")
	assert.Error(t, err)
}
