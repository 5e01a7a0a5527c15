package postgres_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aspectsofpower/ruleset/internal/game/character"
	"github.com/aspectsofpower/ruleset/internal/game/equipment"
	"github.com/aspectsofpower/ruleset/internal/game/progression"
	"github.com/aspectsofpower/ruleset/internal/game/ruleset"
	"github.com/aspectsofpower/ruleset/internal/game/stat"
	"github.com/aspectsofpower/ruleset/internal/storage/postgres"
	"github.com/aspectsofpower/ruleset/internal/testutil"
)

func setupRepo(t *testing.T, registry *ruleset.Registry) *postgres.CharacterRepository {
	t.Helper()
	pool := testutil.NewPool(t)
	return postgres.NewCharacterRepository(pool, stat.NewEngine(), registry)
}

func makeTestCharacter(t *testing.T, name string) *character.State {
	t.Helper()
	st, err := character.New(name, progression.TypePlayer, "human", 5, stat.NewEngine())
	require.NoError(t, err)
	return st
}

func TestCharacterRepository_SaveAndLoad(t *testing.T) {
	repo := setupRepo(t, nil)
	ctx := context.Background()

	st := makeTestCharacter(t, "Zara")
	st.Progression.FreePoints = 4
	require.NoError(t, repo.Save(ctx, st))

	loaded, err := repo.Load(ctx, st.ID)
	require.NoError(t, err)

	assert.Equal(t, st.ID, loaded.ID)
	assert.Equal(t, "Zara", loaded.Name)
	assert.Equal(t, progression.TypePlayer, loaded.Progression.Type)
	assert.Equal(t, "human", loaded.Progression.Race.Name)
	assert.Equal(t, 1, loaded.Progression.Race.Level)
	assert.Equal(t, 4, loaded.Progression.FreePoints)
	assert.Equal(t, st.Abilities.Totals(), loaded.Abilities.Totals())
	// The derived block is recomputed, not stored.
	assert.Equal(t, st.Mods, loaded.Mods)
	assert.Equal(t, st.Health.Current, loaded.Health.Current)
}

func TestCharacterRepository_SaveIsUpsert(t *testing.T) {
	repo := setupRepo(t, nil)
	ctx := context.Background()

	st := makeTestCharacter(t, "Korr")
	require.NoError(t, repo.Save(ctx, st))

	st.ApplyDamage(3, true)
	st.Abilities.Add(stat.Strength, stat.SourceFreePoints, 2)
	require.NoError(t, st.Recompute())
	require.NoError(t, repo.Save(ctx, st))

	loaded, err := repo.Load(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, st.Health.Current, loaded.Health.Current)
	assert.Equal(t, 2, loaded.Abilities.Get(stat.Strength, stat.SourceFreePoints))
}

func TestCharacterRepository_ItemsRoundTrip(t *testing.T) {
	repo := setupRepo(t, nil)
	ctx := context.Background()

	st := makeTestCharacter(t, "Mira")
	sword := equipment.NewItem("sword", equipment.KindWeapon, equipment.SlotWeapon)
	sword.StatBonuses = map[stat.Key]int{stat.Strength: 3}
	sword.AttackBonus = 1
	sword.Requirements = equipment.Requirements{
		Abilities: map[stat.Key]int{stat.Strength: 5},
		RaceLevel: 1,
	}
	require.NoError(t, st.AddItem(sword))
	require.NoError(t, st.Equip(sword.ID))
	require.NoError(t, repo.Save(ctx, st))

	loaded, err := repo.Load(ctx, st.ID)
	require.NoError(t, err)

	items := loaded.Loadout.Items()
	require.Len(t, items, 1)
	assert.Equal(t, sword.ID, items[0].ID)
	assert.True(t, items[0].Equipped)
	assert.Equal(t, 3, items[0].StatBonuses[stat.Strength])
	assert.Equal(t, 5, items[0].Requirements.Abilities[stat.Strength])
	// Equipment bonuses come back through the recompute.
	assert.Equal(t, 1, loaded.ToHitBonus)
}

func TestCharacterRepository_BlessingReattached(t *testing.T) {
	registry := ruleset.NewRegistry()
	blessing := &ruleset.BlessingDef{
		ID: "might", Name: "Blessing of Might",
		Bonuses: map[stat.Key]int{stat.Strength: 10},
	}
	require.NoError(t, registry.RegisterBlessing(blessing))
	repo := setupRepo(t, registry)
	ctx := context.Background()

	st := makeTestCharacter(t, "Tove")
	require.NoError(t, st.ApplyBlessing(blessing))
	require.NoError(t, repo.Save(ctx, st))

	loaded, err := repo.Load(ctx, st.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Blessing())
	assert.Equal(t, "might", loaded.Blessing().ID)
	assert.Equal(t, 10, loaded.Abilities.Get(stat.Strength, stat.SourceBlessing))
}

func TestCharacterRepository_LoadMissing(t *testing.T) {
	repo := setupRepo(t, nil)

	_, err := repo.Load(context.Background(), uuid.New())
	assert.ErrorIs(t, err, postgres.ErrCharacterNotFound)
}

func TestCharacterRepository_Delete(t *testing.T) {
	repo := setupRepo(t, nil)
	ctx := context.Background()

	st := makeTestCharacter(t, "Brun")
	require.NoError(t, repo.Save(ctx, st))
	require.NoError(t, repo.Delete(ctx, st.ID))

	_, err := repo.Load(ctx, st.ID)
	assert.ErrorIs(t, err, postgres.ErrCharacterNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, st.ID), postgres.ErrCharacterNotFound)
}
