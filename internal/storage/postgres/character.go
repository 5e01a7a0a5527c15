package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aspectsofpower/ruleset/internal/game/character"
	"github.com/aspectsofpower/ruleset/internal/game/equipment"
	"github.com/aspectsofpower/ruleset/internal/game/progression"
	"github.com/aspectsofpower/ruleset/internal/game/ruleset"
	"github.com/aspectsofpower/ruleset/internal/game/stat"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = errors.New("character not found")

// CharacterRepository persists character state: the core row, the per-ability
// source contributions, and the owned items.
type CharacterRepository struct {
	db       *pgxpool.Pool
	engine   *stat.Engine
	registry *ruleset.Registry
}

// NewCharacterRepository creates a CharacterRepository backed by the given
// pool. Loaded characters recompute their derived block with engine and
// resolve their stored blessing against registry.
//
// Precondition: db must be a valid, open connection pool; engine non-nil.
// registry may be nil when no content is loaded.
func NewCharacterRepository(db *pgxpool.Pool, engine *stat.Engine, registry *ruleset.Registry) *CharacterRepository {
	return &CharacterRepository{db: db, engine: engine, registry: registry}
}

// Save upserts the full character: core row, ability sources, and items, in
// one transaction. The derived block is not stored; it is recomputed on load.
//
// Postcondition: either every table reflects st, or none does.
func (r *CharacterRepository) Save(ctx context.Context, st *character.State) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning save: %w", err)
	}
	defer tx.Rollback(ctx)

	classRow := st.Progression.Class
	professionRow := st.Progression.Profession
	blessingID := ""
	if def := st.Blessing(); def != nil {
		blessingID = def.ID
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO characters
			(id, name, type, race_name, race_level, race_rank,
			 class_name, class_level, class_tier,
			 profession_name, profession_level, profession_tier,
			 free_points, health_current, mana_current, stamina_current,
			 blessing_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			type = EXCLUDED.type,
			race_name = EXCLUDED.race_name,
			race_level = EXCLUDED.race_level,
			race_rank = EXCLUDED.race_rank,
			class_name = EXCLUDED.class_name,
			class_level = EXCLUDED.class_level,
			class_tier = EXCLUDED.class_tier,
			profession_name = EXCLUDED.profession_name,
			profession_level = EXCLUDED.profession_level,
			profession_tier = EXCLUDED.profession_tier,
			free_points = EXCLUDED.free_points,
			health_current = EXCLUDED.health_current,
			mana_current = EXCLUDED.mana_current,
			stamina_current = EXCLUDED.stamina_current,
			blessing_id = EXCLUDED.blessing_id,
			updated_at = NOW()`,
		st.ID, st.Name, string(st.Progression.Type),
		st.Progression.Race.Name, st.Progression.Race.Level, string(st.Progression.Race.Rank),
		trackName(classRow), trackLevel(classRow), trackTier(classRow),
		trackName(professionRow), trackLevel(professionRow), trackTier(professionRow),
		st.Progression.FreePoints,
		st.Health.Current, st.Mana.Current, st.Stamina.Current,
		blessingID,
	)
	if err != nil {
		return fmt.Errorf("upserting character: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM ability_sources WHERE character_id = $1`, st.ID); err != nil {
		return fmt.Errorf("clearing ability sources: %w", err)
	}
	for _, k := range stat.Keys() {
		for _, src := range stat.Sources() {
			pts := st.Abilities.Get(k, src)
			if pts == 0 {
				continue
			}
			if _, err := tx.Exec(ctx, `
				INSERT INTO ability_sources (character_id, ability, source, points)
				VALUES ($1, $2, $3, $4)`,
				st.ID, string(k), string(src), pts,
			); err != nil {
				return fmt.Errorf("inserting ability source %s/%s: %w", k, src, err)
			}
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM items WHERE character_id = $1`, st.ID); err != nil {
		return fmt.Errorf("clearing items: %w", err)
	}
	for _, item := range st.Loadout.Items() {
		if _, err := tx.Exec(ctx, `
			INSERT INTO items
				(id, character_id, name, kind, slot, equipped,
				 stat_bonuses, attack_bonus, damage_bonus, defense_value,
				 req_abilities, req_race_level)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
			item.ID, st.ID, item.Name, string(item.Kind), string(item.Slot), item.Equipped,
			keyMapToStrings(item.StatBonuses), item.AttackBonus, item.DamageBonus, item.DefenseValue,
			keyMapToStrings(item.Requirements.Abilities), item.Requirements.RaceLevel,
		); err != nil {
			return fmt.Errorf("inserting item %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing save: %w", err)
	}
	return nil
}

// Load retrieves a character and rebuilds its derived block.
//
// Postcondition: Returns the character or ErrCharacterNotFound.
func (r *CharacterRepository) Load(ctx context.Context, id uuid.UUID) (*character.State, error) {
	var (
		name                              string
		charType, raceName, raceRank      string
		raceLevel                         int
		className, professionName         string
		classLevel, classTier             int
		professionLevel, professionTier   int
		freePoints, health, mana, stamina int
		blessingID                        string
	)
	err := r.db.QueryRow(ctx, `
		SELECT name, type, race_name, race_level, race_rank,
		       class_name, class_level, class_tier,
		       profession_name, profession_level, profession_tier,
		       free_points, health_current, mana_current, stamina_current,
		       blessing_id
		FROM characters WHERE id = $1`,
		id,
	).Scan(
		&name, &charType, &raceName, &raceLevel, &raceRank,
		&className, &classLevel, &classTier,
		&professionName, &professionLevel, &professionTier,
		&freePoints, &health, &mana, &stamina,
		&blessingID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}

	prog := &progression.State{
		Type: progression.CharacterType(charType),
		Race: progression.RaceProgression{
			Name:  raceName,
			Level: raceLevel,
			Rank:  progression.Rank(raceRank),
		},
		FreePoints: freePoints,
	}
	if prog.Type == progression.TypePlayer {
		prog.Class = &progression.ClassProgression{Name: className, Level: classLevel, Tier: classTier}
		prog.Profession = &progression.ClassProgression{Name: professionName, Level: professionLevel, Tier: professionTier}
	}

	abilities, err := r.loadAbilitySources(ctx, id)
	if err != nil {
		return nil, err
	}
	loadout, err := r.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}

	st, err := character.Rehydrate(id, name, abilities, prog, loadout, health, mana, stamina, r.engine)
	if err != nil {
		return nil, fmt.Errorf("rehydrating character %s: %w", id, err)
	}
	if blessingID != "" && r.registry != nil {
		if def, ok := r.registry.Blessing(blessingID); ok {
			if err := st.ApplyBlessing(def); err != nil {
				return nil, fmt.Errorf("reattaching blessing %q: %w", blessingID, err)
			}
		}
	}
	return st, nil
}

// Delete removes a character and its dependent rows.
//
// Postcondition: Returns nil on success, ErrCharacterNotFound if absent.
func (r *CharacterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM characters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}

func (r *CharacterRepository) loadAbilitySources(ctx context.Context, id uuid.UUID) (stat.SourceTable, error) {
	rows, err := r.db.Query(ctx, `
		SELECT ability, source, points
		FROM ability_sources WHERE character_id = $1`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("listing ability sources: %w", err)
	}
	defer rows.Close()

	table := stat.NewSourceTable(0)
	for rows.Next() {
		var ability, source string
		var points int
		if err := rows.Scan(&ability, &source, &points); err != nil {
			return nil, fmt.Errorf("scanning ability source row: %w", err)
		}
		k, err := stat.ParseKey(ability)
		if err != nil {
			return nil, fmt.Errorf("stored ability source: %w", err)
		}
		table.Set(k, stat.Source(source), points)
	}
	return table, rows.Err()
}

func (r *CharacterRepository) loadItems(ctx context.Context, id uuid.UUID) (*equipment.Loadout, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, kind, slot, equipped,
		       stat_bonuses, attack_bonus, damage_bonus, defense_value,
		       req_abilities, req_race_level
		FROM items WHERE character_id = $1 ORDER BY created_at ASC`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	loadout := equipment.NewLoadout()
	for rows.Next() {
		var (
			item         equipment.Item
			kind, slot   string
			statBonuses  map[string]int
			reqAbilities map[string]int
		)
		if err := rows.Scan(
			&item.ID, &item.Name, &kind, &slot, &item.Equipped,
			&statBonuses, &item.AttackBonus, &item.DamageBonus, &item.DefenseValue,
			&reqAbilities, &item.Requirements.RaceLevel,
		); err != nil {
			return nil, fmt.Errorf("scanning item row: %w", err)
		}
		item.Kind = equipment.Kind(kind)
		item.Slot = equipment.Slot(slot)
		if item.StatBonuses, err = stringsToKeyMap(statBonuses); err != nil {
			return nil, fmt.Errorf("item %s stat bonuses: %w", item.ID, err)
		}
		if item.Requirements.Abilities, err = stringsToKeyMap(reqAbilities); err != nil {
			return nil, fmt.Errorf("item %s requirements: %w", item.ID, err)
		}
		if err := loadout.Add(&item); err != nil {
			return nil, err
		}
	}
	return loadout, rows.Err()
}

func keyMapToStrings(m map[stat.Key]int) map[string]int {
	if m == nil {
		return nil
	}
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[string(k)] = v
	}
	return out
}

func stringsToKeyMap(m map[string]int) (map[stat.Key]int, error) {
	if m == nil {
		return nil, nil
	}
	out := make(map[stat.Key]int, len(m))
	for k, v := range m {
		key, err := stat.ParseKey(k)
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	return out, nil
}

func trackName(p *progression.ClassProgression) string {
	if p == nil {
		return ""
	}
	return p.Name
}

func trackLevel(p *progression.ClassProgression) int {
	if p == nil {
		return 0
	}
	return p.Level
}

func trackTier(p *progression.ClassProgression) int {
	if p == nil {
		return 0
	}
	return p.Tier
}
