// Package character aggregates the ability source table, progression state,
// equipment loadout, and blessing into one character, and owns the recompute
// pipeline that keeps the derived block consistent after each mutation.
package character

import (
	"github.com/google/uuid"

	"github.com/aspectsofpower/ruleset/internal/game/combat"
	"github.com/aspectsofpower/ruleset/internal/game/dice"
	"github.com/aspectsofpower/ruleset/internal/game/equipment"
	"github.com/aspectsofpower/ruleset/internal/game/progression"
	"github.com/aspectsofpower/ruleset/internal/game/stat"
)

// Resource pool names used by gated rolls.
const (
	ResourceMana    = "mana"
	ResourceStamina = "stamina"
)

// Resource is a spendable pool with a derived maximum.
//
// Invariant: 0 <= Current <= Max after every mutation through this package.
type Resource struct {
	Current int
	Max     int
}

// SetMax updates the maximum and clamps Current to it. Raising the maximum
// never raises Current.
func (r *Resource) SetMax(max int) {
	r.Max = max
	if r.Current > max {
		r.Current = max
	}
	if r.Current < 0 {
		r.Current = 0
	}
}

// State is one character: the authoritative inputs (ability sources,
// progression, loadout, blessing) plus the derived block recomputed from them.
//
// The derived fields (Mods, Derived, bonuses, resource maxima) are written
// only by Recompute, exactly once per mutation, never on read.
type State struct {
	ID   uuid.UUID
	Name string

	Abilities   stat.SourceTable
	Progression *progression.State
	Loadout     *equipment.Loadout

	Mods         map[stat.Key]int
	Derived      stat.Derived
	ToHitBonus   int
	DamageBonus  int
	ArmorDefense int

	Health  Resource
	Mana    Resource
	Stamina Resource

	blessing *blessingState
	engine   *stat.Engine
}

// New creates a character with all base ability values set to baseValue,
// recomputes the derived block, and fills every resource to its maximum.
func New(name string, charType progression.CharacterType, raceName string, baseValue int, engine *stat.Engine) (*State, error) {
	s := &State{
		ID:          uuid.New(),
		Name:        name,
		Abilities:   stat.NewSourceTable(baseValue),
		Progression: progression.NewState(charType, raceName),
		Loadout:     equipment.NewLoadout(),
		engine:      engine,
	}
	if err := s.Recompute(); err != nil {
		return nil, err
	}
	s.RestoreFull()
	return s, nil
}

// Rehydrate reconstructs a character from persisted state: the authoritative
// inputs plus the saved resource currents. The derived block is recomputed,
// not loaded, so stale persisted totals can never leak in; the saved currents
// are then clamped against the fresh maxima.
func Rehydrate(id uuid.UUID, name string, abilities stat.SourceTable, prog *progression.State, loadout *equipment.Loadout, health, mana, stamina int, engine *stat.Engine) (*State, error) {
	s := &State{
		ID:          id,
		Name:        name,
		Abilities:   abilities,
		Progression: prog,
		Loadout:     loadout,
		engine:      engine,
	}
	s.Health.Current = health
	s.Mana.Current = mana
	s.Stamina.Current = stamina
	if err := s.Recompute(); err != nil {
		return nil, err
	}
	return s, nil
}

// RestoreFull fills health, mana, and stamina to their maxima.
func (s *State) RestoreFull() {
	s.Health.Current = s.Health.Max
	s.Mana.Current = s.Mana.Max
	s.Stamina.Current = s.Stamina.Max
}

// AddItem places an item in the character's loadout without equipping it.
func (s *State) AddItem(item *equipment.Item) error {
	return s.Loadout.Add(item)
}

// Equip equips the item against the character's current totals and race
// level, then recomputes. A requirement failure leaves the character
// unchanged.
func (s *State) Equip(id uuid.UUID) error {
	if err := s.Loadout.Equip(id, s.Abilities.Totals(), s.Progression.Race.Level); err != nil {
		return err
	}
	return s.Recompute()
}

// Unequip unequips the item and recomputes. A no-op unequip still recomputes
// to a fixed point, which changes nothing.
func (s *State) Unequip(id uuid.UUID) error {
	if err := s.Loadout.Unequip(id); err != nil {
		return err
	}
	return s.Recompute()
}

// LevelUp advances the given axis through the progression engine, then
// recomputes. A failed level-up leaves the character unchanged.
func (s *State) LevelUp(eng *progression.Engine, axis progression.Axis, levels int, mode progression.AllocationMode) error {
	if err := eng.LevelUp(s.Progression, s.Abilities, axis, levels, mode); err != nil {
		return err
	}
	return s.Recompute()
}

// AllocateFreePoints spends banked free points through the progression
// engine, then recomputes. An over-allocation leaves the character unchanged.
func (s *State) AllocateFreePoints(eng *progression.Engine, allocations map[stat.Key]int) error {
	if err := eng.AllocateManual(s.Progression, s.Abilities, allocations); err != nil {
		return err
	}
	return s.Recompute()
}

// Combatant snapshots the character for the combat resolvers.
func (s *State) Combatant() *combat.Combatant {
	return &combat.Combatant{
		Name:         s.Name,
		Mods:         s.Mods,
		ToHitBonus:   s.ToHitBonus,
		DamageBonus:  s.DamageBonus,
		ArmorDefense: s.ArmorDefense,
		Health:       s.Health.Current,
		Resources: map[string]int{
			ResourceMana:    s.Mana.Current,
			ResourceStamina: s.Stamina.Current,
		},
	}
}

// ApplyDamage routes raw damage through the combat resolver (toughness
// reduction, zero floor) and writes the surviving health back.
func (s *State) ApplyDamage(rawDamage int, ignoreToughness bool) int {
	c := s.Combatant()
	final := combat.ApplyDamage(c, rawDamage, ignoreToughness)
	s.Health.Current = c.Health
	return final
}

// Roll performs a resource-gated roll and writes the surviving pools back.
// A blocked or failed roll leaves the pools unchanged.
func (s *State) Roll(resource string, cost int, notifier combat.Notifier, roll func() (dice.RollResult, error)) (dice.RollResult, error) {
	c := s.Combatant()
	result, err := combat.GatedRoll(c, resource, cost, notifier, roll)
	s.Mana.Current = c.Resources[ResourceMana]
	s.Stamina.Current = c.Resources[ResourceStamina]
	return result, err
}
