package character

import (
	"github.com/aspectsofpower/ruleset/internal/game/equipment"
	"github.com/aspectsofpower/ruleset/internal/game/progression"
	"github.com/aspectsofpower/ruleset/internal/game/stat"
)

// Recompute rebuilds the derived block from the authoritative inputs in two
// phases: first aggregate the equipment contribution into the items source
// row and the bonus accumulators, then derive modifiers and stat maxima from
// the resulting totals. Resource currents are clamped when a maximum drops.
//
// Recompute is the only writer of the derived fields. Callers invoke it
// exactly once per mutation; reads never trigger it.
func (s *State) Recompute() error {
	agg := equipment.Aggregate(s.Loadout.Items())
	s.Abilities.ReplaceColumn(stat.SourceItems, agg.Stats)

	totals := s.Abilities.Totals()
	overrides := stat.Overrides{
		VitalityBoost: s.Progression.Race.Rank == progression.RankE,
	}
	mods, err := s.engine.Modifiers(totals, overrides)
	if err != nil {
		return err
	}

	s.Mods = mods
	s.Derived = s.engine.Derive(mods, totals[stat.Vitality])
	s.ToHitBonus = agg.ToHit
	s.DamageBonus = agg.Damage
	s.ArmorDefense = agg.Defense

	s.Health.SetMax(s.Derived.HealthMax)
	s.Mana.SetMax(s.Derived.ManaMax)
	s.Stamina.SetMax(s.Derived.StaminaMax)
	return nil
}
