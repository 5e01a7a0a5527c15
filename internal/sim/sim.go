// Package sim runs Monte Carlo simulations over the combat resolver: hit
// rates, damage distributions, and attacks-until-death. The balance team uses
// these to sanity-check formula changes before they land in content.
package sim

import (
	"errors"
	"fmt"

	"github.com/aspectsofpower/ruleset/internal/game/combat"
	"github.com/aspectsofpower/ruleset/internal/game/dice"
)

// ErrStalemate is returned when an attacker cannot reduce the defender's
// health, so the battle simulation would never terminate.
var ErrStalemate = errors.New("sim: attacker cannot damage defender")

// HitRateReport summarizes a to-hit simulation.
type HitRateReport struct {
	Iterations int
	Hits       int
	HitRate    float64 // fraction in [0, 1]
	MeanToHit  float64
}

// HitRate resolves iterations attacks and reports how often they land.
//
// Precondition: iterations >= 1; src must be non-nil.
func HitRate(attacker, defender *combat.Combatant, kind combat.WeaponKind, iterations int, src combat.Source) (HitRateReport, error) {
	return HitRateWith(attacker, defender, kind, iterations, src, nil)
}

// HitRateWith is HitRate with an optional to-hit base override, e.g. a loaded
// homebrew formula set.
func HitRateWith(attacker, defender *combat.Combatant, kind combat.WeaponKind, iterations int, src combat.Source, override combat.ToHitOverride) (HitRateReport, error) {
	if iterations < 1 {
		return HitRateReport{}, fmt.Errorf("sim: iterations must be >= 1, got %d", iterations)
	}

	report := HitRateReport{Iterations: iterations}
	sum := 0
	for i := 0; i < iterations; i++ {
		res, err := combat.ResolveAttackWith(attacker, defender, kind, 0, src, override)
		if err != nil {
			return HitRateReport{}, err
		}
		sum += res.ToHit
		if res.Hit {
			report.Hits++
		}
	}
	report.HitRate = float64(report.Hits) / float64(iterations)
	report.MeanToHit = float64(sum) / float64(iterations)
	return report, nil
}

// DamageReport summarizes a damage simulation.
type DamageReport struct {
	Iterations int
	Mean       float64
	Min        int
	Max        int
}

// DamageDistribution rolls the damage formula iterations times and resolves
// each roll into raw damage.
//
// Precondition: iterations >= 1; formula must be a valid dice formula.
func DamageDistribution(attacker *combat.Combatant, kind combat.WeaponKind, formula string, iterations int, src dice.Source) (DamageReport, error) {
	if iterations < 1 {
		return DamageReport{}, fmt.Errorf("sim: iterations must be >= 1, got %d", iterations)
	}
	f, err := dice.Parse(formula)
	if err != nil {
		return DamageReport{}, err
	}

	report := DamageReport{Iterations: iterations}
	sum := 0
	for i := 0; i < iterations; i++ {
		roll, err := dice.Roll(f, nil, src)
		if err != nil {
			return DamageReport{}, err
		}
		dmg, err := combat.ResolveDamage(attacker, kind, roll.Total(), false, 0)
		if err != nil {
			return DamageReport{}, err
		}
		sum += dmg
		if i == 0 || dmg < report.Min {
			report.Min = dmg
		}
		if dmg > report.Max {
			report.Max = dmg
		}
	}
	report.Mean = float64(sum) / float64(iterations)
	return report, nil
}

// BattleReport summarizes one attacks-until-death run.
type BattleReport struct {
	Attacks    int
	MeanDamage float64 // mean of final damage after toughness
}

// AttacksUntilDeath repeatedly rolls damage into the defender until its
// health reaches 0, on a scratch copy of the defender. Returns ErrStalemate
// if the first maxAttacks swings deal no damage at all.
//
// Precondition: defender.Health >= 1; maxAttacks >= 1.
func AttacksUntilDeath(attacker, defender *combat.Combatant, kind combat.WeaponKind, formula string, maxAttacks int, src dice.Source) (BattleReport, error) {
	if defender.Health < 1 {
		return BattleReport{}, fmt.Errorf("sim: defender health must be >= 1, got %d", defender.Health)
	}
	if maxAttacks < 1 {
		return BattleReport{}, fmt.Errorf("sim: maxAttacks must be >= 1, got %d", maxAttacks)
	}
	f, err := dice.Parse(formula)
	if err != nil {
		return BattleReport{}, err
	}

	target := *defender
	report := BattleReport{}
	sum := 0
	for report.Attacks < maxAttacks {
		roll, err := dice.Roll(f, nil, src)
		if err != nil {
			return BattleReport{}, err
		}
		raw, err := combat.ResolveDamage(attacker, kind, roll.Total(), false, 0)
		if err != nil {
			return BattleReport{}, err
		}
		final := combat.ApplyDamage(&target, raw, false)
		report.Attacks++
		sum += final

		if target.Health == 0 {
			report.MeanDamage = float64(sum) / float64(report.Attacks)
			return report, nil
		}
	}
	if sum == 0 {
		return BattleReport{}, fmt.Errorf("%w after %d attacks", ErrStalemate, report.Attacks)
	}
	return BattleReport{}, fmt.Errorf("sim: defender still alive after %d attacks", maxAttacks)
}
