package combat

import (
	"math"

	"github.com/aspectsofpower/ruleset/internal/game/stat"
)

// AttackResult holds the outcome of a single attack resolution.
type AttackResult struct {
	// D20 is the raw d20 result before modifiers.
	D20 int
	// ToHit is the full attack value after the weapon-kind formula and bonuses.
	ToHit int
	// Defense is the defender's resolved defense value.
	Defense int
	// Hit reports whether the attack lands (ToHit >= Defense).
	Hit bool
}

// Defense computes a defender's passive defense:
// round(dex.mod + str.mod*0.3) plus equipped armor.
func Defense(defender *Combatant) int {
	base := float64(defender.Mods[stat.Dexterity]) + float64(defender.Mods[stat.Strength])*0.3
	return int(math.Round(base)) + defender.ArmorDefense
}

// ToHitOverride supplies a replacement to-hit base for a weapon kind, e.g.
// from a loaded homebrew script. A false return falls through to the built-in
// dispatch table.
type ToHitOverride func(kind WeaponKind, mods map[stat.Key]int) (float64, bool)

// ResolveAttack rolls a d20 and resolves the to-hit value against the
// defender's defense.
//
// toHit = round(((d20/100)*base + base) * 0.911) + attacker combat bonus +
// weaponBonus, where base comes from the weapon-kind dispatch table.
//
// Precondition: attacker, defender, and src must be non-nil.
func ResolveAttack(attacker, defender *Combatant, kind WeaponKind, weaponBonus int, src Source) (AttackResult, error) {
	return ResolveAttackWith(attacker, defender, kind, weaponBonus, src, nil)
}

// ResolveAttackWith is ResolveAttack with an optional to-hit base override.
// When override claims the kind, its base replaces the dispatch table's and
// unknown kinds are permitted; otherwise resolution proceeds as ResolveAttack.
func ResolveAttackWith(attacker, defender *Combatant, kind WeaponKind, weaponBonus int, src Source, override ToHitOverride) (AttackResult, error) {
	var base float64
	overridden := false
	if override != nil {
		base, overridden = override(kind, attacker.Mods)
	}
	if !overridden {
		p, err := profileFor(kind)
		if err != nil {
			return AttackResult{}, err
		}
		base = p.toHitBase(attacker.Mods)
	}

	d20 := src.Intn(20) + 1
	toHit := int(math.Round(((float64(d20)/100)*base+base)*0.911)) + attacker.ToHitBonus + weaponBonus
	defense := Defense(defender)

	return AttackResult{
		D20:     d20,
		ToHit:   toHit,
		Defense: defense,
		Hit:     toHit >= defense,
	}, nil
}

// ResolveDamage converts a base dice result into raw damage using the
// weapon-kind damage profile:
//
//	round(((dice/50)*base + base) * scale) + attacker combat bonus + weaponBonus
//
// A critical hit doubles the dice result before the formula is applied.
func ResolveDamage(attacker *Combatant, kind WeaponKind, baseDiceResult int, critical bool, weaponBonus int) (int, error) {
	p, err := profileFor(kind)
	if err != nil {
		return 0, err
	}
	if critical {
		baseDiceResult *= 2
	}
	base := p.damageBase(attacker.Mods)
	raw := math.Round(((float64(baseDiceResult)/50)*base + base) * p.damageScale)
	return int(raw) + attacker.DamageBonus + weaponBonus, nil
}

// ApplyDamage reduces raw damage by the target's toughness modifier and
// decrements the target's health, floored at 0.
//
// Postcondition: returns the final damage dealt (>= 0); target.Health never
// goes below 0.
func ApplyDamage(target *Combatant, rawDamage int, ignoreToughness bool) int {
	reduction := 0
	if !ignoreToughness {
		reduction = target.Mods[stat.Toughness]
	}
	final := rawDamage - reduction
	if final < 0 {
		final = 0
	}
	target.Health -= final
	if target.Health < 0 {
		target.Health = 0
	}
	return final
}
