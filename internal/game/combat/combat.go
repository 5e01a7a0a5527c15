// Package combat implements initiative, attack resolution, damage resolution,
// and resource-gated rolls over ability modifiers.
//
// Weapon behavior is a closed set of kinds, each carrying its own to-hit base
// and damage profile, selected through a single dispatch table.
package combat

import (
	"fmt"

	"github.com/aspectsofpower/ruleset/internal/game/stat"
)

// Source is the subset of dice.Source used by the resolvers.
// A local interface keeps the package usable with any roll source.
type Source interface {
	Intn(n int) int
}

// WeaponKind selects the ability profile used for attack and damage rolls.
type WeaponKind string

const (
	DexWeapon       WeaponKind = "dex_weapon"
	StrWeapon       WeaponKind = "str_weapon"
	MagicProjectile WeaponKind = "magic_projectile"
	MagicMelee      WeaponKind = "magic_melee"
	Generic         WeaponKind = "generic"
)

// mods is shorthand for a computed ability-modifier set.
type mods = map[stat.Key]int

// profile pairs a weapon kind's to-hit base with its damage base and scale.
type profile struct {
	toHitBase   func(m mods) float64
	damageBase  func(m mods) float64
	damageScale float64
}

var profiles = map[WeaponKind]profile{
	DexWeapon: {
		toHitBase:   func(m mods) float64 { return float64(m[stat.Dexterity]) + float64(m[stat.Strength])*0.3 },
		damageBase:  func(m mods) float64 { return float64(m[stat.Strength]) + float64(m[stat.Dexterity])*0.25 },
		damageScale: 0.6,
	},
	StrWeapon: {
		toHitBase:   func(m mods) float64 { return float64(m[stat.Strength]) + float64(m[stat.Dexterity])*0.3 },
		damageBase:  func(m mods) float64 { return float64(m[stat.Strength]) },
		damageScale: 0.5,
	},
	MagicProjectile: {
		toHitBase:   func(m mods) float64 { return float64(m[stat.Intelligence]) + float64(m[stat.Perception])*0.3 },
		damageBase:  func(m mods) float64 { return float64(m[stat.Intelligence]) },
		damageScale: 0.5,
	},
	MagicMelee: {
		toHitBase:   func(m mods) float64 { return float64(m[stat.Intelligence]) + float64(m[stat.Strength])*0.3 },
		damageBase:  func(m mods) float64 { return float64(m[stat.Intelligence]) + float64(m[stat.Strength])*0.25 },
		damageScale: 0.6,
	},
	Generic: {
		toHitBase:   func(m mods) float64 { return float64(m[stat.Strength]) },
		damageBase:  func(m mods) float64 { return float64(m[stat.Strength]) },
		damageScale: 0.5,
	},
}

// profileFor resolves the dispatch entry for kind.
func profileFor(kind WeaponKind) (profile, error) {
	p, ok := profiles[kind]
	if !ok {
		return profile{}, fmt.Errorf("combat: unknown weapon kind %q", kind)
	}
	return p, nil
}

// Combatant is one side of an attack: computed ability modifiers plus the
// equipment-derived combat bonuses and resource pools.
type Combatant struct {
	// Name identifies the combatant in logs and notifications.
	Name string
	// Mods holds the computed modifier per ability.
	Mods map[stat.Key]int
	// ToHitBonus is the sum of equipped-item attack bonuses.
	ToHitBonus int
	// DamageBonus is the sum of equipped-item damage bonuses.
	DamageBonus int
	// ArmorDefense is the sum of equipped armor defense values.
	ArmorDefense int
	// Health is the current health pool, floored at 0.
	Health int
	// Resources holds spendable pools (mana, stamina) by name.
	Resources map[string]int
}
