// Package equipment implements item state, slot-conflict resolution, and the
// aggregation of equipped-item bonuses into the stat source table and combat
// bonus totals.
package equipment

import (
	"errors"

	"github.com/google/uuid"

	"github.com/aspectsofpower/ruleset/internal/game/stat"
)

// ErrEquipConflict is returned when an equip is blocked by an unmet ability
// or level requirement. Slot conflicts are not errors; they resolve by
// unequipping the conflicting items.
var ErrEquipConflict = errors.New("equipment: requirements not met")

// Kind classifies an item.
type Kind string

const (
	KindWeapon    Kind = "weapon"
	KindArmor     Kind = "armor"
	KindAccessory Kind = "accessory"
)

// Slot identifies the body slot an item occupies.
type Slot string

const (
	SlotWeapon  Slot = "weapon"
	SlotTwoHand Slot = "twohand"
	SlotShield  Slot = "shield"
	SlotArmor   Slot = "armor"
	SlotHelmet  Slot = "helmet"
	SlotGloves  Slot = "gloves"
	SlotBoots   Slot = "boots"
	SlotRing    Slot = "ring"
	SlotAmulet  Slot = "amulet"
)

// slotConflicts maps each slot to the set of slots it displaces on equip.
// Rings never conflict; any number may be worn.
var slotConflicts = map[Slot][]Slot{
	SlotWeapon:  {SlotWeapon, SlotTwoHand},
	SlotTwoHand: {SlotWeapon, SlotShield, SlotTwoHand},
	SlotShield:  {SlotTwoHand, SlotShield},
	SlotArmor:   {SlotArmor},
	SlotHelmet:  {SlotHelmet},
	SlotGloves:  {SlotGloves},
	SlotBoots:   {SlotBoots},
	SlotAmulet:  {SlotAmulet},
	SlotRing:    nil,
}

// ConflictsWith returns the slots displaced when equipping into slot.
//
// Postcondition: the returned slice is shared; callers must not modify it.
func ConflictsWith(slot Slot) []Slot {
	return slotConflicts[slot]
}

// Requirements declares the minimum totals a character must have to equip an
// item.
type Requirements struct {
	Abilities map[stat.Key]int // minimum effective ability values
	RaceLevel int              // minimum race level
}

// Met reports whether the requirements are satisfied by the given ability
// totals and race level.
func (r Requirements) Met(totals map[stat.Key]int, raceLevel int) bool {
	if raceLevel < r.RaceLevel {
		return false
	}
	for k, min := range r.Abilities {
		if totals[k] < min {
			return false
		}
	}
	return true
}

// Item is one equippable item instance owned by a single character.
type Item struct {
	ID           uuid.UUID
	Name         string
	Kind         Kind
	Slot         Slot
	Equipped     bool
	StatBonuses  map[stat.Key]int
	AttackBonus  int
	DamageBonus  int
	DefenseValue int // counted toward defense only for armor kinds
	Requirements Requirements
}

// NewItem creates an unequipped item with a fresh instance ID.
func NewItem(name string, kind Kind, slot Slot) *Item {
	return &Item{
		ID:   uuid.New(),
		Name: name,
		Kind: kind,
		Slot: slot,
	}
}
