package equipment

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/aspectsofpower/ruleset/internal/game/stat"
)

// Loadout holds every item owned by one character and enforces the
// slot-conflict rules on equip.
//
// Invariant: after any Equip or Unequip, no two equipped items occupy
// conflicting slots (rings excepted, which never conflict).
type Loadout struct {
	items map[uuid.UUID]*Item
	order []uuid.UUID // insertion order, for stable iteration
}

// NewLoadout returns an empty Loadout.
func NewLoadout() *Loadout {
	return &Loadout{items: make(map[uuid.UUID]*Item)}
}

// Add registers an item with the loadout.
//
// Precondition: item must be non-nil and not already present.
func (l *Loadout) Add(item *Item) error {
	if _, exists := l.items[item.ID]; exists {
		return fmt.Errorf("equipment: item %s already in loadout", item.ID)
	}
	l.items[item.ID] = item
	l.order = append(l.order, item.ID)
	return nil
}

// Remove deletes an item from the loadout. Equipped items must be unequipped
// first.
func (l *Loadout) Remove(id uuid.UUID) error {
	item, ok := l.items[id]
	if !ok {
		return fmt.Errorf("equipment: item %s not in loadout", id)
	}
	if item.Equipped {
		return fmt.Errorf("equipment: item %s is equipped", id)
	}
	delete(l.items, id)
	for i, oid := range l.order {
		if oid == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return nil
}

// Item returns the item with the given ID and whether it was found.
func (l *Loadout) Item(id uuid.UUID) (*Item, bool) {
	item, ok := l.items[id]
	return item, ok
}

// Items returns all items in insertion order.
func (l *Loadout) Items() []*Item {
	out := make([]*Item, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.items[id])
	}
	return out
}

// Equipped returns all currently equipped items in insertion order.
func (l *Loadout) Equipped() []*Item {
	var out []*Item
	for _, id := range l.order {
		if item := l.items[id]; item.Equipped {
			out = append(out, item)
		}
	}
	return out
}

// Equip marks the item as equipped after verifying its requirements against
// the character's ability totals and race level. Items whose slots conflict
// with the new item are unequipped first; the transition is atomic — either
// the requirement check fails and nothing changes, or the conflict set is
// cleared and the item is equipped.
//
// Equipping an already-equipped item is a no-op.
//
// Postcondition: on ErrEquipConflict no item's equipped state changed.
func (l *Loadout) Equip(id uuid.UUID, totals map[stat.Key]int, raceLevel int) error {
	item, ok := l.items[id]
	if !ok {
		return fmt.Errorf("equipment: item %s not in loadout", id)
	}
	if item.Equipped {
		return nil
	}
	if !item.Requirements.Met(totals, raceLevel) {
		return fmt.Errorf("%w: %s", ErrEquipConflict, item.Name)
	}

	conflicts := ConflictsWith(item.Slot)
	for _, other := range l.items {
		if !other.Equipped || other.ID == id {
			continue
		}
		for _, slot := range conflicts {
			if other.Slot == slot {
				other.Equipped = false
				break
			}
		}
	}
	item.Equipped = true
	return nil
}

// Unequip clears the item's equipped flag. Unequipping a non-equipped item
// is a no-op.
func (l *Loadout) Unequip(id uuid.UUID) error {
	item, ok := l.items[id]
	if !ok {
		return fmt.Errorf("equipment: item %s not in loadout", id)
	}
	item.Equipped = false
	return nil
}
