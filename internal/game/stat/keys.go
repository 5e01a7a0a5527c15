// Package stat implements the stat engine: ability keys, the additive
// bonus-source table, modifier formulas, and derived stat computation.
package stat

import "fmt"

// Key identifies one of the nine character abilities.
type Key string

const (
	Vitality     Key = "vitality"
	Endurance    Key = "endurance"
	Strength     Key = "strength"
	Dexterity    Key = "dexterity"
	Toughness    Key = "toughness"
	Intelligence Key = "intelligence"
	Willpower    Key = "willpower"
	Wisdom       Key = "wisdom"
	Perception   Key = "perception"
)

// keyOrder is the canonical iteration order for all ability keys.
var keyOrder = []Key{
	Vitality, Endurance, Strength, Dexterity, Toughness,
	Intelligence, Willpower, Wisdom, Perception,
}

// Keys returns all nine ability keys in canonical order.
//
// Postcondition: len(result) == 9; the returned slice is a fresh copy.
func Keys() []Key {
	out := make([]Key, len(keyOrder))
	copy(out, keyOrder)
	return out
}

// validKeys is the membership set for ParseKey.
var validKeys = func() map[Key]bool {
	m := make(map[Key]bool, len(keyOrder))
	for _, k := range keyOrder {
		m[k] = true
	}
	return m
}()

// ParseKey converts s to a Key.
//
// Postcondition: Returns a valid Key or a descriptive error.
func ParseKey(s string) (Key, error) {
	k := Key(s)
	if !validKeys[k] {
		return "", fmt.Errorf("stat: unknown ability %q", s)
	}
	return k, nil
}

// IsValid reports whether k is one of the nine ability keys.
func (k Key) IsValid() bool {
	return validKeys[k]
}
