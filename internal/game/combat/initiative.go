package combat

import (
	"math"
	"sort"
)

// RollInitiative rolls one initiative score from a perception modifier:
// d20 * (perceptionMod/100) + perceptionMod, rounded to 2 decimal places.
//
// Precondition: src must be non-nil.
func RollInitiative(perceptionMod int, src Source) float64 {
	d20 := src.Intn(20) + 1
	raw := float64(d20)*(float64(perceptionMod)/100) + float64(perceptionMod)
	return math.Round(raw*100) / 100
}

// InitiativeEntry pairs a combatant with its rolled initiative score.
type InitiativeEntry struct {
	Combatant *Combatant
	Score     float64
}

// OrderInitiative sorts entries by descending score. Ties keep the original
// declaration order: the combatant declared first acts first.
//
// Postcondition: the slice is sorted in place and returned.
func OrderInitiative(entries []InitiativeEntry) []InitiativeEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	return entries
}
