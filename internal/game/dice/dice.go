// Package dice provides the randomness abstraction and roll evaluation for
// the Aspects of Power rules engine. Formulas are dice notation ("2d6")
// followed by flat arithmetic and @name variable references ("1d20+@str-2");
// results carry the individual die faces for display by the host.
package dice

import "fmt"

// RollResult holds the full audit trail for a single roll evaluation.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Formula  string // original formula string, e.g. "2d6+@str"
	Dice     []int  // individual die faces before modifiers
	Modifier int    // resolved flat modifier including bound variables
}

// Total returns the sum of all die faces plus the resolved modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String returns a human-readable audit string in the format:
//
//	"2d6+@str → [4 5] +8 = 17"
//
// Precondition: r.Formula is non-empty.
func (r RollResult) String() string {
	if r.Formula == "" {
		panic("dice: RollResult.String() precondition violated: Formula must be non-empty")
	}
	return fmt.Sprintf("%s → %v %+d = %d", r.Formula, r.Dice, r.Modifier, r.Total())
}

// Source is the randomness provider for dice rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}
