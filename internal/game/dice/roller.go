package dice

import "fmt"

// Bindings maps variable names (without '@') to their integer values.
type Bindings map[string]int

// Roll evaluates a Formula against the given bindings using src.
//
// Precondition: f must come from Parse (Count >= 1, Sides >= 2); src must be
// non-nil; every variable in f must be present in binds.
// Postcondition: len(result.Dice) == f.Count and
// result.Total() == sum(result.Dice) + result.Modifier.
func Roll(f Formula, binds Bindings, src Source) (RollResult, error) {
	modifier := 0
	for _, t := range f.Terms {
		v := t.Literal
		if t.Variable != "" {
			bound, ok := binds[t.Variable]
			if !ok {
				return RollResult{}, fmt.Errorf("dice: unbound variable %q in formula %q", t.Variable, f.Raw)
			}
			v = bound
		}
		modifier += t.Sign * v
	}

	rolled := make([]int, f.Count)
	for i := range rolled {
		rolled[i] = src.Intn(f.Sides) + 1
	}

	return RollResult{
		Formula:  f.Raw,
		Dice:     rolled,
		Modifier: modifier,
	}, nil
}

// RollFormula parses formula and rolls it in a single call.
//
// Precondition: formula must be a valid roll formula string; src must be non-nil.
func RollFormula(formula string, binds Bindings, src Source) (RollResult, error) {
	f, err := Parse(formula)
	if err != nil {
		return RollResult{}, err
	}
	return Roll(f, binds, src)
}
