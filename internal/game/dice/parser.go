package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Term is one arithmetic term following the dice part of a formula: either a
// literal integer or a @name variable reference, with a sign.
type Term struct {
	Sign     int    // +1 or -1
	Literal  int    // used when Variable is empty
	Variable string // variable name without the leading '@'
}

// Formula represents a parsed roll formula ready to be evaluated.
//
// Invariant: Count >= 1 and Sides >= 2 after a successful Parse.
type Formula struct {
	Raw   string // original input string
	Count int    // number of dice
	Sides int    // faces per die
	Terms []Term // flat arithmetic terms, in input order
}

// Variables returns the names of all variable terms, in input order.
func (f Formula) Variables() []string {
	var names []string
	for _, t := range f.Terms {
		if t.Variable != "" {
			names = append(names, t.Variable)
		}
	}
	return names
}

// Parse parses a roll formula string.
// Supported forms: "d20", "2d6", "2d6+3", "4d8-2", "1d20+@str", "2d6+@str-1".
//
// Precondition: formula must be a non-empty string.
// Postcondition: Returns a valid Formula or a descriptive error.
func Parse(formula string) (Formula, error) {
	if formula == "" {
		return Formula{}, fmt.Errorf("dice: empty formula")
	}

	raw := formula
	s := strings.ToLower(strings.ReplaceAll(formula, " ", ""))

	dIdx := strings.Index(s, "d")
	if dIdx < 0 {
		return Formula{}, fmt.Errorf("dice: missing 'd' in formula %q", raw)
	}

	// Dice count before 'd'; defaults to 1 when omitted.
	count := 1
	if countStr := s[:dIdx]; countStr != "" {
		var err error
		count, err = strconv.Atoi(countStr)
		if err != nil {
			return Formula{}, fmt.Errorf("dice: invalid die count in %q: %w", raw, err)
		}
		if count <= 0 {
			return Formula{}, fmt.Errorf("dice: invalid die count in %q: must be >= 1", raw)
		}
	}

	rest := s[dIdx+1:]

	// Split sides from the arithmetic tail at the first sign.
	tailIdx := strings.IndexAny(rest, "+-")
	sidesStr := rest
	tail := ""
	if tailIdx >= 0 {
		sidesStr = rest[:tailIdx]
		tail = rest[tailIdx:]
	}

	sides, err := strconv.Atoi(sidesStr)
	if err != nil {
		return Formula{}, fmt.Errorf("dice: invalid die sides in %q: %w", raw, err)
	}
	if sides < 2 {
		return Formula{}, fmt.Errorf("dice: invalid die sides in %q: must be >= 2", raw)
	}

	terms, err := parseTerms(tail, raw)
	if err != nil {
		return Formula{}, err
	}

	return Formula{Raw: raw, Count: count, Sides: sides, Terms: terms}, nil
}

// parseTerms parses the arithmetic tail: a sequence of (+|-)(integer|@name).
func parseTerms(tail, raw string) ([]Term, error) {
	var terms []Term
	for tail != "" {
		sign := 0
		switch tail[0] {
		case '+':
			sign = 1
		case '-':
			sign = -1
		default:
			return nil, fmt.Errorf("dice: expected '+' or '-' in %q", raw)
		}
		tail = tail[1:]

		end := strings.IndexAny(tail, "+-")
		if end < 0 {
			end = len(tail)
		}
		tok := tail[:end]
		tail = tail[end:]

		if tok == "" {
			return nil, fmt.Errorf("dice: dangling sign in %q", raw)
		}
		if strings.HasPrefix(tok, "@") {
			name := tok[1:]
			if name == "" {
				return nil, fmt.Errorf("dice: empty variable name in %q", raw)
			}
			terms = append(terms, Term{Sign: sign, Variable: name})
			continue
		}
		lit, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("dice: invalid term %q in %q: %w", tok, raw, err)
		}
		terms = append(terms, Term{Sign: sign, Literal: lit})
	}
	return terms, nil
}

// MustParse parses formula and panics on error. Useful for package-level
// constants.
func MustParse(formula string) Formula {
	f, err := Parse(formula)
	if err != nil {
		panic("dice: MustParse failed for formula " + formula + ": " + err.Error())
	}
	return f
}
