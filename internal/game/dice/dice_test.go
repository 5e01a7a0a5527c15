package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/aspectsofpower/ruleset/internal/game/dice"
)

// fixedSource always returns val (capped at n-1) for any Intn call.
type fixedSource struct{ val int }

func (f *fixedSource) Intn(n int) int {
	if f.val >= n {
		return n - 1
	}
	return f.val
}

// seqSource returns the queued values in order, then zeros.
type seqSource struct {
	vals []int
	i    int
}

func (s *seqSource) Intn(n int) int {
	if s.i >= len(s.vals) {
		return 0
	}
	v := s.vals[s.i]
	s.i++
	if v >= n {
		return n - 1
	}
	return v
}

func TestParse_BasicForms(t *testing.T) {
	tests := []struct {
		formula string
		count   int
		sides   int
	}{
		{"d20", 1, 20},
		{"2d6", 2, 6},
		{"4d8", 4, 8},
	}
	for _, tc := range tests {
		f, err := dice.Parse(tc.formula)
		require.NoError(t, err, tc.formula)
		assert.Equal(t, tc.count, f.Count, tc.formula)
		assert.Equal(t, tc.sides, f.Sides, tc.formula)
		assert.Empty(t, f.Terms, tc.formula)
	}
}

func TestParse_ArithmeticAndVariables(t *testing.T) {
	f, err := dice.Parse("2d6+@str-1+3")
	require.NoError(t, err)
	assert.Equal(t, 2, f.Count)
	assert.Equal(t, 6, f.Sides)
	require.Len(t, f.Terms, 3)
	assert.Equal(t, dice.Term{Sign: 1, Variable: "str"}, f.Terms[0])
	assert.Equal(t, dice.Term{Sign: -1, Literal: 1}, f.Terms[1])
	assert.Equal(t, dice.Term{Sign: 1, Literal: 3}, f.Terms[2])
	assert.Equal(t, []string{"str"}, f.Variables())
}

func TestParse_Errors(t *testing.T) {
	for _, formula := range []string{"", "20", "0d6", "2d1", "2d", "2d6+", "2d6+@", "2d6*2"} {
		_, err := dice.Parse(formula)
		assert.Error(t, err, "formula=%q", formula)
	}
}

func TestRoll_ResolvesBindings(t *testing.T) {
	f := dice.MustParse("2d6+@str")
	src := &seqSource{vals: []int{3, 4}} // faces 4 and 5
	result, err := dice.Roll(f, dice.Bindings{"str": 8}, src)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5}, result.Dice)
	assert.Equal(t, 8, result.Modifier)
	assert.Equal(t, 17, result.Total())
}

func TestRoll_UnboundVariable(t *testing.T) {
	f := dice.MustParse("1d20+@per")
	_, err := dice.Roll(f, nil, &fixedSource{val: 0})
	assert.ErrorContains(t, err, "unbound variable")
}

func TestRollFormula_ParsesAndRolls(t *testing.T) {
	result, err := dice.RollFormula("1d20+2", nil, &fixedSource{val: 13})
	require.NoError(t, err)
	assert.Equal(t, []int{14}, result.Dice)
	assert.Equal(t, 16, result.Total())
}

func TestRollResult_String(t *testing.T) {
	r := dice.RollResult{Formula: "2d6+3", Dice: []int{4, 5}, Modifier: 3}
	assert.Equal(t, "2d6+3 → [4 5] +3 = 12", r.String())
}

func TestRoll_Property_FacesInRangeAndTotalConsistent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 10).Draw(rt, "count")
		sides := rapid.IntRange(2, 20).Draw(rt, "sides")
		val := rapid.IntRange(0, 19).Draw(rt, "val")
		f := dice.Formula{Raw: "x", Count: count, Sides: sides}

		result, err := dice.Roll(f, nil, &fixedSource{val: val})
		require.NoError(rt, err)
		require.Len(rt, result.Dice, count)

		sum := 0
		for _, face := range result.Dice {
			assert.GreaterOrEqual(rt, face, 1)
			assert.LessOrEqual(rt, face, sides)
			sum += face
		}
		assert.Equal(rt, sum, result.Total())
	})
}

func TestCryptoSource_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 100; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

func TestCryptoSource_PanicsOnNonPositive(t *testing.T) {
	src := dice.NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
}

func TestLoggedRoller_RollFormula(t *testing.T) {
	roller := dice.NewLoggedRoller(&fixedSource{val: 2}, zaptest.NewLogger(t))
	result, err := roller.RollFormula("2d6+@wis", dice.Bindings{"wis": 4})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 3}, result.Dice)
	assert.Equal(t, 10, result.Total())
}
