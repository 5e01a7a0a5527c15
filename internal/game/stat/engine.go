package stat

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is returned when a formula receives a non-finite or
// negative value.
var ErrInvalidInput = errors.New("stat: invalid input value")

// Formula selects the ability-modifier curve.
type Formula string

const (
	// FormulaLogistic is the canonical curve:
	// round(6000 / (1 + e^(-0.001*(v-500))) - 2265).
	FormulaLogistic Formula = "logistic"
	// FormulaLinear is the simplified fallback: floor((v-50)/3).
	// The two diverge sharply at low values; logistic is canonical.
	FormulaLinear Formula = "linear"
)

// HealthModel selects how maximum health is derived from vitality.
type HealthModel string

const (
	// HealthFromModifier sets health.max = vitality modifier (canonical).
	HealthFromModifier HealthModel = "modifier"
	// HealthFromValuePlusModifier sets health.max = vitality value + modifier.
	HealthFromValuePlusModifier HealthModel = "value_plus_modifier"
)

// Overrides carries the rank-conditional modifier adjustments. The toughness
// halving is unconditional and not represented here.
type Overrides struct {
	// VitalityBoost applies the x1.25 vitality multiplier granted while the
	// character's race rank is exactly E.
	VitalityBoost bool
}

// Engine computes ability modifiers and derived stats. An Engine is pure
// configuration; all methods are free of side effects.
type Engine struct {
	formula     Formula
	healthModel HealthModel
	manaAbility Key
}

// Option configures an Engine.
type Option func(*Engine)

// WithFormula selects the modifier formula.
func WithFormula(f Formula) Option { return func(e *Engine) { e.formula = f } }

// WithHealthModel selects the health derivation model.
func WithHealthModel(m HealthModel) Option { return func(e *Engine) { e.healthModel = m } }

// WithManaAbility selects which ability drives mana.max. Must be Willpower
// (canonical) or Intelligence (simplified model).
func WithManaAbility(k Key) Option { return func(e *Engine) { e.manaAbility = k } }

// NewEngine creates an Engine with the canonical configuration: logistic
// formula, modifier-only health, willpower-driven mana.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		formula:     FormulaLogistic,
		healthModel: HealthFromModifier,
		manaAbility: Willpower,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Modifier converts a total ability value into its modifier under the
// configured formula, without stat-specific overrides.
//
// Precondition: total must be finite and >= 0.
// Postcondition: Returns the modifier, or ErrInvalidInput.
func (e *Engine) Modifier(total float64) (int, error) {
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, total)
	}
	if total < 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, total)
	}
	switch e.formula {
	case FormulaLinear:
		return int(math.Floor((total - 50) / 3)), nil
	default:
		return int(math.Round(6000/(1+math.Exp(-0.001*(total-500))) - 2265)), nil
	}
}

// ModifierFor converts a total value into the modifier for a specific
// ability, applying the stat-specific overrides: toughness is always halved;
// vitality is boosted by x1.25 while ov.VitalityBoost is set.
//
// Precondition: total must be finite and >= 0.
func (e *Engine) ModifierFor(k Key, total float64, ov Overrides) (int, error) {
	mod, err := e.Modifier(total)
	if err != nil {
		return 0, err
	}
	switch {
	case k == Toughness:
		return int(math.Round(float64(mod) * 0.5)), nil
	case k == Vitality && ov.VitalityBoost:
		return int(math.Round(float64(mod) * 1.25)), nil
	default:
		return mod, nil
	}
}

// Modifiers computes the modifier for every ability from its total value.
//
// Precondition: totals must contain finite, non-negative values.
// Postcondition: Returns a modifier per ability key, or ErrInvalidInput.
func (e *Engine) Modifiers(totals map[Key]int, ov Overrides) (map[Key]int, error) {
	mods := make(map[Key]int, len(keyOrder))
	for _, k := range keyOrder {
		m, err := e.ModifierFor(k, float64(totals[k]), ov)
		if err != nil {
			return nil, fmt.Errorf("ability %s: %w", k, err)
		}
		mods[k] = m
	}
	return mods, nil
}

// Defenses holds the four defense values.
type Defenses struct {
	Melee  int
	Ranged int
	Mind   int
	Soul   int
}

// Derived is the snapshot of stats computed from ability modifiers.
// Equipment defense bonuses are layered on by the combat resolver, not here.
type Derived struct {
	HealthMax  int
	ManaMax    int
	StaminaMax int
	Defense    Defenses
}

// Derive computes the derived stat snapshot from ability modifiers.
// vitalityValue is only consulted under HealthFromValuePlusModifier.
//
// Postcondition: pure function of its inputs.
func (e *Engine) Derive(mods map[Key]int, vitalityValue int) Derived {
	healthMax := mods[Vitality]
	if e.healthModel == HealthFromValuePlusModifier {
		healthMax = vitalityValue + mods[Vitality]
	}
	return Derived{
		HealthMax:  healthMax,
		ManaMax:    mods[e.manaAbility],
		StaminaMax: mods[Endurance],
		Defense: Defenses{
			Melee:  round((float64(mods[Dexterity]) + float64(mods[Strength])*0.3) * 1.1),
			Ranged: round((float64(mods[Dexterity])*0.3 + float64(mods[Perception])) * 1.1),
			Mind:   round((float64(mods[Intelligence]) + float64(mods[Wisdom])*0.3) * 1.1),
			Soul:   round((float64(mods[Wisdom]) + float64(mods[Willpower])*0.3) * 1.1),
		},
	}
}

// round is the shared half-away-from-zero rounding used by every rules
// formula in this module.
func round(v float64) int {
	return int(math.Round(v))
}
