package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged dice rolling. All rolls
// are logged at debug level with formula, die faces, modifier, and total.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Roll evaluates f against binds and logs the result at debug level.
//
// Precondition: f must come from Parse.
func (r *Roller) Roll(f Formula, binds Bindings) (RollResult, error) {
	result, err := Roll(f, binds, r.src)
	if err != nil {
		return RollResult{}, err
	}
	r.logger.Debug("dice roll",
		zap.String("formula", result.Formula),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	return result, nil
}

// RollFormula parses formula and rolls it against binds, logging the result.
func (r *Roller) RollFormula(formula string, binds Bindings) (RollResult, error) {
	f, err := Parse(formula)
	if err != nil {
		return RollResult{}, err
	}
	return r.Roll(f, binds)
}

// Source exposes the underlying randomness source for components that roll
// single dice directly.
func (r *Roller) Source() Source {
	return r.src
}
