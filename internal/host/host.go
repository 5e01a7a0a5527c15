// Package host declares the narrow surface between the rules engine and the
// embedding application: notifications, dice rolling, and character
// persistence. The engine depends on these interfaces only; the application
// supplies the implementations.
package host

import (
	"context"

	"github.com/google/uuid"

	"github.com/aspectsofpower/ruleset/internal/game/character"
	"github.com/aspectsofpower/ruleset/internal/game/dice"
)

// Severity levels for user-facing notices.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Notifier delivers fire-and-forget user-facing notices. Implementations
// must never block the caller; the engine emits these on validation failures
// and resource insufficiency and moves on.
type Notifier interface {
	Notify(message, severity string)
}

// DiceRoller evaluates roll formulas. The engine's own roller satisfies
// this; hosts may substitute a seeded or replayed source.
type DiceRoller interface {
	RollFormula(formula string, binds dice.Bindings) (dice.RollResult, error)
}

// CharacterStore persists and retrieves character state. The postgres
// repository satisfies this; in-memory hosts may supply their own.
type CharacterStore interface {
	Save(ctx context.Context, st *character.State) error
	Load(ctx context.Context, id uuid.UUID) (*character.State, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
