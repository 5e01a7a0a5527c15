package combat

import (
	"errors"
	"fmt"

	"github.com/aspectsofpower/ruleset/internal/game/dice"
)

// ErrInsufficientResource is returned when a gated roll is blocked because
// the combatant's resource pool cannot cover the cost. The roll does not
// happen and no state changes.
var ErrInsufficientResource = errors.New("combat: insufficient resource")

// Notifier receives fire-and-forget user-facing notices.
// A local interface keeps the package decoupled from the host wiring.
type Notifier interface {
	Notify(message, severity string)
}

// GatedRoll performs a roll that costs resource points. If the pool is short,
// the roll is blocked: the combatant is notified, no state changes, and
// ErrInsufficientResource is returned. Otherwise the cost is debited and the
// roll performed; a roll failure restores the debit so the debit and the roll
// succeed or fail together.
//
// A zero cost rolls unconditionally.
//
// Precondition: c and roll must be non-nil; notifier may be nil.
func GatedRoll(c *Combatant, resource string, cost int, notifier Notifier, roll func() (dice.RollResult, error)) (dice.RollResult, error) {
	if cost > 0 {
		have := c.Resources[resource]
		if have < cost {
			if notifier != nil {
				notifier.Notify(fmt.Sprintf("%s: not enough %s (%d of %d)", c.Name, resource, have, cost), "warning")
			}
			return dice.RollResult{}, fmt.Errorf("%w: %s %d < %d", ErrInsufficientResource, resource, have, cost)
		}
		c.Resources[resource] = have - cost
	}

	result, err := roll()
	if err != nil && cost > 0 {
		c.Resources[resource] += cost
	}
	return result, err
}
