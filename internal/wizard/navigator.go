package wizard

import (
	"fmt"

	"github.com/andreagrandi/jvm-wire/internal/catalog"
)

// Navigator tracks the current step. Only forward moves are gated.
type Navigator struct {
	step Step
}

// NewNavigator returns a navigator positioned at the first step.
func NewNavigator() *Navigator {
	return &Navigator{step: FirstStep}
}

// Current returns the active step.
func (n *Navigator) Current() Step {
	return n.step
}

// Advance moves one step forward when the current step's answers are
// complete. It reports whether the step changed. At the last step it is a
// no-op.
func (n *Navigator) Advance(state State, store *catalog.Store) (bool, error) {
	if n.step >= LastStep {
		return false, nil
	}

	if missing := MissingFields(n.step, state, store); len(missing) > 0 {
		return false, &ValidationError{Step: n.step, Missing: missing}
	}

	n.step++
	return true, nil
}

// Retreat moves one step back. At the first step it is a no-op.
func (n *Navigator) Retreat() bool {
	if n.step <= FirstStep {
		return false
	}

	n.step--
	return true
}

// JumpTo moves directly to step without consulting the validator. This is
// breadcrumb navigation and skips the forward gate on purpose.
func (n *Navigator) JumpTo(step Step) error {
	if !step.Valid() {
		return fmt.Errorf("jump to step %d: %w", int(step), ErrInvalidStep)
	}

	n.step = step
	return nil
}
