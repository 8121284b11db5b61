package wizard

import (
	"errors"
	"fmt"
)

// ErrInvalidStep is returned when a step outside 1..4 is requested.
var ErrInvalidStep = errors.New("invalid wizard step")

// Step identifies one of the four wizard stages.
type Step int

const (
	StepInstallation Step = iota + 1
	StepRemoteExec
	StepProfile
	StepSummary
)

// FirstStep and LastStep bound the navigator.
const (
	FirstStep = StepInstallation
	LastStep  = StepSummary
)

// Steps lists every step in order.
var Steps = []Step{StepInstallation, StepRemoteExec, StepProfile, StepSummary}

func (s Step) String() string {
	switch s {
	case StepInstallation:
		return "Installation"
	case StepRemoteExec:
		return "Remote Execution"
	case StepProfile:
		return "Profile"
	case StepSummary:
		return "Summary"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

// Valid reports whether s is one of the four wizard steps.
func (s Step) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

// ParseStep converts a 1-based step number into a Step.
func ParseStep(n int) (Step, error) {
	s := Step(n)
	if !s.Valid() {
		return 0, fmt.Errorf("parse step %d: %w", n, ErrInvalidStep)
	}

	return s, nil
}
