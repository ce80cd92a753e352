package reconciliation

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("transaction not found")
	ErrUnknownCondition = errors.New("unknown reconciliation condition")

	// ErrUnsupportedCondition is returned in strict mode when a condition
	// with no evidence writer is configured.
	ErrUnsupportedCondition = errors.New("reconciliation condition has no backing evidence")

	ErrConditionsNotMet = errors.New("reconciliation conditions not met")
)

// ConditionsNotMetError carries the per-condition detail for user display.
// It unwraps to ErrConditionsNotMet.
type ConditionsNotMetError struct {
	Conditions []ConditionResult
}

func (e *ConditionsNotMetError) Error() string {
	for _, c := range e.Conditions {
		if !c.Met {
			return fmt.Sprintf("reconciliation conditions not met: %s", c.Name)
		}
	}

	return "reconciliation conditions not met"
}

func (e *ConditionsNotMetError) Unwrap() error { return ErrConditionsNotMet }

// UnsupportedConditionError names the condition rejected in strict mode.
// It unwraps to ErrUnsupportedCondition.
type UnsupportedConditionError struct {
	Condition Condition
}

func (e *UnsupportedConditionError) Error() string {
	return fmt.Sprintf("reconciliation condition %q has no backing evidence", e.Condition)
}

func (e *UnsupportedConditionError) Unwrap() error { return ErrUnsupportedCondition }
