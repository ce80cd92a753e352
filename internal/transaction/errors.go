package transaction

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("transaction not found")

	// ErrTerminalState is returned for an advance on an already-reconciled
	// transaction.
	ErrTerminalState = errors.New("transaction is already reconciled")

	ErrInvalidTransition = errors.New("invalid status transition")

	ErrSplitImbalance = errors.New("child amounts do not sum to parent amount")

	// ErrEmptySplit rejects a split with zero children; a split must
	// partition into at least one child.
	ErrEmptySplit = errors.New("split group requires at least one child")

	// ErrOrphanChild rejects a child referencing a non-existent or
	// non-parent group id at creation time.
	ErrOrphanChild = errors.New("child references no resolvable parent")

	// ErrConcurrentModification means the optimistic concurrency
	// precondition failed; the caller should reload and retry.
	ErrConcurrentModification = errors.New("transaction was modified concurrently")
)

// Event names a state machine input for error reporting.
type Event string

const (
	EventAdvance     Event = "advance"
	EventUnreconcile Event = "unreconcile"
)

// TransitionError identifies a transition not defined in the table. It
// unwraps to ErrInvalidTransition.
type TransitionError struct {
	From  Status
	Event Event
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %s from %q", e.Event, e.From)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// ImbalanceError carries the expected parent amount and the actual child
// sum, in miliunits. It unwraps to ErrSplitImbalance.
type ImbalanceError struct {
	Expected int64
	Actual   int64
}

func (e *ImbalanceError) Error() string {
	return fmt.Sprintf("child amounts sum to %d, expected %d", e.Actual, e.Expected)
}

func (e *ImbalanceError) Unwrap() error { return ErrSplitImbalance }
