package period

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound      = errors.New("period not found")
	ErrClosedPeriod  = errors.New("date falls within a closed accounting period")
	ErrAlreadyClosed = errors.New("period is already closed")
	ErrInvalidRange  = errors.New("period end date precedes start date")
	ErrOverlap       = errors.New("period overlaps an existing period")
)

// ClosedPeriodError identifies the closed range that blocked a mutation.
// It unwraps to ErrClosedPeriod so callers can match with errors.Is and
// recover the range with errors.As.
type ClosedPeriodError struct {
	StartDate time.Time
	EndDate   time.Time
}

func (e *ClosedPeriodError) Error() string {
	return fmt.Sprintf("date falls within closed accounting period %s..%s",
		e.StartDate.Format(time.DateOnly), e.EndDate.Format(time.DateOnly))
}

func (e *ClosedPeriodError) Unwrap() error { return ErrClosedPeriod }
