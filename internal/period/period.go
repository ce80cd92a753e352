package period

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of an accounting period.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Period is a date range that, once closed, locks every transaction dated
// inside it against further mutation. Bounds are inclusive and periods for
// one user never overlap.
type Period struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	StartDate time.Time
	EndDate   time.Time
	Status    Status
	Notes     string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Contains reports whether d falls within the period, inclusive both ends.
// Comparison is at day granularity.
func (p *Period) Contains(d time.Time) bool {
	day := Day(d)
	return !day.Before(Day(p.StartDate)) && !day.After(Day(p.EndDate))
}

// Day truncates t to midnight UTC. Periods and transaction dates carry no
// time-of-day semantics.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
