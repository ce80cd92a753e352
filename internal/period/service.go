package period

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=period
type Repository interface {
	CreatePeriod(ctx context.Context, p *Period) error
	GetPeriod(ctx context.Context, id uuid.UUID) (*Period, error)
	ListPeriods(ctx context.Context, userID uuid.UUID) ([]*Period, error)
	ClosePeriod(ctx context.Context, id uuid.UUID) error

	// FindClosedPeriodContaining returns the closed period whose inclusive
	// range contains date, or nil when no closed period does.
	FindClosedPeriodContaining(ctx context.Context, userID uuid.UUID, date time.Time) (*Period, error)

	// FindOverlapping returns any period of the user whose range intersects
	// [start, end], or nil.
	FindOverlapping(ctx context.Context, userID uuid.UUID, start, end time.Time) (*Period, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	UserID    uuid.UUID
	StartDate time.Time
	EndDate   time.Time
	Notes     string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Period, error) {
	start := Day(params.StartDate)
	end := Day(params.EndDate)

	if end.Before(start) {
		return nil, ErrInvalidRange
	}

	existing, err := s.repo.FindOverlapping(ctx, params.UserID, start, end)
	if err != nil {
		return nil, fmt.Errorf("checking overlap: %w", err)
	}

	if existing != nil {
		return nil, ErrOverlap
	}

	p := &Period{
		UserID:    params.UserID,
		StartDate: start,
		EndDate:   end,
		Status:    StatusOpen,
		Notes:     params.Notes,
	}
	if err := s.repo.CreatePeriod(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Period, error) {
	return s.repo.GetPeriod(ctx, id)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Period, error) {
	return s.repo.ListPeriods(ctx, userID)
}

// Close transitions a period from open to closed. Closing is one-way; there
// is no reopen.
func (s *Service) Close(ctx context.Context, id uuid.UUID) error {
	return s.repo.ClosePeriod(ctx, id)
}

// CheckDateMutable reports whether a transaction dated date may be created
// or mutated for the user. It returns a *ClosedPeriodError naming the
// offending range when the date lies inside a closed period.
func (s *Service) CheckDateMutable(ctx context.Context, userID uuid.UUID, date time.Time) error {
	p, err := s.repo.FindClosedPeriodContaining(ctx, userID, date)
	if err != nil {
		return fmt.Errorf("checking closed periods: %w", err)
	}

	if p != nil {
		return &ClosedPeriodError{StartDate: p.StartDate, EndDate: p.EndDate}
	}

	return nil
}
