package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fbarbosa/ledgerkeep/internal/period"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, user_id, start_date, end_date, status, notes, created_at, updated_at
func scanPeriod(s scanner) (*period.Period, error) {
	var p period.Period

	var statusStr string

	var notes sql.NullString

	if err := s.Scan(
		&p.ID, &p.UserID, &p.StartDate, &p.EndDate, &statusStr, &notes,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	p.Status = period.Status(statusStr)
	p.Notes = notes.String

	return &p, nil
}

const selectPeriodColumns = `
	id, user_id, start_date, end_date, status, notes, created_at, updated_at
`

func (s *Store) CreatePeriod(ctx context.Context, p *period.Period) error {
	query := `
		INSERT INTO accounting_periods (user_id, start_date, end_date, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		p.UserID,
		p.StartDate,
		p.EndDate,
		p.Status,
		p.Notes,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating period: %w", err)
	}

	return nil
}

func (s *Store) GetPeriod(ctx context.Context, id uuid.UUID) (*period.Period, error) {
	query := `SELECT ` + selectPeriodColumns + `
		FROM accounting_periods
		WHERE id = $1`

	p, err := scanPeriod(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, period.ErrNotFound
		}

		return nil, fmt.Errorf("getting period: %w", err)
	}

	return p, nil
}

func (s *Store) ListPeriods(ctx context.Context, userID uuid.UUID) ([]*period.Period, error) {
	query := `SELECT ` + selectPeriodColumns + `
		FROM accounting_periods
		WHERE user_id = $1
		ORDER BY start_date ASC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing periods: %w", err)
	}
	defer rows.Close()

	var periods []*period.Period

	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning period: %w", err)
		}

		periods = append(periods, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating period rows: %w", err)
	}

	return periods, nil
}

// ClosePeriod flips an open period to closed. The status predicate in the
// WHERE clause makes the transition one-way.
func (s *Store) ClosePeriod(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE accounting_periods
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	res, err := s.db.ExecContext(ctx, query, period.StatusClosed, id, period.StatusOpen)
	if err != nil {
		return fmt.Errorf("closing period: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("closing period: %w", err)
	}

	if affected == 0 {
		if _, err := s.GetPeriod(ctx, id); err != nil {
			return err
		}

		return period.ErrAlreadyClosed
	}

	return nil
}

func (s *Store) FindClosedPeriodContaining(ctx context.Context, userID uuid.UUID, date time.Time) (*period.Period, error) {
	query := `SELECT ` + selectPeriodColumns + `
		FROM accounting_periods
		WHERE user_id = $1 AND status = $2 AND start_date <= $3 AND end_date >= $3
		LIMIT 1`

	p, err := scanPeriod(s.db.QueryRowContext(ctx, query, userID, period.StatusClosed, period.Day(date)))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, fmt.Errorf("finding closed period: %w", err)
	}

	return p, nil
}

func (s *Store) FindOverlapping(ctx context.Context, userID uuid.UUID, start, end time.Time) (*period.Period, error) {
	query := `SELECT ` + selectPeriodColumns + `
		FROM accounting_periods
		WHERE user_id = $1 AND start_date <= $2 AND end_date >= $3
		LIMIT 1`

	p, err := scanPeriod(s.db.QueryRowContext(ctx, query, userID, end, start))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, fmt.Errorf("finding overlapping period: %w", err)
	}

	return p, nil
}
