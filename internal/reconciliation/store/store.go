package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fbarbosa/ledgerkeep/internal/reconciliation"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// CountActiveDocuments counts non-deleted documents linked to the
// transaction. Soft deletion is a query predicate here, never filtered in
// the evaluator.
func (s *Store) CountActiveDocuments(ctx context.Context, transactionID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM documents
		WHERE transaction_id = $1 AND deleted_at IS NULL
	`

	var count int
	if err := s.db.QueryRowContext(ctx, query, transactionID).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}

	return count, nil
}

func (s *Store) GetConditions(ctx context.Context, userID uuid.UUID) ([]reconciliation.Condition, error) {
	query := `
		SELECT condition
		FROM reconciliation_conditions
		WHERE user_id = $1
		ORDER BY position ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing conditions: %w", err)
	}
	defer rows.Close()

	var conditions []reconciliation.Condition

	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scanning condition: %w", err)
		}

		conditions = append(conditions, reconciliation.Condition(c))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating condition rows: %w", err)
	}

	return conditions, nil
}

// SaveConditions replaces the user's condition set. Delete and re-insert in
// one database transaction so readers never observe a partial set.
func (s *Store) SaveConditions(ctx context.Context, userID uuid.UUID, conditions []reconciliation.Condition) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx,
		`DELETE FROM reconciliation_conditions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clearing conditions: %w", err)
	}

	query := `
		INSERT INTO reconciliation_conditions (user_id, condition, position, created_at)
		VALUES ($1, $2, $3, NOW())
	`

	for i, c := range conditions {
		if _, err := dbTx.ExecContext(ctx, query, userID, c, i); err != nil {
			return fmt.Errorf("inserting condition: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing conditions: %w", err)
	}

	return nil
}

// ResolveGroup expands a transaction id into its full split group. For a
// transaction with no split relationship the group is the transaction
// itself.
func (s *Store) ResolveGroup(ctx context.Context, transactionID uuid.UUID) (*reconciliation.Group, error) {
	query := `
		SELECT user_id, split_group_id, reviewed_at, approved_at
		FROM transactions
		WHERE id = $1 AND deleted_at IS NULL
	`

	var (
		userID     uuid.UUID
		groupID    *uuid.UUID
		reviewedAt sql.NullTime
		approvedAt sql.NullTime
	)

	err := s.db.QueryRowContext(ctx, query, transactionID).
		Scan(&userID, &groupID, &reviewedAt, &approvedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, reconciliation.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	group := &reconciliation.Group{UserID: userID}

	if groupID == nil {
		group.Members = []reconciliation.Member{{
			ID:         transactionID,
			ReviewedAt: nullTimePtr(reviewedAt),
			ApprovedAt: nullTimePtr(approvedAt),
		}}

		return group, nil
	}

	memberQuery := `
		SELECT id, reviewed_at, approved_at
		FROM transactions
		WHERE split_group_id = $1 AND deleted_at IS NULL
		ORDER BY CASE WHEN split_type = 'parent' THEN 0 ELSE 1 END, created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, memberQuery, *groupID)
	if err != nil {
		return nil, fmt.Errorf("listing group members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m reconciliation.Member

		var rev, app sql.NullTime

		if err := rows.Scan(&m.ID, &rev, &app); err != nil {
			return nil, fmt.Errorf("scanning group member: %w", err)
		}

		m.ReviewedAt = nullTimePtr(rev)
		m.ApprovedAt = nullTimePtr(app)
		group.Members = append(group.Members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating group members: %w", err)
	}

	return group, nil
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}

	return &t.Time
}
