package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/fbarbosa/ledgerkeep/internal/transaction"
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

// Expected column order: id, user_id, date, amount, status, account_id,
// credit_account_id, debit_account_id, category_id, payee_customer_id,
// notes, split_group_id, split_type, reviewed_at, approved_at, version,
// created_at, updated_at, deleted_at
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var statusStr, splitTypeStr string

	var notes sql.NullString

	var reviewedAt, approvedAt sql.NullTime

	if err := s.Scan(
		&tx.ID, &tx.UserID, &tx.Date, &tx.Amount, &statusStr,
		&tx.AccountID, &tx.CreditAccountID, &tx.DebitAccountID,
		&tx.CategoryID, &tx.PayeeCustomerID, &notes,
		&tx.SplitGroupID, &splitTypeStr, &reviewedAt, &approvedAt,
		&tx.Version, &tx.CreatedAt, &tx.UpdatedAt, &tx.DeletedAt,
	); err != nil {
		return nil, err
	}

	tx.Status = transaction.Status(statusStr)
	tx.SplitType = transaction.SplitType(splitTypeStr)
	tx.Notes = notes.String

	if reviewedAt.Valid {
		tx.ReviewedAt = &reviewedAt.Time
	}

	if approvedAt.Valid {
		tx.ApprovedAt = &approvedAt.Time
	}

	return &tx, nil
}

const selectTransactionColumns = `
	t.id, t.user_id, t.date, t.amount, t.status,
	t.account_id, t.credit_account_id, t.debit_account_id,
	t.category_id, t.payee_customer_id, t.notes,
	t.split_group_id, t.split_type, t.reviewed_at, t.approved_at,
	t.version, t.created_at, t.updated_at, t.deleted_at
`

const insertTransactionQuery = `
	INSERT INTO transactions (
		id, user_id, date, amount, status,
		account_id, credit_account_id, debit_account_id,
		category_id, payee_customer_id, notes,
		split_group_id, split_type, version, created_at, updated_at
	)
	VALUES (
		COALESCE($1, gen_random_uuid()), $2, $3, $4, $5,
		$6, $7, $8, $9, $10, $11, $12, $13, 1, NOW(), NOW()
	)
	RETURNING id, version, created_at, updated_at
`

// rowQuerier is satisfied by both *sql.DB and *sql.Tx.
type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertTransaction(ctx context.Context, q rowQuerier, tx *transaction.Transaction) error {
	var id *uuid.UUID
	if tx.ID != uuid.Nil {
		id = &tx.ID
	}

	err := q.QueryRowContext(ctx, insertTransactionQuery,
		id,
		tx.UserID,
		tx.Date,
		tx.Amount,
		tx.Status,
		tx.AccountID,
		tx.CreditAccountID,
		tx.DebitAccountID,
		tx.CategoryID,
		tx.PayeeCustomerID,
		tx.Notes,
		tx.SplitGroupID,
		tx.SplitType,
	).Scan(&tx.ID, &tx.Version, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	return insertTransaction(ctx, s.db, tx)
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.id = $1 AND t.deleted_at IS NULL`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.deleted_at IS NULL AND t.user_id = $1`

	args := []any{filter.UserID}

	argIdx := 2

	if filter.Status != nil {
		query += fmt.Sprintf(" AND t.status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND t.date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND t.date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY t.date ASC, t.created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}

func (s *Store) ListGroupMembers(ctx context.Context, groupID uuid.UUID) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.split_group_id = $1 AND t.deleted_at IS NULL
		ORDER BY CASE WHEN t.split_type = 'parent' THEN 0 ELSE 1 END, t.created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("listing group members: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning group member: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating group member rows: %w", err)
	}

	return txs, nil
}

// UpdateTransaction writes descriptive fields guarded by the row's version.
// A failed precondition against a live row surfaces as
// ErrConcurrentModification.
func (s *Store) UpdateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		UPDATE transactions
		SET date = $1, amount = $2, category_id = $3, payee_customer_id = $4,
			notes = $5, version = version + 1, updated_at = NOW()
		WHERE id = $6 AND version = $7 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query,
		tx.Date,
		tx.Amount,
		tx.CategoryID,
		tx.PayeeCustomerID,
		tx.Notes,
		tx.ID,
		tx.Version,
	)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	if affected == 0 {
		return s.disambiguateWriteMiss(ctx, tx.ID)
	}

	tx.Version++

	return nil
}

// UpdateStatus applies a status transition as one atomic write. The WHERE
// clause carries both the expected current status and the version stamp, so
// of two concurrent advances exactly one succeeds. The audit row is written
// in the same database transaction.
func (s *Store) UpdateStatus(ctx context.Context, params transaction.UpdateStatusParams) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		UPDATE transactions
		SET status = $1, version = version + 1, updated_at = NOW()
		WHERE id = $2 AND status = $3 AND version = $4 AND deleted_at IS NULL
	`

	res, err := dbTx.ExecContext(ctx, query, params.To, params.ID, params.From, params.Version)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	if affected == 0 {
		return s.disambiguateWriteMiss(ctx, params.ID)
	}

	auditQuery := `
		INSERT INTO status_changes (transaction_id, from_status, to_status, reason, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`

	if _, err := dbTx.ExecContext(ctx, auditQuery, params.ID, params.From, params.To, params.Reason); err != nil {
		return fmt.Errorf("recording status change: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing status update: %w", err)
	}

	return nil
}

// disambiguateWriteMiss tells a vanished row apart from a lost optimistic
// race after a zero-row write.
func (s *Store) disambiguateWriteMiss(ctx context.Context, id uuid.UUID) error {
	var exists bool

	query := `SELECT EXISTS (SELECT 1 FROM transactions WHERE id = $1 AND deleted_at IS NULL)`
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return fmt.Errorf("checking transaction existence: %w", err)
	}

	if !exists {
		return transaction.ErrNotFound
	}

	return transaction.ErrConcurrentModification
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE transactions
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	_, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	return nil
}

// DeleteGroup soft-deletes parent and children in a single statement, so
// readers never observe a partially deleted group.
func (s *Store) DeleteGroup(ctx context.Context, groupID uuid.UUID) (int64, error) {
	query := `
		UPDATE transactions
		SET deleted_at = NOW()
		WHERE split_group_id = $1 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, groupID)
	if err != nil {
		return 0, fmt.Errorf("deleting split group: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleting split group: %w", err)
	}

	return affected, nil
}

type splitTx struct {
	tx *sql.Tx
}

// BeginSplit opens the database transaction under which a whole split group
// is created. Abandoning the handle rolls everything back; partial groups
// are never observable.
func (s *Store) BeginSplit(ctx context.Context) (transaction.SplitTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning split tx: %w", err)
	}

	return &splitTx{tx: dbTx}, nil
}

func (stx *splitTx) Commit() error   { return stx.tx.Commit() }
func (stx *splitTx) Rollback() error { return stx.tx.Rollback() }

func (stx *splitTx) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	return insertTransaction(ctx, stx.tx, tx)
}
