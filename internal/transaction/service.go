package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fbarbosa/ledgerkeep/internal/reconciliation"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=transaction

// Repository is the persistence contract for single transactions and split
// group row sets. Multi-row writes are atomic: either the whole group
// persists or none of it does.
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error

	// UpdateStatus applies a status transition guarded by a status-equality
	// and version precondition. It returns ErrConcurrentModification when
	// the precondition fails against a live row.
	UpdateStatus(ctx context.Context, params UpdateStatusParams) error

	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	ListGroupMembers(ctx context.Context, groupID uuid.UUID) ([]*Transaction, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error

	// DeleteGroup soft-deletes parent and children in one atomic write and
	// returns the number of rows affected.
	DeleteGroup(ctx context.Context, groupID uuid.UUID) (int64, error)

	BeginSplit(ctx context.Context) (SplitTx, error)
}

// SplitTx is a transaction handle for atomic split group creation.
type SplitTx interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	Commit() error
	Rollback() error
}

// PeriodGuard rejects mutations dated inside a closed accounting period.
// Every mutating operation passes through it before touching storage.
type PeriodGuard interface {
	CheckDateMutable(ctx context.Context, userID uuid.UUID, date time.Time) error
}

// Evaluator computes whether a transaction's whole split group satisfies
// the user's configured reconciliation conditions.
type Evaluator interface {
	Evaluate(ctx context.Context, transactionID uuid.UUID) (*reconciliation.Result, error)
}

type Service struct {
	repo      Repository
	guard     PeriodGuard
	evaluator Evaluator
}

func NewService(repo Repository, guard PeriodGuard, evaluator Evaluator) *Service {
	return &Service{repo: repo, guard: guard, evaluator: evaluator}
}

type CreateParams struct {
	UserID          uuid.UUID
	Date            time.Time
	Amount          int64 // miliunits
	Status          Status
	AccountID       *uuid.UUID
	CreditAccountID *uuid.UUID
	DebitAccountID  *uuid.UUID
	CategoryID      *uuid.UUID
	PayeeCustomerID *uuid.UUID
	Notes           string

	// SplitGroupID creates the transaction as a child of an existing
	// group. The parent must resolve or creation fails with
	// ErrOrphanChild.
	SplitGroupID *uuid.UUID
}

type UpdateParams struct {
	ID              uuid.UUID
	Date            time.Time
	Amount          int64
	CategoryID      *uuid.UUID
	PayeeCustomerID *uuid.UUID
	Notes           string
}

type ListFilter struct {
	UserID    uuid.UUID
	Status    *Status
	StartDate *time.Time
	EndDate   *time.Time
}

type UpdateStatusParams struct {
	ID      uuid.UUID
	From    Status
	To      Status
	Version int64
	Reason  string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	if err := s.guard.CheckDateMutable(ctx, params.UserID, params.Date); err != nil {
		return nil, err
	}

	tx := &Transaction{
		UserID:          params.UserID,
		Date:            params.Date,
		Amount:          params.Amount,
		Status:          params.Status,
		AccountID:       params.AccountID,
		CreditAccountID: params.CreditAccountID,
		DebitAccountID:  params.DebitAccountID,
		CategoryID:      params.CategoryID,
		PayeeCustomerID: params.PayeeCustomerID,
		Notes:           params.Notes,
		SplitType:       SplitTypeNone,
	}

	if tx.Status == "" {
		tx.Status = StatusDraft
	}

	if params.SplitGroupID != nil {
		parent, err := s.repo.GetTransaction(ctx, *params.SplitGroupID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, ErrOrphanChild
			}

			return nil, fmt.Errorf("resolving split parent: %w", err)
		}

		if parent.SplitType != SplitTypeParent {
			return nil, ErrOrphanChild
		}

		// The new child must keep the group balanced; the balance invariant
		// holds at every commit point, not just at group creation.
		members, err := s.repo.ListGroupMembers(ctx, *params.SplitGroupID)
		if err != nil {
			return nil, fmt.Errorf("listing group members: %w", err)
		}

		sum := params.Amount
		for _, m := range members {
			if m.SplitType == SplitTypeChild {
				sum += m.Amount
			}
		}

		if sum != parent.Amount {
			return nil, &ImbalanceError{Expected: parent.Amount, Actual: sum}
		}

		tx.SplitGroupID = params.SplitGroupID
		tx.SplitType = SplitTypeChild
	}

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

func (s *Service) Update(ctx context.Context, params UpdateParams) (*Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, params.ID)
	if err != nil {
		return nil, err
	}

	// Guard both dates so a transaction can neither be moved out of nor
	// into a closed period.
	if err := s.guard.CheckDateMutable(ctx, tx.UserID, tx.Date); err != nil {
		return nil, err
	}

	if err := s.guard.CheckDateMutable(ctx, tx.UserID, params.Date); err != nil {
		return nil, err
	}

	// Amounts of split members only change through group re-creation,
	// otherwise the balance invariant would silently break.
	if tx.SplitType != SplitTypeNone && params.Amount != tx.Amount {
		return nil, &ImbalanceError{Expected: tx.Amount, Actual: params.Amount}
	}

	tx.Date = params.Date
	tx.Amount = params.Amount
	tx.CategoryID = params.CategoryID
	tx.PayeeCustomerID = params.PayeeCustomerID
	tx.Notes = params.Notes

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// Delete removes a transaction. Deleting any member of a split group
// deletes the whole group; partial deletion is disallowed.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return err
	}

	if err := s.guard.CheckDateMutable(ctx, tx.UserID, tx.Date); err != nil {
		return err
	}

	if tx.SplitGroupID != nil {
		return s.deleteGroup(ctx, *tx.SplitGroupID)
	}

	return s.repo.DeleteTransaction(ctx, id)
}

// DeleteGroup removes a split group's parent and all children together.
func (s *Service) DeleteGroup(ctx context.Context, groupID uuid.UUID) error {
	members, err := s.repo.ListGroupMembers(ctx, groupID)
	if err != nil {
		return err
	}

	if len(members) == 0 {
		return ErrNotFound
	}

	for _, m := range members {
		if err := s.guard.CheckDateMutable(ctx, m.UserID, m.Date); err != nil {
			return err
		}
	}

	return s.deleteGroup(ctx, groupID)
}

func (s *Service) deleteGroup(ctx context.Context, groupID uuid.UUID) error {
	affected, err := s.repo.DeleteGroup(ctx, groupID)
	if err != nil {
		return err
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

type ChildEntry struct {
	Amount          int64 // miliunits
	CategoryID      *uuid.UUID
	PayeeCustomerID *uuid.UUID
	Notes           string
}

type SplitParams struct {
	UserID          uuid.UUID
	Date            time.Time
	ParentAmount    int64 // miliunits
	AccountID       *uuid.UUID
	CreditAccountID *uuid.UUID
	DebitAccountID  *uuid.UUID
	PayeeCustomerID *uuid.UUID
	Notes           string
	Children        []ChildEntry
}

// CreateSplitGroup creates a balanced parent+children group atomically.
// The signed sum of the child amounts must equal the parent amount exactly;
// integer arithmetic, no tolerance.
func (s *Service) CreateSplitGroup(ctx context.Context, params SplitParams) (*SplitGroup, error) {
	if err := s.guard.CheckDateMutable(ctx, params.UserID, params.Date); err != nil {
		return nil, err
	}

	if len(params.Children) == 0 {
		return nil, ErrEmptySplit
	}

	var sum int64
	for _, c := range params.Children {
		sum += c.Amount
	}

	if sum != params.ParentAmount {
		return nil, &ImbalanceError{Expected: params.ParentAmount, Actual: sum}
	}

	// The parent's own id doubles as the group id.
	groupID := uuid.New()

	parent := &Transaction{
		ID:              groupID,
		UserID:          params.UserID,
		Date:            params.Date,
		Amount:          params.ParentAmount,
		Status:          StatusDraft,
		AccountID:       params.AccountID,
		CreditAccountID: params.CreditAccountID,
		DebitAccountID:  params.DebitAccountID,
		PayeeCustomerID: params.PayeeCustomerID,
		Notes:           params.Notes,
		SplitGroupID:    &groupID,
		SplitType:       SplitTypeParent,
	}

	children := make([]*Transaction, len(params.Children))
	for i, c := range params.Children {
		children[i] = &Transaction{
			ID:              uuid.New(),
			UserID:          params.UserID,
			Date:            params.Date,
			Amount:          c.Amount,
			Status:          StatusDraft,
			AccountID:       params.AccountID,
			CategoryID:      c.CategoryID,
			PayeeCustomerID: c.PayeeCustomerID,
			Notes:           c.Notes,
			SplitGroupID:    &groupID,
			SplitType:       SplitTypeChild,
		}
	}

	stx, err := s.repo.BeginSplit(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin split: %w", err)
	}
	defer stx.Rollback()

	if err := stx.CreateTransaction(ctx, parent); err != nil {
		return nil, fmt.Errorf("create split parent: %w", err)
	}

	for _, child := range children {
		if err := stx.CreateTransaction(ctx, child); err != nil {
			return nil, fmt.Errorf("create split child: %w", err)
		}
	}

	if err := stx.Commit(); err != nil {
		return nil, fmt.Errorf("commit split: %w", err)
	}

	return &SplitGroup{Parent: parent, Children: children}, nil
}

// AdvanceStatus moves a transaction exactly one step forward and returns it
// together with the status the step started from. Entry into reconciled is
// gated by the evaluator over the transaction's whole split group. The write
// is a single atomic status update guarded by optimistic concurrency, so two
// concurrent advances produce one success and one ErrConcurrentModification.
func (s *Service) AdvanceStatus(ctx context.Context, id uuid.UUID) (*Transaction, Status, error) {
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, "", err
	}

	// The period may have been closed after the transaction was created.
	if err := s.guard.CheckDateMutable(ctx, tx.UserID, tx.Date); err != nil {
		return nil, "", err
	}

	next, err := nextStatus(tx.Status)
	if err != nil {
		return nil, "", err
	}

	if next == StatusReconciled {
		result, err := s.evaluator.Evaluate(ctx, id)
		if err != nil {
			return nil, "", fmt.Errorf("evaluating reconciliation: %w", err)
		}

		if !result.IsReconciled {
			return nil, "", &reconciliation.ConditionsNotMetError{Conditions: result.Conditions}
		}
	}

	from := tx.Status

	err = s.repo.UpdateStatus(ctx, UpdateStatusParams{
		ID:      id,
		From:    from,
		To:      next,
		Version: tx.Version,
	})
	if err != nil {
		return nil, "", err
	}

	tx.Status = next
	tx.Version++

	return tx, from, nil
}

// Unreconcile is the single allowed reverse edge: reconciled back to
// completed. The reason is recorded for audit.
func (s *Service) Unreconcile(ctx context.Context, id uuid.UUID, reason string) (*Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.guard.CheckDateMutable(ctx, tx.UserID, tx.Date); err != nil {
		return nil, err
	}

	if tx.Status != StatusReconciled {
		return nil, &TransitionError{From: tx.Status, Event: EventUnreconcile}
	}

	err = s.repo.UpdateStatus(ctx, UpdateStatusParams{
		ID:      id,
		From:    StatusReconciled,
		To:      StatusCompleted,
		Version: tx.Version,
		Reason:  reason,
	})
	if err != nil {
		return nil, err
	}

	tx.Status = StatusCompleted
	tx.Version++

	return tx, nil
}

// Evaluate exposes the evaluator's verdict without mutating anything.
func (s *Service) Evaluate(ctx context.Context, id uuid.UUID) (*reconciliation.Result, error) {
	return s.evaluator.Evaluate(ctx, id)
}

// nextStatus is the forward transition table. Each advance moves exactly
// one step; callers needing to jump further call repeatedly so the
// evaluator runs on entry to each step.
func nextStatus(from Status) (Status, error) {
	switch from {
	case StatusDraft:
		return StatusPending, nil
	case StatusPending:
		return StatusCompleted, nil
	case StatusCompleted:
		return StatusReconciled, nil
	case StatusReconciled:
		return "", ErrTerminalState
	default:
		return "", &TransitionError{From: from, Event: EventAdvance}
	}
}
