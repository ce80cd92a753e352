package reconciliation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=reconciliation
type Repository interface {
	// CountActiveDocuments counts documents linked to the transaction that
	// are not soft-deleted. The deletion predicate lives in the store.
	CountActiveDocuments(ctx context.Context, transactionID uuid.UUID) (int, error)

	// GetConditions returns the user's configured condition set in order,
	// or nil when the user has no settings row.
	GetConditions(ctx context.Context, userID uuid.UUID) ([]Condition, error)

	SaveConditions(ctx context.Context, userID uuid.UUID, conditions []Condition) error

	// ResolveGroup expands a transaction id into the full split group it
	// belongs to. A transaction outside any group resolves to itself alone.
	ResolveGroup(ctx context.Context, transactionID uuid.UUID) (*Group, error)
}

type Service struct {
	repo   Repository
	strict bool
}

func NewService(repo Repository, strict bool) *Service {
	return &Service{repo: repo, strict: strict}
}

// Evaluate computes the reconciliation state of the transaction's whole
// split group. Every member must independently satisfy every configured
// condition; the group aggregation is deliberately explicit so it can be
// reasoned about apart from single-row evaluation. Evaluate never mutates
// state.
func (s *Service) Evaluate(ctx context.Context, transactionID uuid.UUID) (*Result, error) {
	group, err := s.repo.ResolveGroup(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("resolving split group: %w", err)
	}

	conditions, err := s.Conditions(ctx, group.UserID)
	if err != nil {
		return nil, err
	}

	result := &Result{IsReconciled: true}

	for _, cond := range conditions {
		met, err := s.evaluate(ctx, cond, group.Members)
		if err != nil {
			return nil, err
		}

		result.Conditions = append(result.Conditions, ConditionResult{Name: cond, Met: met})
		result.IsReconciled = result.IsReconciled && met
	}

	return result, nil
}

// evaluate checks one condition against every group member. One handler per
// variant; adding a condition means adding a variant and a case here.
func (s *Service) evaluate(ctx context.Context, cond Condition, members []Member) (bool, error) {
	switch cond {
	case ConditionHasReceipt:
		return s.allHaveReceipts(ctx, members)
	case ConditionIsReviewed:
		return allStamped(members, func(m Member) bool { return m.ReviewedAt != nil }), nil
	case ConditionIsApproved:
		return allStamped(members, func(m Member) bool { return m.ApprovedAt != nil }), nil
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownCondition, cond)
	}
}

func (s *Service) allHaveReceipts(ctx context.Context, members []Member) (bool, error) {
	for _, m := range members {
		count, err := s.repo.CountActiveDocuments(ctx, m.ID)
		if err != nil {
			return false, fmt.Errorf("counting documents: %w", err)
		}

		if count == 0 {
			return false, nil
		}
	}

	return true, nil
}

func allStamped(members []Member, stamped func(Member) bool) bool {
	for _, m := range members {
		if !stamped(m) {
			return false
		}
	}

	return true
}

// Conditions returns the user's configured condition set, falling back to
// DefaultConditions when no settings row exists.
func (s *Service) Conditions(ctx context.Context, userID uuid.UUID) ([]Condition, error) {
	conditions, err := s.repo.GetConditions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading reconciliation conditions: %w", err)
	}

	if len(conditions) == 0 {
		return DefaultConditions, nil
	}

	return conditions, nil
}

// UpdateConditions replaces the user's condition set. In strict mode,
// conditions without a backing evidence writer are rejected loudly instead
// of silently evaluating not-met forever.
func (s *Service) UpdateConditions(ctx context.Context, userID uuid.UUID, conditions []Condition) error {
	if len(conditions) == 0 {
		return fmt.Errorf("%w: empty condition set", ErrUnknownCondition)
	}

	for _, cond := range conditions {
		if !cond.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownCondition, cond)
		}

		if s.strict && !cond.Backed() {
			return &UnsupportedConditionError{Condition: cond}
		}
	}

	return s.repo.SaveConditions(ctx, userID, conditions)
}
