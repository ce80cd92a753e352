package reconciliation

import (
	"time"

	"github.com/google/uuid"
)

// Condition is one user-configurable requirement a transaction must satisfy
// before it may enter the reconciled status.
type Condition string

const (
	// ConditionHasReceipt requires at least one active document attached to
	// the transaction.
	ConditionHasReceipt Condition = "hasReceipt"

	// ConditionIsReviewed requires a reviewed_at stamp. No core operation
	// writes that stamp yet, so the condition evaluates not-met unless
	// evidence was set out of band.
	ConditionIsReviewed Condition = "isReviewed"

	// ConditionIsApproved requires an approved_at stamp. Same caveat as
	// ConditionIsReviewed.
	ConditionIsApproved Condition = "isApproved"
)

// DefaultConditions applies when a user has no settings row.
var DefaultConditions = []Condition{ConditionHasReceipt}

func (c Condition) Valid() bool {
	switch c {
	case ConditionHasReceipt, ConditionIsReviewed, ConditionIsApproved:
		return true
	}

	return false
}

// Backed reports whether the engine can currently produce evidence for the
// condition. Only hasReceipt has a writer today.
func (c Condition) Backed() bool {
	return c == ConditionHasReceipt
}

// ConditionResult is the outcome of evaluating a single condition across a
// transaction's whole split group.
type ConditionResult struct {
	Name Condition
	Met  bool
}

// Result is the outcome of Evaluate. IsReconciled is the AND of all
// configured conditions.
type Result struct {
	IsReconciled bool
	Conditions   []ConditionResult
}

// Member is the evidence view of one transaction in a split group. A
// transaction outside any group resolves to a single-member group.
type Member struct {
	ID         uuid.UUID
	ReviewedAt *time.Time
	ApprovedAt *time.Time
}

// Group is the resolved set of transactions that must independently satisfy
// every condition for any of them to reconcile.
type Group struct {
	UserID  uuid.UUID
	Members []Member
}
