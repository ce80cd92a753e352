package transaction

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a transaction. Progression is
// monotonic: draft, pending, completed, reconciled, with a single allowed
// reverse edge from reconciled back to completed.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusPending    Status = "pending"
	StatusCompleted  Status = "completed"
	StatusReconciled Status = "reconciled"
)

// SplitType marks a transaction's role in a split group.
type SplitType string

const (
	SplitTypeNone   SplitType = "none"
	SplitTypeParent SplitType = "parent"
	SplitTypeChild  SplitType = "child"
)

// Transaction is a financial transaction record. Amount is in miliunits,
// 1/1000 of the display currency unit; no floating point crosses this
// boundary. Version backs optimistic concurrency on status writes.
type Transaction struct {
	ID              uuid.UUID
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
	SplitGroupID    *uuid.UUID
	SplitType       SplitType
	ReviewedAt      *time.Time
	ApprovedAt      *time.Time
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       *time.Time
	DeletedAt       *time.Time
}

// SplitGroup is a parent transaction and the children its amount is
// partitioned into.
type SplitGroup struct {
	Parent   *Transaction
	Children []*Transaction
}
