package transaction

import (
	"iter"
	"time"

	"github.com/google/uuid"

	"github.com/fbarbosa/ledgerkeep/internal/transaction"
)

type transactionResponse struct {
	ID              uuid.UUID             `json:"id"`
	Date            time.Time             `json:"date"`
	Amount          int64                 `json:"amount"`
	Status          transaction.Status    `json:"status"`
	AccountID       *uuid.UUID            `json:"account_id,omitempty"`
	CreditAccountID *uuid.UUID            `json:"credit_account_id,omitempty"`
	DebitAccountID  *uuid.UUID            `json:"debit_account_id,omitempty"`
	CategoryID      *uuid.UUID            `json:"category_id,omitempty"`
	PayeeCustomerID *uuid.UUID            `json:"payee_customer_id,omitempty"`
	Notes           string                `json:"notes,omitempty"`
	SplitGroupID    *uuid.UUID            `json:"split_group_id,omitempty"`
	SplitType       transaction.SplitType `json:"split_type"`
	Version         int64                 `json:"version"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       *time.Time            `json:"updated_at,omitempty"`
}

type splitGroupResponse struct {
	GroupID  uuid.UUID             `json:"group_id"`
	Parent   transactionResponse   `json:"parent"`
	Children []transactionResponse `json:"children"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:              tx.ID,
		Date:            tx.Date,
		Amount:          tx.Amount,
		Status:          tx.Status,
		AccountID:       tx.AccountID,
		CreditAccountID: tx.CreditAccountID,
		DebitAccountID:  tx.DebitAccountID,
		CategoryID:      tx.CategoryID,
		PayeeCustomerID: tx.PayeeCustomerID,
		Notes:           tx.Notes,
		SplitGroupID:    tx.SplitGroupID,
		SplitType:       tx.SplitType,
		Version:         tx.Version,
		CreatedAt:       tx.CreatedAt,
		UpdatedAt:       tx.UpdatedAt,
	}
}

func toResponseList(txs iter.Seq[*transaction.Transaction]) []transactionResponse {
	resp := []transactionResponse{}
	for tx := range txs {
		resp = append(resp, toResponse(tx))
	}

	return resp
}

func toSplitGroupResponse(group *transaction.SplitGroup) splitGroupResponse {
	resp := splitGroupResponse{
		GroupID:  group.Parent.ID,
		Parent:   toResponse(group.Parent),
		Children: make([]transactionResponse, len(group.Children)),
	}

	for i, child := range group.Children {
		resp.Children[i] = toResponse(child)
	}

	return resp
}
