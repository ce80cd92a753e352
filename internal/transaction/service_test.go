package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/fbarbosa/ledgerkeep/internal/period"
	"github.com/fbarbosa/ledgerkeep/internal/reconciliation"
	"github.com/fbarbosa/ledgerkeep/internal/transaction"
)

type mocks struct {
	repo      *transaction.MockRepository
	guard     *transaction.MockPeriodGuard
	evaluator *transaction.MockEvaluator
}

func newService(t *testing.T) (*transaction.Service, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := mocks{
		repo:      transaction.NewMockRepository(ctrl),
		guard:     transaction.NewMockPeriodGuard(ctrl),
		evaluator: transaction.NewMockEvaluator(ctrl),
	}

	return transaction.NewService(m.repo, m.guard, m.evaluator), m
}

func storedTx(status transaction.Status) *transaction.Transaction {
	return &transaction.Transaction{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Date:      time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		Amount:    10000,
		Status:    status,
		SplitType: transaction.SplitTypeNone,
		Version:   3,
	}
}

func TestService_AdvanceStatus_Forward(t *testing.T) {
	type testCase struct {
		name string
		from transaction.Status
		to   transaction.Status
	}

	tests := []testCase{
		{name: "DraftToPending", from: transaction.StatusDraft, to: transaction.StatusPending},
		{name: "PendingToCompleted", from: transaction.StatusPending, to: transaction.StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			tx := storedTx(tt.from)

			m.repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)
			m.guard.EXPECT().CheckDateMutable(gomock.Any(), tx.UserID, tx.Date).Return(nil)
			m.repo.EXPECT().UpdateStatus(gomock.Any(), transaction.UpdateStatusParams{
				ID:      tx.ID,
				From:    tt.from,
				To:      tt.to,
				Version: 3,
			}).Return(nil)

			got, from, err := svc.AdvanceStatus(context.Background(), tx.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.from, from)
			assert.Equal(t, tt.to, got.Status)
			assert.Equal(t, int64(4), got.Version)
		})
	}
}

func TestService_AdvanceStatus_ReconcileGate(t *testing.T) {
	t.Run("ConditionsMet", func(t *testing.T) {
		svc, m := newService(t)
		tx := storedTx(transaction.StatusCompleted)

		m.repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)
		m.guard.EXPECT().CheckDateMutable(gomock.Any(), tx.UserID, tx.Date).Return(nil)
		m.evaluator.EXPECT().Evaluate(gomock.Any(), tx.ID).Return(&reconciliation.Result{
			IsReconciled: true,
			Conditions: []reconciliation.ConditionResult{
				{Name: reconciliation.ConditionHasReceipt, Met: true},
			},
		}, nil)
		m.repo.EXPECT().UpdateStatus(gomock.Any(), gomock.Any()).Return(nil)

		got, from, err := svc.AdvanceStatus(context.Background(), tx.ID)
		require.NoError(t, err)
		assert.Equal(t, transaction.StatusCompleted, from)
		assert.Equal(t, transaction.StatusReconciled, got.Status)
	})

	t.Run("ConditionsNotMet", func(t *testing.T) {
		svc, m := newService(t)
		tx := storedTx(transaction.StatusCompleted)

		m.repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)
		m.guard.EXPECT().CheckDateMutable(gomock.Any(), tx.UserID, tx.Date).Return(nil)
		m.evaluator.EXPECT().Evaluate(gomock.Any(), tx.ID).Return(&reconciliation.Result{
			IsReconciled: false,
			Conditions: []reconciliation.ConditionResult{
				{Name: reconciliation.ConditionHasReceipt, Met: false},
			},
		}, nil)

		got, _, err := svc.AdvanceStatus(context.Background(), tx.ID)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, reconciliation.ErrConditionsNotMet)

		var cnmErr *reconciliation.ConditionsNotMetError
		require.ErrorAs(t, err, &cnmErr)
		require.Len(t, cnmErr.Conditions, 1)
		assert.Equal(t, reconciliation.ConditionHasReceipt, cnmErr.Conditions[0].Name)
		assert.False(t, cnmErr.Conditions[0].Met)
	})
}

func TestService_AdvanceStatus_Terminal(t *testing.T) {
	svc, m := newService(t)
	tx := storedTx(transaction.StatusReconciled)

	m.repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)
	m.guard.EXPECT().CheckDateMutable(gomock.Any(), tx.UserID, tx.Date).Return(nil)

	got, _, err := svc.AdvanceStatus(context.Background(), tx.ID)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, transaction.ErrTerminalState)
}

func TestService_AdvanceStatus_ClosedPeriod(t *testing.T) {
	svc, m := newService(t)
	tx := storedTx(transaction.StatusDraft)

	// The period was closed after the transaction was created; the advance
	// must re-check.
	m.repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)
	m.guard.EXPECT().CheckDateMutable(gomock.Any(), tx.UserID, tx.Date).
		Return(&period.ClosedPeriodError{
			StartDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
		})

	got, _, err := svc.AdvanceStatus(context.Background(), tx.ID)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, period.ErrClosedPeriod)
}

func TestService_AdvanceStatus_ConcurrentModification(t *testing.T) {
	svc, m := newService(t)
	tx := storedTx(transaction.StatusPending)

	m.repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)
	m.guard.EXPECT().CheckDateMutable(gomock.Any(), tx.UserID, tx.Date).Return(nil)
	m.repo.EXPECT().UpdateStatus(gomock.Any(), gomock.Any()).
		Return(transaction.ErrConcurrentModification)

	got, _, err := svc.AdvanceStatus(context.Background(), tx.ID)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, transaction.ErrConcurrentModification)
}

func TestService_Unreconcile(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc, m := newService(t)
		tx := storedTx(transaction.StatusReconciled)

		m.repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)
		m.guard.EXPECT().CheckDateMutable(gomock.Any(), tx.UserID, tx.Date).Return(nil)
		m.repo.EXPECT().UpdateStatus(gomock.Any(), transaction.UpdateStatusParams{
			ID:      tx.ID,
			From:    transaction.StatusReconciled,
			To:      transaction.StatusCompleted,
			Version: 3,
			Reason:  "correction",
		}).Return(nil)

		got, err := svc.Unreconcile(context.Background(), tx.ID, "correction")
		require.NoError(t, err)
		assert.Equal(t, transaction.StatusCompleted, got.Status)
	})

	t.Run("NotReconciled", func(t *testing.T) {
		svc, m := newService(t)
		tx := storedTx(transaction.StatusCompleted)

		m.repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)
		m.guard.EXPECT().CheckDateMutable(gomock.Any(), tx.UserID, tx.Date).Return(nil)

		got, err := svc.Unreconcile(context.Background(), tx.ID, "correction")
		assert.Nil(t, got)
		assert.ErrorIs(t, err, transaction.ErrInvalidTransition)

		var trErr *transaction.TransitionError
		require.ErrorAs(t, err, &trErr)
		assert.Equal(t, transaction.StatusCompleted, trErr.From)
		assert.Equal(t, transaction.EventUnreconcile, trErr.Event)
	})
}

func TestService_CreateSplitGroup(t *testing.T) {
	userID := uuid.New()
	date := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	t.Run("Balanced", func(t *testing.T) {
		svc, m := newService(t)
		ctrl := gomock.NewController(t)
		stx := transaction.NewMockSplitTx(ctrl)

		m.guard.EXPECT().CheckDateMutable(gomock.Any(), userID, date).Return(nil)
		m.repo.EXPECT().BeginSplit(gomock.Any()).Return(stx, nil)
		stx.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil).Times(3)
		stx.EXPECT().Commit().Return(nil)
		stx.EXPECT().Rollback().Return(nil)

		group, err := svc.CreateSplitGroup(context.Background(), transaction.SplitParams{
			UserID:       userID,
			Date:         date,
			ParentAmount: 10000,
			Children: []transaction.ChildEntry{
				{Amount: 3000},
				{Amount: 7000},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, transaction.SplitTypeParent, group.Parent.SplitType)
		require.NotNil(t, group.Parent.SplitGroupID)
		assert.Equal(t, group.Parent.ID, *group.Parent.SplitGroupID)
		require.Len(t, group.Children, 2)

		var sum int64
		for _, c := range group.Children {
			assert.Equal(t, transaction.SplitTypeChild, c.SplitType)
			require.NotNil(t, c.SplitGroupID)
			assert.Equal(t, group.Parent.ID, *c.SplitGroupID)
			sum += c.Amount
		}

		assert.Equal(t, group.Parent.Amount, sum)
	})

	t.Run("Imbalance", func(t *testing.T) {
		svc, m := newService(t)

		m.guard.EXPECT().CheckDateMutable(gomock.Any(), userID, date).Return(nil)

		group, err := svc.CreateSplitGroup(context.Background(), transaction.SplitParams{
			UserID:       userID,
			Date:         date,
			ParentAmount: 10000,
			Children: []transaction.ChildEntry{
				{Amount: 3000},
				{Amount: 6000},
			},
		})
		assert.Nil(t, group)
		assert.ErrorIs(t, err, transaction.ErrSplitImbalance)

		var imbErr *transaction.ImbalanceError
		require.ErrorAs(t, err, &imbErr)
		assert.Equal(t, int64(10000), imbErr.Expected)
		assert.Equal(t, int64(9000), imbErr.Actual)
	})

	t.Run("NegativeAmountsBalance", func(t *testing.T) {
		svc, m := newService(t)
		ctrl := gomock.NewController(t)
		stx := transaction.NewMockSplitTx(ctrl)

		m.guard.EXPECT().CheckDateMutable(gomock.Any(), userID, date).Return(nil)
		m.repo.EXPECT().BeginSplit(gomock.Any()).Return(stx, nil)
		stx.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil).Times(3)
		stx.EXPECT().Commit().Return(nil)
		stx.EXPECT().Rollback().Return(nil)

		_, err := svc.CreateSplitGroup(context.Background(), transaction.SplitParams{
			UserID:       userID,
			Date:         date,
			ParentAmount: 5000,
			Children: []transaction.ChildEntry{
				{Amount: 8000},
				{Amount: -3000},
			},
		})
		assert.NoError(t, err)
	})

	t.Run("NoChildren", func(t *testing.T) {
		svc, m := newService(t)

		m.guard.EXPECT().CheckDateMutable(gomock.Any(), userID, date).Return(nil)

		group, err := svc.CreateSplitGroup(context.Background(), transaction.SplitParams{
			UserID:       userID,
			Date:         date,
			ParentAmount: 0,
		})
		assert.Nil(t, group)
		assert.ErrorIs(t, err, transaction.ErrEmptySplit)
	})

	t.Run("ClosedPeriod", func(t *testing.T) {
		svc, m := newService(t)

		m.guard.EXPECT().CheckDateMutable(gomock.Any(), userID, date).
			Return(&period.ClosedPeriodError{})

		group, err := svc.CreateSplitGroup(context.Background(), transaction.SplitParams{
			UserID:       userID,
			Date:         date,
			ParentAmount: 10000,
			Children:     []transaction.ChildEntry{{Amount: 10000}},
		})
		assert.Nil(t, group)
		assert.ErrorIs(t, err, period.ErrClosedPeriod)
	})

	t.Run("RollbackOnCreateFailure", func(t *testing.T) {
		svc, m := newService(t)
		ctrl := gomock.NewController(t)
		stx := transaction.NewMockSplitTx(ctrl)

		m.guard.EXPECT().CheckDateMutable(gomock.Any(), userID, date).Return(nil)
		m.repo.EXPECT().BeginSplit(gomock.Any()).Return(stx, nil)
		stx.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)
		stx.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(errors.New("insert failed"))
		stx.EXPECT().Rollback().Return(nil)

		group, err := svc.CreateSplitGroup(context.Background(), transaction.SplitParams{
			UserID:       userID,
			Date:         date,
			ParentAmount: 10000,
			Children:     []transaction.ChildEntry{{Amount: 10000}},
		})
		assert.Nil(t, group)
		assert.Error(t, err)
	})
}

func TestService_Create(t *testing.T) {
	userID := uuid.New()
	date := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	t.Run("DefaultsToDraft", func(t *testing.T) {
		svc, m := newService(t)

		m.guard.EXPECT().CheckDateMutable(gomock.Any(), userID, date).Return(nil)
		m.repo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
				tx.ID = uuid.New()
				tx.Version = 1
				return nil
			})

		got, err := svc.Create(context.Background(), transaction.CreateParams{
			UserID: userID,
			Date:   date,
			Amount: 2500,
		})
		require.NoError(t, err)
		assert.Equal(t, transaction.StatusDraft, got.Status)
		assert.Equal(t, transaction.SplitTypeNone, got.SplitType)
	})

	t.Run("OrphanChild", func(t *testing.T) {
		svc, m := newService(t)
		missing := uuid.New()

		m.guard.EXPECT().CheckDateMutable(gomock.Any(), userID, date).Return(nil)
		m.repo.EXPECT().GetTransaction(gomock.Any(), missing).
			Return(nil, transaction.ErrNotFound)

		got, err := svc.Create(context.Background(), transaction.CreateParams{
			UserID:       userID,
			Date:         date,
			Amount:       2500,
			SplitGroupID: &missing,
		})
		assert.Nil(t, got)
		assert.ErrorIs(t, err, transaction.ErrOrphanChild)
	})

	t.Run("ChildOfNonParent", func(t *testing.T) {
		svc, m := newService(t)
		plainID := uuid.New()

		m.guard.EXPECT().CheckDateMutable(gomock.Any(), userID, date).Return(nil)
		m.repo.EXPECT().GetTransaction(gomock.Any(), plainID).
			Return(&transaction.Transaction{ID: plainID, SplitType: transaction.SplitTypeNone}, nil)

		got, err := svc.Create(context.Background(), transaction.CreateParams{
			UserID:       userID,
			Date:         date,
			Amount:       2500,
			SplitGroupID: &plainID,
		})
		assert.Nil(t, got)
		assert.ErrorIs(t, err, transaction.ErrOrphanChild)
	})

	t.Run("ChildKeepsGroupBalanced", func(t *testing.T) {
		svc, m := newService(t)
		groupID := uuid.New()
		parent := &transaction.Transaction{
			ID:           groupID,
			Amount:       10000,
			SplitGroupID: &groupID,
			SplitType:    transaction.SplitTypeParent,
		}

		m.guard.EXPECT().CheckDateMutable(gomock.Any(), userID, date).Return(nil)
		m.repo.EXPECT().GetTransaction(gomock.Any(), groupID).Return(parent, nil)
		m.repo.EXPECT().ListGroupMembers(gomock.Any(), groupID).Return([]*transaction.Transaction{
			parent,
			{Amount: 3000, SplitGroupID: &groupID, SplitType: transaction.SplitTypeChild},
			{Amount: 6500, SplitGroupID: &groupID, SplitType: transaction.SplitTypeChild},
		}, nil)
		m.repo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)

		got, err := svc.Create(context.Background(), transaction.CreateParams{
			UserID:       userID,
			Date:         date,
			Amount:       500,
			SplitGroupID: &groupID,
		})
		require.NoError(t, err)
		assert.Equal(t, transaction.SplitTypeChild, got.SplitType)
	})

	t.Run("ChildUnbalancesGroup", func(t *testing.T) {
		svc, m := newService(t)
		groupID := uuid.New()
		parent := &transaction.Transaction{
			ID:           groupID,
			Amount:       10000,
			SplitGroupID: &groupID,
			SplitType:    transaction.SplitTypeParent,
		}

		m.guard.EXPECT().CheckDateMutable(gomock.Any(), userID, date).Return(nil)
		m.repo.EXPECT().GetTransaction(gomock.Any(), groupID).Return(parent, nil)
		m.repo.EXPECT().ListGroupMembers(gomock.Any(), groupID).Return([]*transaction.Transaction{
			parent,
			{Amount: 3000, SplitGroupID: &groupID, SplitType: transaction.SplitTypeChild},
			{Amount: 7000, SplitGroupID: &groupID, SplitType: transaction.SplitTypeChild},
		}, nil)

		got, err := svc.Create(context.Background(), transaction.CreateParams{
			UserID:       userID,
			Date:         date,
			Amount:       500,
			SplitGroupID: &groupID,
		})
		assert.Nil(t, got)
		assert.ErrorIs(t, err, transaction.ErrSplitImbalance)

		var imbErr *transaction.ImbalanceError
		require.ErrorAs(t, err, &imbErr)
		assert.Equal(t, int64(10000), imbErr.Expected)
		assert.Equal(t, int64(10500), imbErr.Actual)
	})

	t.Run("ParentLookupFailurePropagates", func(t *testing.T) {
		svc, m := newService(t)
		groupID := uuid.New()
		repoErr := errors.New("connection refused")

		m.guard.EXPECT().CheckDateMutable(gomock.Any(), userID, date).Return(nil)
		m.repo.EXPECT().GetTransaction(gomock.Any(), groupID).Return(nil, repoErr)

		got, err := svc.Create(context.Background(), transaction.CreateParams{
			UserID:       userID,
			Date:         date,
			Amount:       2500,
			SplitGroupID: &groupID,
		})
		assert.Nil(t, got)
		assert.ErrorIs(t, err, repoErr)
		assert.NotErrorIs(t, err, transaction.ErrOrphanChild)
	})

	t.Run("ClosedPeriod", func(t *testing.T) {
		svc, m := newService(t)

		m.guard.EXPECT().CheckDateMutable(gomock.Any(), userID, date).
			Return(&period.ClosedPeriodError{})

		got, err := svc.Create(context.Background(), transaction.CreateParams{
			UserID: userID,
			Date:   date,
			Amount: 2500,
		})
		assert.Nil(t, got)
		assert.ErrorIs(t, err, period.ErrClosedPeriod)
	})
}

func TestService_Delete(t *testing.T) {
	t.Run("PlainTransaction", func(t *testing.T) {
		svc, m := newService(t)
		tx := storedTx(transaction.StatusDraft)

		m.repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)
		m.guard.EXPECT().CheckDateMutable(gomock.Any(), tx.UserID, tx.Date).Return(nil)
		m.repo.EXPECT().DeleteTransaction(gomock.Any(), tx.ID).Return(nil)

		assert.NoError(t, svc.Delete(context.Background(), tx.ID))
	})

	t.Run("GroupMemberDeletesWholeGroup", func(t *testing.T) {
		svc, m := newService(t)
		groupID := uuid.New()
		tx := storedTx(transaction.StatusDraft)
		tx.SplitGroupID = &groupID
		tx.SplitType = transaction.SplitTypeChild

		m.repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)
		m.guard.EXPECT().CheckDateMutable(gomock.Any(), tx.UserID, tx.Date).Return(nil)
		m.repo.EXPECT().DeleteGroup(gomock.Any(), groupID).Return(int64(3), nil)

		assert.NoError(t, svc.Delete(context.Background(), tx.ID))
	})
}

func TestService_Update_SplitMemberAmountLocked(t *testing.T) {
	svc, m := newService(t)
	groupID := uuid.New()
	tx := storedTx(transaction.StatusDraft)
	tx.SplitGroupID = &groupID
	tx.SplitType = transaction.SplitTypeChild

	m.repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)
	m.guard.EXPECT().CheckDateMutable(gomock.Any(), tx.UserID, gomock.Any()).Return(nil).Times(2)

	got, err := svc.Update(context.Background(), transaction.UpdateParams{
		ID:     tx.ID,
		Date:   tx.Date,
		Amount: tx.Amount + 1,
	})
	assert.Nil(t, got)
	assert.ErrorIs(t, err, transaction.ErrSplitImbalance)
}

func TestService_DeleteGroup_NotFound(t *testing.T) {
	svc, m := newService(t)
	groupID := uuid.New()

	m.repo.EXPECT().ListGroupMembers(gomock.Any(), groupID).Return(nil, nil)

	err := svc.DeleteGroup(context.Background(), groupID)
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}
