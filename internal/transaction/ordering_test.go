package transaction_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/fbarbosa/ledgerkeep/internal/transaction"
)

func plain(notes string) *transaction.Transaction {
	return &transaction.Transaction{
		ID:        uuid.New(),
		SplitType: transaction.SplitTypeNone,
		Notes:     notes,
	}
}

func parent(groupID uuid.UUID, notes string) *transaction.Transaction {
	return &transaction.Transaction{
		ID:           groupID,
		SplitGroupID: &groupID,
		SplitType:    transaction.SplitTypeParent,
		Notes:        notes,
	}
}

func child(groupID uuid.UUID, notes string) *transaction.Transaction {
	return &transaction.Transaction{
		ID:           uuid.New(),
		SplitGroupID: &groupID,
		SplitType:    transaction.SplitTypeChild,
		Notes:        notes,
	}
}

func collectNotes(txs []*transaction.Transaction) []string {
	var notes []string
	for tx := range transaction.OrderForDisplay(txs) {
		notes = append(notes, tx.Notes)
	}

	return notes
}

func TestOrderForDisplay_ParentFollowedByChildren(t *testing.T) {
	groupID := uuid.New()
	input := []*transaction.Transaction{
		plain("a"),
		child(groupID, "c1"),
		parent(groupID, "p"),
		plain("b"),
		child(groupID, "c2"),
	}

	assert.Equal(t, []string{"a", "p", "c1", "c2", "b"}, collectNotes(input))
}

func TestOrderForDisplay_NoSplitsPreservesOrder(t *testing.T) {
	input := []*transaction.Transaction{plain("a"), plain("b"), plain("c")}

	assert.Equal(t, []string{"a", "b", "c"}, collectNotes(input))
}

func TestOrderForDisplay_OrphansAppendedAfterGroups(t *testing.T) {
	groupID := uuid.New()
	missingParent := uuid.New()
	input := []*transaction.Transaction{
		child(missingParent, "orphan1"),
		parent(groupID, "p"),
		child(groupID, "c"),
		plain("a"),
		child(missingParent, "orphan2"),
	}

	assert.Equal(t, []string{"p", "c", "a", "orphan1", "orphan2"}, collectNotes(input))
}

func TestOrderForDisplay_Restartable(t *testing.T) {
	groupID := uuid.New()
	input := []*transaction.Transaction{
		parent(groupID, "p"),
		plain("a"),
		child(groupID, "c"),
	}

	seq := transaction.OrderForDisplay(input)

	var first, second []string
	for tx := range seq {
		first = append(first, tx.Notes)
	}

	for tx := range seq {
		second = append(second, tx.Notes)
	}

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"p", "c", "a"}, first)
}

func TestOrderForDisplay_EarlyBreak(t *testing.T) {
	input := []*transaction.Transaction{plain("a"), plain("b"), plain("c")}

	var got []string

	for tx := range transaction.OrderForDisplay(input) {
		got = append(got, tx.Notes)
		if len(got) == 2 {
			break
		}
	}

	assert.Equal(t, []string{"a", "b"}, got)
}

func TestOrderForDisplay_Empty(t *testing.T) {
	assert.Empty(t, collectNotes(nil))
}
