package transaction

import (
	"iter"

	"github.com/google/uuid"
)

// OrderForDisplay yields transactions with each split parent immediately
// followed by its children in their original relative order. Transactions
// without a split relationship keep their original position. A child whose
// parent is missing from the input (the parent may have been filtered out
// of the query window) is an orphan, yielded after all well-formed groups
// in original order.
//
// The returned sequence is a pure function of the input: finite,
// restartable, and lazy.
func OrderForDisplay(txs []*Transaction) iter.Seq[*Transaction] {
	return func(yield func(*Transaction) bool) {
		parents := make(map[uuid.UUID]bool)

		for _, tx := range txs {
			if tx.SplitType == SplitTypeParent && tx.SplitGroupID != nil {
				parents[*tx.SplitGroupID] = true
			}
		}

		children := make(map[uuid.UUID][]*Transaction)

		for _, tx := range txs {
			if tx.SplitType == SplitTypeChild && tx.SplitGroupID != nil && parents[*tx.SplitGroupID] {
				children[*tx.SplitGroupID] = append(children[*tx.SplitGroupID], tx)
			}
		}

		var orphans []*Transaction

		for _, tx := range txs {
			switch {
			case tx.SplitType == SplitTypeChild && tx.SplitGroupID != nil:
				if parents[*tx.SplitGroupID] {
					continue // yielded right after its parent
				}

				orphans = append(orphans, tx)
			case tx.SplitType == SplitTypeParent && tx.SplitGroupID != nil:
				if !yield(tx) {
					return
				}

				for _, child := range children[*tx.SplitGroupID] {
					if !yield(child) {
						return
					}
				}
			default:
				if !yield(tx) {
					return
				}
			}
		}

		for _, tx := range orphans {
			if !yield(tx) {
				return
			}
		}
	}
}
