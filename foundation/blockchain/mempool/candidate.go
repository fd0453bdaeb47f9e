package mempool

import (
	"errors"
	"fmt"

	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/txid"
)

// ErrEmptyCandidate is returned when the candidate list has no
// transactions. A block cannot be empty.
var ErrEmptyCandidate = errors.New("candidate block is empty")

// DuplicateError reports an identifier listed more than once.
type DuplicateError struct {
	ID txid.TxID
}

// Error implements the error interface.
func (de *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate txid in candidate: %s", de.ID)
}

// UnknownTxError reports a listed identifier that is not in the table.
type UnknownTxError struct {
	ID       txid.TxID
	Position int
}

// Error implements the error interface.
func (ue *UnknownTxError) Error() string {
	return fmt.Sprintf("txid at position %d not found in mempool: %s", ue.Position, ue.ID)
}

// WeightError reports a candidate over the weight limit.
type WeightError struct {
	TotalWeight uint64
	Limit       uint64
}

// Error implements the error interface.
func (we *WeightError) Error() string {
	return fmt.Sprintf("total weight %d exceeds limit %d", we.TotalWeight, we.Limit)
}

// OrderError reports a parent that is missing from the candidate or
// placed at or after its child. ParentPosition is -1 when the parent is
// not included at all.
type OrderError struct {
	Parent         txid.TxID
	Child          txid.TxID
	ParentPosition int
	ChildPosition  int
}

// Error implements the error interface.
func (oe *OrderError) Error() string {
	if oe.ParentPosition < 0 {
		return fmt.Sprintf("parent %s of %s is not included in the candidate", oe.Parent, oe.Child)
	}
	return fmt.Sprintf("parent %s of %s appears at position %d, not earlier than child at %d", oe.Parent, oe.Child, oe.ParentPosition, oe.ChildPosition)
}

// MissingRequiredError reports that the configured required identifier
// is absent from the candidate.
type MissingRequiredError struct {
	ID txid.TxID
}

// Error implements the error interface.
func (me *MissingRequiredError) Error() string {
	return fmt.Sprintf("required txid not found in candidate: %s", me.ID)
}

// =============================================================================

// Rules carries the knobs for candidate checking. A nil RequiredTx
// skips the required identifier check.
type Rules struct {
	WeightLimit uint64
	RequiredTx  *txid.TxID
}

// Report carries the accept side of a candidate check.
type Report struct {
	TxCount     int
	TotalWeight uint64
}

// CheckCandidate validates a candidate transaction list: no duplicates,
// every identifier known, total weight within the limit, every parent
// included and earlier than its child, and the required identifier
// present when configured. The reject reason comes back as one of the
// typed errors of this package.
func (mp *Mempool) CheckCandidate(list []txid.TxID, rules Rules) (Report, error) {
	if len(list) == 0 {
		return Report{}, ErrEmptyCandidate
	}

	if rules.WeightLimit == 0 {
		rules.WeightLimit = DefaultWeightLimit
	}

	index := make(map[txid.TxID]int, len(list))
	for i, id := range list {
		if _, exists := index[id]; exists {
			return Report{}, &DuplicateError{ID: id}
		}
		index[id] = i
	}

	var totalWeight uint64
	for i, id := range list {
		tx, exists := mp.txs[id]
		if !exists {
			return Report{}, &UnknownTxError{ID: id, Position: i}
		}
		totalWeight += tx.Weight
	}

	if totalWeight > rules.WeightLimit {
		return Report{}, &WeightError{TotalWeight: totalWeight, Limit: rules.WeightLimit}
	}

	for i, id := range list {
		for _, parent := range mp.txs[id].Parents {
			pos, exists := index[parent]
			if !exists {
				return Report{}, &OrderError{Parent: parent, Child: id, ParentPosition: -1, ChildPosition: i}
			}
			if pos >= i {
				return Report{}, &OrderError{Parent: parent, Child: id, ParentPosition: pos, ChildPosition: i}
			}
		}
	}

	if rules.RequiredTx != nil {
		if _, exists := index[*rules.RequiredTx]; !exists {
			return Report{}, &MissingRequiredError{ID: *rules.RequiredTx}
		}
	}

	return Report{TxCount: len(list), TotalWeight: totalWeight}, nil
}
