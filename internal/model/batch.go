// =============================================================================
// Bank Transaction Interchange - Transaction Batch
// =============================================================================
//
// A Batch is the ordered sequence of transactions decoded from (or
// encoded into) one file. Order matters for round-tripping; the compare
// package decides whether it matters for equality.
//
// =============================================================================

package model

import "fmt"

// Batch is an ordered collection of transactions from a single file.
//
// IDs are unique within a batch; this is enforced on construction. A
// Batch owns its transactions exclusively and is immutable once built.
type Batch struct {
	txs []Transaction
}

// NewBatch builds a batch from transactions in file order. It fails
// with *ValidationError if two transactions share an ID.
func NewBatch(txs []Transaction) (*Batch, error) {
	seen := make(map[uint64]struct{}, len(txs))
	for _, tx := range txs {
		if _, dup := seen[tx.ID()]; dup {
			return nil, validationErr("id", fmt.Sprintf("%d", tx.ID()), "duplicate transaction id in batch")
		}
		seen[tx.ID()] = struct{}{}
	}
	own := make([]Transaction, len(txs))
	copy(own, txs)
	return &Batch{txs: own}, nil
}

// Len returns the number of transactions in the batch.
func (b *Batch) Len() int { return len(b.txs) }

// At returns the transaction at position i in file order.
func (b *Batch) At(i int) Transaction { return b.txs[i] }

// Transactions returns the transactions in file order. The returned
// slice is a copy; the batch itself cannot be mutated through it.
func (b *Batch) Transactions() []Transaction {
	out := make([]Transaction, len(b.txs))
	copy(out, b.txs)
	return out
}

// Equal reports strict structural equality: same length, and every
// position holds an equal transaction.
func (b *Batch) Equal(o *Batch) bool {
	if b.Len() != o.Len() {
		return false
	}
	for i := range b.txs {
		if !b.txs[i].Equal(o.txs[i]) {
			return false
		}
	}
	return true
}
