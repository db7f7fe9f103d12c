// Package compare decides whether two transaction batches represent
// the same logical data and produces a structured diff when they do
// not.
//
// Compare is a pure function over two already-validated batches: it
// never fails, holds no state and is safe to call concurrently. All
// behavior is driven by the Options value passed per call.
package compare

import (
	"fmt"
	"sort"

	"github.com/ledgertools/banktx/internal/model"
)

// Strategy selects how unmatched transactions affect the result.
type Strategy int

const (
	// ByEquality treats a transaction present on one side only as an
	// inequality, reported as OnlyInA/OnlyInB.
	ByEquality Strategy = iota

	// IgnoreMissing still lists additions/removals as OnlyInA/OnlyInB
	// entries but they no longer force Equal to false; only field and
	// position mismatches among matched transactions do.
	IgnoreMissing
)

// Options configures a comparison. The zero value is the default:
// order-insensitive, matched by ID, ByEquality.
type Options struct {
	// OrderSensitive additionally requires matched transactions to
	// occupy the same positions in both batches.
	OrderSensitive bool

	// IgnoreIDs matches transactions by the tuple of all non-ID fields
	// instead of by ID.
	IgnoreIDs bool

	// IDMatch selects the unmatched-key strategy.
	IDMatch Strategy
}

// DiffKind tags a discrepancy.
type DiffKind int

// Discrepancy kinds.
const (
	OnlyInA DiffKind = iota
	OnlyInB
	FieldMismatch
	PositionMismatch
)

// String returns the tag name.
func (k DiffKind) String() string {
	switch k {
	case OnlyInA:
		return "only-in-a"
	case OnlyInB:
		return "only-in-b"
	case FieldMismatch:
		return "field-mismatch"
	case PositionMismatch:
		return "position-mismatch"
	default:
		return fmt.Sprintf("diff(%d)", int(k))
	}
}

// Discrepancy is a single difference between the two batches.
type Discrepancy struct {
	// Kind tags the difference.
	Kind DiffKind

	// Key is the match key: the transaction ID, or the rendered field
	// tuple when IDs are ignored.
	Key string

	// Field, ValueA and ValueB describe a FieldMismatch.
	Field  string
	ValueA string
	ValueB string

	// PosA and PosB are the 0-based positions of a PositionMismatch.
	PosA int
	PosB int
}

// String renders the discrepancy for human output.
func (d Discrepancy) String() string {
	switch d.Kind {
	case FieldMismatch:
		return fmt.Sprintf("[%s] %s: %s %q != %q", d.Kind, d.Key, d.Field, d.ValueA, d.ValueB)
	case PositionMismatch:
		return fmt.Sprintf("[%s] %s: position %d != %d", d.Kind, d.Key, d.PosA, d.PosB)
	default:
		return fmt.Sprintf("[%s] %s", d.Kind, d.Key)
	}
}

// Result is the outcome of a comparison.
type Result struct {
	// Equal is true iff there are no discrepancies, except that under
	// IgnoreMissing the OnlyInA/OnlyInB entries do not count against
	// equality.
	Equal bool

	// Diffs lists every discrepancy in deterministic order.
	Diffs []Discrepancy
}

// Compare computes semantic equality between two batches under the
// given options.
func Compare(a, b *model.Batch, opts Options) Result {
	keysA, byKeyA := index(a, opts.IgnoreIDs)
	keysB, byKeyB := index(b, opts.IgnoreIDs)

	var diffs []Discrepancy

	for _, key := range keysA {
		entA := byKeyA[key]
		entB, ok := byKeyB[key]
		if !ok {
			diffs = append(diffs, Discrepancy{Kind: OnlyInA, Key: key})
			continue
		}
		diffs = append(diffs, fieldDiffs(key, entA.tx, entB.tx, opts.IgnoreIDs)...)
		if opts.OrderSensitive && entA.pos != entB.pos {
			diffs = append(diffs, Discrepancy{
				Kind: PositionMismatch,
				Key:  key,
				PosA: entA.pos,
				PosB: entB.pos,
			})
		}
	}
	for _, key := range keysB {
		if _, ok := byKeyA[key]; !ok {
			diffs = append(diffs, Discrepancy{Kind: OnlyInB, Key: key})
		}
	}

	sortDiffs(diffs)

	equal := true
	for _, d := range diffs {
		if opts.IDMatch == IgnoreMissing && (d.Kind == OnlyInA || d.Kind == OnlyInB) {
			continue
		}
		equal = false
		break
	}
	return Result{Equal: equal, Diffs: diffs}
}

type entry struct {
	tx  model.Transaction
	pos int
}

// index maps each transaction to its match key. Duplicate keys keep
// the first occurrence; batches guarantee unique IDs, so duplicates
// can only arise under IgnoreIDs with identical field tuples, where
// the transactions are indistinguishable anyway.
func index(b *model.Batch, ignoreIDs bool) ([]string, map[string]entry) {
	keys := make([]string, 0, b.Len())
	byKey := make(map[string]entry, b.Len())
	for i := 0; i < b.Len(); i++ {
		tx := b.At(i)
		key := matchKey(tx, ignoreIDs)
		if _, dup := byKey[key]; dup {
			continue
		}
		keys = append(keys, key)
		byKey[key] = entry{tx: tx, pos: i}
	}
	return keys, byKey
}

func matchKey(tx model.Transaction, ignoreIDs bool) string {
	if !ignoreIDs {
		return fmt.Sprintf("%d", tx.ID())
	}
	return fmt.Sprintf("%d/%s/%s/%s/%d/%s/%s/%q",
		tx.Timestamp(), tx.Kind(), tx.AccountFrom(), tx.AccountTo(),
		tx.Amount(), tx.Currency(), tx.Status(), tx.Memo())
}

func fieldDiffs(key string, a, b model.Transaction, ignoreIDs bool) []Discrepancy {
	var diffs []Discrepancy
	for _, name := range model.FieldNames() {
		if ignoreIDs && name == "id" {
			continue
		}
		va, vb := a.Field(name), b.Field(name)
		if va != vb {
			diffs = append(diffs, Discrepancy{
				Kind:   FieldMismatch,
				Key:    key,
				Field:  name,
				ValueA: va,
				ValueB: vb,
			})
		}
	}
	return diffs
}

func sortDiffs(diffs []Discrepancy) {
	sort.SliceStable(diffs, func(i, j int) bool {
		if diffs[i].Key != diffs[j].Key {
			return diffs[i].Key < diffs[j].Key
		}
		if diffs[i].Kind != diffs[j].Kind {
			return diffs[i].Kind < diffs[j].Kind
		}
		return diffs[i].Field < diffs[j].Field
	})
}
