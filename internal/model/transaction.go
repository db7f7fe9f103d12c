// =============================================================================
// Bank Transaction Interchange - Transaction Model
// =============================================================================
//
// This file defines the canonical in-memory transaction record shared by
// every codec. A Transaction can only be built through NewTransaction,
// which checks every domain invariant and refuses to construct a
// partially-valid record. Once built, a Transaction is immutable: all
// fields are unexported and exposed through read-only accessors.
//
// Validation failures are reported as *ValidationError carrying the
// offending field name and value. Structural problems in an input file
// (bad framing, malformed lines) are NOT validation errors; those belong
// to the codec layer.
//
// =============================================================================

package model

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// MaxMemoLen is the format-independent cap on memo length, in code points.
const MaxMemoLen = 256

// MaxAccountLen caps the account identifier length, in bytes.
const MaxAccountLen = 32

var currencyRe = regexp.MustCompile(`^[A-Z]{3}$`)

var accountRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)

// ValidationError reports a domain invariant violated by an otherwise
// structurally decodable record.
type ValidationError struct {
	// Field is the canonical name of the offending field ("currency",
	// "account_to", ...).
	Field string

	// Value is the rejected value, rendered as a string.
	Value string

	// Reason is a human-readable description of the violated invariant.
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func validationErr(field, value, reason string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// Transaction is a single bank transaction record.
//
// The zero value is not a valid Transaction; use NewTransaction.
type Transaction struct {
	id          uint64
	timestamp   int64
	accountFrom string
	accountTo   string
	amount      int64
	currency    string
	kind        Kind
	status      Status
	memo        string
}

// NewTransaction validates all invariants and constructs an immutable
// Transaction. It returns *ValidationError on the first violated
// invariant.
//
// Invariants:
//   - timestamp is non-negative (seconds since the Unix epoch)
//   - account identifiers are 1-32 chars of [A-Za-z0-9_-]
//   - accountFrom may equal accountTo only for Reversal
//   - currency matches [A-Z]{3}
//   - amount is non-zero for every kind except Reversal
//   - memo is at most MaxMemoLen code points and valid UTF-8
func NewTransaction(
	id uint64,
	timestamp int64,
	accountFrom, accountTo string,
	amount int64,
	currency string,
	kind Kind,
	status Status,
	memo string,
) (Transaction, error) {
	if !kind.Valid() {
		return Transaction{}, validationErr("kind", kind.Token(), "unknown transaction kind")
	}
	if !status.Valid() {
		return Transaction{}, validationErr("status", status.Token(), "unknown transaction status")
	}
	if timestamp < 0 {
		return Transaction{}, validationErr("timestamp", fmt.Sprintf("%d", timestamp), "must not be negative")
	}
	if !accountRe.MatchString(accountFrom) {
		return Transaction{}, validationErr("account_from", accountFrom, "must be 1-32 characters of [A-Za-z0-9_-]")
	}
	if !accountRe.MatchString(accountTo) {
		return Transaction{}, validationErr("account_to", accountTo, "must be 1-32 characters of [A-Za-z0-9_-]")
	}
	if accountFrom == accountTo && kind != Reversal {
		return Transaction{}, validationErr("account_to", accountTo, "self-transfer is only allowed for REVERSAL")
	}
	if !currencyRe.MatchString(currency) {
		return Transaction{}, validationErr("currency", currency, "must match [A-Z]{3}")
	}
	if amount == 0 && kind != Reversal {
		return Transaction{}, validationErr("amount", "0", "must be non-zero for "+kind.Token())
	}
	if !utf8.ValidString(memo) {
		return Transaction{}, validationErr("memo", memo, "must be valid UTF-8")
	}
	if utf8.RuneCountInString(memo) > MaxMemoLen {
		return Transaction{}, validationErr("memo", memo, fmt.Sprintf("exceeds %d code points", MaxMemoLen))
	}

	return Transaction{
		id:          id,
		timestamp:   timestamp,
		accountFrom: accountFrom,
		accountTo:   accountTo,
		amount:      amount,
		currency:    currency,
		kind:        kind,
		status:      status,
		memo:        memo,
	}, nil
}

// ID returns the transaction identifier, unique within a batch.
func (t Transaction) ID() uint64 { return t.id }

// Timestamp returns the transaction time in seconds since the Unix epoch.
func (t Transaction) Timestamp() int64 { return t.timestamp }

// AccountFrom returns the source account identifier.
func (t Transaction) AccountFrom() string { return t.accountFrom }

// AccountTo returns the destination account identifier.
func (t Transaction) AccountTo() string { return t.accountTo }

// Amount returns the signed amount in minor currency units.
func (t Transaction) Amount() int64 { return t.amount }

// Currency returns the 3-letter currency code.
func (t Transaction) Currency() string { return t.currency }

// Kind returns the transaction kind.
func (t Transaction) Kind() Kind { return t.kind }

// Status returns the processing status.
func (t Transaction) Status() Status { return t.status }

// Memo returns the free-form description, possibly empty.
func (t Transaction) Memo() string { return t.memo }

// Equal reports strict structural equality: every field including ID
// must match. Semantic equality with configurable tolerance lives in
// the compare package.
func (t Transaction) Equal(o Transaction) bool {
	return t == o
}

// Field returns the value of a canonical field rendered as a string.
// The names match the CSV/XLSX header columns. Unknown names return "".
func (t Transaction) Field(name string) string {
	switch name {
	case "id":
		return fmt.Sprintf("%d", t.id)
	case "timestamp":
		return fmt.Sprintf("%d", t.timestamp)
	case "kind":
		return t.kind.Token()
	case "account_from":
		return t.accountFrom
	case "account_to":
		return t.accountTo
	case "amount":
		return fmt.Sprintf("%d", t.amount)
	case "currency":
		return t.currency
	case "status":
		return t.status.Token()
	case "memo":
		return t.memo
	default:
		return ""
	}
}

// FieldNames lists the canonical field names in declared order. This is
// the column order emitted by the tabular codecs.
func FieldNames() []string {
	return []string{
		"id", "timestamp", "kind", "account_from", "account_to",
		"amount", "currency", "status", "memo",
	}
}
