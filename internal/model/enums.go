// =============================================================================
// Bank Transaction Interchange - Enum Tables
// =============================================================================
//
// This file defines the Kind and Status enums together with the single
// bidirectional mapping between domain values, wire tokens (used by the
// text, CSV and XLSX codecs) and binary codes (used by the binary codec).
//
// All codecs consume these tables. Adding a variant means adding exactly
// one row here; the codecs pick it up automatically.
//
// =============================================================================

package model

import "fmt"

// Kind is the transaction kind.
type Kind uint8

// Kind variants. The numeric values double as the binary wire codes and
// are part of the durable binary format contract - never renumber.
const (
	Deposit Kind = iota
	Withdrawal
	Transfer
	Payment
	Reversal
)

// Status is the processing status of a transaction.
type Status uint8

// Status variants. Like Kind, the values are the binary wire codes.
const (
	Pending Status = iota
	Completed
	Failed
	Reversed
)

var kindTokens = map[Kind]string{
	Deposit:    "DEPOSIT",
	Withdrawal: "WITHDRAWAL",
	Transfer:   "TRANSFER",
	Payment:    "PAYMENT",
	Reversal:   "REVERSAL",
}

var statusTokens = map[Status]string{
	Pending:   "PENDING",
	Completed: "COMPLETED",
	Failed:    "FAILED",
	Reversed:  "REVERSED",
}

var kindByToken = invertKinds(kindTokens)

var statusByToken = invertStatuses(statusTokens)

func invertKinds(m map[Kind]string) map[string]Kind {
	out := make(map[string]Kind, len(m))
	for k, tok := range m {
		out[tok] = k
	}
	return out
}

func invertStatuses(m map[Status]string) map[string]Status {
	out := make(map[string]Status, len(m))
	for s, tok := range m {
		out[tok] = s
	}
	return out
}

// Token returns the upper-case wire token for the kind.
func (k Kind) Token() string {
	if tok, ok := kindTokens[k]; ok {
		return tok
	}
	return fmt.Sprintf("KIND(%d)", uint8(k))
}

// String implements fmt.Stringer.
func (k Kind) String() string { return k.Token() }

// Valid reports whether the kind is one of the declared variants.
func (k Kind) Valid() bool {
	_, ok := kindTokens[k]
	return ok
}

// Code returns the single-byte binary code for the kind.
func (k Kind) Code() byte { return byte(k) }

// KindFromToken resolves a wire token to a Kind.
func KindFromToken(tok string) (Kind, bool) {
	k, ok := kindByToken[tok]
	return k, ok
}

// KindFromCode resolves a binary code to a Kind.
func KindFromCode(c byte) (Kind, bool) {
	k := Kind(c)
	return k, k.Valid()
}

// Token returns the upper-case wire token for the status.
func (s Status) Token() string {
	if tok, ok := statusTokens[s]; ok {
		return tok
	}
	return fmt.Sprintf("STATUS(%d)", uint8(s))
}

// String implements fmt.Stringer.
func (s Status) String() string { return s.Token() }

// Valid reports whether the status is one of the declared variants.
func (s Status) Valid() bool {
	_, ok := statusTokens[s]
	return ok
}

// Code returns the single-byte binary code for the status.
func (s Status) Code() byte { return byte(s) }

// StatusFromToken resolves a wire token to a Status.
func StatusFromToken(tok string) (Status, bool) {
	s, ok := statusByToken[tok]
	return s, ok
}

// StatusFromCode resolves a binary code to a Status.
func StatusFromCode(c byte) (Status, bool) {
	s := Status(c)
	return s, s.Valid()
}
