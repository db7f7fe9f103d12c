// =============================================================================
// Bank Transaction Interchange - Shared Record Parsing
// =============================================================================
//
// The text, CSV and XLSX codecs all carry the same nine string fields
// and share one token grammar: decimal integers for id/timestamp/amount,
// upper-case tokens for kind/status, raw strings for the rest. This file
// implements that grammar once so the formats cannot drift apart.
//
// =============================================================================

package codec

import (
	"fmt"
	"strconv"

	"github.com/ledgertools/banktx/internal/model"
)

// RecordError reports a single malformed field inside one record. The
// calling codec wraps it into a FormatError with its own locator (line
// or row number).
type RecordError struct {
	// Field is the canonical field name.
	Field string

	// Reason describes what is wrong with the value.
	Reason string
}

// Error implements the error interface.
func (e *RecordError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
}

func recordErr(field, format string, args ...any) *RecordError {
	return &RecordError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ParseRecord converts canonical string fields into a Transaction.
//
// Token faults (non-numeric amount, unknown enum token, ...) return
// *RecordError naming the field. Domain invariant violations return
// *model.ValidationError unchanged.
func ParseRecord(fields map[string]string) (model.Transaction, error) {
	id, err := strconv.ParseUint(fields["id"], 10, 64)
	if err != nil {
		return model.Transaction{}, recordErr("id", "%q is not an unsigned integer", fields["id"])
	}
	ts, err := strconv.ParseInt(fields["timestamp"], 10, 64)
	if err != nil {
		return model.Transaction{}, recordErr("timestamp", "%q is not an integer", fields["timestamp"])
	}
	kind, ok := model.KindFromToken(fields["kind"])
	if !ok {
		return model.Transaction{}, recordErr("kind", "unknown kind token %q", fields["kind"])
	}
	amount, err := strconv.ParseInt(fields["amount"], 10, 64)
	if err != nil {
		return model.Transaction{}, recordErr("amount", "%q is not an integer", fields["amount"])
	}
	status, ok := model.StatusFromToken(fields["status"])
	if !ok {
		return model.Transaction{}, recordErr("status", "unknown status token %q", fields["status"])
	}

	return model.NewTransaction(
		id, ts,
		fields["account_from"], fields["account_to"],
		amount, fields["currency"],
		kind, status,
		fields["memo"],
	)
}

// RecordFields renders a transaction back into its canonical string
// fields, the exact inverse of ParseRecord.
func RecordFields(tx model.Transaction) map[string]string {
	out := make(map[string]string, 9)
	for _, name := range model.FieldNames() {
		out[name] = tx.Field(name)
	}
	return out
}
