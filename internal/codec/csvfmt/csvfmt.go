// Package csvfmt implements the tabular CSV transaction format.
//
// The first row is a mandatory header naming every transaction field.
// Columns are matched by NAME, not position: a reordered header decodes
// to the same batch as the canonical one. This deliberately differs
// from the positional text and binary formats. Missing, renamed or
// extra columns fail with HeaderMismatch.
//
// Encoding always emits the canonical column order:
//
//	id,timestamp,kind,account_from,account_to,amount,currency,status,memo
//
// Cell quoting and escaping follow RFC 4180 via encoding/csv. Numeric
// and enum tokens are shared with the text format.
//
// encoding/csv normalizes a CRLF inside a quoted cell to a bare LF, so
// a carriage return in the memo would not survive a round trip. The
// memo cell therefore stores `\r` for a carriage return, with the
// backslash itself doubled; every other field is restricted to
// characters csv passes through unchanged.
package csvfmt

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/ledgertools/banktx/internal/codec"
	"github.com/ledgertools/banktx/internal/model"
)

func init() {
	codec.Register(&Codec{})
}

// Codec implements codec.Codec for the CSV format.
type Codec struct{}

// Name returns the format name.
func (*Codec) Name() string { return "Transaction CSV" }

// Kind returns codec.CSV.
func (*Codec) Kind() codec.Kind { return codec.CSV }

// Extensions returns the file extensions handled by this codec.
func (*Codec) Extensions() []string { return []string{".csv"} }

// Match probes the first line for the expected column names in any
// order.
func (*Codec) Match(data []byte) bool {
	line, _, _ := strings.Cut(string(data), "\n")
	r := csv.NewReader(strings.NewReader(line))
	rec, err := r.Read()
	if err != nil {
		return false
	}
	return headerMatches(cleanHeader(rec))
}

// Decode parses CSV input into a batch. The header is validated
// against the canonical field set (order-insensitively); the first
// invalid data row aborts with MalformedRow.
func (*Codec) Decode(data []byte) (*model.Batch, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // row width checked per row for a precise error

	header, err := r.Read()
	if err == io.EOF {
		return nil, codec.NewHeaderError(model.FieldNames(), nil)
	}
	if err != nil {
		return nil, codec.NewRowError(1, "", err.Error())
	}
	cleaned := cleanHeader(header)
	if !headerMatches(cleaned) {
		return nil, codec.NewHeaderError(model.FieldNames(), cleaned)
	}
	colIndex := make(map[string]int, len(cleaned))
	for i, name := range cleaned {
		colIndex[name] = i
	}

	var txs []model.Transaction
	row := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, codec.NewRowError(row, "", pe.Err.Error())
			}
			return nil, codec.NewRowError(row, "", err.Error())
		}
		if len(rec) != len(colIndex) {
			return nil, codec.NewRowError(row, "",
				"wrong cell count for the declared header")
		}

		fields := make(map[string]string, len(colIndex))
		for name, i := range colIndex {
			fields[name] = rec[i]
		}
		fields["memo"] = unescapeMemo(fields["memo"])
		tx, err := codec.ParseRecord(fields)
		if err != nil {
			var re *codec.RecordError
			if errors.As(err, &re) {
				return nil, codec.NewRowError(row, re.Field, re.Reason)
			}
			return nil, err // *model.ValidationError
		}
		txs = append(txs, tx)
	}

	return model.NewBatch(txs)
}

// Encode serializes a batch with the canonical header and column order.
func (*Codec) Encode(batch *model.Batch) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(model.FieldNames()); err != nil {
		return nil, err
	}
	for _, tx := range batch.Transactions() {
		rec := make([]string, 0, len(model.FieldNames()))
		for _, name := range model.FieldNames() {
			v := tx.Field(name)
			if name == "memo" {
				v = escapeMemo(v)
			}
			rec = append(rec, v)
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// escapeMemo protects carriage returns in a memo cell from the CRLF
// normalization encoding/csv applies inside quoted cells.
func escapeMemo(s string) string {
	if !strings.ContainsAny(s, "\\\r") {
		return s
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "\r", `\r`)
}

// unescapeMemo inverts escapeMemo. An escape pair it does not know is
// kept literally, so memos written by other producers decode as-is.
func unescapeMemo(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	escaped := false
	for _, r := range s {
		if escaped {
			switch r {
			case '\\':
				b.WriteByte('\\')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte('\\')
				b.WriteRune(r)
			}
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		b.WriteRune(r)
	}
	if escaped {
		b.WriteByte('\\')
	}
	return b.String()
}

func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")))
	}
	return out
}

// headerMatches reports whether the header carries exactly the
// canonical column set, in any order, with no duplicates.
func headerMatches(header []string) bool {
	want := model.FieldNames()
	if len(header) != len(want) {
		return false
	}
	seen := make(map[string]bool, len(header))
	for _, h := range header {
		if seen[h] {
			return false
		}
		seen[h] = true
	}
	for _, w := range want {
		if !seen[w] {
			return false
		}
	}
	return true
}
