// Package textfmt implements the line-oriented human-readable
// transaction format.
//
// One transaction per line, nine fields in fixed order separated by
// '|':
//
//	id|timestamp|kind|account_from|account_to|amount|currency|status|memo
//
// A backslash escapes special characters inside a field: `\\` is a
// literal backslash, `\|` a literal pipe, `\n` a newline and `\r` a
// carriage return. In practice only the memo can contain them, but the
// rule applies uniformly. Decoding skips blank lines and tolerates a
// single leading comment line starting with '#'; anything else
// malformed aborts at the first faulty line with its 1-based line
// number.
package textfmt

import (
	"strconv"
	"strings"

	"github.com/ledgertools/banktx/internal/codec"
	"github.com/ledgertools/banktx/internal/model"
)

// Delimiter separates fields on a line.
const Delimiter = '|'

const fieldCount = 9

func init() {
	codec.Register(&Codec{})
}

// Codec implements codec.Codec for the text format.
type Codec struct{}

// Name returns the format name.
func (*Codec) Name() string { return "Transaction Text" }

// Kind returns codec.Text.
func (*Codec) Kind() codec.Kind { return codec.Text }

// Extensions returns the file extensions handled by this codec.
func (*Codec) Extensions() []string { return []string{".txt", ".tx"} }

// Match probes the first data line: nine escape-aware fields whose
// first field is a decimal integer.
func (*Codec) Match(data []byte) bool {
	line, ok := firstDataLine(string(data))
	if !ok {
		return false
	}
	fields, err := splitLine(line)
	if err != nil || len(fields) != fieldCount {
		return false
	}
	return isDigits(fields[0])
}

// Decode parses text input into a batch, stopping at the first
// malformed line.
func (c *Codec) Decode(data []byte) (*model.Batch, error) {
	lines := strings.Split(string(data), "\n")
	// A trailing newline produces one empty trailing element; it is
	// skipped below like any other blank line.

	var txs []model.Transaction
	seenComment := false
	seenRecord := false

	for i, raw := range lines {
		lineNo := i + 1
		// Only the one CRLF-pairing carriage return is stripped; a CR
		// inside a field arrives escaped.
		line := strings.TrimSuffix(raw, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if seenComment || seenRecord {
				return nil, codec.NewLineError(lineNo, "unexpected comment line")
			}
			seenComment = true
			continue
		}

		fields, err := splitLine(line)
		if err != nil {
			return nil, codec.NewLineError(lineNo, err.Error())
		}
		if len(fields) != fieldCount {
			return nil, codec.NewLineError(lineNo,
				"wrong field count: expected 9, got "+strconv.Itoa(len(fields)))
		}

		named := make(map[string]string, fieldCount)
		for j, name := range model.FieldNames() {
			named[name] = fields[j]
		}
		tx, err := codec.ParseRecord(named)
		if err != nil {
			if re, ok := err.(*codec.RecordError); ok {
				return nil, codec.NewLineError(lineNo, re.Error())
			}
			return nil, err // *model.ValidationError
		}
		txs = append(txs, tx)
		seenRecord = true
	}

	return model.NewBatch(txs)
}

// Encode serializes a batch, one transaction per line with a trailing
// newline. The escaping rule is the exact inverse of Decode.
func (*Codec) Encode(batch *model.Batch) ([]byte, error) {
	var b strings.Builder
	for _, tx := range batch.Transactions() {
		fields := codec.RecordFields(tx)
		for j, name := range model.FieldNames() {
			if j > 0 {
				b.WriteByte(Delimiter)
			}
			b.WriteString(escape(fields[name]))
		}
		b.WriteByte('\n')
	}
	return []byte(b.String()), nil
}

// escape protects the delimiter, backslashes and line breaks in a
// field value.
func escape(s string) string {
	if !strings.ContainsAny(s, "\\|\n\r") {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case rune(Delimiter):
			b.WriteString(`\|`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

type splitError string

func (e splitError) Error() string { return string(e) }

// splitLine splits a line on unescaped delimiters, resolving escape
// sequences as it goes.
func splitLine(line string) ([]string, error) {
	var fields []string
	var cur strings.Builder
	escaped := false

	for _, r := range line {
		if escaped {
			switch r {
			case '\\':
				cur.WriteByte('\\')
			case rune(Delimiter):
				cur.WriteByte(byte(Delimiter))
			case 'n':
				cur.WriteByte('\n')
			case 'r':
				cur.WriteByte('\r')
			default:
				return nil, splitError("invalid escape sequence \\" + string(r))
			}
			escaped = false
			continue
		}
		switch r {
		case '\\':
			escaped = true
		case rune(Delimiter):
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if escaped {
		return nil, splitError("dangling escape at end of line")
	}
	fields = append(fields, cur.String())
	return fields, nil
}

// firstDataLine finds the first non-blank, non-comment line, applying
// the same skip rules as Decode.
func firstDataLine(s string) (string, bool) {
	seenComment := false
	for _, raw := range strings.Split(s, "\n") {
		line := strings.TrimSuffix(raw, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "#") && !seenComment {
			seenComment = true
			continue
		}
		return line, true
	}
	return "", false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
