// =============================================================================
// Bank Transaction Interchange - Format Error Taxonomy
// =============================================================================
//
// FormatError covers everything that is wrong with the byte/text
// structure of an input: bad magic, checksum mismatch, truncation,
// malformed lines and rows, header mismatches. Every FormatError
// carries a locator - a line or row number for text-like formats, a
// byte offset or section name for binary.
//
// Domain invariant violations are *model.ValidationError and are
// propagated by the codecs unchanged.
//
// =============================================================================

package codec

import (
	"fmt"
	"strings"
)

// ErrorKind discriminates FormatError variants.
type ErrorKind int

// FormatError kinds.
const (
	BadMagic ErrorKind = iota
	UnsupportedVersion
	TruncatedInput
	ChecksumMismatch
	TrailingData
	MalformedLine
	MalformedRow
	HeaderMismatch
	UnknownFormat
)

var errorKindNames = map[ErrorKind]string{
	BadMagic:           "bad magic",
	UnsupportedVersion: "unsupported version",
	TruncatedInput:     "truncated input",
	ChecksumMismatch:   "checksum mismatch",
	TrailingData:       "trailing data",
	MalformedLine:      "malformed line",
	MalformedRow:       "malformed row",
	HeaderMismatch:     "header mismatch",
	UnknownFormat:      "unknown format",
}

// String returns the human-readable kind name.
func (k ErrorKind) String() string {
	if n, ok := errorKindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("format error %d", int(k))
}

// FormatError reports a structural problem in an encoded input.
type FormatError struct {
	// Kind discriminates the failure mode.
	Kind ErrorKind

	// Line is the 1-based line number for line-oriented formats.
	// Zero when not applicable.
	Line int

	// Row is the 1-based row number for tabular formats, counting the
	// header as row 1. Zero when not applicable.
	Row int

	// Offset is the byte offset into a binary input. Negative when not
	// applicable.
	Offset int

	// Section names the binary section ("header", "records", "trailer")
	// when Offset alone is not descriptive enough.
	Section string

	// Field names the offending field for malformed rows, when known.
	Field string

	// Reason is a human-readable description.
	Reason string

	// Expected and Found carry the column sets for header mismatches.
	Expected []string
	Found    []string
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	switch {
	case e.Line > 0:
		fmt.Fprintf(&b, " at line %d", e.Line)
	case e.Row > 0:
		fmt.Fprintf(&b, " at row %d", e.Row)
	case e.Section != "":
		fmt.Fprintf(&b, " in %s", e.Section)
		if e.Offset > 0 {
			fmt.Fprintf(&b, " (offset %d)", e.Offset)
		}
	case e.Offset > 0:
		fmt.Fprintf(&b, " at offset %d", e.Offset)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ", field %q", e.Field)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if len(e.Expected) > 0 || len(e.Found) > 0 {
		fmt.Fprintf(&b, ": expected columns [%s], found [%s]",
			strings.Join(e.Expected, " "), strings.Join(e.Found, " "))
	}
	return b.String()
}

// NewLineError builds a MalformedLine error with a 1-based line number.
func NewLineError(line int, reason string) *FormatError {
	return &FormatError{Kind: MalformedLine, Line: line, Reason: reason}
}

// NewRowError builds a MalformedRow error with a 1-based row number
// (header counts as row 1) and the offending field when known.
func NewRowError(row int, field, reason string) *FormatError {
	return &FormatError{Kind: MalformedRow, Row: row, Field: field, Reason: reason}
}

// NewHeaderError builds a HeaderMismatch error carrying the expected
// and found column sets.
func NewHeaderError(expected, found []string) *FormatError {
	return &FormatError{
		Kind:     HeaderMismatch,
		Row:      1,
		Reason:   "column set does not match",
		Expected: expected,
		Found:    found,
	}
}

// NewBinaryError builds a binary-format error located by section and
// byte offset.
func NewBinaryError(kind ErrorKind, section string, offset int, reason string) *FormatError {
	return &FormatError{Kind: kind, Section: section, Offset: offset, Reason: reason}
}
