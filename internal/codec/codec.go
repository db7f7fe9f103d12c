// Package codec defines the Codec interface shared by every transaction
// format, a registry for pluggable format implementations and content
// sniffing across them.
//
// To add a format, create a package that implements Codec and call
// Register from its init function. Detection checks content first
// (magic bytes or structural probes) and falls back to file extension
// matching, so binary formats with real magic always win over
// heuristic text probes.
package codec

import (
	"path/filepath"
	"strings"

	"github.com/ledgertools/banktx/internal/model"
)

// Kind identifies a transaction file format.
type Kind int

// Supported format kinds.
const (
	Text Kind = iota
	Binary
	CSV
	XLSX
)

// String returns the lower-case format name used in CLI flags.
func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Binary:
		return "binary"
	case CSV:
		return "csv"
	case XLSX:
		return "xlsx"
	default:
		return "unknown"
	}
}

// Codec is a paired encode/decode implementation for one on-disk
// transaction representation.
//
// Decode either returns a complete valid batch or one precise error:
// *FormatError for structural faults, *model.ValidationError for
// domain invariant violations. There is no partial-batch mode.
//
// Encode is total for any valid batch and deterministic: encoding the
// same batch twice yields identical bytes.
type Codec interface {
	// Name returns a human-readable format name.
	Name() string

	// Kind returns the format identifier.
	Kind() Kind

	// Extensions returns file extensions this codec handles, including
	// the leading dot (e.g. ".csv").
	Extensions() []string

	// Match reports whether data looks like this format. Used for
	// content sniffing; must be cheap and conservative.
	Match(data []byte) bool

	// Decode parses a complete input buffer into a batch.
	Decode(data []byte) (*model.Batch, error)

	// Encode serializes a batch. It cannot fail on domain or format
	// grounds for a valid batch.
	Encode(batch *model.Batch) ([]byte, error)
}

var registry []Codec

// Register adds a codec to the global registry. Call this from an init
// function in the format package. Registration order decides sniffing
// precedence, so register magic-byte formats before heuristic ones.
func Register(c Codec) {
	registry = append(registry, c)
}

// All returns every registered codec.
func All() []Codec {
	return registry
}

// ByKind returns the codec for a format kind, or nil.
func ByKind(k Kind) Codec {
	for _, c := range registry {
		if c.Kind() == k {
			return c
		}
	}
	return nil
}

// ByName resolves a format by its CLI name ("text", "binary", "csv",
// "xlsx"), case-insensitively. Returns nil for unknown names.
func ByName(name string) Codec {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range registry {
		if c.Kind().String() == name {
			return c
		}
	}
	return nil
}

// ByExtension resolves a format by file extension. Returns nil when no
// codec claims the extension.
func ByExtension(filename string) Codec {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, c := range registry {
		for _, e := range c.Extensions() {
			if ext == e {
				return c
			}
		}
	}
	return nil
}

// Detect identifies the codec for raw content. It asks every codec in
// registration order and returns the first match, or nil when no codec
// recognizes the data (ambiguous or unknown input).
func Detect(data []byte) Codec {
	for _, c := range registry {
		if c.Match(data) {
			return c
		}
	}
	return nil
}
