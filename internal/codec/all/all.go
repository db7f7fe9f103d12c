// Package all registers every built-in codec. Import it for side
// effects wherever the full format registry is needed:
//
//	import _ "github.com/ledgertools/banktx/internal/codec/all"
//
// Magic-byte formats are imported first so content sniffing prefers
// them over the heuristic text probes.
package all

import (
	_ "github.com/ledgertools/banktx/internal/codec/binfmt"
	_ "github.com/ledgertools/banktx/internal/codec/xlsxfmt"

	_ "github.com/ledgertools/banktx/internal/codec/csvfmt"
	_ "github.com/ledgertools/banktx/internal/codec/textfmt"
)
