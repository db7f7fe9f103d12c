// =============================================================================
// Bank Transaction Interchange - Main Entry Point
// =============================================================================
//
// This is the entry point for the banktx CLI. It initializes the Cobra
// framework and delegates command execution to the cmd package.
//
// USAGE:
//   banktx convert --in txs.btx --out txs.csv   - Convert between formats
//   banktx compare --file1 a.txt --file2 b.btx  - Compare two files
//   banktx detect FILE...                       - Sniff file formats
//   banktx version                              - Display version info
//
// ARCHITECTURE:
//   - cmd/        : CLI command definitions (Cobra)
//   - internal/   : codec library, comparator, configuration
//   - pkg/        : shared utilities for the tool layer
//
// =============================================================================

package main

import (
	"github.com/ledgertools/banktx/cmd"
)

func main() {
	cmd.Execute()
}
