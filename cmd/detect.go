// =============================================================================
// Bank Transaction Interchange - Detect Command
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgertools/banktx/internal/codec"
	_ "github.com/ledgertools/banktx/internal/codec/all"
	"github.com/ledgertools/banktx/pkg/fileio"
)

// detectCmd sniffs the format of one or more files by content.
var detectCmd = &cobra.Command{
	Use:   "detect FILE...",
	Short: "Detect the transaction format of files by content",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			data, err := fileio.ReadFile(path)
			if err != nil {
				return err
			}
			if c := codec.Detect(data); c != nil {
				fmt.Printf("%s: %s\n", path, c.Kind())
			} else {
				fmt.Printf("%s: unknown\n", path)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
