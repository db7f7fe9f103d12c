// =============================================================================
// Bank Transaction Interchange - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other
// commands (convert, compare, detect, version) attach to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (banktx)
//   ├── convertCmd (banktx convert)
//   ├── compareCmd (banktx compare)
//   ├── detectCmd  (banktx detect)
//   └── versionCmd (banktx version)
//
// The root command owns the global flags (--config, --verbose), loads
// an optional .env file, reads the YAML configuration and builds the
// logger shared by every subcommand.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ledgertools/banktx/internal/config"
	"github.com/ledgertools/banktx/internal/logger"
)

// cfgFile holds the path to the configuration file; overridable with
// --config.
var cfgFile string

// verbose forces debug-level logging regardless of the configured
// level.
var verbose bool

// cfg is the loaded tool configuration, available to all subcommands.
var cfg *config.Config

// log is the shared structured logger.
var log zerolog.Logger

// rootCmd represents the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "banktx",
	Short: "Convert and compare bank transaction files (text, binary, CSV, XLSX)",
	Long: `banktx is a command-line tool for working with bank transaction
record files. It understands four interchangeable representations -
a human-readable text format, a compact checksummed binary format
(BTXF), CSV and XLSX - and can losslessly convert between them or
compare two files regardless of their formats.

Example Usage:
  banktx convert --in txs.btx --out txs.csv
  banktx convert --in export.txt --to binary --out ./out/
  banktx compare --file1 a.csv --file2 b.btx --ignore-ids
  banktx detect mystery.dat`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A .env next to the binary may carry BANKTX_CONFIG for
		// deployments that cannot pass flags.
		_ = godotenv.Load()

		path := cfgFile
		optional := !cmd.Flags().Changed("config")
		if env := os.Getenv("BANKTX_CONFIG"); env != "" && optional {
			path = env
			optional = false
		}

		var err error
		cfg, err = config.Load(path, optional)
		if err != nil {
			return err
		}

		level := logger.ParseLevel(cfg.LogLevel)
		if verbose {
			level = zerolog.DebugLevel
		}
		log = logger.New(level)
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"banktx.yaml",
		"Path to the configuration file",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug output",
	)
}
