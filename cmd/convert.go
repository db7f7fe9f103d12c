// =============================================================================
// Bank Transaction Interchange - Convert Command
// =============================================================================
//
// The convert command is a thin orchestration layer over the codec
// library: decode with the source codec, encode with the target codec,
// write the result. Source and target formats come from flags, from
// file extensions or from content sniffing; the codec registry does all
// the real work.
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ledgertools/banktx/internal/codec"
	_ "github.com/ledgertools/banktx/internal/codec/all"
	"github.com/ledgertools/banktx/pkg/fileio"
)

var (
	convertIn   string
	convertOut  string
	convertFrom string
	convertTo   string
)

// convertCmd converts a transaction file from one format to another.
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a transaction file between formats",
	Long: `Convert reads transactions in one format and writes them in another.

The source format is taken from --from, or sniffed from the file
content. The target format is taken from --to, or from the output file
extension, or from the configured default. When --out is a directory,
the output file name is generated from the configured naming pattern.`,
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	start := time.Now()
	runID := uuid.New().String()

	data, err := fileio.ReadFile(convertIn)
	if err != nil {
		return err
	}

	source, err := resolveSource(convertFrom, data)
	if err != nil {
		return err
	}

	target, outPath, err := resolveTarget(convertTo, convertOut, convertIn, source)
	if err != nil {
		return err
	}

	log.Debug().
		Str("run_id", runID).
		Str("source", source.Kind().String()).
		Str("target", target.Kind().String()).
		Msg("starting conversion")

	batch, err := source.Decode(data)
	if err != nil {
		return fmt.Errorf("decoding %s as %s: %w", convertIn, source.Kind(), err)
	}

	out, err := target.Encode(batch)
	if err != nil {
		return fmt.Errorf("encoding as %s: %w", target.Kind(), err)
	}

	if err := fileio.WriteFile(outPath, out); err != nil {
		return err
	}

	log.Info().
		Str("run_id", runID).
		Str("input", convertIn).
		Str("output", outPath).
		Int("transactions", batch.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("conversion complete")
	return nil
}

// resolveSource picks the source codec: explicit flag first, then
// content sniffing.
func resolveSource(name string, data []byte) (codec.Codec, error) {
	if name != "" {
		c := codec.ByName(name)
		if c == nil {
			return nil, fmt.Errorf("unknown source format %q", name)
		}
		return c, nil
	}
	if c := codec.Detect(data); c != nil {
		return c, nil
	}
	return nil, fmt.Errorf("cannot detect the input format; pass --from")
}

// resolveTarget picks the target codec and the final output path:
// explicit flag, then output extension, then the configured default.
func resolveTarget(name, outPath, inPath string, source codec.Codec) (codec.Codec, string, error) {
	var target codec.Codec
	switch {
	case name != "":
		target = codec.ByName(name)
		if target == nil {
			return nil, "", fmt.Errorf("unknown target format %q", name)
		}
	case outPath != "" && !fileio.IsDir(outPath):
		target = codec.ByExtension(outPath)
		if target == nil {
			return nil, "", fmt.Errorf("cannot infer the target format from %q; pass --to", outPath)
		}
	default:
		target = codec.ByName(cfg.DefaultTarget)
		if target == nil {
			return nil, "", fmt.Errorf("configured default_target %q is not registered", cfg.DefaultTarget)
		}
	}
	if target.Kind() == source.Kind() {
		log.Warn().Msg("source and target formats are identical; re-encoding anyway")
	}

	if outPath == "" || fileio.IsDir(outPath) {
		ext := target.Extensions()[0]
		name := fileio.OutputName(cfg.OutputName, inPath, target.Kind().String(), ext)
		outPath = filepath.Join(outPath, name)
	}
	return target, outPath, nil
}

func init() {
	convertCmd.Flags().StringVar(&convertIn, "in", "", "Input file (required)")
	convertCmd.Flags().StringVar(&convertOut, "out", "", "Output file or directory")
	convertCmd.Flags().StringVar(&convertFrom, "from", "", "Source format: text, binary, csv, xlsx (default: sniffed)")
	convertCmd.Flags().StringVar(&convertTo, "to", "", "Target format: text, binary, csv, xlsx (default: by output extension)")
	convertCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(convertCmd)
}
