package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/MeKo-Tech/qrnode/internal/config"
	"github.com/spf13/cobra"
)

// writeOutput renders v in the configured format to the configured file or to
// the command's stdout. text renders with textFn.
func writeOutput(cmd *cobra.Command, out config.OutputConfig, v any, textFn func(io.Writer) error) error {
	w := cmd.OutOrStdout()
	if out.File != "" {
		f, err := os.Create(out.File)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	switch out.Format {
	case config.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.OutputYAML:
		return writeYAML(w, v)
	default:
		return textFn(w)
	}
}

// outputFlags adds --format and --output to cmd.
func outputFlags(a *app, cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", config.OutputText, "output format (text, json, yaml)")
	cmd.Flags().StringP("output", "o", "", "write output to file instead of stdout")
	a.bind(cmd, flagBinding{"output.format", "format"}, flagBinding{"output.file", "output"})
}

// decoderFlags adds the barcode decoder flags to cmd.
func decoderFlags(a *app, cmd *cobra.Command) {
	cmd.Flags().String("library", "gozxing", "barcode library")
	cmd.Flags().Bool("try-harder", false, "spend more time searching for codes")
	cmd.Flags().StringSlice("symbologies", nil, "symbologies to search, in order (qr, datamatrix, aztec, code128, ean13)")
	cmd.Flags().String("pages", "", "page range for PDF input (e.g. 1-3,5)")
	a.bind(cmd,
		flagBinding{"decoder.library", "library"},
		flagBinding{"decoder.try_harder", "try-harder"},
		flagBinding{"decoder.formats", "symbologies"},
		flagBinding{"pdf.pages", "pages"},
	)
}

// batchFlags adds the input discovery and parallelism flags to cmd.
func batchFlags(a *app, cmd *cobra.Command) {
	cmd.Flags().BoolP("recursive", "r", false, "scan directories recursively")
	cmd.Flags().StringSlice("include", nil, "only read files whose name matches one of these patterns")
	cmd.Flags().StringSlice("exclude", nil, "skip files whose name matches one of these patterns")
	cmd.Flags().IntP("workers", "w", 1, "files decoded in parallel (0 = number of CPUs)")
	a.bind(cmd,
		flagBinding{"batch.recursive", "recursive"},
		flagBinding{"batch.include", "include"},
		flagBinding{"batch.exclude", "exclude"},
		flagBinding{"batch.workers", "workers"},
	)
}

// validatorFlags adds --protocol, --text and --passthrough to cmd.
func validatorFlags(a *app, cmd *cobra.Command) {
	cmd.Flags().String("protocol", "Https", "address protocol (Https, Http, None)")
	cmd.Flags().String("text", "", "expected address without protocol")
	cmd.Flags().Bool("passthrough", false, "report mismatches without failing")
	a.bind(cmd,
		flagBinding{"validator.protocol", "protocol"},
		flagBinding{"validator.passthrough", "passthrough"},
	)
}
