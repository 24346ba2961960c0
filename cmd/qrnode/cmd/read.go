package cmd

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"

	"github.com/MeKo-Tech/qrnode/internal/batch"
	"github.com/MeKo-Tech/qrnode/internal/imageio"
	"github.com/MeKo-Tech/qrnode/internal/node"
	"github.com/MeKo-Tech/qrnode/internal/pdf"
	"github.com/spf13/cobra"
)

// readResult is the outcome of reading one input file.
type readResult struct {
	File  string `json:"file" yaml:"file"`
	Text  string `json:"text" yaml:"text"`
	Found bool   `json:"found" yaml:"found"`
	Page  int    `json:"page,omitempty" yaml:"page,omitempty"`

	image image.Image
}

func newReadCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read <file|dir>...",
		Short: "Read the first QR code in images or PDFs",
		Long: `Decode the first code in each input and print its text. An input without a
code prints an empty text; this is not an error.

Supported formats: JPEG, PNG, GIF, BMP, TIFF, WebP and PDF (embedded images).
Directories are scanned for supported files.

Examples:
  qrnode read label.png
  qrnode read scans/ --recursive --include '*.png' --format json
  qrnode read document.pdf --pages 1-2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := batch.Discover(args, batch.Options{
				Recursive: a.cfg.Batch.Recursive,
				Include:   a.cfg.Batch.Include,
				Exclude:   a.cfg.Batch.Exclude,
			})
			if err != nil {
				return fmt.Errorf("failed to discover input files: %w", err)
			}
			if len(files) == 0 {
				return errNoInputFiles
			}

			results, err := batch.Run(cmd.Context(), files, a.cfg.Batch.Workers, a.readFile)
			if err != nil {
				return err
			}
			slog.Debug("Read finished", "files", len(files), "workers", a.cfg.Batch.Workers)
			return writeOutput(cmd, a.cfg.Output, results, func(w io.Writer) error {
				for _, r := range results {
					var err error
					if len(results) == 1 {
						_, err = fmt.Fprintln(w, r.Text)
					} else {
						_, err = fmt.Fprintf(w, "%s: %s\n", r.File, r.Text)
					}
					if err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	decoderFlags(a, cmd)
	batchFlags(a, cmd)
	outputFlags(a, cmd)
	return cmd
}

// readFile runs the read node of the registry on path. PDFs are scanned
// page by page.
func (a *app) readFile(ctx context.Context, path string) (readResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if imageio.IsPDF(path) {
		pages, err := pdf.ExtractImages(path, a.cfg.PDF.Pages)
		if err != nil {
			return readResult{}, fmt.Errorf("%s: %w", path, err)
		}
		if len(pages) == 0 {
			return readResult{}, fmt.Errorf("%s: %w", path, errNoImages)
		}
		hit, err := pdf.FirstCode(ctx, pages, a.readImage)
		if err != nil {
			return readResult{}, fmt.Errorf("%s: %w", path, err)
		}
		if hit.Image == nil {
			// nothing found: pass the first image of the first page along
			hit.Image = pages[pdf.SortedPages(pages)[0]][0]
		}
		slog.Debug("Read PDF", "file", path, "page", hit.Page, "found", hit.Text != "")
		return readResult{File: path, Text: hit.Text, Found: hit.Text != "", Page: hit.Page, image: hit.Image}, nil
	}

	img, meta, err := imageio.Load(path)
	if err != nil {
		return readResult{}, err
	}
	text, err := a.readImage(ctx, img)
	if err != nil {
		return readResult{}, fmt.Errorf("%s: %w", path, err)
	}
	slog.Debug("Read image", "file", path, "width", meta.Width, "height", meta.Height, "found", text != "")
	return readResult{File: path, Text: text, Found: text != "", image: img}, nil
}

// readImage runs the read node on img. The library input is left to the
// node's configured default.
func (a *app) readImage(ctx context.Context, img image.Image) (string, error) {
	out, err := a.registry.Run(ctx, node.ReadNodeID, node.Values{"image": img})
	if err != nil {
		return "", err
	}
	return out.String(node.OutputExtractedText)
}

var (
	errNoImages     = errors.New("no embedded images")
	errNoInputFiles = errors.New("no input files found")
)
