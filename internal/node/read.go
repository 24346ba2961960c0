package node

import (
	"context"
	"image"
	"log/slog"
	"strings"

	"github.com/MeKo-Tech/qrnode/internal/barcode"
)

const (
	// ReadNodeID is the stable identifier of the read node.
	ReadNodeID = "comfy-qr-read"

	// Category groups both nodes in the host menu.
	Category = "Comfy-QR"

	inputImage          = "image"
	inputLibrary        = "library"
	OutputExtractedText = "EXTRACTED_TEXT"
)

// ReadNode decodes the first code in an image.
type ReadNode struct {
	opts    barcode.Options
	library string
}

// NewReadNode returns a read node that decodes with opts. Its library input
// defaults to barcode.DefaultLibrary.
func NewReadNode(opts barcode.Options) *ReadNode {
	return &ReadNode{opts: opts, library: barcode.DefaultLibrary}
}

// WithLibrary sets the library used when a run leaves the library input out.
// An empty name keeps barcode.DefaultLibrary.
func (n *ReadNode) WithLibrary(library string) *ReadNode {
	if name := strings.ToLower(strings.TrimSpace(library)); name != "" {
		n.library = name
	}
	return n
}

// Descriptor implements Node.
func (n *ReadNode) Descriptor() Descriptor {
	return Descriptor{
		ID:          ReadNodeID,
		DisplayName: "Read QR Code",
		Category:    Category,
		Function:    "read_qr",
		Inputs: []Input{
			{Name: inputImage, Type: TypeImage},
			{Name: inputLibrary, Type: TypeCombo, Options: barcode.Libraries(), Default: n.library},
		},
		Outputs: []Output{
			{Name: OutputExtractedText, Type: TypeString},
		},
	}
}

// Run implements Node. No code in the image yields EXTRACTED_TEXT "".
func (n *ReadNode) Run(ctx context.Context, in Values) (Values, error) {
	img, err := in.Image(inputImage)
	if err != nil {
		return nil, err
	}
	library, err := in.String(inputLibrary)
	if err != nil {
		return nil, err
	}

	text, err := n.Read(ctx, img, library)
	if err != nil {
		return nil, err
	}
	return Values{OutputExtractedText: text}, nil
}

// Read is the typed form of Run.
func (n *ReadNode) Read(ctx context.Context, img image.Image, library string) (string, error) {
	dec, err := barcode.NewDecoder(library)
	if err != nil {
		return "", err
	}
	text, err := dec.DecodeFirst(ctx, img, n.opts)
	if err != nil {
		slog.Error("QR read failed", "library", dec.Library(), "error", err)
		return "", err
	}
	return text, nil
}
