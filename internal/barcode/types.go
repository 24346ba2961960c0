package barcode

import (
	"context"
	"image"
)

// Format represents a barcode symbology.
type Format int

const (
	FormatUnknown Format = iota
	FormatQR
	FormatDataMatrix
	FormatAztec
	FormatCode128
	FormatEAN13
)

// DefaultFormats is the search order used when Options.Formats is empty.
// QR comes first so that a QR code wins over any other symbol in the image.
var DefaultFormats = []Format{FormatQR, FormatDataMatrix, FormatAztec, FormatCode128, FormatEAN13}

// Options controls backend decoding behavior.
type Options struct {
	// Formats constrains the set of symbologies to search, in order.
	Formats []Format

	// TryHarder enables more exhaustive search (slower but more robust).
	TryHarder bool
}

func (o Options) formats() []Format {
	if len(o.Formats) == 0 {
		return DefaultFormats
	}
	return o.Formats
}

// Point is an integer point in image coordinates.
type Point struct {
	X int
	Y int
}

// Result represents a decoded barcode.
type Result struct {
	Type   Format
	Value  string
	Points []Point          // Corner or finder points if available
	BBox   image.Rectangle // Bounding box derived from points
}

// Backend is a pluggable barcode decoder implementation.
//
// Decode returns every code found, in scan order. An image without any code
// yields an empty slice and a nil error.
type Backend interface {
	Decode(ctx context.Context, img image.Image, opts Options) ([]Result, error)
}
