package barcode

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"sort"
	"strings"
)

// LibraryGozxing names the gozxing backend, the default and only library.
const LibraryGozxing = "gozxing"

// DefaultLibrary is used when no library is requested.
const DefaultLibrary = LibraryGozxing

// libraries maps a library name to its backend constructor.
// Additional backends register here; the name is what callers select.
var libraries = map[string]func() (Backend, error){
	LibraryGozxing: newGozxingBackend,
}

// Libraries returns the registered library names in sorted order.
func Libraries() []string {
	names := make([]string, 0, len(libraries))
	for name := range libraries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Decoder decodes codes with a single, fixed library backend.
type Decoder struct {
	library string
	backend Backend
}

// NewDecoder returns a decoder for the named library. An empty name selects
// DefaultLibrary. Unknown names fail with an UnsupportedLibraryError.
func NewDecoder(library string) (*Decoder, error) {
	name := strings.ToLower(strings.TrimSpace(library))
	if name == "" {
		name = DefaultLibrary
	}
	ctor, ok := libraries[name]
	if !ok {
		return nil, &UnsupportedLibraryError{Library: library, Supported: Libraries()}
	}
	be, err := ctor()
	if err != nil {
		return nil, err
	}
	return &Decoder{library: name, backend: be}, nil
}

// NewDecoderWithBackend wraps an arbitrary backend, mainly for tests.
func NewDecoderWithBackend(library string, be Backend) *Decoder {
	return &Decoder{library: library, backend: be}
}

// Library returns the library name this decoder is bound to.
func (d *Decoder) Library() string { return d.library }

// Decode returns every code found in img in scan order.
func (d *Decoder) Decode(ctx context.Context, img image.Image, opts Options) ([]Result, error) {
	if img == nil {
		return nil, errors.New("barcode: input image is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.backend.Decode(ctx, img, opts)
}

// DecodeFirst returns the text of the first code found in img, or "" when the
// image holds no decodable code. Missing dependencies are returned as errors.
func (d *Decoder) DecodeFirst(ctx context.Context, img image.Image, opts Options) (string, error) {
	results, err := d.Decode(ctx, img, opts)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		slog.Debug("No barcode found", "library", d.library)
		return "", nil
	}
	slog.Debug("Barcode decoded", "library", d.library, "format", results[0].Type.String(), "count", len(results))
	return results[0].Value, nil
}
