//go:build barcode_none

package barcode

import (
	"context"
	"image"
)

type missingBackend struct{}

func newGozxingBackend() (Backend, error) { return &missingBackend{}, nil }

func (m *missingBackend) Decode(_ context.Context, _ image.Image, _ Options) ([]Result, error) {
	return nil, &MissingDependencyError{
		Library: LibraryGozxing,
		Remediation: "this binary was built with -tags=barcode_none; rebuild without the tag " +
			"to link github.com/makiuchi-d/gozxing",
	}
}
