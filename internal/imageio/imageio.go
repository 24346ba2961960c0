// Package imageio loads raster images from files and upload bodies.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// SupportedImageExtensions lists supported file extensions for loading.
var SupportedImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// Error wraps a load failure with the operation and path that caused it.
type Error struct {
	Operation string
	Path      string
	Err       error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("image %s: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("image %s %s: %v", e.Operation, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsSupportedImage reports whether the path has a supported image extension.
func IsSupportedImage(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedImageExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// IsPDF reports whether the path names a PDF document.
func IsPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// Metadata captures lightweight file and pixel information.
type Metadata struct {
	Path      string
	SizeBytes int64
	Width     int
	Height    int
}

// Load opens and decodes an image file. EXIF orientation is applied so the
// code is scanned the way a viewer would show it.
func Load(path string) (image.Image, Metadata, error) {
	if path == "" {
		return nil, Metadata{}, &Error{Operation: "load", Err: errors.New("empty path")}
	}
	if !IsSupportedImage(path) {
		return nil, Metadata{}, &Error{Operation: "load", Path: path, Err: fmt.Errorf("unsupported format: %s", filepath.Ext(path))}
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, Metadata{}, &Error{Operation: "load", Path: path, Err: err}
	}
	if fi.IsDir() {
		return nil, Metadata{}, &Error{Operation: "load", Path: path, Err: errors.New("is a directory")}
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, Metadata{}, &Error{Operation: "decode", Path: path, Err: err}
	}

	b := img.Bounds()
	return img, Metadata{Path: path, SizeBytes: fi.Size(), Width: b.Dx(), Height: b.Dy()}, nil
}

// Decode decodes an in-memory image such as an HTTP upload.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, &Error{Operation: "decode", Err: errors.New("no image data")}
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, &Error{Operation: "decode", Err: err}
	}
	return img, nil
}
