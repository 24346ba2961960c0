// Package testutil holds helpers shared by tests: synthetic images with and
// without scannable codes.
package testutil

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DefaultQRSize is the edge length of generated QR images in pixels.
const DefaultQRSize = 240

// QRImage renders content as a QR code on a white RGBA canvas.
func QRImage(t *testing.T, content string) *image.RGBA {
	t.Helper()
	return QRImageSized(t, content, DefaultQRSize)
}

// QRImageSized renders content as a size×size QR code.
func QRImageSized(t *testing.T, content string, size int) *image.RGBA {
	t.Helper()
	img, err := EncodeQR(content, size)
	require.NoError(t, err, "encode QR code")
	return img
}

// EncodeQR renders content as a size×size QR code without a testing.T, for
// suites that manage their own failures.
func EncodeQR(content string, size int) (*image.RGBA, error) {
	matrix, err := qrcode.NewQRCodeWriter().Encode(content, gozxing.BarcodeFormat_QR_CODE, size, size, nil)
	if err != nil {
		return nil, err
	}
	dst := image.NewRGBA(matrix.Bounds())
	draw.Draw(dst, dst.Bounds(), matrix, matrix.Bounds().Min, draw.Src)
	return dst, nil
}

// BlankImage returns a uniformly white image with no code in it.
func BlankImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	return img
}

// TextImage draws plain text on a white canvas. It contains no code and is
// used to make sure ordinary content is not mistaken for one.
func TextImage(text string, width, height int) *image.RGBA {
	img := BlankImage(width, height)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(10, height/2),
	}
	d.DrawString(text)
	return img
}

// WritePNG encodes img as PNG under dir and returns the file path.
func WritePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, SavePNG(path, img))
	return path
}

// SavePNG encodes img as PNG at path.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path) //nolint:gosec // G304: test-controlled path
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
