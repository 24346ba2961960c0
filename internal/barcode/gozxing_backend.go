//go:build !barcode_none

package barcode

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/aztec"
	"github.com/makiuchi-d/gozxing/datamatrix"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
)

func newGozxingBackend() (Backend, error) { return &gozxingBackend{}, nil }

type gozxingBackend struct{}

func (b *gozxingBackend) Decode(ctx context.Context, img image.Image, opts Options) ([]Result, error) {
	bitmap, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("barcode: prepare bitmap: %w", err)
	}

	hints := make(map[gozxing.DecodeHintType]interface{})
	if opts.TryHarder {
		hints[gozxing.DecodeHintType_TRY_HARDER] = true
	}

	var out []Result
	for _, f := range opts.formats() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		reader, ok := readerFor(f)
		if !ok {
			continue
		}
		r, err := reader.Decode(bitmap, hints)
		if err != nil {
			if isNoCode(err) {
				continue
			}
			return nil, fmt.Errorf("barcode: decode %s: %w", f, err)
		}
		out = append(out, toResult(r))
	}
	return out, nil
}

// isNoCode reports whether err means the reader found nothing it could decode.
func isNoCode(err error) bool {
	var (
		notFound gozxing.NotFoundException
		checksum gozxing.ChecksumException
		format   gozxing.FormatException
	)
	return errors.As(err, &notFound) || errors.As(err, &checksum) || errors.As(err, &format)
}

func readerFor(f Format) (gozxing.Reader, bool) {
	switch f {
	case FormatQR:
		return qrcode.NewQRCodeReader(), true
	case FormatDataMatrix:
		return datamatrix.NewDataMatrixReader(), true
	case FormatAztec:
		return aztec.NewAztecReader(), true
	case FormatCode128:
		return oned.NewCode128Reader(), true
	case FormatEAN13:
		return oned.NewEAN13Reader(), true
	default:
		return nil, false
	}
}

func toResult(r *gozxing.Result) Result {
	var points []Point
	if pts := r.GetResultPoints(); len(pts) > 0 {
		points = make([]Point, 0, len(pts))
		for _, p := range pts {
			points = append(points, Point{X: int(p.GetX()), Y: int(p.GetY())})
		}
	}
	return Result{
		Type:   formatFromZXing(r.GetBarcodeFormat()),
		Value:  r.GetText(),
		Points: points,
		BBox:   rectFromPoints(points),
	}
}

func formatFromZXing(bf gozxing.BarcodeFormat) Format {
	switch bf {
	case gozxing.BarcodeFormat_QR_CODE:
		return FormatQR
	case gozxing.BarcodeFormat_DATA_MATRIX:
		return FormatDataMatrix
	case gozxing.BarcodeFormat_AZTEC:
		return FormatAztec
	case gozxing.BarcodeFormat_CODE_128:
		return FormatCode128
	case gozxing.BarcodeFormat_EAN_13:
		return FormatEAN13
	default:
		return FormatUnknown
	}
}

func rectFromPoints(pts []Point) image.Rectangle {
	if len(pts) == 0 {
		return image.Rectangle{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := pts[0].X, pts[0].Y
	for _, p := range pts[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}
