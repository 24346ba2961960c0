package barcode

import (
	"fmt"
	"strings"
)

// ParseFormat maps a user-facing symbology name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "qr", "qrcode", "qr-code":
		return FormatQR, nil
	case "datamatrix", "data-matrix":
		return FormatDataMatrix, nil
	case "aztec":
		return FormatAztec, nil
	case "code128", "code-128":
		return FormatCode128, nil
	case "ean13", "ean-13":
		return FormatEAN13, nil
	default:
		return FormatUnknown, fmt.Errorf("%w: unknown barcode format %q", ErrInvalidConfiguration, s)
	}
}

// ParseFormats parses a list of format names, skipping blanks.
func ParseFormats(names []string) ([]Format, error) {
	var out []Format
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		f, err := ParseFormat(n)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func (f Format) String() string {
	switch f {
	case FormatQR:
		return "qr"
	case FormatDataMatrix:
		return "datamatrix"
	case FormatAztec:
		return "aztec"
	case FormatCode128:
		return "code128"
	case FormatEAN13:
		return "ean13"
	default:
		return "unknown"
	}
}
