package barcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "qr", want: FormatQR},
		{in: " QR-Code ", want: FormatQR},
		{in: "datamatrix", want: FormatDataMatrix},
		{in: "data-matrix", want: FormatDataMatrix},
		{in: "aztec", want: FormatAztec},
		{in: "code-128", want: FormatCode128},
		{in: "EAN13", want: FormatEAN13},
		{in: "pdf417", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfiguration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, s string) Format {
	t.Helper()
	f, err := ParseFormat(s)
	require.NoError(t, err)
	return f
}

func TestParseFormats(t *testing.T) {
	got, err := ParseFormats([]string{"qr", " ", "ean13"})
	require.NoError(t, err)
	assert.Equal(t, []Format{FormatQR, FormatEAN13}, got)

	_, err = ParseFormats([]string{"qr", "bogus"})
	require.Error(t, err)
}

func TestOptionsDefaultFormats(t *testing.T) {
	assert.Equal(t, DefaultFormats, Options{}.formats())
	assert.Equal(t, FormatQR, DefaultFormats[0])
	assert.Equal(t, []Format{FormatAztec}, Options{Formats: []Format{FormatAztec}}.formats())
}
