//go:build !barcode_none

package barcode

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/MeKo-Tech/qrnode/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDecoder(t *testing.T) {
	tests := []struct {
		name        string
		library     string
		wantLibrary string
		wantErr     error
	}{
		{name: "empty selects default", library: "", wantLibrary: LibraryGozxing},
		{name: "explicit gozxing", library: "gozxing", wantLibrary: LibraryGozxing},
		{name: "case and space insensitive", library: "  GoZXing ", wantLibrary: LibraryGozxing},
		{name: "unsupported library", library: "pyzbar", wantErr: ErrInvalidConfiguration},
		{name: "unknown library", library: "zbar", wantErr: ErrInvalidConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDecoder(tt.library)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.NotErrorIs(t, err, ErrMissingDependency)
				var ule *UnsupportedLibraryError
				require.ErrorAs(t, err, &ule)
				assert.Equal(t, []string{LibraryGozxing}, ule.Supported)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLibrary, d.Library())
		})
	}
}

func TestLibraries(t *testing.T) {
	assert.Equal(t, []string{"gozxing"}, Libraries())
}

func TestDecodeFirst_QRCode(t *testing.T) {
	d, err := NewDecoder("")
	require.NoError(t, err)

	contents := []string{
		"https://example.com",
		"http://foo",
		"plain text with spaces",
		`C:\path\with\backslashes`,
	}
	for _, want := range contents {
		t.Run(want, func(t *testing.T) {
			got, err := d.DecodeFirst(context.Background(), testutil.QRImage(t, want), Options{})
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestDecodeFirst_NoCodeReturnsEmpty(t *testing.T) {
	d, err := NewDecoder(LibraryGozxing)
	require.NoError(t, err)

	images := map[string]image.Image{
		"blank": testutil.BlankImage(200, 200),
		"text":  testutil.TextImage("no code here", 300, 100),
	}
	for name, img := range images {
		t.Run(name, func(t *testing.T) {
			got, err := d.DecodeFirst(context.Background(), img, Options{TryHarder: true})
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestDecode_ReturnsResultMetadata(t *testing.T) {
	d, err := NewDecoder(LibraryGozxing)
	require.NoError(t, err)

	results, err := d.Decode(context.Background(), testutil.QRImage(t, "meta"), Options{Formats: []Format{FormatQR}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, FormatQR, results[0].Type)
	assert.Equal(t, "meta", results[0].Value)
	assert.NotEmpty(t, results[0].Points)
	assert.False(t, results[0].BBox.Empty())
}

func TestDecode_NilImage(t *testing.T) {
	d, err := NewDecoder(LibraryGozxing)
	require.NoError(t, err)

	_, err = d.Decode(context.Background(), nil, Options{})
	require.Error(t, err)
}

func TestDecode_CancelledContext(t *testing.T) {
	d, err := NewDecoder(LibraryGozxing)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = d.Decode(ctx, testutil.BlankImage(10, 10), Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

type stubBackend struct {
	results []Result
	err     error
}

func (s stubBackend) Decode(context.Context, image.Image, Options) ([]Result, error) {
	return s.results, s.err
}

func TestDecodeFirst_PicksFirstInScanOrder(t *testing.T) {
	d := NewDecoderWithBackend("stub", stubBackend{results: []Result{
		{Type: FormatQR, Value: "first"},
		{Type: FormatQR, Value: "second"},
	}})
	got, err := d.DecodeFirst(context.Background(), testutil.BlankImage(1, 1), Options{})
	require.NoError(t, err)
	assert.Equal(t, "first", got)
}

func TestDecodeFirst_MissingDependencyIsNotEmpty(t *testing.T) {
	missing := &MissingDependencyError{Library: "stub", Remediation: "install it"}
	d := NewDecoderWithBackend("stub", stubBackend{err: missing})

	got, err := d.DecodeFirst(context.Background(), testutil.BlankImage(1, 1), Options{})
	require.Error(t, err)
	assert.Empty(t, got)
	assert.ErrorIs(t, err, ErrMissingDependency)
	assert.NotErrorIs(t, err, ErrInvalidConfiguration)
	assert.Contains(t, err.Error(), "install it")
	assert.True(t, errors.Is(err, ErrMissingDependency))
}

func TestRectFromPoints(t *testing.T) {
	assert.True(t, rectFromPoints(nil).Empty())
	r := rectFromPoints([]Point{{X: 5, Y: 9}, {X: 1, Y: 3}, {X: 7, Y: 4}})
	assert.Equal(t, image.Rect(1, 3, 8, 10), r)
}
