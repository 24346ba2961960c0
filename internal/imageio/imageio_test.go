package imageio

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/MeKo-Tech/qrnode/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSupportedImage(t *testing.T) {
	assert.True(t, IsSupportedImage("a.PNG"))
	assert.True(t, IsSupportedImage("dir/b.jpeg"))
	assert.True(t, IsSupportedImage("c.webp"))
	assert.False(t, IsSupportedImage("d.pdf"))
	assert.False(t, IsSupportedImage("noext"))
}

func TestIsPDF(t *testing.T) {
	assert.True(t, IsPDF("scan.PDF"))
	assert.False(t, IsPDF("scan.png"))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WritePNG(t, dir, "blank.png", testutil.BlankImage(30, 20))

	img, meta, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30, img.Bounds().Dx())
	assert.Equal(t, 20, meta.Height)
	assert.Equal(t, path, meta.Path)
	assert.Positive(t, meta.SizeBytes)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.png")
	require.NoError(t, os.WriteFile(garbage, []byte("not a png"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.png"), 0o750))

	tests := []struct {
		name string
		path string
		op   string
	}{
		{name: "empty path", path: "", op: "load"},
		{name: "unsupported extension", path: "file.txt", op: "load"},
		{name: "missing file", path: filepath.Join(dir, "missing.png"), op: "load"},
		{name: "directory", path: filepath.Join(dir, "folder.png"), op: "load"},
		{name: "undecodable", path: garbage, op: "decode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Load(tt.path)
			require.Error(t, err)
			var ie *Error
			require.ErrorAs(t, err, &ie)
			assert.Equal(t, tt.op, ie.Operation)
		})
	}
}

func TestDecode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testutil.BlankImage(7, 9)))

	img, err := Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 7, img.Bounds().Dx())

	_, err = Decode(nil)
	require.Error(t, err)

	_, err = Decode([]byte("junk"))
	require.Error(t, err)
}
