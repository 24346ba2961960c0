package cmd

import (
	"testing"

	"github.com/MeKo-Tech/qrnode/internal/barcode"
	"github.com/MeKo-Tech/qrnode/internal/config"
	"github.com/MeKo-Tech/qrnode/internal/node"
	"github.com/MeKo-Tech/qrnode/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRegistryApp returns an app whose read node defaults to library, so a
// run that reaches the node fails with an unsupported library error.
func newRegistryApp(library string) *app {
	cfg := config.DefaultConfig()
	return &app{cfg: &cfg, registry: node.NewDefaultRegistry(cfg.DecodeOptions(), library)}
}

func TestReadFileRunsRegistryReadNode(t *testing.T) {
	path := testutil.WritePNG(t, t.TempDir(), "blank.png", testutil.BlankImage(16, 16))

	_, err := newRegistryApp("zbar").readFile(t.Context(), path)
	require.ErrorIs(t, err, barcode.ErrInvalidConfiguration)
	var unsupported *barcode.UnsupportedLibraryError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "zbar", unsupported.Library)
}

func TestCheckRunsRegistryReadNode(t *testing.T) {
	path := testutil.WritePNG(t, t.TempDir(), "blank.png", testutil.BlankImage(16, 16))

	cmd := &cobra.Command{}
	cmd.SetContext(t.Context())
	err := newRegistryApp("zbar").check(cmd, path, "example.com")
	require.ErrorIs(t, err, barcode.ErrInvalidConfiguration)
	assert.Equal(t, ExitError, ExitCode(err))
}

func TestNodesListsConfiguredLibrary(t *testing.T) {
	out, _, err := execute(t, "nodes", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"default": "gozxing"`)
}
