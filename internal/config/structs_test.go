package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestConfigYAMLTags(t *testing.T) {
	src := `
log_level: warn
decoder:
  library: gozxing
  try_harder: true
  formats: [qr, aztec]
validator:
  protocol: None
  passthrough: true
output:
  format: yaml
  file: out.yaml
server:
  host: 0.0.0.0
  port: 9000
  cors_origin: https://example.com
  max_upload_mb: 5
  timeout_sec: 3
  shutdown_timeout: 2
pdf:
  pages: 1-3
batch:
  workers: 4
  recursive: true
  include: ["*.png"]
`
	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte(src), &cfg))

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.Decoder.TryHarder)
	assert.Equal(t, []string{"qr", "aztec"}, cfg.Decoder.Formats)
	assert.Equal(t, "None", cfg.Validator.Protocol)
	assert.True(t, cfg.Validator.Passthrough)
	assert.Equal(t, "out.yaml", cfg.Output.File)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "https://example.com", cfg.Server.CORSOrigin)
	assert.Equal(t, "1-3", cfg.PDF.Pages)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.True(t, cfg.Batch.Recursive)
	assert.Equal(t, []string{"*.png"}, cfg.Batch.Include)
	assert.NoError(t, cfg.Validate())
}

func TestDefaultConfigMarshalsWithSnakeCaseKeys(t *testing.T) {
	out, err := yaml.Marshal(DefaultConfig())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(out, &raw))
	for _, key := range []string{"log_level", "decoder", "validator", "output", "server", "pdf", "batch"} {
		assert.Contains(t, raw, key)
	}
	server, ok := raw["server"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, server, "max_upload_mb")
}
