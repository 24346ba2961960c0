package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestNewLoader(t *testing.T) {
	v := viper.New()
	assert.Same(t, v, NewLoaderWithViper(v).GetViper())

	isolated := NewLoaderWithViper(nil)
	require.NotNil(t, isolated.GetViper())
	assert.NotSame(t, viper.GetViper(), isolated.GetViper())
}

func TestLoadWithNoConfigFile(t *testing.T) {
	tmp := t.TempDir()
	chdir(t, tmp)
	t.Setenv("HOME", tmp)
	t.Setenv("XDG_CONFIG_HOME", tmp)

	loader := NewLoaderWithViper(viper.New())
	cfg, err := loader.Load()
	require.NoError(t, err)
	defaults := DefaultConfig()
	assert.Equal(t, defaults.LogLevel, cfg.LogLevel)
	assert.Equal(t, defaults.Decoder.Library, cfg.Decoder.Library)
	assert.Empty(t, cfg.Decoder.Formats)
	assert.Equal(t, defaults.Validator, cfg.Validator)
	assert.Equal(t, defaults.Server, cfg.Server)
	assert.Equal(t, 1, cfg.Batch.Workers)
	assert.False(t, cfg.Batch.Recursive)
	assert.Empty(t, loader.GetConfigFileUsed())
}

func TestLoadWithValidYAMLFile(t *testing.T) {
	tmp := t.TempDir()
	file := filepath.Join(tmp, "qrnode.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
log_level: debug
decoder:
  try_harder: true
validator:
  protocol: Http
  passthrough: true
server:
  port: 9999
`), 0o600))

	loader := NewLoaderWithViper(viper.New())
	cfg, err := loader.LoadWithFile(file)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Decoder.TryHarder)
	assert.Equal(t, "Http", cfg.Validator.Protocol)
	assert.True(t, cfg.Validator.Passthrough)
	assert.Equal(t, 9999, cfg.Server.Port)
	// untouched keys keep their defaults
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, file, loader.GetConfigFileUsed())
}

func TestLoadFromSearchPath(t *testing.T) {
	tmp := t.TempDir()
	chdir(t, tmp)
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "qrnode.yaml"), []byte("output:\n  format: json\n"), 0o600))

	cfg, err := NewLoaderWithViper(viper.New()).Load()
	require.NoError(t, err)
	assert.Equal(t, OutputJSON, cfg.Output.Format)
}

func TestLoadWithMissingFile(t *testing.T) {
	_, err := NewLoaderWithViper(viper.New()).LoadWithFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestLoadWithInvalidValues(t *testing.T) {
	file := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(file, []byte("validator:\n  protocol: ftp\n"), 0o600))

	_, err := NewLoaderWithViper(viper.New()).LoadWithFile(file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")

	cfg, err := NewLoaderWithViper(viper.New()).LoadWithFileWithoutValidation(file)
	require.NoError(t, err)
	assert.Equal(t, "ftp", cfg.Validator.Protocol)
}

func TestEnvironmentOverrides(t *testing.T) {
	tmp := t.TempDir()
	chdir(t, tmp)
	t.Setenv("HOME", tmp)
	t.Setenv("QRNODE_LOG_LEVEL", "error")
	t.Setenv("QRNODE_SERVER_PORT", "7000")
	t.Setenv("QRNODE_VALIDATOR_PROTOCOL", "None")
	t.Setenv("QRNODE_BATCH_WORKERS", "3")

	cfg, err := NewLoaderWithViper(viper.New()).Load()
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "None", cfg.Validator.Protocol)
	assert.Equal(t, 3, cfg.Batch.Workers)
}

func TestGenerateDefaultConfigFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "generated.yaml")
	require.NoError(t, GenerateDefaultConfigFile(file))

	cfg, err := NewLoaderWithViper(viper.New()).LoadWithFile(file)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server.Port, cfg.Server.Port)
}

func TestGetConfigSearchPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	paths := GetConfigSearchPaths()
	assert.Equal(t, ".", paths[0])
	assert.Contains(t, paths, filepath.Join("/xdg", "qrnode"))
	assert.Equal(t, "/etc/qrnode", paths[len(paths)-1])
}
