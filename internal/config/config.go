package config

import (
	"fmt"
	"strings"

	"github.com/MeKo-Tech/qrnode/internal/barcode"
	"github.com/MeKo-Tech/qrnode/internal/validation"
)

const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Verbose:  false,
		Decoder: DecoderConfig{
			Library:   barcode.DefaultLibrary,
			TryHarder: false,
			Formats:   []string{},
		},
		Validator: ValidatorConfig{
			Protocol:    validation.ProtocolHTTPS.String(),
			Passthrough: false,
		},
		Output: OutputConfig{
			Format: OutputText,
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8188,
			CORSOrigin:      "*",
			MaxUploadMB:     20,
			TimeoutSec:      30,
			ShutdownTimeout: 10,
		},
		Batch: BatchConfig{
			Workers: 1,
			Include: []string{},
			Exclude: []string{},
		},
	}
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	validFormats := []string{OutputText, OutputJSON, OutputYAML}
	if c.Output.Format != "" && !contains(validFormats, c.Output.Format) {
		return fmt.Errorf("invalid output format: %s (must be one of: %s)", c.Output.Format, strings.Join(validFormats, ", "))
	}

	if c.Decoder.Library != "" && !contains(barcode.Libraries(), strings.ToLower(c.Decoder.Library)) {
		return fmt.Errorf("invalid decoder library: %w",
			&barcode.UnsupportedLibraryError{Library: c.Decoder.Library, Supported: barcode.Libraries()})
	}
	if _, err := barcode.ParseFormats(c.Decoder.Formats); err != nil {
		return fmt.Errorf("invalid decoder formats: %w", err)
	}

	if _, err := validation.ParseProtocol(c.Validator.Protocol); err != nil {
		return fmt.Errorf("invalid validator protocol: %w", err)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("invalid max upload size: %d (must be positive)", c.Server.MaxUploadMB)
	}
	if c.Server.TimeoutSec <= 0 {
		return fmt.Errorf("invalid timeout: %d (must be positive)", c.Server.TimeoutSec)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("invalid shutdown timeout: %d (must not be negative)", c.Server.ShutdownTimeout)
	}

	if c.Batch.Workers < 0 {
		return fmt.Errorf("invalid worker count: %d (must not be negative)", c.Batch.Workers)
	}

	return nil
}

// DecodeOptions converts the decoder section into barcode options.
// Call Validate first; unknown formats are dropped here.
func (c *Config) DecodeOptions() barcode.Options {
	formats, _ := barcode.ParseFormats(c.Decoder.Formats)
	return barcode.Options{Formats: formats, TryHarder: c.Decoder.TryHarder}
}

// contains checks if a slice contains a string.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
