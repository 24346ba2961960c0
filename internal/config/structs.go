//nolint:lll
package config

// Config represents the complete configuration for the qrnode application.
// It covers every command (read, validate, check, nodes, serve) and supports
// loading from configuration files, environment variables, and command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Decoder configuration
	Decoder DecoderConfig `mapstructure:"decoder" yaml:"decoder" json:"decoder"`

	// Validator configuration
	Validator ValidatorConfig `mapstructure:"validator" yaml:"validator" json:"validator"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`

	// PDF input
	PDF PDFConfig `mapstructure:"pdf" yaml:"pdf" json:"pdf"`

	// Input discovery and parallelism for multi-file reads
	Batch BatchConfig `mapstructure:"batch" yaml:"batch" json:"batch"`
}

// DecoderConfig selects the barcode library and search options.
type DecoderConfig struct {
	Library   string   `mapstructure:"library" yaml:"library" json:"library"`
	TryHarder bool     `mapstructure:"try_harder" yaml:"try_harder" json:"try_harder"`
	Formats   []string `mapstructure:"formats" yaml:"formats" json:"formats"`
}

// ValidatorConfig holds defaults for validation commands.
type ValidatorConfig struct {
	Protocol    string `mapstructure:"protocol" yaml:"protocol" json:"protocol"`
	Passthrough bool   `mapstructure:"passthrough" yaml:"passthrough" json:"passthrough"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"`
	File   string `mapstructure:"file" yaml:"file" json:"file"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	TimeoutSec      int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// PDFConfig contains PDF input settings.
type PDFConfig struct {
	Pages string `mapstructure:"pages" yaml:"pages" json:"pages"`
}

// BatchConfig controls how read expands directories and how many files it decodes at once.
type BatchConfig struct {
	Workers   int      `mapstructure:"workers" yaml:"workers" json:"workers"`
	Recursive bool     `mapstructure:"recursive" yaml:"recursive" json:"recursive"`
	Include   []string `mapstructure:"include" yaml:"include" json:"include"`
	Exclude   []string `mapstructure:"exclude" yaml:"exclude" json:"exclude"`
}
