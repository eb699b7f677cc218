package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/wonderfly/compute-image-packages/pkg/directory"
)

// DefaultBufferSize is the region size the CLI allocates per lookup
// when the caller does not supply one.
const DefaultBufferSize = 32768

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// This function is called after loading configuration from file and environment
// variables to fill in any missing values with sensible defaults.
//
// Default Strategy:
//   - Zero values (0, "", false, nil) are replaced with defaults
//   - Explicit values are preserved
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyDirectoryDefaults(&cfg.Directory)
	applyNSSDefaults(&cfg.NSS)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	// Normalize log level to uppercase for consistent internal representation
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stderr"
	}
}

// applyTelemetryDefaults sets OpenTelemetry defaults.
func applyTelemetryDefaults(cfg *TelemetryConfig) {
	// Enabled defaults to false (opt-in for telemetry)

	// Default endpoint is localhost:4317 (standard OTLP gRPC port)
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}

	// Default sample rate is 1.0 (sample all traces)
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 1.0
	}
}

// applyDirectoryDefaults sets directory endpoint defaults.
func applyDirectoryDefaults(cfg *DirectoryConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = directory.DefaultEndpoint
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = directory.DefaultTimeout
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = directory.DefaultPageSize
	}
}

// applyNSSDefaults sets account-lookup defaults.
func applyNSSDefaults(cfg *NSSConfig) {
	if cfg.BufferSize == 0 {
		cfg.BufferSize = DefaultBufferSize
	}
}

// registerDefaults registers every default value with viper so that
// environment variables resolve against the full key set.
func registerDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "INFO")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "localhost:4317")
	v.SetDefault("telemetry.insecure", true)
	v.SetDefault("telemetry.sample_rate", 1.0)

	v.SetDefault("directory.endpoint", directory.DefaultEndpoint)
	v.SetDefault("directory.timeout", directory.DefaultTimeout.String())
	v.SetDefault("directory.page_size", directory.DefaultPageSize)

	v.SetDefault("nss.buffer_size", DefaultBufferSize)
}

// GetDefaultConfig returns a Config struct with all default values applied.
//
// This is useful for:
//   - Generating sample configuration files
//   - Testing
//   - Documentation
func GetDefaultConfig() *Config {
	cfg := &Config{
		Telemetry: TelemetryConfig{
			Insecure: true,
		},
		Directory: DirectoryConfig{
			Timeout: 5 * time.Second,
		},
	}

	ApplyDefaults(cfg)
	return cfg
}
