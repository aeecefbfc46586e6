// Package config provides configuration types and defaults for alloy.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/alloy/internal/flags"
	"github.com/zjrosen/alloy/internal/log"
)

// Config holds all configuration options for alloy.
type Config struct {
	// TemplatesDir holds user template declarations (*.yaml, *.yml, *.hcl).
	// Default: ~/.alloy/templates
	TemplatesDir string          `mapstructure:"templates_dir"`
	Log          LogConfig       `mapstructure:"log"`
	Store        StoreConfig     `mapstructure:"store"`
	Tracing      TracingConfig   `mapstructure:"tracing"`
	Flags        map[string]bool `mapstructure:"flags"`
}

// LogConfig controls the debug log.
type LogConfig struct {
	// Path enables file logging when set.
	Path string `mapstructure:"path"`

	// Level is the minimum level written: "debug", "info", "warn" or "error".
	Level string `mapstructure:"level"`
}

// StoreConfig controls how long constructed units are kept.
type StoreConfig struct {
	// Retention is how long a unit stays addressable after construction.
	// Zero keeps units for the lifetime of the process.
	Retention time.Duration `mapstructure:"retention"`

	// CleanupInterval is how often expired units are purged.
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// TracingConfig holds distributed tracing configuration for unit construction.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/alloy/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`

	// ServiceName is reported as the otel service.name resource attribute.
	// Default: "alloy"
	ServiceName string `mapstructure:"service_name"`
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/alloy/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "alloy", "traces", "traces.jsonl")
}

// DefaultTemplatesDir returns ~/.alloy/templates, or empty string if home dir unavailable.
func DefaultTemplatesDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".alloy", "templates")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		TemplatesDir: DefaultTemplatesDir(),
		Log: LogConfig{
			Level: "debug",
		},
		Store: StoreConfig{
			Retention:       0,
			CleanupInterval: 10 * time.Minute,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from home dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
			ServiceName:  "alloy",
		},
		Flags: flags.Defaults(),
	}
}

// Validate checks every section of the configuration.
func Validate(c Config) error {
	if err := ValidateLog(c.Log); err != nil {
		return err
	}
	if err := ValidateStore(c.Store); err != nil {
		return err
	}
	if err := ValidateTracing(c.Tracing); err != nil {
		return err
	}
	if c.TemplatesDir != "" && !filepath.IsAbs(c.TemplatesDir) {
		return fmt.Errorf("templates_dir must be an absolute path, got %q", c.TemplatesDir)
	}
	return nil
}

// ValidateLog checks log configuration for errors.
func ValidateLog(l LogConfig) error {
	switch l.Level {
	case "", "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("log.level must be \"debug\", \"info\", \"warn\", or \"error\", got %q", l.Level)
	}
}

// ValidateStore checks store configuration for errors.
func ValidateStore(s StoreConfig) error {
	if s.Retention < 0 {
		return fmt.Errorf("store.retention cannot be negative, got %v", s.Retention)
	}
	if s.CleanupInterval < 0 {
		return fmt.Errorf("store.cleanup_interval cannot be negative, got %v", s.CleanupInterval)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled
	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# alloy configuration

# Directory holding your own template declarations (*.yaml, *.yml, *.hcl)
# templates_dir: ~/.alloy/templates

# Debug logging (also enabled by --debug or ALLOY_DEBUG=1)
log:
  # path: /tmp/alloy.log
  level: debug   # debug, info, warn, error

# Constructed units
store:
  retention: 0s          # 0s keeps units for the whole run
  cleanup_interval: 10m  # how often expired units are purged

# Distributed tracing of unit construction
tracing:
  enabled: false
  exporter: file          # none, file, stdout, otlp
  # file_path: ~/.config/alloy/traces/traces.jsonl
  otlp_endpoint: localhost:4317
  sample_rate: 1.0
  service_name: alloy

# Feature flags
flags:
  eager-proxy-validation: false  # fail template loading on proxy/export collisions
  unit-events: true              # publish unit created/failed events
  user-templates: true           # load declarations from templates_dir
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
