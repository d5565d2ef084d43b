package config

import "strings"

// ApplyDefaults sets default values for any unspecified configuration
// fields. Zero values are replaced; explicit values are preserved.
// Booleans whose default is true are handled as viper defaults in
// setupViper instead.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyMountDefaults(cfg)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

// applyMountDefaults sets mount defaults.
func applyMountDefaults(cfg *Config) {
	// The mount source name defaults to the hive path, so mount
	// listings show which hive is behind each mountpoint.
	if cfg.Mount.FSName == "" {
		cfg.Mount.FSName = cfg.Hives.Path
	}

	// Request tracing is useless without a terminal to trace to.
	if cfg.Mount.Debug {
		cfg.Mount.Foreground = true
	}
}
