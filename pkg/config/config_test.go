package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoad_FromFile(t *testing.T) {
	configPath := writeConfigFile(t, `
logging:
  level: "warn"

mount:
  mountpoint: "/mnt/registry"

tree:
  append_newline: false

hives:
  path: "/hives/software"
`)

	cfg, err := Load(configPath, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Logging.Level != "WARN" {
		t.Errorf("Expected WARN log level, got %q", cfg.Logging.Level)
	}
	if cfg.Mount.Mountpoint != "/mnt/registry" {
		t.Errorf("Expected mountpoint /mnt/registry, got %q", cfg.Mount.Mountpoint)
	}
	if cfg.Hives.Path != "/hives/software" {
		t.Errorf("Expected hive path /hives/software, got %q", cfg.Hives.Path)
	}
	if cfg.Tree.AppendNewline {
		t.Error("Expected append_newline false from config file")
	}
	// Unset booleans with true defaults stay true.
	if !cfg.Tree.AppendExtensions {
		t.Error("Expected append_extensions to default to true")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	if err != nil {
		t.Fatalf("Load failed for missing config file: %v", err)
	}

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected INFO log level, got %q", cfg.Logging.Level)
	}
	if !cfg.Tree.AppendNewline || !cfg.Tree.AppendExtensions {
		t.Error("Expected tree projection options to default to true")
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	configPath := writeConfigFile(t, "logging: [not: a: mapping\n")

	if _, err := Load(configPath, nil); err == nil {
		t.Fatal("Expected error for malformed config file")
	}
}

func TestLoad_FlagOverridesFile(t *testing.T) {
	configPath := writeConfigFile(t, `
logging:
  level: "warn"

hives:
  path: "/hives/software"
`)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "", "")
	flags.Bool("append-newline", true, "")
	if err := flags.Parse([]string{"--log-level=error", "--append-newline=false"}); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}

	cfg, err := Load(configPath, flags)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Logging.Level != "ERROR" {
		t.Errorf("Expected flag to override file log level, got %q", cfg.Logging.Level)
	}
	if cfg.Tree.AppendNewline {
		t.Error("Expected flag to override append_newline")
	}
}

func TestLoad_UnsetFlagDoesNotOverride(t *testing.T) {
	configPath := writeConfigFile(t, `
logging:
  level: "warn"

hives:
  path: "/hives/software"
`)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "", "")
	if err := flags.Parse(nil); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}

	cfg, err := Load(configPath, flags)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Logging.Level != "WARN" {
		t.Errorf("Expected file log level to survive unset flag, got %q", cfg.Logging.Level)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	configPath := writeConfigFile(t, `
logging:
  level: "warn"

hives:
  path: "/hives/software"
`)
	t.Setenv("HIVEFS_LOGGING_LEVEL", "error")

	cfg, err := Load(configPath, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Logging.Level != "ERROR" {
		t.Errorf("Expected log level from environment, got %q", cfg.Logging.Level)
	}
}
