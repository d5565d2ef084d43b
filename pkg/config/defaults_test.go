package config

import "testing"

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	cfg.Hives.Path = "/hives/software"
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default log level INFO, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("Expected default log output stdout, got %q", cfg.Logging.Output)
	}
	if cfg.Mount.FSName != "/hives/software" {
		t.Errorf("Expected fsname to default to the hive path, got %q", cfg.Mount.FSName)
	}
	if cfg.Mount.Foreground {
		t.Error("Expected foreground to default to false")
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Logging.Level = "debug"
	cfg.Logging.Output = "stderr"
	cfg.Mount.FSName = "registry"
	cfg.Hives.Path = "/hives/software"
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected level normalized to DEBUG, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Output != "stderr" {
		t.Errorf("Expected explicit output preserved, got %q", cfg.Logging.Output)
	}
	if cfg.Mount.FSName != "registry" {
		t.Errorf("Expected explicit fsname preserved, got %q", cfg.Mount.FSName)
	}
}

func TestApplyDefaults_DebugImpliesForeground(t *testing.T) {
	cfg := &Config{}
	cfg.Mount.Debug = true
	ApplyDefaults(cfg)

	if !cfg.Mount.Foreground {
		t.Error("Expected debug to imply foreground")
	}
}
