package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config represents the complete hivefs configuration.
//
// Configuration sources (in order of precedence):
//  1. CLI flags (highest priority)
//  2. Environment variables (HIVEFS_*)
//  3. Configuration file (YAML or TOML)
//  4. Default values (lowest priority)
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging"`

	// Mount contains mountpoint and serving-mode settings
	Mount MountConfig `mapstructure:"mount"`

	// Tree controls how values are projected into file names and bytes
	Tree TreeConfig `mapstructure:"tree"`

	// Hives selects the backing hive file or directory and any extra
	// hives to compose into the namespace
	Hives HivesConfig `mapstructure:"hives"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`

	// Output specifies where logs are written: stdout, stderr, or a
	// file path
	Output string `mapstructure:"output" validate:"required"`
}

// MountConfig contains mountpoint and serving-mode settings.
type MountConfig struct {
	// Mountpoint is the directory where the filesystem is mounted
	Mountpoint string `mapstructure:"mountpoint" validate:"required"`

	// Foreground blocks the calling thread until unmounted instead of
	// serving on a background worker
	Foreground bool `mapstructure:"foreground"`

	// Debug enables FUSE request tracing (implies Foreground)
	Debug bool `mapstructure:"debug"`

	// AllowOther permits other users to access the mount
	AllowOther bool `mapstructure:"allow_other"`

	// FSName is the source name shown in /proc/mounts; defaults to the
	// hive path
	FSName string `mapstructure:"fsname"`
}

// TreeConfig controls the value-to-file projection.
type TreeConfig struct {
	// AppendNewline appends a newline to text-typed file content
	AppendNewline bool `mapstructure:"append_newline"`

	// AppendExtensions appends the data type to each file name
	AppendExtensions bool `mapstructure:"append_extensions"`
}

// HivesConfig selects the backing hives.
type HivesConfig struct {
	// Path is a single hive file, or a %WINDIR%\system32\config style
	// directory for composed multi-hive mode
	Path string `mapstructure:"path" validate:"required"`

	// Extra lists additional hives to compose into the namespace.
	// Entries are decoded per-entry (see DecodeHiveEntries) so that
	// unknown fields fail loudly. Only used in composed mode.
	Extra []map[string]any `mapstructure:"extra"`
}

// HiveEntry is one decoded element of HivesConfig.Extra.
type HiveEntry struct {
	// Group is the root group the hive mounts under (HKLM, HKU, ...)
	Group string `mapstructure:"group"`

	// Store is the name the hive occupies within the group
	Store string `mapstructure:"store"`

	// Path is the hive file location
	Path string `mapstructure:"path"`

	// Required makes a load failure fatal instead of leaving an
	// absent slot
	Required bool `mapstructure:"required"`
}

// Load loads configuration from file, environment, flags, and defaults.
//
// flags may be nil; when given, set flags override file and environment
// values. Load applies defaults but does not validate: the caller may
// still inject positional arguments (hive path, mountpoint) before
// calling Validate.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)
	return &cfg, nil
}

// flagBindings maps config keys to their CLI flag names. Viper only
// takes a bound flag's value when the flag was actually set, which
// keeps the documented precedence order.
var flagBindings = map[string]string{
	"logging.level":          "log-level",
	"mount.foreground":       "foreground",
	"mount.debug":            "debug",
	"mount.allow_other":      "allow-other",
	"mount.fsname":           "fsname",
	"tree.append_newline":    "append-newline",
	"tree.append_extensions": "append-extensions",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key, name := range flagBindings {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}

// setupViper configures environment variables, defaults, and the config
// file search path.
func setupViper(v *viper.Viper, configPath string) {
	// Environment variables use the HIVEFS_ prefix with underscores.
	// Example: HIVEFS_TREE_APPEND_NEWLINE=false
	v.SetEnvPrefix("HIVEFS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Booleans that default to true must be viper defaults: a zero
	// value after unmarshal is indistinguishable from an explicit
	// false.
	v.SetDefault("tree.append_newline", true)
	v.SetDefault("tree.append_extensions", true)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the configuration file if it exists. A missing
// file is fine; everything then comes from flags, env, and defaults.
func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// getConfigDir returns the configuration directory path, preferring
// XDG_CONFIG_HOME, then ~/.config, then the current directory.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "hivefs")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "hivefs")
}
