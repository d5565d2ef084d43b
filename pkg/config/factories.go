package config

import (
	"fmt"
	"os"

	"github.com/go-viper/mapstructure/v2"

	"github.com/marmos91/hivefs/internal/logger"
	"github.com/marmos91/hivefs/pkg/hive"
	"github.com/marmos91/hivefs/pkg/registry"
	"github.com/marmos91/hivefs/pkg/tree"
)

// DecodeHiveEntries decodes the loosely-typed hives.extra section into
// typed entries, rejecting unknown fields.
func DecodeHiveEntries(raw []map[string]any) ([]HiveEntry, error) {
	entries := make([]HiveEntry, 0, len(raw))
	for i, item := range raw {
		var entry HiveEntry
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:      &entry,
			ErrorUnused: true,
		})
		if err != nil {
			return nil, fmt.Errorf("hives.extra[%d]: %w", i, err)
		}
		if err := decoder.Decode(item); err != nil {
			return nil, fmt.Errorf("hives.extra[%d]: %w", i, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// BuildTree constructs the namespace projection selected by the
// configuration: single-store mode for a hive file, composed mode for a
// config directory. The returned cleanup releases every loaded backend.
func BuildTree(cfg *Config) (*tree.Tree, func(), error) {
	opts := tree.Options{
		AppendNewline:    cfg.Tree.AppendNewline,
		AppendExtensions: cfg.Tree.AppendExtensions,
	}

	info, err := os.Stat(cfg.Hives.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("%q could not be used as a hive file or directory: %w", cfg.Hives.Path, err)
	}

	if !info.IsDir() {
		if len(cfg.Hives.Extra) > 0 {
			logger.Warn("hives.extra is ignored in single-hive mode")
		}
		backend, err := hive.Open(cfg.Hives.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("%q could not be loaded as a registry hive: %w", cfg.Hives.Path, err)
		}
		return tree.NewSingle(backend, opts), func() { backend.Close() }, nil
	}

	reg := registry.New(nil)
	if err := reg.LoadConfigDir(cfg.Hives.Path); err != nil {
		reg.Close()
		return nil, nil, err
	}

	entries, err := DecodeHiveEntries(cfg.Hives.Extra)
	if err != nil {
		reg.Close()
		return nil, nil, err
	}
	for _, entry := range entries {
		if entry.Required {
			if err := reg.LoadPrimary(entry.Group, entry.Store, entry.Path); err != nil {
				reg.Close()
				return nil, nil, err
			}
			continue
		}
		reg.LoadAuxiliary(entry.Group, entry.Store, entry.Path)
	}

	return tree.NewComposed(reg, opts), reg.Close, nil
}
