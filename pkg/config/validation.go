package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate validates the configuration using struct tags plus custom
// rules that cannot be expressed in tags. The caller runs it after all
// sources (file, env, flags, positional arguments) have been merged.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}
	return validateCustomRules(cfg)
}

// validateCustomRules performs custom validation beyond struct tags.
func validateCustomRules(cfg *Config) error {
	entries, err := DecodeHiveEntries(cfg.Hives.Extra)
	if err != nil {
		return err
	}

	seen := make(map[string]bool)
	for i, entry := range entries {
		if entry.Group == "" || entry.Store == "" || entry.Path == "" {
			return fmt.Errorf("hives.extra[%d]: group, store, and path are all required", i)
		}
		slot := entry.Group + "/" + entry.Store
		if seen[slot] {
			return fmt.Errorf("hives.extra[%d]: duplicate hive slot %q", i, slot)
		}
		seen[slot] = true
	}
	return nil
}

// formatValidationError converts validator errors into user-friendly
// messages.
func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrs) > 0 {
			e := validationErrs[0]
			return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
				e.Namespace(), e.Tag(), e.Value())
		}
	}
	return fmt.Errorf("validation failed: %w", err)
}
