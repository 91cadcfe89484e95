package config

import (
	"fmt"

	"diagraph/internal/render"
)

// Validate checks a configuration for values that would fail later in a
// scan, so bad settings surface before any parsing starts.
func Validate(cfg *Config) error {
	if len(cfg.Paths.Include) == 0 {
		return fmt.Errorf("paths.include must list at least one pattern")
	}

	valid := false
	for _, f := range render.Formats() {
		if cfg.Diagram.Format == f {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("diagram.format %q is not supported (valid: %v)", cfg.Diagram.Format, render.Formats())
	}

	if cfg.Diagram.Depth < 0 {
		return fmt.Errorf("diagram.depth must be non-negative, got %d", cfg.Diagram.Depth)
	}

	return nil
}
