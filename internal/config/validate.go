package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateExtraction(); err != nil {
		return err
	}
	if err := c.validateNormalize(); err != nil {
		return err
	}
	return nil
}

// RequireFields reports an error when no field was selected. It is separate
// from Validate so `config` subcommands work before any field is configured.
func (c *Config) RequireFields() error {
	if len(c.Extraction.Fields) == 0 {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/fieldprep/config.toml"
		}
		return fmt.Errorf("extraction.fields is empty. Pass --field, set %s, or edit %s (create with 'fieldprep config init')", fieldsEnvVar, defaultPath)
	}
	return nil
}

func (c *Config) validateExtraction() error {
	if c.Extraction.FrameInterval < 1 {
		return errors.New("extraction.frame_interval must be at least 1")
	}
	if !c.Extraction.Videos && !c.Extraction.Images {
		return errors.New("extraction: at least one of videos or images must be enabled")
	}
	seen := make(map[string]struct{}, len(c.Extraction.Fields))
	for _, field := range c.Extraction.Fields {
		if field == "." || field == ".." || strings.ContainsAny(field, `/\`) {
			return fmt.Errorf("extraction.fields: %q is not a plain directory name", field)
		}
		if _, dup := seen[field]; dup {
			return fmt.Errorf("extraction.fields: %q listed more than once", field)
		}
		seen[field] = struct{}{}
	}
	return nil
}

func (c *Config) validateNormalize() error {
	n := c.Normalize
	if n.Width <= 0 || n.Height <= 0 {
		return fmt.Errorf("normalize: width and height must be positive (got %dx%d)", n.Width, n.Height)
	}
	switch n.Orientation {
	case OrientationNone, OrientationHorizontal, OrientationVertical:
	default:
		return fmt.Errorf("normalize.orientation: unsupported value %q (use horizontal, vertical, or none)", n.Orientation)
	}
	if n.Crop {
		if n.RatioLong <= 0 || n.RatioShort <= 0 {
			return errors.New("normalize.ratio_long and normalize.ratio_short must be positive")
		}
		if n.RatioLong < n.RatioShort {
			return fmt.Errorf("normalize: ratio_long (%d) must not be smaller than ratio_short (%d)", n.RatioLong, n.RatioShort)
		}
	}
	return nil
}
