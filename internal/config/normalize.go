package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeExtraction()
	c.normalizeGeometry()
	c.normalizeTools()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.InputRoot) == "" {
		c.Paths.InputRoot = defaultInputRoot
	}
	if c.Paths.InputRoot, err = expandPath(strings.TrimSpace(c.Paths.InputRoot)); err != nil {
		return fmt.Errorf("paths.input_root: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputRoot) == "" {
		c.Paths.OutputRoot = defaultOutputRoot
	}
	if c.Paths.OutputRoot, err = expandPath(strings.TrimSpace(c.Paths.OutputRoot)); err != nil {
		return fmt.Errorf("paths.output_root: %w", err)
	}
	if strings.TrimSpace(c.Paths.ManifestDir) == "" {
		c.Paths.ManifestDir = defaultManifestDir
	}
	if c.Paths.ManifestDir, err = expandPath(strings.TrimSpace(c.Paths.ManifestDir)); err != nil {
		return fmt.Errorf("paths.manifest_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeExtraction() {
	fields := c.Extraction.Fields
	if len(uniqueFields(fields)) == 0 {
		if value, ok := os.LookupEnv(fieldsEnvVar); ok {
			fields = strings.Fields(value)
		}
	}
	c.Extraction.Fields = uniqueFields(fields)
	if c.Extraction.FrameInterval == 0 {
		c.Extraction.FrameInterval = defaultFrameInterval
	}
}

// uniqueFields trims names and drops blanks and repeats, keeping first
// occurrence order.
func uniqueFields(fields []string) []string {
	out := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		trimmed := strings.TrimSpace(field)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

func (c *Config) normalizeGeometry() {
	orientation := strings.ToLower(strings.TrimSpace(c.Normalize.Orientation))
	switch orientation {
	case "":
		orientation = defaultOrientation
	case "h", "landscape":
		orientation = OrientationHorizontal
	case "v", "portrait":
		orientation = OrientationVertical
	case "off":
		orientation = OrientationNone
	}
	c.Normalize.Orientation = orientation
}

func (c *Config) normalizeTools() {
	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	if c.Tools.FFmpeg == "" {
		c.Tools.FFmpeg = defaultFFmpegBinary
	}
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)
	if c.Tools.FFprobe == "" {
		c.Tools.FFprobe = defaultFFprobeBinary
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
