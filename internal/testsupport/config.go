package testsupport

import (
	"path/filepath"
	"testing"

	"fieldprep/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// Input, output, manifest, and log directories live under one base dir.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.InputRoot = filepath.Join(base, "input")
	cfg.Paths.OutputRoot = filepath.Join(base, "output")
	cfg.Paths.ManifestDir = filepath.Join(base, "manifests")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithFields sets the field list.
func WithFields(fields ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Extraction.Fields = append([]string(nil), fields...)
	}
}
