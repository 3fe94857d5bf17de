package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"fieldprep/internal/config"
)

func TestLoadDefaultConfigUsesEnvFieldsAndExpandsPaths(t *testing.T) {
	t.Setenv("FIELDPREP_FIELDS", "bbro  near30")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if got := strings.Join(cfg.Extraction.Fields, ","); got != "bbro,near30" {
		t.Fatalf("expected fields from env, got %q", got)
	}
	if !filepath.IsAbs(cfg.Paths.InputRoot) || !filepath.IsAbs(cfg.Paths.OutputRoot) || !filepath.IsAbs(cfg.Paths.ManifestDir) {
		t.Fatalf("expected absolute paths, got %+v", cfg.Paths)
	}
	if cfg.Paths.LogDir != "" {
		t.Fatalf("expected empty log dir by default, got %q", cfg.Paths.LogDir)
	}
	if cfg.Extraction.FrameInterval != 30 {
		t.Fatalf("unexpected frame interval: %d", cfg.Extraction.FrameInterval)
	}
	if !cfg.Extraction.Videos || !cfg.Extraction.Images {
		t.Fatal("expected both asset types enabled by default")
	}
	if cfg.Normalize.Width != 1920 || cfg.Normalize.Height != 1080 {
		t.Fatalf("unexpected target: %dx%d", cfg.Normalize.Width, cfg.Normalize.Height)
	}
	if cfg.Normalize.Orientation != config.OrientationHorizontal {
		t.Fatalf("unexpected orientation: %q", cfg.Normalize.Orientation)
	}
	if cfg.Normalize.RatioLong != 16 || cfg.Normalize.RatioShort != 9 {
		t.Fatalf("unexpected ratio: %d:%d", cfg.Normalize.RatioLong, cfg.Normalize.RatioShort)
	}
	if cfg.FFmpegBinary() != "ffmpeg" || cfg.FFprobeBinary() != "ffprobe" {
		t.Fatalf("unexpected tool binaries: %q %q", cfg.FFmpegBinary(), cfg.FFprobeBinary())
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomConfigFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("FIELDPREP_FIELDS", "ignored")

	dataDir := filepath.Join(tempHome, "data")
	cfgPath := filepath.Join(tempHome, "config.toml")
	type file struct {
		Paths struct {
			InputRoot  string `toml:"input_root"`
			OutputRoot string `toml:"output_root"`
			LogDir     string `toml:"log_dir"`
		} `toml:"paths"`
		Extraction struct {
			Fields        []string `toml:"fields"`
			FrameInterval int      `toml:"frame_interval"`
			Images        bool     `toml:"images"`
			Videos        bool     `toml:"videos"`
		} `toml:"extraction"`
		Normalize struct {
			Orientation string `toml:"orientation"`
			Width       int    `toml:"width"`
			Height      int    `toml:"height"`
		} `toml:"normalize"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	var f file
	f.Paths.InputRoot = "~/data"
	f.Paths.OutputRoot = "~/out"
	f.Paths.LogDir = "~/logs"
	f.Extraction.Fields = []string{" walledgarden ", ""}
	f.Extraction.FrameInterval = 10
	f.Extraction.Images = false
	f.Extraction.Videos = true
	f.Normalize.Orientation = "Portrait"
	f.Normalize.Width = 1080
	f.Normalize.Height = 1920
	f.Logging.Format = "JSON"

	payload, err := toml.Marshal(f)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(cfgPath, payload, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != cfgPath {
		t.Fatalf("expected explicit config to be used, got %q exists=%v", resolved, exists)
	}
	if cfg.Paths.InputRoot != dataDir {
		t.Fatalf("unexpected input root: %q", cfg.Paths.InputRoot)
	}
	if cfg.Paths.LogDir != filepath.Join(tempHome, "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if len(cfg.Extraction.Fields) != 1 || cfg.Extraction.Fields[0] != "walledgarden" {
		t.Fatalf("expected file fields to win over env, got %v", cfg.Extraction.Fields)
	}
	if cfg.Extraction.FrameInterval != 10 || cfg.Extraction.Images {
		t.Fatalf("unexpected extraction: %+v", cfg.Extraction)
	}
	if cfg.Normalize.Orientation != config.OrientationVertical {
		t.Fatalf("expected portrait alias to normalize to vertical, got %q", cfg.Normalize.Orientation)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json format, got %q", cfg.Logging.Format)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.OutputRoot, cfg.Paths.LogDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s to exist: %v", dir, err)
		}
	}
}

func TestLoadMissingExplicitConfigFails(t *testing.T) {
	if _, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"zero interval", func(c *config.Config) { c.Extraction.FrameInterval = -1 }, "frame_interval"},
		{"no asset types", func(c *config.Config) { c.Extraction.Videos = false; c.Extraction.Images = false }, "at least one"},
		{"nested field", func(c *config.Config) { c.Extraction.Fields = []string{"a/b"} }, "plain directory"},
		{"duplicate field", func(c *config.Config) { c.Extraction.Fields = []string{"a", "a"} }, "more than once"},
		{"zero width", func(c *config.Config) { c.Normalize.Width = 0 }, "positive"},
		{"bad orientation", func(c *config.Config) { c.Normalize.Orientation = "diagonal" }, "orientation"},
		{"inverted ratio", func(c *config.Config) { c.Normalize.RatioLong = 9; c.Normalize.RatioShort = 16 }, "ratio_long"},
		{"zero ratio", func(c *config.Config) { c.Normalize.RatioShort = 0 }, "positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in %q", tt.want, err.Error())
			}
		})
	}
}

func TestNormalizedDropsRepeatedFields(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := config.Default()
	cfg.Extraction.Fields = []string{"bbro", " near30", "bbro", "", "near30 ", "walledgarden"}
	if err := cfg.Normalized(); err != nil {
		t.Fatalf("Normalized: %v", err)
	}
	if got := strings.Join(cfg.Extraction.Fields, ","); got != "bbro,near30,walledgarden" {
		t.Fatalf("expected first-occurrence order without repeats, got %q", got)
	}
}

func TestRatioIgnoredWhenCropDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Normalize.Crop = false
	cfg.Normalize.RatioShort = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected ratio to be ignored when crop is off: %v", err)
	}
}

func TestRequireFields(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := config.Default()
	if err := cfg.RequireFields(); err == nil {
		t.Fatal("expected error without fields")
	}
	cfg.Extraction.Fields = []string{"bbro"}
	if err := cfg.RequireFields(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	path := filepath.Join(tempHome, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if len(cfg.Extraction.Fields) != 3 {
		t.Fatalf("expected sample fields, got %v", cfg.Extraction.Fields)
	}
}
