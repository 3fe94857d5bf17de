package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"fieldprep/internal/config"
	"fieldprep/internal/failures"
	"fieldprep/internal/geometry"
)

// Options is the resolved configuration record of one run.
type Options struct {
	InputRoot     string
	OutputRoot    string
	ManifestDir   string
	Fields        []string
	FrameInterval int
	Videos        bool
	Images        bool
	Geometry      geometry.Options
}

// OptionsFromConfig maps a loaded configuration onto run options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		InputRoot:     cfg.Paths.InputRoot,
		OutputRoot:    cfg.Paths.OutputRoot,
		ManifestDir:   cfg.Paths.ManifestDir,
		Fields:        append([]string(nil), cfg.Extraction.Fields...),
		FrameInterval: cfg.Extraction.FrameInterval,
		Videos:        cfg.Extraction.Videos,
		Images:        cfg.Extraction.Images,
		Geometry: geometry.Options{
			Crop:        cfg.Normalize.Crop,
			RatioLong:   cfg.Normalize.RatioLong,
			RatioShort:  cfg.Normalize.RatioShort,
			Orientation: geometry.Orientation(cfg.Normalize.Orientation),
			Resize:      cfg.Normalize.Resize,
			Width:       cfg.Normalize.Width,
			Height:      cfg.Normalize.Height,
		},
	}
}

// Validate checks the options once, before any asset is touched.
func (o Options) Validate() error {
	var problems []string
	if strings.TrimSpace(o.InputRoot) == "" {
		problems = append(problems, "input root is empty")
	}
	if strings.TrimSpace(o.OutputRoot) == "" {
		problems = append(problems, "output root is empty")
	}
	if len(o.Fields) == 0 {
		problems = append(problems, "no fields selected")
	}
	if o.FrameInterval < 1 {
		problems = append(problems, fmt.Sprintf("frame interval must be >= 1, got %d", o.FrameInterval))
	}
	if !o.Videos && !o.Images {
		problems = append(problems, "both videos and images are disabled")
	}
	if o.Geometry.Width <= 0 || o.Geometry.Height <= 0 {
		// Output directory names carry the resolution even when resize is off.
		problems = append(problems, fmt.Sprintf("target resolution must be positive, got %dx%d", o.Geometry.Width, o.Geometry.Height))
	}
	var errs []error
	if len(problems) > 0 {
		errs = append(errs, failures.Wrap(failures.ErrConfiguration, "pipeline options", "", strings.Join(problems, "; "), nil))
	}
	if err := o.Geometry.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
