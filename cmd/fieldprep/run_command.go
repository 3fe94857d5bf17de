package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"fieldprep/internal/config"
	"fieldprep/internal/logging"
	"fieldprep/internal/pipeline"
	"fieldprep/internal/preflight"
	"fieldprep/internal/runlock"
)

var errRunIncomplete = errors.New("run completed with skipped work")

type runFlags struct {
	fields      []string
	interval    int
	width       int
	height      int
	noResize    bool
	orientation string
	noCrop      bool
	ratio       string
	input       string
	output      string
	manifestDir string
	noVideos    bool
	noImages    bool
	logLevel    string
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Extract, normalize and write every configured field",
		Long: `Walks <input>/<field>/<date>/{videos,raw_images}, samples every Nth video
frame, normalizes frames and images to the target resolution and writes PNGs
to a per-field tree and a flat aggregate tree, plus one manifest per asset type.

The command exits non-zero when any asset, date or field was skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := applyRunFlags(cmd.Flags(), &flags, cfg); err != nil {
				return err
			}
			return runFields(cmd, cfg)
		},
	}

	bindRunFlags(cmd.Flags(), &flags)
	return cmd
}

func bindRunFlags(f *pflag.FlagSet, flags *runFlags) {
	f.StringArrayVarP(&flags.fields, "field", "f", nil, "Field to process (repeatable; replaces extraction.fields)")
	f.IntVar(&flags.interval, "interval", 0, "Keep one frame out of every N")
	f.IntVar(&flags.width, "width", 0, "Target width")
	f.IntVar(&flags.height, "height", 0, "Target height")
	f.BoolVar(&flags.noResize, "no-resize", false, "Keep cropped dimensions instead of resizing")
	f.StringVar(&flags.orientation, "orientation", "", "horizontal, vertical, or none")
	f.BoolVar(&flags.noCrop, "no-crop", false, "Skip aspect ratio cropping")
	f.StringVar(&flags.ratio, "ratio", "", "Crop ratio as LONG:SHORT, e.g. 16:9")
	f.StringVar(&flags.input, "input", "", "Input root directory")
	f.StringVar(&flags.output, "output", "", "Output root directory")
	f.StringVar(&flags.manifestDir, "manifest-dir", "", "Directory receiving a copy of each manifest")
	f.BoolVar(&flags.noVideos, "no-videos", false, "Skip video files")
	f.BoolVar(&flags.noImages, "no-images", false, "Skip still images")
	f.StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

// applyRunFlags overrides cfg with every flag the user set explicitly and
// re-validates the result.
func applyRunFlags(set *pflag.FlagSet, flags *runFlags, cfg *config.Config) error {
	if set.Changed("field") {
		cfg.Extraction.Fields = append([]string(nil), flags.fields...)
	}
	if set.Changed("interval") {
		cfg.Extraction.FrameInterval = flags.interval
	}
	if set.Changed("width") {
		cfg.Normalize.Width = flags.width
	}
	if set.Changed("height") {
		cfg.Normalize.Height = flags.height
	}
	if flags.noResize {
		cfg.Normalize.Resize = false
	}
	if set.Changed("orientation") {
		cfg.Normalize.Orientation = flags.orientation
	}
	if flags.noCrop {
		cfg.Normalize.Crop = false
	}
	if set.Changed("ratio") {
		long, short, err := parseRatio(flags.ratio)
		if err != nil {
			return err
		}
		cfg.Normalize.RatioLong, cfg.Normalize.RatioShort = long, short
	}
	if set.Changed("input") {
		cfg.Paths.InputRoot = flags.input
	}
	if set.Changed("output") {
		cfg.Paths.OutputRoot = flags.output
	}
	if set.Changed("manifest-dir") {
		cfg.Paths.ManifestDir = flags.manifestDir
	}
	if flags.noVideos {
		cfg.Extraction.Videos = false
	}
	if flags.noImages {
		cfg.Extraction.Images = false
	}
	if set.Changed("log-level") {
		cfg.Logging.Level = flags.logLevel
	}
	if err := cfg.Normalized(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

func parseRatio(value string) (int, int, error) {
	long, short, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok {
		return 0, 0, fmt.Errorf("ratio %q: expected LONG:SHORT", value)
	}
	l, err := strconv.Atoi(strings.TrimSpace(long))
	if err != nil {
		return 0, 0, fmt.Errorf("ratio %q: %w", value, err)
	}
	s, err := strconv.Atoi(strings.TrimSpace(short))
	if err != nil {
		return 0, 0, fmt.Errorf("ratio %q: %w", value, err)
	}
	return l, s, nil
}

func runFields(cmd *cobra.Command, cfg *config.Config) error {
	if err := cfg.RequireFields(); err != nil {
		return err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}
	if err := preflight.Failed(preflight.RunAll(cfg)); err != nil {
		return err
	}

	lock, err := runlock.Acquire(cfg.Paths.OutputRoot)
	if err != nil {
		return err
	}
	defer lock.Release()

	logger, closeLog, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)

	deps := pipeline.DefaultDependencies(cfg.FFmpegBinary(), cfg.FFprobeBinary())
	report, runErr := pipeline.New(pipeline.OptionsFromConfig(cfg), deps, logger).Run(ctx)

	out := cmd.OutOrStdout()
	fmt.Fprint(out, renderSummary(runID, report, runErr != nil, shouldColorize(out)))
	if runErr != nil {
		return runErr
	}
	if report.HasSkips() {
		return fmt.Errorf("%w: %d skipped (see summary above)", errRunIncomplete, len(report.Skips))
	}
	return nil
}
