package pipeline

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"

	"fieldprep/internal/discovery"
	"fieldprep/internal/failures"
	"fieldprep/internal/geometry"
	"fieldprep/internal/logging"
	"fieldprep/internal/naming"
	"fieldprep/internal/output"
	"fieldprep/internal/sampler"
)

// Pipeline runs discovery, extraction, normalization, naming and output for
// every configured field, one asset at a time.
type Pipeline struct {
	opts     Options
	deps     Dependencies
	logger   *slog.Logger
	layout   output.Layout
	progress *logging.ProgressSampler

	builder *naming.Builder
	report  Report
}

// New constructs a Pipeline. Missing dependencies are filled with the
// defaults for ffmpeg/ffprobe on PATH.
func New(opts Options, deps Dependencies, logger *slog.Logger) *Pipeline {
	defaults := DefaultDependencies("", "")
	if deps.Videos == nil {
		deps.Videos = defaults.Videos
	}
	if deps.Images == nil {
		deps.Images = defaults.Images
	}
	if deps.Writer == nil {
		deps.Writer = defaults.Writer
	}
	return &Pipeline{
		opts:     opts,
		deps:     deps,
		logger:   logging.NewComponentLogger(logger, "pipeline"),
		layout:   output.Layout{Root: opts.OutputRoot, Width: opts.Geometry.Width, Height: opts.Geometry.Height},
		progress: logging.NewProgressSampler(10),
	}
}

// Run processes every field. The error is non-nil only when the options are
// invalid or ctx is cancelled; per-asset, per-date and per-field failures are
// recorded as skips in the report. A cancelled run stops between assets and
// does not write the interrupted field's manifest checkpoint.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	if err := p.opts.Validate(); err != nil {
		return Report{}, err
	}
	p.builder = naming.NewBuilder(p.logger)
	p.report = Report{}

	p.logger.Info("run started",
		logging.String("input_root", p.opts.InputRoot),
		logging.String("output_root", p.opts.OutputRoot),
		logging.Any("fields", p.opts.Fields),
		logging.Int("frame_interval", p.opts.FrameInterval),
		logging.String("target", fmt.Sprintf("%dx%d", p.opts.Geometry.Width, p.opts.Geometry.Height)),
	)

	for _, field := range p.opts.Fields {
		if err := ctx.Err(); err != nil {
			return p.report, err
		}
		fieldCtx := logging.WithField(ctx, field)
		p.progress.Reset()
		p.processField(fieldCtx, field)
		if err := ctx.Err(); err != nil {
			p.logger.Warn("run interrupted; field checkpoint not written",
				logging.String(logging.FieldField, field),
				logging.String(logging.FieldEventType, "run_interrupted"),
			)
			return p.report, err
		}
		p.checkpoint(fieldCtx, field)
	}

	totals := p.report.Totals()
	p.logger.Info("run finished",
		logging.Int("videos", totals.Videos),
		logging.Int("images", totals.Images),
		logging.Int("frames", totals.Frames),
		logging.Int("outputs", totals.Outputs),
		logging.Int("skips", len(p.report.Skips)),
	)
	return p.report, nil
}

func (p *Pipeline) processField(ctx context.Context, field string) {
	logger := logging.WithContext(ctx, p.logger)
	p.report.Fields = append(p.report.Fields, FieldReport{Field: field})
	fr := &p.report.Fields[len(p.report.Fields)-1]

	dataset, dateFailures, err := discovery.Discover(p.opts.InputRoot, field, discovery.Options{
		Videos: p.opts.Videos,
		Images: p.opts.Images,
	})
	if err != nil {
		p.skip(ctx, fr, failures.NewSkip(failures.ScopeField, field, "", "", err))
		return
	}
	for _, failed := range dateFailures {
		p.skip(ctx, fr, failures.NewSkip(failures.ScopeDate, field, failed.Date, "", failed.Err))
	}

	logger.Info("field discovered",
		logging.Int("dates", len(dataset.Dates)),
		logging.Int("failed_dates", len(dateFailures)),
	)
	for _, date := range dataset.Dates {
		if ctx.Err() != nil {
			return
		}
		fr.Dates++
		p.processDate(logging.WithDate(ctx, date.Date), fr, date)
	}
}

func (p *Pipeline) processDate(ctx context.Context, fr *FieldReport, date discovery.DateRecording) {
	assets := make([]discovery.Asset, 0, date.Total())
	assets = append(assets, date.Videos...)
	assets = append(assets, date.Images...)
	fr.Videos += len(date.Videos)
	fr.Images += len(date.Images)

	total := len(assets)
	for i, asset := range assets {
		if ctx.Err() != nil {
			return
		}
		name := p.builder.Assign(asset)
		p.logProgress(ctx, date, asset, i, total)

		var err error
		switch asset.Kind {
		case discovery.KindVideo:
			err = p.processVideo(ctx, fr, asset, name)
		default:
			err = p.processImage(ctx, fr, asset, name)
		}
		if err != nil {
			p.skip(ctx, fr, failures.NewSkip(failures.ScopeAsset, asset.Field, asset.Date, asset.Base(), err))
		}
	}
	if total > 0 {
		p.logProgress(ctx, date, discovery.Asset{}, total, total)
	}
}

// processVideo samples, normalizes and writes the frames of one video.
// Geometry and write failures skip only the affected frame; a decode error
// ends the video early but keeps the frames already written.
func (p *Pipeline) processVideo(ctx context.Context, fr *FieldReport, asset discovery.Asset, name naming.Name) error {
	logger := logging.WithContext(ctx, p.logger).With(logging.String(logging.FieldSource, asset.Base()))

	// The estimate only feeds the debug log below.
	estimate, err := p.deps.Videos.Probe(ctx, asset.Path)
	if err != nil {
		logging.WarnWithContext(logger, "frame count unavailable", "frame_count_unavailable",
			logging.Error(err),
			logging.String(logging.FieldImpact, "sampling continues without an estimate"),
		)
		estimate = 0
	}
	src, err := p.deps.Videos.Open(ctx, asset.Path)
	if err != nil {
		return err
	}
	s, err := sampler.New(src, p.opts.FrameInterval, asset.Base())
	if err != nil {
		return failures.Wrap(failures.ErrDecode, asset.Base(), "sample", "", err)
	}
	defer s.Close()

	logger.Debug("sampling video",
		logging.Int("estimated_frames", estimate),
		logging.Int("expected_samples", expectedSamples(estimate, p.opts.FrameInterval)),
		logging.String("name_prefix", name.Prefix),
	)

	written := 0
	for seq, frame := range s.Frames() {
		if ctx.Err() != nil {
			break
		}
		frameName := name.Frame(seq)
		if err := p.emit(fr, frame, asset, frameName); err != nil {
			p.skip(ctx, fr, failures.NewSkip(failures.ScopeAsset, asset.Field, asset.Date, fmt.Sprintf("%s#%d", asset.Base(), seq), err))
			continue
		}
		written++
	}
	logger.Debug("video done", logging.Int("frames_written", written))
	if err := s.Err(); err != nil {
		if written > 0 {
			logging.WarnWithContext(logger, "video truncated by decode error", "video_truncated",
				logging.Int("frames_written", written),
				logging.Error(err),
				logging.String(logging.FieldImpact, "frames after the error are missing"),
			)
		}
		return err
	}
	return nil
}

func (p *Pipeline) processImage(_ context.Context, fr *FieldReport, asset discovery.Asset, name naming.Name) error {
	img, err := p.deps.Images(asset.Path)
	if err != nil {
		return err
	}
	return p.emit(fr, img, asset, name.Image())
}

// emit normalizes img and writes it under fileName. A frame counts as
// produced when at least one destination was written.
func (p *Pipeline) emit(fr *FieldReport, img *image.RGBA, asset discovery.Asset, fileName string) error {
	normalized, err := geometry.Normalize(img, p.opts.Geometry)
	if err != nil {
		return err
	}
	dest := p.layout.Destination(asset.Field, asset.Date, asset.Kind, fileName)
	result, err := p.deps.Writer.Write(normalized, dest)
	fr.Outputs += result.Written
	if result.Written > 0 && asset.Kind == discovery.KindVideo {
		fr.Frames++
	}
	return err
}

// checkpoint overwrites the manifests with everything assigned so far. Each
// manifest lands in the aggregate root and in the manifest directory.
func (p *Pipeline) checkpoint(ctx context.Context, field string) {
	logger := logging.WithContext(ctx, p.logger)
	aggregate := p.layout.AggregateRoot()
	var kinds []discovery.Kind
	if p.opts.Videos {
		kinds = append(kinds, discovery.KindVideo)
	}
	if p.opts.Images {
		kinds = append(kinds, discovery.KindImage)
	}
	for _, kind := range kinds {
		fileName := naming.FileName(kind, p.opts.Fields, p.opts.Geometry.Width, p.opts.Geometry.Height)
		targets := []string{filepath.Join(aggregate, fileName)}
		if p.opts.ManifestDir != "" && filepath.Clean(p.opts.ManifestDir) != filepath.Clean(aggregate) {
			targets = append(targets, filepath.Join(p.opts.ManifestDir, fileName))
		}
		manifest := p.builder.Manifest(kind)
		if err := manifest.Save(targets...); err != nil {
			fr := p.fieldReport(field)
			p.skip(ctx, fr, failures.NewSkip(failures.ScopeField, field, "", fileName, err))
			continue
		}
		logger.Info("manifest checkpoint written",
			logging.String("manifest", fileName),
			logging.Int("entries", manifest.Len()),
		)
		for _, target := range targets {
			p.recordManifest(target)
		}
	}
}

func (p *Pipeline) recordManifest(path string) {
	for _, existing := range p.report.Manifests {
		if existing == path {
			return
		}
	}
	p.report.Manifests = append(p.report.Manifests, path)
}

func (p *Pipeline) fieldReport(field string) *FieldReport {
	for i := range p.report.Fields {
		if p.report.Fields[i].Field == field {
			return &p.report.Fields[i]
		}
	}
	return nil
}

func (p *Pipeline) skip(ctx context.Context, fr *FieldReport, s failures.Skip) {
	p.report.Skips = append(p.report.Skips, s)
	if fr != nil {
		fr.Skips++
	}
	attrs := []logging.Attr{
		logging.String("scope", string(s.Scope)),
		logging.String("kind", s.Kind),
		logging.String("reason", s.Message),
		logging.String(logging.FieldErrorHint, skipHint(s.Kind)),
	}
	if s.Scope == failures.ScopeDate {
		// Asset skips already carry the date from ctx.
		attrs = append(attrs, logging.String(logging.FieldDate, s.Date))
	}
	if s.Source != "" {
		attrs = append(attrs, logging.String(logging.FieldSource, s.Source))
	}
	logger := logging.WithContext(ctx, p.logger)
	if s.Scope == failures.ScopeField {
		logging.ErrorWithContext(logger, "skipped field", "skip_"+s.Kind, attrs...)
		return
	}
	logging.WarnWithContext(logger, "skipped "+string(s.Scope), "skip_"+s.Kind, attrs...)
}

func (p *Pipeline) logProgress(ctx context.Context, date discovery.DateRecording, asset discovery.Asset, index, total int) {
	if total == 0 {
		return
	}
	percent := float64(index) / float64(total) * 100
	stage := date.Field + "/" + date.Date
	if !p.progress.ShouldLog(percent, stage) {
		return
	}
	attrs := []any{
		logging.Int("index", index),
		logging.Int("total", total),
		logging.Float64("percent", percent),
	}
	if asset.Path != "" {
		attrs = append(attrs, logging.String(logging.FieldSource, asset.Base()))
	}
	logging.WithContext(ctx, p.logger).Info("progress", attrs...)
}

func skipHint(kind string) string {
	switch kind {
	case failures.KindDiscovery:
		return "check the field/date/{videos,raw_images} layout"
	case failures.KindDecode:
		return "source file is corrupt or in an unsupported format"
	case failures.KindGeometry:
		return "source dimensions are too small for the crop ratio"
	case failures.KindWrite:
		return "check free space and permissions under the output root"
	default:
		return "check logs for details"
	}
}

func expectedSamples(frames, interval int) int {
	if frames <= 0 || interval <= 0 {
		return 0
	}
	return (frames + interval - 1) / interval
}
