package output

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"

	"fieldprep/internal/discovery"
	"fieldprep/internal/failures"
	"fieldprep/internal/fileutil"
	"fieldprep/internal/geometry"
	"fieldprep/internal/media/imagefile"
)

// Layout computes destination paths under one output root for one target
// resolution.
type Layout struct {
	Root   string
	Width  int
	Height int
}

// Destination is the pair of files a normalized asset is written to.
type Destination struct {
	FieldPath     string
	AggregatePath string
}

// FieldRoot returns {root}/{w}x{h}_{field}.
func (l Layout) FieldRoot(field string) string {
	return filepath.Join(l.Root, fmt.Sprintf("%dx%d_%s", l.Width, l.Height, field))
}

// AggregateRoot returns {root}/all_{w}_{h}.
func (l Layout) AggregateRoot() string {
	return filepath.Join(l.Root, fmt.Sprintf("all_%d_%d", l.Width, l.Height))
}

// Destination returns where the PNG called name for a field, date and asset
// kind is written.
func (l Layout) Destination(field, date string, kind discovery.Kind, name string) Destination {
	file := name + ".png"
	return Destination{
		FieldPath:     filepath.Join(l.FieldRoot(field), date, kind.Dir(), file),
		AggregatePath: filepath.Join(l.AggregateRoot(), file),
	}
}

// Result describes one normalized asset on disk.
type Result struct {
	FieldPath     string
	AggregatePath string
	Width         int
	Height        int
	Orientation   geometry.Orientation
	// Written counts destinations that were written successfully.
	Written int
}

// Writer persists normalized frames as PNG.
type Writer struct{}

// NewWriter returns a Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write encodes img once and writes it to both destinations. A failure on one
// destination does not prevent the other; failures are returned joined and
// carry failures.ErrWrite.
func (w *Writer) Write(img image.Image, dest Destination) (Result, error) {
	b := img.Bounds()
	result := Result{
		FieldPath:     dest.FieldPath,
		AggregatePath: dest.AggregatePath,
		Width:         b.Dx(),
		Height:        b.Dy(),
		Orientation:   geometry.OrientationOf(img),
	}
	payload, err := imagefile.EncodePNG(img)
	if err != nil {
		return result, failures.Wrap(failures.ErrWrite, dest.FieldPath, "encode", "", err)
	}

	var errs []error
	for _, target := range []string{dest.FieldPath, dest.AggregatePath} {
		if target == "" {
			continue
		}
		if err := fileutil.WriteFileAtomic(target, payload, 0o644); err != nil {
			errs = append(errs, failures.Wrap(failures.ErrWrite, target, "write png", "", err))
			continue
		}
		result.Written++
	}
	return result, errors.Join(errs...)
}
