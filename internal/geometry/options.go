package geometry

import (
	"fmt"
	"image"

	"fieldprep/internal/failures"
)

// Orientation is a requested or observed image shape.
type Orientation string

const (
	None       Orientation = "none"
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
	Square     Orientation = "square"
)

// OrientationOf classifies img by comparing width and height.
func OrientationOf(img image.Image) Orientation {
	b := img.Bounds()
	switch {
	case b.Dx() > b.Dy():
		return Horizontal
	case b.Dx() < b.Dy():
		return Vertical
	default:
		return Square
	}
}

// Options selects and parameterizes the normalization steps.
type Options struct {
	Crop        bool
	RatioLong   int
	RatioShort  int
	Orientation Orientation
	Resize      bool
	Width       int
	Height      int
}

// Validate rejects option sets that cannot produce a stable result. A resize
// target must agree with the orientation and crop ratio, otherwise a second
// normalization pass would change an already-normalized image.
func (o Options) Validate() error {
	if o.Crop {
		if o.RatioLong <= 0 || o.RatioShort <= 0 {
			return invalid("crop ratio must be positive, got %d:%d", o.RatioLong, o.RatioShort)
		}
		if o.RatioLong < o.RatioShort {
			return invalid("crop ratio long side %d is shorter than short side %d", o.RatioLong, o.RatioShort)
		}
	}
	switch o.Orientation {
	case None, Horizontal, Vertical:
	case "":
		return invalid("orientation is required")
	default:
		return invalid("unsupported orientation %q", o.Orientation)
	}
	if !o.Resize {
		return nil
	}
	if o.Width <= 0 || o.Height <= 0 {
		return invalid("resize target must be positive, got %dx%d", o.Width, o.Height)
	}
	if o.Orientation == Horizontal && o.Width < o.Height {
		return invalid("resize target %dx%d is vertical but orientation is horizontal", o.Width, o.Height)
	}
	if o.Orientation == Vertical && o.Width > o.Height {
		return invalid("resize target %dx%d is horizontal but orientation is vertical", o.Width, o.Height)
	}
	if o.Crop {
		longest, shortest := max(o.Width, o.Height), min(o.Width, o.Height)
		if !matchesRatio(longest, shortest, o.RatioLong, o.RatioShort) {
			return invalid("resize target %dx%d does not match crop ratio %d:%d", o.Width, o.Height, o.RatioLong, o.RatioShort)
		}
	}
	return nil
}

// Normalize applies crop, orientation, then resize, each only when enabled.
func Normalize(img *image.RGBA, opts Options) (*image.RGBA, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, failures.Wrap(failures.ErrGeometry, "normalize", "", fmt.Sprintf("degenerate image %dx%d", b.Dx(), b.Dy()), nil)
	}
	var err error
	if opts.Crop {
		if img, err = AspectCrop(img, opts.RatioLong, opts.RatioShort); err != nil {
			return nil, err
		}
	}
	if opts.Orientation == Horizontal || opts.Orientation == Vertical {
		img = OrientationCorrect(img, opts.Orientation == Horizontal)
	}
	if opts.Resize {
		if img, err = Resize(img, opts.Width, opts.Height); err != nil {
			return nil, err
		}
	}
	return img, nil
}

func invalid(format string, args ...any) error {
	return failures.Wrap(failures.ErrConfiguration, "normalize options", "", fmt.Sprintf(format, args...), nil)
}
