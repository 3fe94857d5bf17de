package geometry

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"fieldprep/internal/failures"
)

// areaKernel is a box filter. draw.Kernel widens its support by the scale
// factor when shrinking, so each destination pixel averages the source area
// it covers. The support is just over half a pixel so a sample falling
// exactly between two source pixels weighs both.
var areaKernel = &draw.Kernel{
	Support: 0.51,
	At:      func(float64) float64 { return 1 },
}

// Resize scales img to exactly w×h without preserving aspect ratio. An image
// that is already w×h is returned as is.
func Resize(img *image.RGBA, w, h int) (*image.RGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, failures.Wrap(failures.ErrGeometry, "resize", "", fmt.Sprintf("invalid target %dx%d", w, h), nil)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, failures.Wrap(failures.ErrGeometry, "resize", "", fmt.Sprintf("empty source %dx%d", b.Dx(), b.Dy()), nil)
	}
	if b.Dx() == w && b.Dy() == h {
		return img, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	areaKernel.Scale(dst, dst.Rect, img, b, draw.Src, nil)
	return dst, nil
}

// OrientationCorrect rotates img 90° clockwise when its shape disagrees with
// the wanted orientation. Square images are left alone.
func OrientationCorrect(img *image.RGBA, wantHorizontal bool) *image.RGBA {
	switch OrientationOf(img) {
	case Horizontal:
		if wantHorizontal {
			return img
		}
	case Vertical:
		if !wantHorizontal {
			return img
		}
	default:
		return img
	}
	return rotateClockwise(img)
}

func rotateClockwise(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		si := img.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < w; x++ {
			di := dst.PixOffset(h-1-y, x)
			copy(dst.Pix[di:di+4], img.Pix[si+x*4:si+x*4+4])
		}
	}
	return dst
}

// AspectCrop trims img so that longest:shortest equals ratioLong:ratioShort.
// The side with surplus length is cut from its start edge; the result shares
// pixels with img. When width equals height, height counts as the long side.
//
// Side lengths are rounded half up, and a shape whose recomputed side rounds
// to its current length is treated as already matching. Cropping an
// already-cropped image is therefore a no-op.
func AspectCrop(img *image.RGBA, ratioLong, ratioShort int) (*image.RGBA, error) {
	if ratioLong <= 0 || ratioShort <= 0 || ratioLong < ratioShort {
		return nil, failures.Wrap(failures.ErrGeometry, "aspect crop", "", fmt.Sprintf("invalid ratio %d:%d", ratioLong, ratioShort), nil)
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, failures.Wrap(failures.ErrGeometry, "aspect crop", "", fmt.Sprintf("degenerate image %dx%d", w, h), nil)
	}

	widthIsLong := w > h
	longest, shortest := h, w
	if widthIsLong {
		longest, shortest = w, h
	}
	if matchesRatio(longest, shortest, ratioLong, ratioShort) {
		return img, nil
	}

	newLong, newShort := longest, shortest
	if longest*ratioShort < shortest*ratioLong {
		// Wanted ratio is wider than current: the short side is too long.
		newShort = roundDiv(longest*ratioShort, ratioLong)
	} else {
		newLong = roundDiv(shortest*ratioLong, ratioShort)
	}
	if newLong <= 0 || newShort <= 0 {
		return nil, failures.Wrap(failures.ErrGeometry, "aspect crop", "", fmt.Sprintf("%dx%d collapses at %d:%d", w, h, ratioLong, ratioShort), nil)
	}

	newW, newH := newShort, newLong
	if widthIsLong {
		newW, newH = newLong, newShort
	}
	rect := image.Rect(b.Min.X, b.Min.Y, b.Min.X+newW, b.Min.Y+newH)
	return img.SubImage(rect).(*image.RGBA), nil
}

// matchesRatio reports whether longest×shortest already is the closest
// integer shape for ratioLong:ratioShort.
func matchesRatio(longest, shortest, ratioLong, ratioShort int) bool {
	return roundDiv(longest*ratioShort, ratioLong) == shortest ||
		roundDiv(shortest*ratioLong, ratioShort) == longest
}

// roundDiv divides non-negative a by positive b, rounding half up.
func roundDiv(a, b int) int {
	return (2*a + b) / (2 * b)
}
