package imagefile

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"fieldprep/internal/failures"
)

// Read decodes the image at path into an RGBA buffer anchored at (0,0).
// JPEG files carrying an EXIF orientation tag are rotated or flipped so the
// result matches how the image is displayed.
func Read(path string) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, failures.Wrap(failures.ErrDecode, path, "read image", "", err)
	}
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, failures.Wrap(failures.ErrDecode, path, "decode image", "", err)
	}
	img := ToRGBA(src)
	if format == "jpeg" || isJPEGName(path) {
		img = ApplyOrientation(img, exifOrientation(bytes.NewReader(data)))
	}
	return img, nil
}

// ToRGBA returns img as an *image.RGBA whose bounds start at the origin,
// converting only when needed.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// EncodePNG returns the PNG encoding of img.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// exifOrientation returns the EXIF orientation tag (1..8), or 1 when the
// data has no usable tag.
func exifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	value, err := tag.Int(0)
	if err != nil || value < 1 || value > 8 {
		return 1
	}
	return value
}

func isJPEGName(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".jpg" || ext == ".jpeg"
}
