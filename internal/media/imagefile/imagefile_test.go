package imagefile_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"fieldprep/internal/failures"
	"fieldprep/internal/media/imagefile"
	"fieldprep/internal/testsupport"
)

// withOrientation inserts an EXIF APP1 segment carrying the given orientation
// right after the JPEG SOI marker.
func withOrientation(t *testing.T, jpg []byte, orientation uint16) []byte {
	t.Helper()
	if len(jpg) < 2 || jpg[0] != 0xFF || jpg[1] != 0xD8 {
		t.Fatal("not a jpeg")
	}
	tiffData := []byte{
		'M', 'M', 0x00, 0x2A, 0x00, 0x00, 0x00, 0x08,
		0x00, 0x01,
		0x01, 0x12, 0x00, 0x03, 0x00, 0x00, 0x00, 0x01, byte(orientation >> 8), byte(orientation), 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	}
	payload := append([]byte("Exif\x00\x00"), tiffData...)
	length := len(payload) + 2
	segment := append([]byte{0xFF, 0xE1, byte(length >> 8), byte(length)}, payload...)

	out := append([]byte{0xFF, 0xD8}, segment...)
	return append(out, jpg[2:]...)
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestReadPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.png")
	testsupport.WritePNG(t, path, 40, 30)

	img, err := imagefile.Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 40, 30) {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	if got := img.RGBAAt(10, 5); got.R != 10 || got.G != 5 {
		t.Fatalf("unexpected pixel %+v", got)
	}
}

func TestReadJPEGAppliesExifOrientation(t *testing.T) {
	dir := t.TempDir()
	plain := encodeJPEG(t, testsupport.NewImage(64, 32))

	plainPath := filepath.Join(dir, "plain.jpg")
	if err := os.WriteFile(plainPath, plain, 0o644); err != nil {
		t.Fatal(err)
	}
	img, err := imagefile.Read(plainPath)
	if err != nil {
		t.Fatalf("Read plain: %v", err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 32 {
		t.Fatalf("expected stored layout without exif, got %v", img.Bounds())
	}

	rotatedPath := filepath.Join(dir, "rotated.JPG")
	if err := os.WriteFile(rotatedPath, withOrientation(t, plain, 6), 0o644); err != nil {
		t.Fatal(err)
	}
	img, err = imagefile.Read(rotatedPath)
	if err != nil {
		t.Fatalf("Read rotated: %v", err)
	}
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 64 {
		t.Fatalf("expected displayed layout 32x64, got %v", img.Bounds())
	}
}

func TestReadFailuresAreDecodeErrors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "scan.dng")
	if err := os.WriteFile(garbage, []byte("not an image at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{garbage, filepath.Join(dir, "missing.png")} {
		if _, err := imagefile.Read(path); !errors.Is(err, failures.ErrDecode) {
			t.Fatalf("Read(%s): expected decode error, got %v", filepath.Base(path), err)
		}
	}
}

func TestApplyOrientation(t *testing.T) {
	// 3x2 source:
	//   a b c
	//   d e f
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	for i := 0; i < 6; i++ {
		src.SetRGBA(i%3, i/3, color.RGBA{R: byte('a' + i), A: 0xff})
	}
	tests := []struct {
		orientation int
		want        []string
	}{
		{1, []string{"abc", "def"}},
		{2, []string{"cba", "fed"}},
		{3, []string{"fed", "cba"}},
		{4, []string{"def", "abc"}},
		{5, []string{"ad", "be", "cf"}},
		{6, []string{"da", "eb", "fc"}},
		{7, []string{"fc", "eb", "da"}},
		{8, []string{"cf", "be", "ad"}},
	}
	for _, tt := range tests {
		got := imagefile.ApplyOrientation(src, tt.orientation)
		if got.Bounds().Dy() != len(tt.want) || got.Bounds().Dx() != len(tt.want[0]) {
			t.Fatalf("orientation %d: unexpected bounds %v", tt.orientation, got.Bounds())
		}
		for y, row := range tt.want {
			for x := range row {
				if got.RGBAAt(x, y).R != row[x] {
					t.Fatalf("orientation %d: pixel (%d,%d) = %c, want %c", tt.orientation, x, y, got.RGBAAt(x, y).R, row[x])
				}
			}
		}
	}
}

func TestToRGBANormalizesOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 9, 8))
	src.SetRGBA(5, 5, color.RGBA{R: 200, A: 255})
	out := imagefile.ToRGBA(src)
	if out.Bounds() != image.Rect(0, 0, 4, 3) {
		t.Fatalf("unexpected bounds %v", out.Bounds())
	}
	if out.RGBAAt(0, 0).R != 200 {
		t.Fatalf("expected origin pixel to be moved, got %+v", out.RGBAAt(0, 0))
	}
	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	if conv := imagefile.ToRGBA(gray); conv.Bounds().Dx() != 2 {
		t.Fatalf("unexpected converted bounds %v", conv.Bounds())
	}
}

func TestEncodePNGRoundTrip(t *testing.T) {
	data, err := imagefile.EncodePNG(testsupport.NewImage(12, 7))
	if err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Width != 12 || cfg.Height != 7 {
		t.Fatalf("unexpected size %dx%d", cfg.Width, cfg.Height)
	}
}
