package ffmpeg

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"io"
	"strconv"
)

// maxDimension bounds header values so a corrupt stream cannot trigger a huge
// allocation.
const maxDimension = 1 << 15

// PPMReader decodes a concatenated stream of binary (P6) PPM images, the
// format ffmpeg emits for `-f image2pipe -vcodec ppm`.
type PPMReader struct {
	r *bufio.Reader
}

// NewPPMReader wraps r.
func NewPPMReader(r io.Reader) *PPMReader {
	return &PPMReader{r: bufio.NewReaderSize(r, 1<<20)}
}

// Next decodes the following frame. It returns io.EOF when the stream ends
// cleanly between frames and io.ErrUnexpectedEOF for a truncated frame.
func (p *PPMReader) Next() (*image.RGBA, error) {
	magic := make([]byte, 2)
	n, err := io.ReadFull(p.r, magic)
	if err != nil {
		if n == 0 && errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, io.ErrUnexpectedEOF
	}
	if magic[0] != 'P' || magic[1] != '6' {
		return nil, fmt.Errorf("ppm: bad magic %q", magic)
	}

	width, err := p.headerInt()
	if err != nil {
		return nil, fmt.Errorf("ppm width: %w", err)
	}
	height, err := p.headerInt()
	if err != nil {
		return nil, fmt.Errorf("ppm height: %w", err)
	}
	maxval, err := p.headerInt()
	if err != nil {
		return nil, fmt.Errorf("ppm maxval: %w", err)
	}
	if width <= 0 || height <= 0 || width > maxDimension || height > maxDimension {
		return nil, fmt.Errorf("ppm: invalid dimensions %dx%d", width, height)
	}
	if maxval != 255 {
		return nil, fmt.Errorf("ppm: unsupported maxval %d", maxval)
	}
	// Exactly one whitespace byte separates the header from the raster.
	if _, err := p.r.ReadByte(); err != nil {
		return nil, io.ErrUnexpectedEOF
	}

	row := make([]byte, width*3)
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		if _, err := io.ReadFull(p.r, row); err != nil {
			return nil, io.ErrUnexpectedEOF
		}
		off := y * img.Stride
		for x := 0; x < width; x++ {
			img.Pix[off+x*4] = row[x*3]
			img.Pix[off+x*4+1] = row[x*3+1]
			img.Pix[off+x*4+2] = row[x*3+2]
			img.Pix[off+x*4+3] = 0xff
		}
	}
	return img, nil
}

// headerInt skips whitespace and '#' comments, then reads a decimal token.
func (p *PPMReader) headerInt() (int, error) {
	var digits []byte
	for {
		b, err := p.r.ReadByte()
		if err != nil {
			return 0, io.ErrUnexpectedEOF
		}
		switch {
		case b == '#' && len(digits) == 0:
			if _, err := p.r.ReadBytes('\n'); err != nil {
				return 0, io.ErrUnexpectedEOF
			}
		case isSpace(b):
			if len(digits) > 0 {
				if err := p.r.UnreadByte(); err != nil {
					return 0, err
				}
				return strconv.Atoi(string(digits))
			}
		case b >= '0' && b <= '9':
			digits = append(digits, b)
			if len(digits) > 6 {
				return 0, errors.New("header value too long")
			}
		default:
			return 0, fmt.Errorf("unexpected byte %q", b)
		}
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f'
}
