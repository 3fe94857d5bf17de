package sampler

import (
	"errors"
	"fmt"
	"image"
	"io"
	"iter"
	"sync"

	"fieldprep/internal/failures"
)

// Source is a decoder handle over one video stream. Next returns io.EOF once
// the stream is exhausted.
type Source interface {
	Next() (*image.RGBA, error)
	Close() error
}

// Sampler yields every interval-th frame of a Source exactly once.
type Sampler struct {
	src      Source
	interval int
	label    string

	started   bool
	err       error
	closeOnce sync.Once
	closeErr  error
}

// New wraps src. interval must be at least 1. label names the source in
// wrapped errors and may be empty.
func New(src Source, interval int, label string) (*Sampler, error) {
	if src == nil {
		return nil, errors.New("sampler: nil source")
	}
	if interval < 1 {
		_ = src.Close()
		return nil, fmt.Errorf("sampler: frame interval must be >= 1, got %d", interval)
	}
	return &Sampler{src: src, interval: interval, label: label}, nil
}

// Frames returns the sampled frames keyed by their 0-based sample sequence
// number. Frame index i of the stream is yielded iff i % interval == 0. The
// sequence can be ranged over once; later calls yield nothing. The source is
// closed when the stream ends, fails, or the consumer stops early.
func (s *Sampler) Frames() iter.Seq2[int, *image.RGBA] {
	return func(yield func(int, *image.RGBA) bool) {
		if s.started {
			return
		}
		s.started = true
		defer s.Close()

		seq := 0
		for index := 0; ; index++ {
			frame, err := s.src.Next()
			if err != nil {
				if !errors.Is(err, io.EOF) {
					s.err = failures.Wrap(failures.ErrDecode, s.label, "read frame", fmt.Sprintf("frame %d", index), err)
				}
				return
			}
			if index%s.interval != 0 {
				continue
			}
			if !yield(seq, frame) {
				return
			}
			seq++
		}
	}
}

// Err reports the decode error that truncated the sequence, if any.
func (s *Sampler) Err() error {
	return s.err
}

// Close releases the source. Safe to call more than once. A sampler closed
// before iteration yields nothing.
func (s *Sampler) Close() error {
	s.started = true
	s.closeOnce.Do(func() {
		s.closeErr = s.src.Close()
	})
	return s.closeErr
}
