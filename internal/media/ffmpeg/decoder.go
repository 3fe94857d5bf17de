package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	ffmpeggo "github.com/u2takey/ffmpeg-go"

	"fieldprep/internal/failures"
	"fieldprep/internal/media/ffprobe"
)

const (
	stderrTailBytes = 4096
	waitDelay       = 5 * time.Second
)

// Decoder starts ffmpeg decode sessions for video files.
type Decoder struct {
	FFmpeg  string
	FFprobe string
}

// NewDecoder returns a Decoder using the given binaries; empty names fall
// back to the binaries on PATH.
func NewDecoder(ffmpegBinary, ffprobeBinary string) *Decoder {
	return &Decoder{FFmpeg: ffmpegBinary, FFprobe: ffprobeBinary}
}

// DecodeArgs builds the ffmpeg argument list that decodes every frame of path
// as a PPM stream on stdout.
func DecodeArgs(path string) []string {
	return ffmpeggo.
		Input(path, ffmpeggo.KwArgs{"loglevel": "error"}).
		Output("pipe:", ffmpeggo.KwArgs{
			"f":       "image2pipe",
			"vcodec":  "ppm",
			"pix_fmt": "rgb24",
			"vsync":   "passthrough",
		}).
		GetArgs()
}

// Probe returns an estimate of the number of frames in path's first video
// stream. A file with no video stream is a decode error.
func (d *Decoder) Probe(ctx context.Context, path string) (int, error) {
	result, err := ffprobe.Inspect(ctx, d.FFprobe, path)
	if err != nil {
		return 0, failures.Wrap(failures.ErrDecode, path, "probe", "", err)
	}
	stream, ok := result.VideoStream()
	if !ok {
		return 0, failures.Wrap(failures.ErrDecode, path, "probe", "no video stream", nil)
	}
	return stream.FrameCount(result.DurationSeconds()), nil
}

// Open starts an ffmpeg process decoding path. The returned Stream must be
// closed; Close kills and reaps the process if it is still running.
func (d *Decoder) Open(ctx context.Context, path string) (*Stream, error) {
	binary := strings.TrimSpace(d.FFmpeg)
	if binary == "" {
		binary = "ffmpeg"
	}
	procCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(procCtx, binary, DecodeArgs(path)...)
	cmd.WaitDelay = waitDelay
	stderr := &tailBuffer{limit: stderrTailBytes}
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, failures.Wrap(failures.ErrDecode, path, "open", "stdout pipe", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, failures.Wrap(failures.ErrDecode, path, "open", "start ffmpeg", err)
	}
	return &Stream{
		path:   path,
		cmd:    cmd,
		cancel: cancel,
		reader: NewPPMReader(stdout),
		stderr: stderr,
	}, nil
}

// Stream is one running decode session.
type Stream struct {
	path   string
	cmd    *exec.Cmd
	cancel context.CancelFunc
	reader *PPMReader
	stderr *tailBuffer

	done      bool
	waitErr   error
	waitOnce  sync.Once
	closeOnce sync.Once
}

// Next returns the following decoded frame, io.EOF after the last frame of a
// successful decode, or a decode error when ffmpeg failed or the stream was
// truncated.
func (s *Stream) Next() (*image.RGBA, error) {
	if s.done {
		return nil, io.EOF
	}
	frame, err := s.reader.Next()
	if err == nil {
		return frame, nil
	}
	s.done = true
	if errors.Is(err, io.EOF) {
		if waitErr := s.wait(); waitErr != nil {
			return nil, failures.Wrap(failures.ErrDecode, s.path, "ffmpeg exited", s.stderr.String(), waitErr)
		}
		return nil, io.EOF
	}
	s.cancel()
	waitErr := s.wait()
	if waitErr != nil && !stopped(waitErr) {
		err = errors.Join(err, waitErr)
	}
	return nil, failures.Wrap(failures.ErrDecode, s.path, "read frame", s.stderr.String(), err)
}

// Close stops the ffmpeg process if needed and releases its resources.
func (s *Stream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.done = true
		s.cancel()
		if waitErr := s.wait(); waitErr != nil && !stopped(waitErr) {
			err = fmt.Errorf("ffmpeg %s: %w", s.path, waitErr)
		}
	})
	return err
}

func (s *Stream) wait() error {
	s.waitOnce.Do(func() {
		s.waitErr = s.cmd.Wait()
	})
	return s.waitErr
}

// stopped reports whether err came from the process being killed on our
// request rather than from ffmpeg itself failing.
func stopped(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, exec.ErrWaitDelay) {
		return true
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	return !exitErr.Exited()
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	mu    sync.Mutex
	limit int
	buf   []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.limit; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.TrimSpace(string(t.buf))
}
