package pipeline

import (
	"context"
	"image"

	"fieldprep/internal/media/ffmpeg"
	"fieldprep/internal/media/imagefile"
	"fieldprep/internal/output"
	"fieldprep/internal/sampler"
)

// VideoDecoder opens decode sessions. Probe may return 0 when the frame
// count is unknown.
type VideoDecoder interface {
	Probe(ctx context.Context, path string) (int, error)
	Open(ctx context.Context, path string) (sampler.Source, error)
}

// ImageReader decodes a still image.
type ImageReader func(path string) (*image.RGBA, error)

// FrameWriter persists one normalized frame.
type FrameWriter interface {
	Write(img image.Image, dest output.Destination) (output.Result, error)
}

// Dependencies are the media collaborators of a run.
type Dependencies struct {
	Videos VideoDecoder
	Images ImageReader
	Writer FrameWriter
}

// DefaultDependencies wires the ffmpeg decoder, the image file reader and the
// PNG writer.
func DefaultDependencies(ffmpegBinary, ffprobeBinary string) Dependencies {
	return Dependencies{
		Videos: ffmpegVideos{decoder: ffmpeg.NewDecoder(ffmpegBinary, ffprobeBinary)},
		Images: imagefile.Read,
		Writer: output.NewWriter(),
	}
}

type ffmpegVideos struct {
	decoder *ffmpeg.Decoder
}

func (v ffmpegVideos) Probe(ctx context.Context, path string) (int, error) {
	return v.decoder.Probe(ctx, path)
}

func (v ffmpegVideos) Open(ctx context.Context, path string) (sampler.Source, error) {
	stream, err := v.decoder.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	return stream, nil
}
