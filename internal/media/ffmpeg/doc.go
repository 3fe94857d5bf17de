// Package ffmpeg decodes video files into RGBA frames by running ffmpeg as a
// subprocess.
//
// The command line is assembled with ffmpeg-go and asks ffmpeg for a raw PPM
// image stream on stdout, which PPMReader parses one frame at a time. Each
// Stream owns exactly one process; Close kills and reaps it when the caller
// stops reading early.
package ffmpeg
