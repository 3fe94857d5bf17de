// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: per-stream codec, dimensions, and frame counters
//
// Inspect runs ffprobe and returns a Result; Parse decodes a captured payload.
// Helper methods estimate a video's frame count so the pipeline can log
// sampling progress before decoding begins.
package ffprobe
