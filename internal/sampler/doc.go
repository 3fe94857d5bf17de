// Package sampler turns a frame decoder into a finite, lazy sequence of
// every N-th frame.
//
// A Sampler is single-use. Ranging over Frames drains the underlying Source
// and releases it on every exit path; a decode error part way through stops
// the sequence and is reported by Err while the frames already yielded stay
// valid.
package sampler
