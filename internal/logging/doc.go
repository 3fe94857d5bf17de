// Package logging builds the slog loggers used across fieldprep.
//
// Console output puts the component first and folds field, date and source
// into one bracketed asset location, so a skipped frame reads as
// "pipeline: skipped asset [bbro/2021-06-01/clip.mp4#2]". JSON output keeps
// every attribute as a flat key. Context helpers tag lines with the run id,
// field and date, and a progress sampler keeps per-asset progress lines from
// flooding the console.
package logging
