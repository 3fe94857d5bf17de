// Package pipeline orchestrates a fieldprep run.
//
// For every field it discovers the date recordings, then for every date it
// handles videos before images: each asset gets its name from the naming
// builder, is decoded (sampled, for videos), normalized, and written to both
// output trees. Failures are contained at the smallest scope and recorded as
// skips; the manifests are rewritten after each field as a checkpoint.
//
// Work is strictly sequential. The only shared state, the name counters and
// the manifests, belongs to the Pipeline for the duration of Run.
package pipeline
