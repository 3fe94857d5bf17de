// Package naming generates deterministic output names and keeps the
// source-to-name manifests of a run.
//
// Names follow {field}_{date}_{v|i}_{n}, where n counts assets of one kind
// within one field and date in discovery order. Video frames append the
// sample sequence number. Manifests are rebuilt every run and written by
// full overwrite.
package naming
