// Package config loads, normalizes, and validates fieldprep configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the FIELDPREP_FIELDS environment
// fallback. The Config type centralizes every knob the pipeline and CLI need:
// where the field trees live, where normalized output goes, how frames are
// sampled, and which geometric transforms run.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical enum values, and clear validation errors.
package config
