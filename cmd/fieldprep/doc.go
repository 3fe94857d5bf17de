// Package main hosts the fieldprep CLI entrypoint and command graph.
//
// The Cobra-based command tree resolves configuration, applies flag
// overrides, runs preflight checks and the run lock, then hands the resolved
// options to the pipeline and renders its report as a summary table. The
// config and deps subcommands help set up a machine before the first run.
//
// Keep this package lean: behavior belongs in the internal packages, and
// commands here only translate flags into their inputs.
package main
