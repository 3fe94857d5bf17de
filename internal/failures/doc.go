// Package failures defines the error taxonomy shared by the fieldprep
// pipeline.
//
// Key responsibilities:
//   - Sentinel markers (discovery, decode, geometry, write, configuration)
//     that classify failures by the scope they affect.
//   - The Wrap helper that attaches scope/operation context while keeping the
//     marker and the underlying cause reachable through errors.Is.
//   - The Skip record the orchestrator collects instead of propagating
//     asset- and date-scoped failures.
//
// Wrap every failure that crosses a package boundary so the orchestrator can
// classify it without string matching.
package failures
