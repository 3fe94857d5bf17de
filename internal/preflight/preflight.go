package preflight

import (
	"fmt"
	"strings"

	"fieldprep/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the checks a run depends on: the input root must be
// readable, the output and manifest directories writable, and the media tools
// present when videos are enabled. Output directories are expected to exist
// already (see config.EnsureDirectories).
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryReadable("Input root", cfg.Paths.InputRoot),
		CheckDirectoryAccess("Output root", cfg.Paths.OutputRoot),
	}
	if cfg.Paths.ManifestDir != cfg.Paths.OutputRoot {
		results = append(results, CheckDirectoryAccess("Manifest directory", cfg.Paths.ManifestDir))
	}

	for _, status := range CheckSystemDeps(cfg) {
		result := Result{Name: status.Name, Passed: status.Available || status.Optional}
		switch {
		case status.Available:
			result.Detail = status.Path
		case status.Optional:
			result.Detail = "not found (not needed: videos disabled)"
		default:
			result.Detail = status.Detail
		}
		results = append(results, result)
	}
	return results
}

// Failed returns a combined error for every failed result, or nil.
func Failed(results []Result) error {
	var problems []string
	for _, r := range results {
		if !r.Passed {
			problems = append(problems, fmt.Sprintf("%s: %s", r.Name, r.Detail))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("preflight failed: %s", strings.Join(problems, "; "))
}
