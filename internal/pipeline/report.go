package pipeline

import "fieldprep/internal/failures"

// FieldReport counts the work done for one field.
type FieldReport struct {
	Field string
	Dates int
	// Videos and Images count discovered source assets.
	Videos int
	Images int
	// Frames counts video frames that reached at least one destination.
	Frames int
	// Outputs counts PNG files written, both destinations included.
	Outputs int
	Skips   int
}

// Report summarizes a run.
type Report struct {
	Fields    []FieldReport
	Skips     []failures.Skip
	Manifests []string
}

// HasSkips reports whether any unit of work was abandoned.
func (r Report) HasSkips() bool {
	return len(r.Skips) > 0
}

// Totals sums the per-field counters.
func (r Report) Totals() FieldReport {
	total := FieldReport{Field: "total"}
	for _, f := range r.Fields {
		total.Dates += f.Dates
		total.Videos += f.Videos
		total.Images += f.Images
		total.Frames += f.Frames
		total.Outputs += f.Outputs
		total.Skips += f.Skips
	}
	return total
}

// SkipsByKind groups skip counts by failure kind.
func (r Report) SkipsByKind() map[string]int {
	counts := make(map[string]int)
	for _, s := range r.Skips {
		counts[s.Kind]++
	}
	return counts
}
