package main

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"fieldprep/internal/pipeline"
)

const maxReasonWidth = 72

var titleCase = cases.Title(language.English)

// renderSummary formats the run report: per-field counters, then one row per
// skipped unit, then the manifest locations.
func renderSummary(runID string, report pipeline.Report, interrupted bool, fancy bool) string {
	var b strings.Builder
	header := "Run " + runID
	if interrupted {
		header += " (interrupted)"
	}
	for _, line := range renderSectionHeader(header, fancy) {
		b.WriteString(line + "\n")
	}

	headers := []string{"Field", "Dates", "Videos", "Images", "Frames", "Outputs", "Skips"}
	aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight}
	rows := make([][]string, 0, len(report.Fields)+1)
	for _, f := range report.Fields {
		rows = append(rows, fieldRow(f.Field, f))
	}
	if len(report.Fields) > 1 {
		total := report.Totals()
		rows = append(rows, fieldRow(titleCase.String(total.Field), total))
	}
	b.WriteString(renderTable(headers, rows, aligns, fancy) + "\n")

	if len(report.Skips) > 0 {
		b.WriteString("\nSkipped: " + skipBreakdown(report.SkipsByKind()) + "\n")
		skipRows := make([][]string, 0, len(report.Skips))
		for _, s := range report.Skips {
			skipRows = append(skipRows, []string{
				titleCase.String(string(s.Scope)),
				titleCase.String(s.Kind),
				s.Field,
				s.Date,
				s.Source,
				truncate(s.Message, maxReasonWidth),
			})
		}
		b.WriteString(renderTable([]string{"Scope", "Kind", "Field", "Date", "Source", "Reason"}, skipRows, nil, fancy) + "\n")
	}

	if len(report.Manifests) > 0 {
		b.WriteString("\n")
		for _, path := range report.Manifests {
			b.WriteString("Manifest: " + path + "\n")
		}
	}
	return b.String()
}

func fieldRow(label string, f pipeline.FieldReport) []string {
	return []string{
		label,
		strconv.Itoa(f.Dates),
		strconv.Itoa(f.Videos),
		strconv.Itoa(f.Images),
		strconv.Itoa(f.Frames),
		strconv.Itoa(f.Outputs),
		strconv.Itoa(f.Skips),
	}
}

func skipBreakdown(counts map[string]int) string {
	parts := make([]string, 0, len(counts))
	for _, kind := range slices.Sorted(maps.Keys(counts)) {
		parts = append(parts, fmt.Sprintf("%d %s", counts[kind], kind))
	}
	return strings.Join(parts, ", ")
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit-1]) + "…"
}
