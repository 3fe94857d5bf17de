// Package discovery walks a field's date recordings and classifies the raw
// assets it finds.
//
// The expected layout is <root>/<field>/<date>/{videos,raw_images}/<files>.
// Dates and files are returned in name order so that every later stage
// (naming counters in particular) sees a stable sequence across runs.
package discovery
