package discovery

import "path/filepath"

// Kind distinguishes the two asset collections of a date recording.
type Kind string

const (
	KindVideo Kind = "video"
	KindImage Kind = "image"
)

// Dir returns the collection directory name used in both the input and the
// field-scoped output trees.
func (k Kind) Dir() string {
	if k == KindVideo {
		return "videos"
	}
	return "raw_images"
}

// Code returns the single-letter tag used in generated names.
func (k Kind) Code() string {
	if k == KindVideo {
		return "v"
	}
	return "i"
}

// Asset is a discovered source file. Index is its position in the sorted
// per-date, per-kind list.
type Asset struct {
	Path  string
	Field string
	Date  string
	Kind  Kind
	Index int
}

// Base returns the source basename used as the manifest key.
func (a Asset) Base() string {
	return filepath.Base(a.Path)
}

// DateRecording is one capture session under a field.
type DateRecording struct {
	Field     string
	Date      string
	Dir       string
	VideosDir string
	ImagesDir string
	Videos    []Asset
	Images    []Asset
}

// Total returns the number of assets of both kinds.
func (d DateRecording) Total() int {
	return len(d.Videos) + len(d.Images)
}

// FieldDataset is a field and its date recordings in name order.
type FieldDataset struct {
	Field string
	Root  string
	Dates []DateRecording
}

// DateFailure reports a date directory that could not be scanned.
type DateFailure struct {
	Date string
	Err  error
}
