package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"fieldprep/internal/failures"
)

// Options selects which collections are required and scanned.
type Options struct {
	Videos bool
	Images bool
}

// Discover scans <inputRoot>/<field>. A missing or unreadable field directory
// fails the whole field. Dates whose required collections are missing are
// reported as DateFailures and left out of the dataset; sibling dates are
// unaffected.
func Discover(inputRoot, field string, opts Options) (FieldDataset, []DateFailure, error) {
	fieldRoot := filepath.Join(inputRoot, field)
	dataset := FieldDataset{Field: field, Root: fieldRoot}

	dates, err := listEntries(fieldRoot, true)
	if err != nil {
		return dataset, nil, failures.Wrap(failures.ErrDiscovery, "field "+field, "list dates", "", err)
	}

	var failed []DateFailure
	for _, date := range dates {
		recording, err := DiscoverDate(fieldRoot, field, date, opts)
		if err != nil {
			failed = append(failed, DateFailure{Date: date, Err: err})
			continue
		}
		dataset.Dates = append(dataset.Dates, recording)
	}
	return dataset, failed, nil
}

// DiscoverDate scans one date directory. Each enabled collection directory
// must exist; files inside are classified by extension and sorted by name.
func DiscoverDate(fieldRoot, field, date string, opts Options) (DateRecording, error) {
	dateDir := filepath.Join(fieldRoot, date)
	recording := DateRecording{
		Field:     field,
		Date:      date,
		Dir:       dateDir,
		VideosDir: filepath.Join(dateDir, KindVideo.Dir()),
		ImagesDir: filepath.Join(dateDir, KindImage.Dir()),
	}

	if opts.Videos {
		assets, err := scanCollection(recording.VideosDir, field, date, KindVideo)
		if err != nil {
			return recording, err
		}
		recording.Videos = assets
	}
	if opts.Images {
		assets, err := scanCollection(recording.ImagesDir, field, date, KindImage)
		if err != nil {
			return recording, err
		}
		recording.Images = assets
	}
	return recording, nil
}

func scanCollection(dir, field, date string, kind Kind) ([]Asset, error) {
	names, err := listEntries(dir, false)
	if err != nil {
		return nil, failures.Wrap(failures.ErrDiscovery, fmt.Sprintf("%s/%s", field, date), "list "+kind.Dir(), "", err)
	}
	assets := make([]Asset, 0, len(names))
	for _, name := range names {
		got, ok := Classify(name)
		if !ok || got != kind {
			continue
		}
		assets = append(assets, Asset{
			Path:  filepath.Join(dir, name),
			Field: field,
			Date:  date,
			Kind:  kind,
			Index: len(assets),
		})
	}
	return assets, nil
}

// listEntries returns the sorted, non-hidden entry names of dir, keeping
// either directories (dirs=true) or regular files.
func listEntries(dir string, dirs bool) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if entry.IsDir() != dirs {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}
