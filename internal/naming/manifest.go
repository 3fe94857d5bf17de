package naming

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"fieldprep/internal/discovery"
	"fieldprep/internal/failures"
	"fieldprep/internal/fileutil"
)

// Entry is the provenance of one generated name prefix.
type Entry struct {
	ImageName string `json:"image_name"`
	Field     string `json:"field"`
	Date      string `json:"date"`
}

// Manifest maps source basenames to entries for one run.
type Manifest struct {
	entries map[string]Entry
}

// NewManifest returns an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{entries: make(map[string]Entry)}
}

// add stores entry under base. When base is taken by another source, the
// entry is stored under field/date/base instead and collided is true.
func (m *Manifest) add(base string, entry Entry) (key string, collided bool) {
	if _, taken := m.entries[base]; !taken {
		m.entries[base] = entry
		return base, false
	}
	key = path.Join(entry.Field, entry.Date, base)
	if _, taken := m.entries[key]; taken {
		// Same field, date and basename: only possible with duplicate
		// discovery, keep both distinct by prefix.
		key = path.Join(entry.Field, entry.Date, entry.ImageName, base)
	}
	m.entries[key] = entry
	return key, true
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	return len(m.entries)
}

// MarshalJSON renders the manifest with sorted keys and two-space indent so
// identical inputs always produce identical bytes.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(m.entries, "", "  ")
}

// Save overwrites every target path with the manifest. A failing target does
// not stop the others; all failures are returned joined.
func (m *Manifest) Save(paths ...string) error {
	payload, err := m.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	payload = append(payload, '\n')

	var errs []error
	for _, target := range paths {
		if strings.TrimSpace(target) == "" {
			continue
		}
		if err := fileutil.WriteFileAtomic(target, payload, 0o644); err != nil {
			errs = append(errs, failures.Wrap(failures.ErrWrite, target, "save manifest", "", err))
		}
	}
	return errors.Join(errs...)
}

// FileName returns the manifest file name for one asset kind, the processed
// fields and the output resolution, e.g. videos_bbro_near30_1920x1080.json.
func FileName(kind discovery.Kind, fields []string, width, height int) string {
	label := "images"
	if kind == discovery.KindVideo {
		label = "videos"
	}
	return fmt.Sprintf("%s_%s_%dx%d.json", label, strings.Join(fields, "_"), width, height)
}
