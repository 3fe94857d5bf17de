package naming

import (
	"fmt"
	"log/slog"

	"fieldprep/internal/discovery"
	"fieldprep/internal/logging"
)

// Name is the generated prefix for one source asset.
type Name struct {
	Prefix string
	Index  int
}

// Image returns the output base name for a still image.
func (n Name) Image() string {
	return n.Prefix
}

// Frame returns the output base name for the seq-th frame sampled from a video.
func (n Name) Frame(seq int) string {
	return fmt.Sprintf("%s_%d", n.Prefix, seq)
}

type groupKey struct {
	field string
	date  string
	kind  discovery.Kind
}

// Builder hands out per-(field, date, kind) counters and records one
// manifest entry per assigned asset. It is not safe for concurrent use.
type Builder struct {
	counters map[groupKey]int
	videos   *Manifest
	images   *Manifest
	logger   *slog.Logger
}

// NewBuilder returns a Builder with empty manifests.
func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Builder{
		counters: make(map[groupKey]int),
		videos:   NewManifest(),
		images:   NewManifest(),
		logger:   logger,
	}
}

// Assign takes the next counter value for the asset's group and records the
// asset in the manifest for its kind.
func (b *Builder) Assign(asset discovery.Asset) Name {
	key := groupKey{field: asset.Field, date: asset.Date, kind: asset.Kind}
	index := b.counters[key]
	b.counters[key] = index + 1

	name := Name{
		Prefix: fmt.Sprintf("%s_%s_%s_%d", asset.Field, asset.Date, asset.Kind.Code(), index),
		Index:  index,
	}
	entry := Entry{ImageName: name.Prefix, Field: asset.Field, Date: asset.Date}
	manifestKey, collided := b.Manifest(asset.Kind).add(asset.Base(), entry)
	if collided {
		logging.WarnWithContext(b.logger, "manifest key collision", "manifest_key_collision",
			logging.String(logging.FieldSource, asset.Base()),
			logging.String("manifest_key", manifestKey),
			logging.String(logging.FieldField, asset.Field),
			logging.String(logging.FieldDate, asset.Date),
			logging.String(logging.FieldErrorHint, "rename duplicate source files to keep manifest keys flat"),
			logging.String(logging.FieldImpact, "entry stored under a qualified key"),
		)
	}
	return name
}

// Manifest returns the manifest for kind.
func (b *Builder) Manifest(kind discovery.Kind) *Manifest {
	if kind == discovery.KindVideo {
		return b.videos
	}
	return b.images
}
