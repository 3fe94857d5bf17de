package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for the run identifier.
	FieldRunID = "run_id"
	// FieldField is the standardized structured logging key for the collection site.
	FieldField = "field"
	// FieldDate is the standardized structured logging key for the date recording.
	FieldDate = "date"
	// FieldSource is the standardized structured logging key for the source asset basename.
	FieldSource = "source"
)

type contextKey string

const (
	runIDKey contextKey = "run_id"
	fieldKey contextKey = "field"
	dateKey  contextKey = "date"
)

// WithRunID annotates context with the run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// WithField annotates context with the field being processed.
func WithField(ctx context.Context, field string) context.Context {
	if field == "" {
		return ctx
	}
	return context.WithValue(ctx, fieldKey, field)
}

// WithDate annotates context with the date recording being processed.
func WithDate(ctx context.Context, date string) context.Context {
	if date == "" {
		return ctx
	}
	return context.WithValue(ctx, dateKey, date)
}

func stringFromContext(ctx context.Context, key contextKey) (string, bool) {
	if v, ok := ctx.Value(key).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := stringFromContext(ctx, runIDKey); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if field, ok := stringFromContext(ctx, fieldKey); ok {
		fields = append(fields, slog.String(FieldField, field))
	}
	if date, ok := stringFromContext(ctx, dateKey); ok {
		fields = append(fields, slog.String(FieldDate, date))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return slog.New(logger.Handler().WithAttrs(fields))
}
