package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"fieldprep/internal/config"
)

// logFileName is the file mirrored into paths.log_dir.
const logFileName = "fieldprep.log"

// New returns a logger that writes to w in format "console" or "json".
// Unknown levels fall back to info. At debug level every line carries its
// caller.
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl := parseLevel(level)
	opts := &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   lvl <= slog.LevelDebug,
		ReplaceAttr: jsonKeys,
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "", "console":
		return slog.New(&consoleHandler{mu: new(sync.Mutex), w: w, opts: opts}), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", format)
	}
}

// NewFromConfig logs to stderr and, when paths.log_dir is set, appends the
// same lines to logFileName inside it. stdout stays free for the run summary.
// The returned func closes the log file.
func NewFromConfig(cfg *config.Config) (*slog.Logger, func() error, error) {
	noClose := func() error { return nil }
	if cfg == nil {
		logger, err := New(os.Stderr, "info", "console")
		return logger, noClose, err
	}
	if cfg.Paths.LogDir == "" {
		logger, err := New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
		return logger, noClose, err
	}

	if err := os.MkdirAll(cfg.Paths.LogDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("ensure log directory: %w", err)
	}
	path := filepath.Join(cfg.Paths.LogDir, logFileName)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	logger, err := New(io.MultiWriter(os.Stderr, file), cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}
	return logger, file.Close, nil
}

func parseLevel(level string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// jsonKeys shortens the built-in keys and renders time in UTC and the caller
// as file:line.
func jsonKeys(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return attr
	}
	switch attr.Key {
	case slog.TimeKey:
		attr.Key = "ts"
		if attr.Value.Kind() == slog.KindTime {
			attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339))
		}
	case slog.LevelKey:
		attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
	case slog.SourceKey:
		if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
			attr.Value = slog.StringValue(caller(src))
		}
	}
	return attr
}

func caller(src *slog.Source) string {
	return filepath.Base(src.File) + ":" + strconv.Itoa(src.Line)
}

// consoleHandler writes one human-readable line per record:
//
//	2021-06-01T10:00:00Z WARN  pipeline: skipped asset [bbro/2021-06-01/a.mp4] kind=decode
//
// The component becomes the line prefix and field, date and source collapse
// into the bracketed asset location. Everything else follows as key=value.
type consoleHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	opts   *slog.HandlerOptions
	attrs  []scopedAttr
	prefix string
}

type scopedAttr struct {
	prefix string
	attr   slog.Attr
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	var line consoleLine
	for _, a := range h.attrs {
		line.add(a.prefix, a.attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		line.add(h.prefix, attr)
		return true
	})

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	var buf bytes.Buffer
	buf.WriteString(ts.UTC().Format(time.RFC3339))
	fmt.Fprintf(&buf, " %-5s ", levelLabel(record.Level))
	if line.component != "" {
		buf.WriteString(line.component)
		buf.WriteString(": ")
	}
	buf.WriteString(strings.TrimSpace(record.Message))
	if loc := line.location(); loc != "" {
		buf.WriteString(" [")
		buf.WriteString(loc)
		buf.WriteByte(']')
	}
	if h.opts.AddSource {
		if src := record.Source(); src != nil {
			buf.WriteString(" (")
			buf.WriteString(caller(src))
			buf.WriteByte(')')
		}
	}
	for _, attr := range line.tail {
		buf.WriteByte(' ')
		buf.WriteString(attr.Key)
		buf.WriteByte('=')
		buf.WriteString(quoteIfNeeded(attr.Value.String()))
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = make([]scopedAttr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, attr := range attrs {
		clone.attrs = append(clone.attrs, scopedAttr{prefix: h.prefix, attr: attr})
	}
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

type consoleLine struct {
	component string
	field     string
	date      string
	source    string
	tail      []slog.Attr
}

// add records attr; later values of the lifted keys replace earlier ones so a
// record's own source wins over the logger's.
func (l *consoleLine) add(prefix string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}
	if attr.Value.Kind() == slog.KindGroup {
		if attr.Key != "" {
			prefix += attr.Key + "."
		}
		for _, member := range attr.Value.Group() {
			l.add(prefix, member)
		}
		return
	}
	if prefix == "" {
		switch attr.Key {
		case FieldComponent:
			l.component = attr.Value.String()
			return
		case FieldField:
			l.field = attr.Value.String()
			return
		case FieldDate:
			l.date = attr.Value.String()
			return
		case FieldSource:
			l.source = attr.Value.String()
			return
		}
	}
	attr.Key = prefix + attr.Key
	l.tail = append(l.tail, attr)
}

func (l *consoleLine) location() string {
	parts := make([]string, 0, 3)
	for _, part := range []string{l.field, l.date, l.source} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, "/")
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
