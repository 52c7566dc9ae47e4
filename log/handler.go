package log

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

// formatterHandler adapts a LogFormatter to the slog.Handler interface, so
// TextFormatter/JSONFormatter/ColorFormatter can back a Logger the same way
// slog.NewJSONHandler does.
type formatterHandler struct {
	mu        *sync.Mutex
	w         io.Writer
	formatter LogFormatter
	level     slog.Leveler
	attrs     map[string]interface{}
	group     string
}

func newFormatterHandler(w io.Writer, formatter LogFormatter, level slog.Leveler) *formatterHandler {
	return &formatterHandler{
		mu:        &sync.Mutex{},
		w:         w,
		formatter: formatter,
		level:     level,
		attrs:     map[string]interface{}{},
	}
}

func slogLevelToLogLevel(l slog.Level) LogLevel {
	switch {
	case l < slog.LevelInfo:
		return DEBUG
	case l < slog.LevelWarn:
		return INFO
	case l < slog.LevelError:
		return WARN
	default:
		return ERROR
	}
}

func (h *formatterHandler) Enabled(_ context.Context, level slog.Level) bool {
	min := slog.LevelInfo
	if h.level != nil {
		min = h.level.Level()
	}
	return level >= min
}

func (h *formatterHandler) attrKey(name string) string {
	if h.group == "" {
		return name
	}
	return h.group + "." + name
}

func (h *formatterHandler) Handle(_ context.Context, rec slog.Record) error {
	fields := make(map[string]interface{}, len(h.attrs)+rec.NumAttrs())
	for k, v := range h.attrs {
		fields[k] = v
	}
	rec.Attrs(func(a slog.Attr) bool {
		fields[h.attrKey(a.Key)] = a.Value.Any()
		return true
	})

	entry := LogEntry{
		Timestamp: rec.Time,
		Level:     slogLevelToLogLevel(rec.Level),
		Message:   rec.Message,
		Fields:    fields,
	}

	line := h.formatter.Format(entry) + "\n"

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, line)
	return err
}

func (h *formatterHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &formatterHandler{
		mu:        h.mu,
		w:         h.w,
		formatter: h.formatter,
		level:     h.level,
		group:     h.group,
		attrs:     make(map[string]interface{}, len(h.attrs)+len(attrs)),
	}
	for k, v := range h.attrs {
		next.attrs[k] = v
	}
	for _, a := range attrs {
		next.attrs[h.attrKey(a.Key)] = a.Value.Any()
	}
	return next
}

func (h *formatterHandler) WithGroup(name string) slog.Handler {
	next := &formatterHandler{
		mu:        h.mu,
		w:         h.w,
		formatter: h.formatter,
		level:     h.level,
		attrs:     h.attrs,
		group:     name,
	}
	return next
}
