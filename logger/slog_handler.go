package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/philipp01105/ulog/core"
)

// SlogHandler is an adapter that implements slog.Handler on top of a
// Logger, so code written against log/slog writes through the same sinks.
// Each slog record becomes one line: the message followed by key=value
// tokens. Group names prefix keys with dots.
type SlogHandler struct {
	l      *Logger
	attrs  []string
	prefix string
}

// NewSlogHandler creates a slog.Handler writing to l
func NewSlogHandler(l *Logger) *SlogHandler {
	return &SlogHandler{l: l}
}

// NewSlogLogger returns a *slog.Logger writing to l
func NewSlogLogger(l *Logger) *slog.Logger {
	return slog.New(NewSlogHandler(l))
}

// Enabled reports whether a record at level would reach any sink
func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.l.Enabled(slogLevelToSeverity(level))
}

// Handle emits the record as one line. Attribute values are resolved
// before the logger's lock is taken, so a LogValuer may itself log.
func (h *SlogHandler) Handle(_ context.Context, record slog.Record) error {
	sev := slogLevelToSeverity(record.Level)
	if !h.l.Enabled(sev) {
		return nil
	}

	var stack [8]string
	tokens := stack[:0]
	record.Attrs(func(a slog.Attr) bool {
		tokens = renderSlogAttr(tokens, h.prefix, a)
		return true
	})

	r := h.l.Begin(sev).Str(record.Message)
	for _, a := range h.attrs {
		r.Str(a)
	}
	for _, a := range tokens {
		r.Str(a)
	}
	r.Emit()
	return nil
}

// WithAttrs returns a new SlogHandler with additional attributes
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	newAttrs := make([]string, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	for _, a := range attrs {
		newAttrs = renderSlogAttr(newAttrs, h.prefix, a)
	}
	return &SlogHandler{
		l:      h.l,
		attrs:  newAttrs,
		prefix: h.prefix,
	}
}

// WithGroup returns a new SlogHandler with the given group name
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &SlogHandler{
		l:      h.l,
		attrs:  h.attrs,
		prefix: h.prefix + name + ".",
	}
}

// slogLevelToSeverity maps slog levels onto severities. Levels below
// Debug become Verbose and levels at or above Error+4 become Fatal.
func slogLevelToSeverity(level slog.Level) core.Severity {
	switch {
	case level >= slog.LevelError+4:
		return core.Fatal
	case level >= slog.LevelError:
		return core.Error
	case level >= slog.LevelWarn:
		return core.Warning
	case level >= slog.LevelInfo:
		return core.Info
	case level >= slog.LevelDebug:
		return core.Debug
	default:
		return core.Verbose
	}
}

// renderSlogAttr renders one key=value string per leaf of a
func renderSlogAttr(dst []string, prefix string, a slog.Attr) []string {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return dst
	}
	if a.Value.Kind() == slog.KindGroup {
		groupPrefix := prefix
		if a.Key != "" {
			groupPrefix = prefix + a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			dst = renderSlogAttr(dst, groupPrefix, ga)
		}
		return dst
	}
	return append(dst, string(appendSlogKV(nil, prefix, a)))
}

func appendSlogKV(dst []byte, prefix string, a slog.Attr) []byte {
	dst = append(dst, prefix...)
	dst = append(dst, a.Key...)
	dst = append(dst, '=')

	v := a.Value
	switch v.Kind() {
	case slog.KindString:
		dst = append(dst, v.String()...)
	case slog.KindInt64:
		dst = strconv.AppendInt(dst, v.Int64(), 10)
	case slog.KindUint64:
		dst = strconv.AppendUint(dst, v.Uint64(), 10)
	case slog.KindFloat64:
		dst = strconv.AppendFloat(dst, v.Float64(), 'g', -1, 64)
	case slog.KindBool:
		dst = strconv.AppendBool(dst, v.Bool())
	case slog.KindDuration:
		dst = append(dst, v.Duration().String()...)
	case slog.KindTime:
		dst = v.Time().AppendFormat(dst, time.RFC3339Nano)
	default:
		dst = fmt.Appendf(dst, "%+v", v.Any())
	}
	return dst
}
