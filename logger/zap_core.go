package logger

import (
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/philipp01105/ulog/core"
)

// ZapCore implements zapcore.Core on top of a Logger. Entries become one
// line each: the message followed by key=value tokens in key order.
type ZapCore struct {
	l      *Logger
	fields []string
}

// NewZapCore creates a zapcore.Core writing to l
func NewZapCore(l *Logger) *ZapCore {
	return &ZapCore{l: l}
}

// NewZapLogger returns a *zap.Logger writing to l
func NewZapLogger(l *Logger, opts ...zap.Option) *zap.Logger {
	return zap.New(NewZapCore(l), opts...)
}

// Enabled reports whether an entry at lvl would reach any sink
func (c *ZapCore) Enabled(lvl zapcore.Level) bool {
	return c.l.Enabled(zapLevelToSeverity(lvl))
}

// With returns a core that adds fields to every entry
func (c *ZapCore) With(fields []zapcore.Field) zapcore.Core {
	if len(fields) == 0 {
		return c
	}
	newFields := make([]string, len(c.fields), len(c.fields)+len(fields))
	copy(newFields, c.fields)
	return &ZapCore{
		l:      c.l,
		fields: renderZapFields(newFields, fields),
	}
}

// Check adds c to ce when the entry is enabled
func (c *ZapCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

// Write emits the entry as one line under the logger's lock
func (c *ZapCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	rendered := renderZapFields(nil, fields)

	r := c.l.Begin(zapLevelToSeverity(ent.Level))
	if ent.LoggerName != "" {
		r.Str(ent.LoggerName + ":")
	}
	r.Str(ent.Message)
	for _, f := range c.fields {
		r.Str(f)
	}
	for _, f := range rendered {
		r.Str(f)
	}
	r.Emit()
	return nil
}

// Sync flushes the logger
func (c *ZapCore) Sync() error {
	return c.l.Flush()
}

func zapLevelToSeverity(lvl zapcore.Level) core.Severity {
	switch {
	case lvl >= zapcore.DPanicLevel:
		return core.Fatal
	case lvl == zapcore.ErrorLevel:
		return core.Error
	case lvl == zapcore.WarnLevel:
		return core.Warning
	case lvl == zapcore.InfoLevel:
		return core.Info
	case lvl == zapcore.DebugLevel:
		return core.Debug
	default:
		return core.Verbose
	}
}

// renderZapFields encodes fields through a MapObjectEncoder and appends
// one key=value string per key, sorted by key.
func renderZapFields(dst []string, fields []zapcore.Field) []string {
	if len(fields) == 0 {
		return dst
	}
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}
	for _, k := range slices.Sorted(maps.Keys(enc.Fields)) {
		dst = append(dst, fmt.Sprintf("%s=%v", k, enc.Fields[k]))
	}
	return dst
}
