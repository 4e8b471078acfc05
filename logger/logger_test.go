package logger

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/philipp01105/ulog/core"
)

var testNow = time.Date(2024, 5, 1, 13, 7, 42, 123456000, time.Local)

const testPrefix = "2024-05-01 13:07:42.123456 | "

func newTestLogger(t *testing.T, console *bytes.Buffer) *Logger {
	t.Helper()
	l := NewBuilder().
		WithConsole(console).
		WithColorMode(ColorNever).
		WithClock(func() time.Time { return testNow }).
		Build()
	t.Cleanup(func() { l.Deinit() })
	return l
}

func readFile(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(name)
	require.NoError(t, err)
	return string(data)
}

func TestLogger_InitScenario(t *testing.T) {
	var console bytes.Buffer
	l := newTestLogger(t, &console)
	filename := filepath.Join(t.TempDir(), "app.log")

	l.Init(Config{
		ConsoleThreshold: InfoLevel,
		FileThreshold:    WarningLevel,
		EnableFile:       true,
		EnableColors:     false,
		IncludeDate:      true,
		FileName:         filename,
	})
	require.True(t, l.FileLoggingEnabled())

	l.Begin(WarningLevel).Str("disk").Int(87).Str("percent").Emit()
	l.Debug("cache", "hit")
	require.NoError(t, l.Deinit())

	want := testPrefix + "WARNING | disk 87 percent\n"
	assert.Equal(t, want, console.String())
	assert.Equal(t, want, readFile(t, filename))
	assert.NotContains(t, console.String(), "cache hit")
}

func TestLogger_Truncation(t *testing.T) {
	var console bytes.Buffer
	l := newTestLogger(t, &console)

	r := l.Begin(InfoLevel).Str(strings.Repeat("a", 5000))
	assert.True(t, r.Truncated())
	r.Emit()

	line := console.String()
	assert.Equal(t, testPrefix+"   INFO | "+strings.Repeat("a", 4095)+" [TRUNCATED]\n", line)
	assert.Equal(t, uint64(1), l.Stats().Truncated)

	// The flag does not survive into the next record
	console.Reset()
	l.Info("short")
	assert.Equal(t, testPrefix+"   INFO | short\n", console.String())
}

func TestLogger_Thresholds(t *testing.T) {
	var console bytes.Buffer
	l := newTestLogger(t, &console)
	filename := filepath.Join(t.TempDir(), "levels.log")
	require.NoError(t, l.EnableFileLogging(filename))

	for _, consoleMin := range core.Severities {
		for _, fileMin := range core.Severities {
			l.SetConsoleThreshold(consoleMin)
			l.SetFileThreshold(fileMin)
			for _, sev := range core.Severities {
				console.Reset()
				before := l.Stats().FileLines
				l.Printv(sev, "x")
				assert.Equal(t, sev >= consoleMin, console.Len() > 0,
					"console %v record %v", consoleMin, sev)
				assert.Equal(t, sev >= fileMin, l.Stats().FileLines > before,
					"file %v record %v", fileMin, sev)
			}
		}
	}
}

func TestLogger_SkippedRecord(t *testing.T) {
	var console bytes.Buffer
	l := newTestLogger(t, &console)
	l.SetConsoleThreshold(ErrorLevel)

	assert.False(t, l.Enabled(InfoLevel))
	assert.True(t, l.Enabled(FixedLevel))

	r := l.Begin(InfoLevel)
	assert.False(t, r.Enabled())
	r.Str("ignored").Int(1).Emit()

	assert.Zero(t, console.Len())
	assert.Equal(t, uint64(1), l.Stats().Skipped)
}

func TestLogger_DiscardAndDoubleEmit(t *testing.T) {
	var console bytes.Buffer
	l := newTestLogger(t, &console)

	r := l.Begin(ErrorLevel).Str("dropped")
	r.Discard()
	r.Discard()
	assert.Zero(t, console.Len())

	r = l.Begin(InfoLevel).Str("once")
	r.Emit()
	r.Emit()
	r.Discard()
	assert.Equal(t, testPrefix+"   INFO | once\n", console.String())
}

func TestLogger_StaleRecordCannotTouchNextRecord(t *testing.T) {
	var console bytes.Buffer
	l := newTestLogger(t, &console)

	a := l.Begin(InfoLevel).Str("A")
	a.Emit()

	b := l.Begin(ErrorLevel).Str("B-part1")
	a.Emit()
	a.Str("stale")
	a.Discard()
	assert.False(t, a.Enabled())
	assert.True(t, b.Enabled())
	b.Str("B-part2").Emit()

	want := testPrefix + "   INFO | A\n" +
		testPrefix + "  ERROR | B-part1 B-part2\n"
	assert.Equal(t, want, console.String())

	// The lock was released exactly once per record
	l.Info("next")
	assert.Equal(t, want+testPrefix+"   INFO | next\n", console.String())
}

func TestLogger_StaleRecordAcrossGoroutines(t *testing.T) {
	var console bytes.Buffer
	l := newTestLogger(t, &console)

	stale := l.Begin(InfoLevel).Str("first")
	stale.Emit()

	const n = 200
	var g errgroup.Group
	g.Go(func() error {
		for range n {
			l.Begin(WarningLevel).Str("owner").Int(1).Emit()
		}
		return nil
	})
	g.Go(func() error {
		for range n {
			stale.Str("x")
			stale.Emit()
			stale.Discard()
		}
		return nil
	})
	require.NoError(t, g.Wait())

	lines := strings.Split(strings.TrimSuffix(console.String(), "\n"), "\n")
	require.Len(t, lines, n+1)
	assert.Equal(t, testPrefix+"   INFO | first", lines[0])
	for _, line := range lines[1:] {
		assert.Equal(t, testPrefix+"WARNING | owner 1", line)
	}
}

func TestLogger_PrintReleasesLockOnPanic(t *testing.T) {
	var console bytes.Buffer
	l := newTestLogger(t, &console)

	assert.Panics(t, func() {
		l.Print(InfoLevel, func(r Record) {
			r.Str("partial")
			panic("boom")
		})
	})
	assert.Zero(t, console.Len())

	l.Print(InfoLevel, func(r Record) {
		r.Str("after").Uint8(7)
		r.Emit()
	})
	assert.Equal(t, testPrefix+"   INFO | after 7\n", console.String())
}

func TestLogger_TypedForms(t *testing.T) {
	var console bytes.Buffer
	l := newTestLogger(t, &console)

	l.Log(InfoLevel,
		Text("id"), Hex8(0x0A), Hex32(0xDEADBEEF), Bool(false),
		Int16(-3), Uint64(18446744073709551615), Float32(0.5))
	l.Printv(InfoLevel, "err", fmt.Errorf("oops"), nil, int8(-128))
	l.Begin(InfoLevel).Rune('é').Ptr(0xff).Any(time.Second).Emit()

	want := testPrefix + "   INFO | id 0x0A 0xDEADBEEF false -3 18446744073709551615 0.50000000\n" +
		testPrefix + "   INFO | err oops -128\n" +
		testPrefix + "   INFO | é 0xff 1s\n"
	assert.Equal(t, want, console.String())
}

func TestLogger_FixedWidthSkippedWhenFull(t *testing.T) {
	var console bytes.Buffer
	l := NewBuilder().
		WithConsole(&console).
		WithColorMode(ColorNever).
		WithCapacity(16).
		WithClock(func() time.Time { return testNow }).
		Build()
	defer l.Release()

	r := l.Begin(InfoLevel).Str("0123456789").Int64(1)
	assert.True(t, r.Truncated())
	r.Emit()
	assert.Equal(t, testPrefix+"   INFO | 0123456789 [TRUNCATED]\n", console.String())
}

func TestLogger_FileLoggingIdempotent(t *testing.T) {
	var console bytes.Buffer
	l := newTestLogger(t, &console)
	filename := filepath.Join(t.TempDir(), "idem.log")

	require.NoError(t, l.EnableFileLogging(filename))
	require.NoError(t, l.EnableFileLogging(filepath.Join(t.TempDir(), "other.log")))
	assert.Equal(t, filename, l.FileName())
	assert.True(t, l.FileLoggingEnabled())

	require.NoError(t, l.DisableFileLogging())
	require.NoError(t, l.DisableFileLogging())
	assert.False(t, l.FileLoggingEnabled())
}

func TestLogger_InitOpenFailureDegrades(t *testing.T) {
	var console bytes.Buffer
	l := newTestLogger(t, &console)

	l.Init(Config{
		ConsoleThreshold: VerboseLevel,
		FileThreshold:    VerboseLevel,
		EnableFile:       true,
		FileName:         t.TempDir(),
		IncludeDate:      true,
	})

	assert.False(t, l.FileLoggingEnabled())
	assert.Equal(t, uint64(1), l.Stats().OpenFailures)

	l.Info("still", "here")
	assert.Equal(t, testPrefix+"   INFO | still here\n", console.String())
}

func TestLogger_InitExtFlushPolicy(t *testing.T) {
	var console bytes.Buffer
	l := newTestLogger(t, &console)
	filename := filepath.Join(t.TempDir(), "policy.log")

	l.InitExt(Config{
		ConsoleThreshold: FixedLevel,
		FileThreshold:    VerboseLevel,
		EnableFile:       true,
		IncludeDate:      false,
		FileName:         filename,
	}, FlushAlways)
	assert.Equal(t, FlushAlways, l.FlushPolicy())

	l.Verbose("persisted")
	// Visible without an explicit flush
	assert.Equal(t, "13:07:42.123456 | VERBOSE | persisted\n", readFile(t, filename))

	l.SetFlushPolicy(FlushNever)
	l.Error("pending")
	assert.NotContains(t, readFile(t, filename), "pending")
	require.NoError(t, l.Flush())
	assert.Contains(t, readFile(t, filename), "pending")
}

func TestLogger_ConcurrentLinesDoNotInterleave(t *testing.T) {
	const workers, perWorker = 8, 250

	var console bytes.Buffer
	l := newTestLogger(t, &console)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := 0; i < perWorker; i++ {
				l.Begin(InfoLevel).Str("worker").Int(w).Str("seq").Int(i).Emit()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	lines := strings.Split(strings.TrimSuffix(console.String(), "\n"), "\n")
	require.Len(t, lines, workers*perWorker)

	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(testPrefix+"   INFO | ") + `worker (\d+) seq (\d+)$`)
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		m := pattern.FindStringSubmatch(line)
		require.NotNil(t, m, "malformed line %q", line)
		key := m[1] + "/" + m[2]
		assert.False(t, seen[key], "duplicate line %q", line)
		seen[key] = true
	}
	assert.Len(t, seen, workers*perWorker)
}

func TestLogger_ReleaseClosesFile(t *testing.T) {
	var console bytes.Buffer
	l := NewBuilder().WithConsole(&console).WithColorMode(ColorNever).Build()
	require.NoError(t, l.EnableFileLogging(filepath.Join(t.TempDir(), "ref.log")))

	assert.Equal(t, 1, l.Refs())
	l.Retain()
	assert.Equal(t, 2, l.Refs())

	require.NoError(t, l.Release())
	assert.True(t, l.FileLoggingEnabled())

	require.NoError(t, l.Release())
	assert.False(t, l.FileLoggingEnabled())
	assert.Equal(t, 0, l.Refs())

	assert.ErrorIs(t, l.Release(), ErrReleased)
	assert.Equal(t, 0, l.Refs())
}
