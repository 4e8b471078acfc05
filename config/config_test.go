package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipp01105/ulog/core"
	"github.com/philipp01105/ulog/formatter"
	"github.com/philipp01105/ulog/handler"
	"github.com/philipp01105/ulog/logger"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "ulog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoader_Defaults(t *testing.T) {
	s, err := NewLoader(nil).Settings()
	require.NoError(t, err)

	assert.Equal(t, Settings{
		ConsoleLevel: core.Verbose,
		FileLevel:    core.Verbose,
		Colors:       handler.ColorAuto,
		IncludeDate:  true,
		FlushPolicy:  handler.FlushErrorAndAbove,
		Capacity:     formatter.DefaultCapacity,
	}, s)
}

func TestLoader_ReadYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
console_level: info
file_level: WARNING
file_enabled: true
file_name: app.log
colors: false
include_date: false
flush_policy: always
capacity: 1024
`)

	ld := NewLoader(nil)
	require.NoError(t, ld.ReadFile(path))
	s, err := ld.Settings()
	require.NoError(t, err)

	assert.Equal(t, Settings{
		ConsoleLevel: core.Info,
		FileLevel:    core.Warning,
		FileEnabled:  true,
		FileName:     "app.log",
		Colors:       handler.ColorNever,
		IncludeDate:  false,
		FlushPolicy:  handler.FlushAlways,
		Capacity:     1024,
	}, s)
}

func TestLoader_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "console_level: info\n")
	t.Setenv("ULOG_CONSOLE_LEVEL", "error")
	t.Setenv("ULOG_FLUSH_POLICY", "never")

	ld := NewLoader(nil)
	require.NoError(t, ld.ReadFile(path))
	s, err := ld.Settings()
	require.NoError(t, err)

	assert.Equal(t, core.Error, s.ConsoleLevel)
	assert.Equal(t, handler.FlushNever, s.FlushPolicy)
}

func TestLoader_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"level", "console_level: loud\n"},
		{"file level", "file_level: 3\n"},
		{"policy", "flush_policy: sometimes\n"},
		{"colors", "colors: rainbow\n"},
		{"capacity", "capacity: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ld := NewLoader(nil)
			require.NoError(t, ld.ReadFile(writeConfig(t, t.TempDir(), tt.body)))
			_, err := ld.Settings()
			assert.Error(t, err)
		})
	}
}

func TestLoader_MissingFile(t *testing.T) {
	err := NewLoader(nil).ReadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestParseColorMode(t *testing.T) {
	tests := map[string]handler.ColorMode{
		"":       handler.ColorAuto,
		"AUTO":   handler.ColorAuto,
		"always": handler.ColorAlways,
		"true":   handler.ColorAlways,
		"never":  handler.ColorNever,
		"off":    handler.ColorNever,
	}
	for in, want := range tests {
		got, err := ParseColorMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseColorMode("sometimes")
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	var console bytes.Buffer
	l := logger.NewBuilder().WithConsole(&console).WithColorMode(logger.ColorAlways).Build()
	defer l.Release()
	filename := filepath.Join(t.TempDir(), "applied.log")

	Apply(l, Settings{
		ConsoleLevel: core.Error,
		FileLevel:    core.Debug,
		FileEnabled:  true,
		FileName:     filename,
		Colors:       handler.ColorAuto,
		IncludeDate:  false,
		FlushPolicy:  handler.FlushNever,
		Capacity:     formatter.DefaultCapacity,
	})

	consoleMin, fileMin := l.Thresholds()
	assert.Equal(t, core.Error, consoleMin)
	assert.Equal(t, core.Debug, fileMin)
	assert.True(t, l.FileLoggingEnabled())
	assert.Equal(t, filename, l.FileName())
	assert.Equal(t, handler.FlushNever, l.FlushPolicy())
	assert.False(t, l.IncludeDate())
	// Auto keeps what the logger already had
	assert.True(t, l.Colors())
}

func TestSettings_Builder(t *testing.T) {
	var console bytes.Buffer
	s := Settings{
		ConsoleLevel: core.Warning,
		FileLevel:    core.Warning,
		Colors:       handler.ColorNever,
		IncludeDate:  true,
		FlushPolicy:  handler.FlushAlways,
		Capacity:     64,
	}
	l := s.Builder().WithConsole(&console).Build()
	defer l.Release()

	l.Info("hidden")
	assert.Zero(t, console.Len())
	l.Warning("shown")
	assert.Contains(t, console.String(), "WARNING | shown\n")
	assert.Equal(t, handler.FlushAlways, l.FlushPolicy())
}

func TestLoader_Watch(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "console_level: info\n")

	l := logger.NewBuilder().WithConsole(&bytes.Buffer{}).Build()
	defer l.Release()

	ld := NewLoader(nil)
	require.NoError(t, ld.ReadFile(path))
	s, err := ld.Settings()
	require.NoError(t, err)
	Apply(l, s)

	ld.Watch(l, nil)

	// Give the watcher time to register before changing the file
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("console_level: fatal\n"), 0o644))

	assert.Eventually(t, func() bool {
		consoleMin, _ := l.Thresholds()
		return consoleMin == core.Fatal
	}, 5*time.Second, 20*time.Millisecond)
}
