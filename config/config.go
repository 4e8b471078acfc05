// Package config loads logger settings from files, environment variables
// and flags through viper, and re-applies them when the file changes.
//
// Recognized keys (env: ULOG_<KEY>):
//
//	console_level  verbose|debug|info|warning|error|fatal|fixed
//	file_level     same as console_level
//	file_enabled   bool
//	file_name      path; empty derives log_<date>_<time>.txt
//	colors         auto|always|never (or a bool)
//	include_date   bool
//	flush_policy   always|error_and_above|never
//	capacity       record buffer size in bytes
package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/philipp01105/ulog/core"
	"github.com/philipp01105/ulog/formatter"
	"github.com/philipp01105/ulog/handler"
	"github.com/philipp01105/ulog/logger"
)

// Configuration keys
const (
	KeyConsoleLevel = "console_level"
	KeyFileLevel    = "file_level"
	KeyFileEnabled  = "file_enabled"
	KeyFileName     = "file_name"
	KeyColors       = "colors"
	KeyIncludeDate  = "include_date"
	KeyFlushPolicy  = "flush_policy"
	KeyCapacity     = "capacity"
)

// EnvPrefix is prepended to environment variable names
const EnvPrefix = "ULOG"

// Settings is the decoded configuration
type Settings struct {
	ConsoleLevel core.Severity
	FileLevel    core.Severity
	FileEnabled  bool
	FileName     string
	Colors       handler.ColorMode
	IncludeDate  bool
	FlushPolicy  handler.FlushPolicy
	Capacity     int
}

// Loader reads Settings from a viper instance
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a Loader with defaults and environment binding. A nil
// v creates a fresh viper instance.
func NewLoader(v *viper.Viper) *Loader {
	if v == nil {
		v = viper.New()
	}
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyConsoleLevel, core.Verbose.String())
	v.SetDefault(KeyFileLevel, core.Verbose.String())
	v.SetDefault(KeyFileEnabled, false)
	v.SetDefault(KeyFileName, "")
	v.SetDefault(KeyColors, "auto")
	v.SetDefault(KeyIncludeDate, true)
	v.SetDefault(KeyFlushPolicy, handler.DefaultFlushPolicy.String())
	v.SetDefault(KeyCapacity, formatter.DefaultCapacity)
}

// Viper returns the underlying viper instance, e.g. for flag binding
func (ld *Loader) Viper() *viper.Viper {
	return ld.v
}

// ReadFile reads the configuration file at path. The format is taken
// from the extension.
func (ld *Loader) ReadFile(path string) error {
	ld.v.SetConfigFile(path)
	if err := ld.v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// Settings decodes the current values
func (ld *Loader) Settings() (Settings, error) {
	var s Settings
	var err error

	if s.ConsoleLevel, err = core.ParseSeverity(ld.v.GetString(KeyConsoleLevel)); err != nil {
		return s, fmt.Errorf("%s: %w", KeyConsoleLevel, err)
	}
	if s.FileLevel, err = core.ParseSeverity(ld.v.GetString(KeyFileLevel)); err != nil {
		return s, fmt.Errorf("%s: %w", KeyFileLevel, err)
	}
	if s.FlushPolicy, err = handler.ParseFlushPolicy(ld.v.GetString(KeyFlushPolicy)); err != nil {
		return s, fmt.Errorf("%s: %w", KeyFlushPolicy, err)
	}
	if s.Colors, err = ParseColorMode(ld.v.GetString(KeyColors)); err != nil {
		return s, fmt.Errorf("%s: %w", KeyColors, err)
	}
	s.FileEnabled = ld.v.GetBool(KeyFileEnabled)
	s.FileName = ld.v.GetString(KeyFileName)
	s.IncludeDate = ld.v.GetBool(KeyIncludeDate)
	s.Capacity = ld.v.GetInt(KeyCapacity)
	if s.Capacity <= 0 {
		return s, fmt.Errorf("%s must be positive, got %d", KeyCapacity, s.Capacity)
	}
	return s, nil
}

// ParseColorMode converts auto, always, never or a boolean to a ColorMode
func ParseColorMode(s string) (handler.ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return handler.ColorAuto, nil
	case "always", "true", "on", "yes":
		return handler.ColorAlways, nil
	case "never", "false", "off", "no":
		return handler.ColorNever, nil
	default:
		return handler.ColorAuto, fmt.Errorf("unknown color mode: %q", s)
	}
}

// Builder returns a logger builder carrying the construction-time
// settings. Runtime settings are applied with Apply.
func (s Settings) Builder() *logger.Builder {
	return logger.NewBuilder().
		WithCapacity(s.Capacity).
		WithColorMode(s.Colors).
		WithThresholds(s.ConsoleLevel, s.FileLevel).
		WithFlushPolicy(s.FlushPolicy).
		WithIncludeDate(s.IncludeDate)
}

// Apply re-initializes l with s. ColorAuto keeps the logger's current
// color setting. Capacity only takes effect through Builder.
func Apply(l *logger.Logger, s Settings) {
	colors := l.Colors()
	switch s.Colors {
	case handler.ColorAlways:
		colors = true
	case handler.ColorNever:
		colors = false
	}
	l.InitExt(logger.Config{
		ConsoleThreshold: s.ConsoleLevel,
		FileThreshold:    s.FileLevel,
		EnableFile:       s.FileEnabled,
		EnableColors:     colors,
		IncludeDate:      s.IncludeDate,
		FileName:         s.FileName,
	}, s.FlushPolicy)
}

// Watch re-applies the configuration file to l whenever it changes.
// Decoding errors are passed to onError and leave l unchanged.
func (ld *Loader) Watch(l *logger.Logger, onError func(error)) {
	ld.v.OnConfigChange(func(e fsnotify.Event) {
		s, err := ld.Settings()
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("reload %s: %w", e.Name, err))
			}
			return
		}
		Apply(l, s)
	})
	ld.v.WatchConfig()
}
