package logger

import (
	"github.com/philipp01105/ulog/core"
	"github.com/philipp01105/ulog/handler"
)

// Severity Re-export type and constants for convenience
type Severity = core.Severity

const (
	VerboseLevel = core.Verbose
	DebugLevel   = core.Debug
	InfoLevel    = core.Info
	WarningLevel = core.Warning
	ErrorLevel   = core.Error
	FatalLevel   = core.Fatal
	FixedLevel   = core.Fixed
)

// FlushPolicy Re-export type and constants for convenience
type FlushPolicy = handler.FlushPolicy

const (
	FlushAlways        = handler.FlushAlways
	FlushErrorAndAbove = handler.FlushErrorAndAbove
	FlushNever         = handler.FlushNever
)

// ParseSeverity converts a case-insensitive name to a Severity
func ParseSeverity(s string) (Severity, error) {
	return core.ParseSeverity(s)
}

// ColorMode Re-export type and constants for convenience
type ColorMode = handler.ColorMode

const (
	ColorAuto   = handler.ColorAuto
	ColorAlways = handler.ColorAlways
	ColorNever  = handler.ColorNever
)
