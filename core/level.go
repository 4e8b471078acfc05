package core

import (
	"fmt"
	"strings"
)

// Severity represents the importance of a log record
type Severity uint8

const (
	// Verbose for high-volume tracing output
	Verbose Severity = iota
	// Debug for detailed debugging information
	Debug
	// Info for general informational messages (default record severity)
	Info
	// Warning for recoverable problems
	Warning
	// Error for failed operations
	Error
	// Fatal for conditions the host cannot continue from. Logging at Fatal
	// does not terminate the process.
	Fatal
	// Fixed for records that should pass any reasonable threshold
	Fixed
)

// Severities lists every severity in ascending order.
var Severities = [...]Severity{Verbose, Debug, Info, Warning, Error, Fatal, Fixed}

// ColorReset ends a color escape started by Severity.Color.
const ColorReset = "\x1b[0m"

// LabelWidth is the width of every label returned by Severity.Label.
const LabelWidth = 7

var names = [...]string{
	Verbose: "VERBOSE",
	Debug:   "DEBUG",
	Info:    "INFO",
	Warning: "WARNING",
	Error:   "ERROR",
	Fatal:   "FATAL",
	Fixed:   "FIXED",
}

// pre-padded labels so the line writer never pads at runtime
var labels = [...]string{
	Verbose: "VERBOSE",
	Debug:   "  DEBUG",
	Info:    "   INFO",
	Warning: "WARNING",
	Error:   "  ERROR",
	Fatal:   "  FATAL",
	Fixed:   "  FIXED",
}

var colors = [...]string{
	Verbose: "\x1b[90m",
	Debug:   "\x1b[36m",
	Info:    "\x1b[32m",
	Warning: "\x1b[33m",
	Error:   "\x1b[31m",
	Fatal:   "\x1b[91m",
	Fixed:   "\x1b[97m",
}

// String returns the bare name of the severity
func (s Severity) String() string {
	if int(s) < len(names) {
		return names[s]
	}
	return "UNKNOWN"
}

// Label returns the right-aligned, fixed-width label written on each line
func (s Severity) Label() string {
	if int(s) < len(labels) {
		return labels[s]
	}
	return "UNKNOWN"
}

// Color returns the ANSI escape used to color console lines of this severity
func (s Severity) Color() string {
	if int(s) < len(colors) {
		return colors[s]
	}
	return ColorReset
}

// Valid reports whether s is one of the defined severities
func (s Severity) Valid() bool {
	return s <= Fixed
}

// ParseSeverity converts a case-insensitive name to a Severity
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "VERBOSE", "TRACE":
		return Verbose, nil
	case "DEBUG":
		return Debug, nil
	case "INFO":
		return Info, nil
	case "WARN", "WARNING":
		return Warning, nil
	case "ERROR":
		return Error, nil
	case "FATAL":
		return Fatal, nil
	case "FIXED":
		return Fixed, nil
	default:
		return Info, fmt.Errorf("unknown severity %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Severity) UnmarshalText(text []byte) error {
	v, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
