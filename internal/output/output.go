// Package output renders task data for the CLI as styled tables, compact
// lines, or JSON.
package output

import (
	"os"
	"strings"
)

// Format selects how command results are written.
type Format int

// Supported formats. FormatTable is the default.
const (
	FormatTable Format = iota
	FormatJSON
	FormatCompact
)

// EnvVar selects the output format when no flag is given.
const EnvVar = "TASKDECK_OUTPUT"

var formatNames = map[string]Format{
	"table":   FormatTable,
	"json":    FormatJSON,
	"compact": FormatCompact,
	"oneline": FormatCompact,
}

// String returns the canonical name of f.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatCompact:
		return "compact"
	default:
		return "table"
	}
}

// ParseFormat maps a format name (case-insensitive) to a Format.
func ParseFormat(name string) (Format, bool) {
	f, ok := formatNames[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

// Detect picks the format from flags, then TASKDECK_OUTPUT, then the table
// default. JSON wins over compact, which wins over table.
func Detect(jsonFlag, tableFlag, compactFlag bool) Format {
	switch {
	case jsonFlag:
		return FormatJSON
	case compactFlag:
		return FormatCompact
	case tableFlag:
		return FormatTable
	}
	if f, ok := ParseFormat(os.Getenv(EnvVar)); ok {
		return f
	}
	return FormatTable
}
