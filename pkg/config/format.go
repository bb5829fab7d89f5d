package config

import "slices"

// OutputFormat specifies how run results are reported.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatDiff OutputFormat = "diff"
)

// Formats returns every supported output format.
func Formats() []OutputFormat {
	return []OutputFormat{FormatText, FormatJSON, FormatDiff}
}

// IsValid reports whether f is a supported output format.
func (f OutputFormat) IsValid() bool {
	return slices.Contains(Formats(), f)
}

// ParseFormat converts s to an OutputFormat. The empty string selects text.
func ParseFormat(s string) (OutputFormat, bool) {
	if s == "" {
		return FormatText, true
	}
	f := OutputFormat(s)
	return f, f.IsValid()
}
