package reporter

import (
	"io"
	"os"

	"github.com/yaklabco/textum/pkg/config"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer receives diffs, JSON and patched standard input (typically os.Stdout).
	Writer io.Writer

	// ErrorWriter receives per-file status lines and the summary (typically os.Stderr).
	ErrorWriter io.Writer

	// Format specifies the output format.
	Format config.OutputFormat

	// Color controls colorized output.
	// Values: "auto" (default), "always", "never"
	Color string

	// ShowSummary displays aggregate statistics after results.
	ShowSummary bool

	// DryRun shows diffs for standard input instead of the patched text.
	DryRun bool

	// Verbose also reports files that did not change.
	Verbose bool

	// Compact uses minified JSON.
	Compact bool
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
		Format:      config.FormatText,
		Color:       "auto",
		ShowSummary: true,
	}
}

// withDefaults fills unset writers from DefaultOptions.
func (o Options) withDefaults() Options {
	defaults := DefaultOptions()
	if o.Writer == nil {
		o.Writer = defaults.Writer
	}
	if o.ErrorWriter == nil {
		o.ErrorWriter = defaults.ErrorWriter
	}
	return o
}
