// Package reporter writes the results of a patch run.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/textum/pkg/config"
	"github.com/yaklabco/textum/pkg/runner"
)

// Reporter formats and writes run results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of files that changed and any write error.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	format, ok := config.ParseFormat(string(opts.Format))
	if !ok {
		return nil, fmt.Errorf("unsupported format: %s", opts.Format)
	}

	switch format {
	case config.FormatJSON:
		return NewJSONReporter(opts), nil
	case config.FormatDiff:
		return NewDiffReporter(opts), nil
	default:
		return NewTextReporter(opts), nil
	}
}

// changed reports whether outcome produced new content.
func changed(outcome runner.FileOutcome) bool {
	return outcome.Error == nil && outcome.Result != nil && outcome.Result.Modified
}
