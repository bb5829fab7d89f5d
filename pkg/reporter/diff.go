package reporter

import (
	"context"
	"fmt"
	"io"

	"github.com/yaklabco/textum/internal/ui/pretty"
	"github.com/yaklabco/textum/pkg/runner"
)

// DiffReporter formats results as unified diffs in git style.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewDiffReporter creates a new diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	opts = opts.withDefaults()
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Report implements Reporter.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	if result == nil {
		return 0, nil
	}

	var filesWithDiffs int
	var totalAdditions, totalDeletions int

	for _, file := range result.Files {
		if file.Error != nil {
			fmt.Fprintln(r.opts.ErrorWriter, r.styles.FormatOutcome(file))
			continue
		}

		if file.Result == nil || !file.Result.Diff.HasChanges() {
			continue
		}

		diff := file.Result.Diff
		filesWithDiffs++
		totalAdditions += diff.Additions
		totalDeletions += diff.Deletions

		if _, err := fmt.Fprintln(r.out, r.styles.FormatDiff(diff)); err != nil {
			return filesWithDiffs, fmt.Errorf("write diff: %w", err)
		}
	}

	if filesWithDiffs > 0 && r.opts.ShowSummary {
		fmt.Fprintln(r.out, r.styles.Rule(pretty.TerminalWidth(r.out)))
		fmt.Fprintln(r.out, r.styles.FormatDiffStat(filesWithDiffs, totalAdditions, totalDeletions))
	}

	return filesWithDiffs, nil
}
