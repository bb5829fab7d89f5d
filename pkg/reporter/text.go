package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/textum/internal/ui/pretty"
	"github.com/yaklabco/textum/pkg/runner"
)

// TextReporter writes one status line per file to ErrorWriter. Pending
// changes are shown as diffs on Writer, and patched standard input is
// written to Writer as-is.
type TextReporter struct {
	opts      Options
	styles    *pretty.Styles
	outStyles *pretty.Styles
	out       *bufio.Writer
	status    *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	opts = opts.withDefaults()
	return &TextReporter{
		opts:      opts,
		styles:    pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.ErrorWriter)),
		outStyles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		out:       bufio.NewWriterSize(opts.Writer, bufWriterSize),
		status:    bufio.NewWriterSize(opts.ErrorWriter, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.out.Flush(); err == nil {
			err = flushErr
		}
		if flushErr := r.status.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	var count int
	for _, outcome := range result.Files {
		if changed(outcome) {
			count++
		}
		r.reportFile(outcome)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.status, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return count, nil
}

func (r *TextReporter) reportFile(outcome runner.FileOutcome) {
	fr := outcome.Result
	unchanged := outcome.Error == nil && fr != nil && !fr.Modified && !fr.Skipped

	if fr != nil && fr.IsStdin() {
		// The patched text is the output.
		if r.opts.DryRun {
			fmt.Fprint(r.out, r.outStyles.FormatDiff(fr.Diff))
		} else {
			_, _ = r.out.Write(fr.Content)
		}
		return
	}

	if !unchanged || r.opts.Verbose {
		fmt.Fprintln(r.status, r.styles.FormatOutcome(outcome))
	}

	if fr != nil && fr.Modified && !fr.Written && !fr.Skipped {
		fmt.Fprint(r.out, r.outStyles.FormatDiff(fr.Diff))
	}
}
