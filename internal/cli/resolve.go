package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/textum/internal/logging"
	"github.com/yaklabco/textum/internal/ui/pretty"
	"github.com/yaklabco/textum/pkg/fsutil"
	"github.com/yaklabco/textum/pkg/request"
	"github.com/yaklabco/textum/pkg/rope"
	"github.com/yaklabco/textum/pkg/snip"
)

type resolveFlags struct {
	snippet string
	show    bool
}

func newResolveCommand() *cobra.Command {
	flags := &resolveFlags{}

	cmd := &cobra.Command{
		Use:   "resolve FILE",
		Short: "Print the range a snippet selects",
		Long: `Resolve a snippet against FILE and print the selected character range
as [start, end). Nothing is written. Use "-" to read standard input.

The snippet is YAML or JSON, written the same way as in a patch list.

Examples:
  textum resolve main.go --snippet '{at: {target: {literal: "func main"}}}'
  textum resolve notes.txt --show \
    --snippet '{at: {target: {line: 3}, mode: extend, extent: {lines: 2}}}'`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.snippet, "snippet", "s", "", "snippet to resolve (YAML or JSON)")
	cmd.Flags().BoolVar(&flags.show, "show", false, "also print the selected text in its surrounding lines")

	return cmd
}

func runResolve(cmd *cobra.Command, path string, flags *resolveFlags) error {
	if flags.snippet == "" {
		return usageError(errors.New("--snippet is required"))
	}

	snippet, err := request.ParseSnippet(flags.snippet)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return err
	}

	buf := rope.FromString(string(content))
	span, err := snippet.Resolve(buf)
	if err != nil {
		return fmt.Errorf("resolve %v in %s: %w", snippet, path, err)
	}

	logging.FromContext(ctx).Debug("snippet resolved",
		logging.FieldPath, path,
		logging.FieldSnippet, snippet.String(),
		logging.FieldRange, span.String(),
	)

	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), cmd.OutOrStdout()))
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, styles.FormatSpan(path, span))
	if flags.show {
		before, selected, after := selectionContext(buf, span)
		fmt.Fprintln(out, styles.FormatSelection(before, selected, after))
	}
	return nil
}

// selectionContext splits the lines touched by span into the text before
// the selection, the selection and the text after it.
func selectionContext(buf *rope.Rope, span snip.Span) (string, string, string) {
	firstLine := buf.CharToLine(span.Start)
	lastLine := buf.CharToLine(span.End)
	if span.End > span.Start && span.End == buf.LineToChar(lastLine) {
		// A selection ending with a newline does not show the next line.
		lastLine--
	}

	lineStart := buf.LineToChar(firstLine)
	lineEnd := buf.LineToChar(lastLine) + buf.LineLen(lastLine)
	if lineEnd < span.End {
		lineEnd = span.End
	}

	return buf.Slice(lineStart, span.Start), buf.Slice(span.Start, span.End), buf.Slice(span.End, lineEnd)
}
