package pretty

import (
	"fmt"

	"github.com/yaklabco/textum/pkg/runner"
	"github.com/yaklabco/textum/pkg/snip"
)

// FormatOutcome renders the one-line status of a processed file.
// Written files read "Patched: PATH"; dry-run changes read "Would patch: PATH".
func (s *Styles) FormatOutcome(outcome runner.FileOutcome) string {
	path := s.FilePath.Render(RelativePath(outcome.Path))

	if outcome.Error != nil {
		return fmt.Sprintf("%s %s: %s", s.Failure.Render("Failed:"), path, s.Error.Render(outcome.Error.Error()))
	}

	fr := outcome.Result
	switch {
	case fr == nil:
		return path
	case fr.Skipped:
		return fmt.Sprintf("%s %s (%s)", s.Warning.Render("Skipped:"), path, fr.SkipReason)
	case fr.Written && fr.BackupCreated:
		return fmt.Sprintf("%s %s %s", s.Success.Render("Patched:"), path, s.Dim.Render("(backup created)"))
	case fr.Written:
		return fmt.Sprintf("%s %s", s.Success.Render("Patched:"), path)
	case fr.Modified:
		return fmt.Sprintf("%s %s", s.Warning.Render("Would patch:"), path)
	default:
		return fmt.Sprintf("%s %s", s.Dim.Render("Unchanged:"), path)
	}
}

// FormatSpan renders a resolved span as "PATH:[start, end) (n chars)".
func (s *Styles) FormatSpan(path string, span snip.Span) string {
	return fmt.Sprintf("%s:%s %s",
		s.FilePath.Render(RelativePath(path)),
		s.Location.Render(span.String()),
		s.Dim.Render(fmt.Sprintf("(%d %s)", span.Len(), plural(span.Len(), "char", "chars"))))
}

// FormatSelection renders text with the selected part highlighted.
func (s *Styles) FormatSelection(before, selected, after string) string {
	return before + s.Selection.Render(selected) + after
}
