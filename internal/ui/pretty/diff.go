package pretty

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yaklabco/textum/pkg/patch"
)

// FormatDiff renders diff in git style with colored hunks.
func (s *Styles) FormatDiff(diff *patch.Diff) string {
	if !diff.HasChanges() {
		return ""
	}

	var builder strings.Builder
	displayPath := RelativePath(diff.Path)

	builder.WriteString(s.DiffHeader.Render(fmt.Sprintf("diff --git a/%s b/%s", displayPath, displayPath)))
	builder.WriteString("\n")
	builder.WriteString(s.DiffRemove.Render("--- a/" + displayPath))
	builder.WriteString("\n")
	builder.WriteString(s.DiffAdd.Render("+++ b/" + displayPath))
	builder.WriteString("\n")

	// The first two lines are the ---/+++ file headers written above.
	lines := strings.Split(strings.TrimSuffix(diff.String(), "\n"), "\n")
	for _, line := range lines[2:] {
		builder.WriteString(s.formatDiffLine(line))
		builder.WriteString("\n")
	}

	return builder.String()
}

// formatDiffLine colors a single diff line by its prefix.
func (s *Styles) formatDiffLine(line string) string {
	switch {
	case strings.HasPrefix(line, "@@"):
		return s.DiffHunk.Render(line)
	case strings.HasPrefix(line, "+"):
		return s.DiffAdd.Render(line)
	case strings.HasPrefix(line, "-"):
		return s.DiffRemove.Render(line)
	default:
		return s.DiffContext.Render(line)
	}
}

// FormatDiffStat renders a git-style change summary line.
// Example: "2 files changed, 3 insertions(+), 1 deletion(-)".
func (s *Styles) FormatDiffStat(files, additions, deletions int) string {
	parts := []string{fmt.Sprintf("%d %s changed", files, plural(files, "file", "files"))}

	if additions > 0 {
		parts = append(parts, s.DiffAdd.Render(
			fmt.Sprintf("%d %s(+)", additions, plural(additions, "insertion", "insertions"))))
	}
	if deletions > 0 {
		parts = append(parts, s.DiffRemove.Render(
			fmt.Sprintf("%d %s(-)", deletions, plural(deletions, "deletion", "deletions"))))
	}

	return strings.Join(parts, ", ")
}

// Rule returns a dim horizontal divider of the given width.
func (s *Styles) Rule(width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	return s.Dim.Render(strings.Repeat("─", width))
}

// RelativePath converts an absolute path to one relative to the current
// directory. If that needs too many "../" traversals, the basename is used.
func RelativePath(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	cwd, err := os.Getwd()
	if err != nil {
		return filepath.Base(path)
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil {
		return filepath.Base(path)
	}
	if strings.Count(rel, "..") > 2 {
		return filepath.Base(path)
	}
	return rel
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
