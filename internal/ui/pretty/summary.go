package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/textum/pkg/runner"
)

const summaryDividerWidth = 40

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "5 patches applied to 2 files, 2 written, 1 failed".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.Files == 0 {
		return s.Dim.Render("No patches to apply") + "\n"
	}

	parts := []string{fmt.Sprintf("%d %s applied to %d %s",
		stats.PatchesApplied, plural(stats.PatchesApplied, "patch", "patches"),
		stats.FilesProcessed, plural(stats.FilesProcessed, "file", "files"))}

	if stats.FilesWritten > 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d written", stats.FilesWritten)))
	} else if stats.FilesModified > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d pending", stats.FilesModified)))
	}
	if stats.FilesSkipped > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d skipped", stats.FilesSkipped)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d failed", stats.FilesErrored)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a multi-line block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row := func(label string, value int, style func(...string) string) {
		builder.WriteString(fmt.Sprintf("  %-18s %s\n", label+":", style(strconv.Itoa(value))))
	}

	row("Files", stats.Files, s.SummaryValue.Render)
	row("Patches applied", stats.PatchesApplied, s.SummaryValue.Render)
	if stats.FilesModified > 0 {
		row("Files modified", stats.FilesModified, s.SummaryValue.Render)
	}
	if stats.FilesWritten > 0 {
		row("Files written", stats.FilesWritten, s.Success.Render)
	}
	if stats.FilesSkipped > 0 {
		row("Files skipped", stats.FilesSkipped, s.Warning.Render)
	}
	if stats.FilesErrored > 0 {
		row("Files failed", stats.FilesErrored, s.Failure.Render)
	}

	builder.WriteString("\n")
	switch {
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Some patches failed"))
	case stats.FilesSkipped > 0:
		builder.WriteString(s.Warning.Render("Completed with skipped files"))
	default:
		builder.WriteString(s.Success.Render("All patches applied"))
	}
	builder.WriteString("\n")

	return builder.String()
}
