package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/samber/lo"

	"github.com/yaklabco/textum/pkg/runner"
)

// jsonVersion is the schema version of JSONOutput.
const jsonVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path          string      `json:"path"`
	Patches       []JSONPatch `json:"patches"`
	Modified      bool        `json:"modified"`
	Written       bool        `json:"written"`
	BackupCreated bool        `json:"backupCreated,omitempty"`
	Skipped       bool        `json:"skipped,omitempty"`
	SkipReason    string      `json:"skipReason,omitempty"`
	Additions     int         `json:"additions"`
	Deletions     int         `json:"deletions"`
	Diff          string      `json:"diff,omitempty"`
	Content       *string     `json:"content,omitempty"`
	Error         string      `json:"error,omitempty"`
}

// JSONPatch is a resolved patch. Replacement is null for deletions.
type JSONPatch struct {
	Start       int     `json:"start"`
	End         int     `json:"end"`
	Replacement *string `json:"replacement"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	Files          int `json:"files"`
	FilesProcessed int `json:"filesProcessed"`
	FilesModified  int `json:"filesModified"`
	FilesWritten   int `json:"filesWritten"`
	FilesSkipped   int `json:"filesSkipped"`
	FilesErrored   int `json:"filesErrored"`
	PatchesApplied int `json:"patchesApplied"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	opts = opts.withDefaults()
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := BuildJSON(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.FilesModified, nil
}

// BuildJSON converts result to its JSON form.
func BuildJSON(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonVersion,
		Files:   make([]JSONFileResult, 0),
	}

	if result == nil {
		return output
	}

	stats := result.Stats
	output.Summary = JSONSummary{
		Files:          stats.Files,
		FilesProcessed: stats.FilesProcessed,
		FilesModified:  stats.FilesModified,
		FilesWritten:   stats.FilesWritten,
		FilesSkipped:   stats.FilesSkipped,
		FilesErrored:   stats.FilesErrored,
		PatchesApplied: stats.PatchesApplied,
	}

	output.Files = lo.Map(result.Files, func(file runner.FileOutcome, _ int) JSONFileResult {
		return buildJSONFile(file)
	})

	return output
}

func buildJSONFile(file runner.FileOutcome) JSONFileResult {
	out := JSONFileResult{
		Path:    file.Path,
		Patches: make([]JSONPatch, 0),
	}

	if file.Error != nil {
		out.Error = file.Error.Error()
		return out
	}

	fr := file.Result
	if fr == nil {
		return out
	}

	for _, p := range fr.Patches {
		out.Patches = append(out.Patches, JSONPatch{
			Start:       p.Range.Start,
			End:         p.Range.End,
			Replacement: p.Replacement,
		})
	}

	out.Modified = fr.Modified
	out.Written = fr.Written
	out.BackupCreated = fr.BackupCreated
	out.Skipped = fr.Skipped
	out.SkipReason = fr.SkipReason

	if fr.Diff != nil {
		out.Additions = fr.Diff.Additions
		out.Deletions = fr.Diff.Deletions
		if !fr.Written {
			out.Diff = fr.Diff.String()
		}
	}

	if fr.IsStdin() {
		content := string(fr.Content)
		out.Content = &content
	}

	return out
}
