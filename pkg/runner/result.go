package runner

import "github.com/samber/lo"

// FileOutcome pairs a processed path with its result or error.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Result is nil if the file failed.
	Result *FileResult

	// Error is set if the file could not be processed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// Files is the number of distinct files referenced by the patch set.
	Files int

	// FilesProcessed is the number of files processed without error.
	FilesProcessed int

	// FilesModified is the number of files whose content changed.
	FilesModified int

	// FilesWritten is the number of files written back to disk.
	FilesWritten int

	// FilesSkipped is the number of files skipped (e.g., due to concurrent modification).
	FilesSkipped int

	// FilesErrored is the number of files that encountered errors.
	FilesErrored int

	// PatchesApplied is the total number of patches applied.
	PatchesApplied int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each file, in patch registration order.
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasFailures reports whether any file failed.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0
}

// Failed returns the outcomes that carry an error.
func (r *Result) Failed() []FileOutcome {
	if r == nil {
		return nil
	}
	return lo.Filter(r.Files, func(outcome FileOutcome, _ int) bool {
		return outcome.Error != nil
	})
}

// Errors returns the per-file errors in file order.
func (r *Result) Errors() []error {
	return lo.Map(r.Failed(), func(outcome FileOutcome, _ int) error {
		return outcome.Error
	})
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	if outcome.Result == nil {
		return
	}

	r.Stats.FilesProcessed++
	r.Stats.PatchesApplied += outcome.Result.Applied

	if outcome.Result.Modified {
		r.Stats.FilesModified++
	}
	if outcome.Result.Skipped {
		r.Stats.FilesSkipped++
	}
	if outcome.Result.Written {
		r.Stats.FilesWritten++
	}
}
