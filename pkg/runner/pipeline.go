package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/yaklabco/textum/internal/logging"
	"github.com/yaklabco/textum/pkg/fsutil"
	"github.com/yaklabco/textum/pkg/patch"
	"github.com/yaklabco/textum/pkg/rope"
)

// Pipeline error types for categorization.
var (
	// ErrBinaryContent indicates the file looks binary and AllowBinary is off.
	ErrBinaryContent = errors.New("binary content")

	// ErrApplyFailure indicates the patches could not be applied.
	ErrApplyFailure = errors.New("apply failure")

	// ErrWriteFailure indicates a write error.
	ErrWriteFailure = errors.New("write failure")
)

// FileResult is the outcome of processing one file.
type FileResult struct {
	// Path is the file path that was processed.
	Path string

	// OriginalInfo is the file state before processing.
	OriginalInfo *fsutil.FileInfo

	// Patches are the resolved patches for this file, in registration order.
	Patches []patch.Patch

	// Applied is the number of patches applied.
	Applied int

	// Modified is true if the content changed.
	Modified bool

	// Content is the patched content. It is set for every successful apply
	// so stdin results can be printed.
	Content []byte

	// Diff is the unified diff between original and patched content.
	Diff *patch.Diff

	// Skipped is true if the file was not written back.
	Skipped bool

	// SkipReason explains why the file was skipped.
	SkipReason string

	// BackupCreated is true if a backup was created for this file.
	BackupCreated bool

	// Written is true if the file was written to disk.
	Written bool
}

// IsStdin reports whether the result came from standard input.
func (fr *FileResult) IsStdin() bool {
	return fsutil.IsStdin(fr.Path)
}

// Summary returns a short human-readable status.
func (fr *FileResult) Summary() string {
	switch {
	case fr.Skipped:
		return "skipped: " + fr.SkipReason
	case fr.Written && fr.BackupCreated:
		return "patched (backup created)"
	case fr.Written:
		return "patched"
	case fr.Modified:
		return "changes pending"
	default:
		return "unchanged"
	}
}

// Pipeline processes single files against a patch set.
type Pipeline struct {
	// Set holds the patches to apply.
	Set *patch.Set
}

// NewPipeline creates a pipeline for set.
func NewPipeline(set *patch.Set) *Pipeline {
	return &Pipeline{Set: set}
}

// ProcessFile runs the full pipeline for a single file.
//
// The pipeline performs the following steps:
//  1. Read and hash the original file (once).
//  2. Refuse binary content unless allowed.
//  3. Resolve located patches and apply all patches in memory.
//  4. Generate the diff; dry-run and stdin stop here.
//  5. Check for concurrent modifications.
//  6. Create a backup (if enabled).
//  7. Write the patched content atomically.
func (p *Pipeline) ProcessFile(ctx context.Context, path string, opts PipelineOptions) (*FileResult, error) {
	logger := logging.FromContext(ctx).With(logging.FieldPath, path)

	original, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	result, err := p.ProcessContent(ctx, path, original, opts)
	if err != nil {
		return nil, err
	}
	result.OriginalInfo = info

	if !result.Modified {
		logger.Debug("no change")
		return result, nil
	}

	if opts.DryRun || info.IsStdin() {
		return result, nil
	}

	modified, err := p.checkModified(ctx, info, opts.StrictRaceDetection)
	if err != nil {
		return nil, err
	}
	if modified {
		result.Skipped = true
		result.SkipReason = "file modified during processing"
		logger.Warn("skipping file", logging.FieldReason, result.SkipReason)
		return result, nil
	}

	created, err := opts.Backups.Save(ctx, info, original)
	if err != nil {
		return nil, fmt.Errorf("create backup: %w", err)
	}
	result.BackupCreated = created

	if err := fsutil.WriteBack(ctx, info, result.Content); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true
	logger.Debug("written", logging.FieldBytes, len(result.Content), logging.FieldBackup, created)

	return result, nil
}

// ProcessContent applies the patches registered for path to content
// without file I/O.
func (p *Pipeline) ProcessContent(
	ctx context.Context,
	path string,
	content []byte,
	opts PipelineOptions,
) (*FileResult, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("processing cancelled: %w", ctx.Err())
	default:
	}

	logger := logging.FromContext(ctx).With(logging.FieldPath, path)
	result := &FileResult{Path: path}

	if !opts.AllowBinary && fsutil.IsBinary(content) {
		return nil, fmt.Errorf("%w: %s", ErrBinaryContent, path)
	}

	buf := rope.FromString(string(content))
	patches, err := p.Set.ResolveFile(path, buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrApplyFailure, err)
	}
	result.Patches = patches
	logger.Debug("resolved", logging.FieldPatches, len(patches))

	if err := patch.Overlaps(patches); err != nil {
		logger.Warn("overlapping patches", logging.FieldError, err)
	}

	if err := patch.ApplyToBuffer(buf, patches); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrApplyFailure, path, err)
	}
	result.Applied = len(patches)

	patched := []byte(buf.String())
	result.Content = patched
	result.Diff = patch.GenerateDiff(path, content, patched)
	result.Modified = !bytes.Equal(content, patched)

	return result, nil
}

// checkModified checks if a file has been modified since it was read.
func (p *Pipeline) checkModified(ctx context.Context, info *fsutil.FileInfo, strict bool) (bool, error) {
	var modified bool
	var err error

	if strict {
		modified, err = fsutil.CheckModified(ctx, info)
	} else {
		modified, err = fsutil.CheckModifiedQuick(ctx, info)
	}

	if err != nil {
		return false, fmt.Errorf("check modified: %w", err)
	}
	return modified, nil
}

// categorizeError maps read failures onto the patch error taxonomy.
func categorizeError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, fsutil.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", patch.ErrFileNotFound, err)
	}

	return err
}

// IsPipelineError reports whether err is a known pipeline error type.
func IsPipelineError(err error) bool {
	return errors.Is(err, patch.ErrFileNotFound) ||
		errors.Is(err, fsutil.ErrPermissionDenied) ||
		errors.Is(err, ErrBinaryContent) ||
		errors.Is(err, ErrApplyFailure) ||
		errors.Is(err, ErrWriteFailure)
}
