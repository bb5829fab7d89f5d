package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/textum/internal/configloader"
	"github.com/yaklabco/textum/pkg/fsutil"
	"github.com/yaklabco/textum/pkg/patch"
	"github.com/yaklabco/textum/pkg/request"
	"github.com/yaklabco/textum/pkg/runner"
	"github.com/yaklabco/textum/pkg/snip"
)

// Exit codes for textum, following sysexits(3) where one applies.
const (
	// ExitSuccess indicates every patch was applied.
	ExitSuccess = 0

	// ExitPatchFailures indicates at least one patch or file failed.
	ExitPatchFailures = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitDataError indicates a malformed request, snippet or config file.
	ExitDataError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ErrPatchesFailed is returned when a run completed but some files failed.
// The failures have already been reported.
var ErrPatchesFailed = errors.New("some patches failed")

// UsageError marks an error in the command line itself.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

func usageError(err error) error {
	if err == nil {
		return nil
	}
	return &UsageError{Err: err}
}

// ExitCodeFromResult determines the exit code of a completed run.
func ExitCodeFromResult(result *runner.Result) int {
	if result != nil && result.HasFailures() {
		return ExitPatchFailures
	}
	return ExitSuccess
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	var (
		usageErr      *UsageError
		decodeErr     *request.DecodeError
		validationErr *configloader.ValidationError
		pathErr       *fs.PathError
	)

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrPatchesFailed):
		return ExitPatchFailures
	case errors.As(err, &usageErr):
		return ExitInvalidUsage
	case errors.As(err, &decodeErr),
		errors.As(err, &validationErr),
		errors.Is(err, request.ErrInvalidRequest),
		errors.Is(err, snip.ErrInvalidPattern),
		errors.Is(err, snip.ErrInvalidUTF8):
		return ExitDataError
	case isResolveFailure(err):
		return ExitPatchFailures
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory),
		errors.Is(err, patch.ErrFileNotFound),
		errors.As(err, &pathErr):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// isResolveFailure reports whether err means a selector did not match the
// buffer it was resolved against.
func isResolveFailure(err error) bool {
	for _, target := range []error{
		snip.ErrNotFound,
		snip.ErrOutOfBounds,
		snip.ErrInvalidPosition,
		snip.ErrExtentOutOfBounds,
		snip.ErrInvalidExtent,
		snip.ErrInvalidRange,
		snip.ErrIncomplete,
		patch.ErrRangeOutOfBounds,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
