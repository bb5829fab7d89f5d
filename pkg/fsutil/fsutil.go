// Package fsutil reads and writes the files textum patches.
// It handles standard input, content hashing, modification detection,
// atomic writes, and sidecar backups.
package fsutil

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/go-enry/go-enry/v2"
)

// StdinMarker is the path that stands for standard input.
const StdinMarker = "-"

// Stdin is the reader used for StdinMarker.
var Stdin io.Reader = os.Stdin //nolint:gochecknoglobals // swapped in tests

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrNilFileInfo is returned when a nil FileInfo is passed.
	ErrNilFileInfo = errors.New("nil FileInfo")

	// ErrNotFound indicates the file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIsDirectory indicates the path is a directory, not a file.
	ErrIsDirectory = errors.New("path is a directory")

	// ErrStdin is returned for operations that need a real file.
	ErrStdin = errors.New("operation not supported on standard input")
)

// FileInfo captures the state of a file when it was read. The runner uses
// it to detect external modifications before writing back.
type FileInfo struct {
	// Path is the path the file was read from, or StdinMarker.
	Path string

	// Mode is the file's permission and mode bits.
	Mode os.FileMode

	// ModTime is the file's modification time.
	ModTime time.Time

	// Size is the file size in bytes.
	Size int64

	// Hash is the SHA-256 hash of the content.
	Hash [32]byte
}

// IsStdin reports whether the content came from standard input.
func (fi *FileInfo) IsStdin() bool {
	return fi != nil && fi.Path == StdinMarker
}

// IsStdin reports whether path is the standard input marker.
func IsStdin(path string) bool {
	return path == StdinMarker
}

// ReadFile reads path, or standard input for StdinMarker, and returns its
// content along with the metadata needed for modification checks.
func ReadFile(ctx context.Context, path string) ([]byte, *FileInfo, error) {
	select {
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("read file: %w", ctx.Err())
	default:
	}

	if IsStdin(path) {
		content, err := io.ReadAll(Stdin)
		if err != nil {
			return nil, nil, fmt.Errorf("read stdin: %w", err)
		}
		return content, &FileInfo{
			Path: StdinMarker,
			Size: int64(len(content)),
			Hash: sha256.Sum256(content),
		}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, nil, classify(path, err)
	}
	if stat.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, nil, classify(path, err)
	}

	return content, &FileInfo{
		Path:    path,
		Mode:    stat.Mode(),
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
		Hash:    sha256.Sum256(content),
	}, nil
}

// IsBinary reports whether content looks like binary data rather than text.
func IsBinary(content []byte) bool {
	return enry.IsBinary(content)
}

// CheckModified reports whether the file changed since info was captured.
// It compares modification time and size, then the content hash.
// A deleted file counts as modified.
func CheckModified(ctx context.Context, info *FileInfo) (bool, error) {
	return checkModified(ctx, info, true)
}

// CheckModifiedQuick is CheckModified without the content hash.
func CheckModifiedQuick(ctx context.Context, info *FileInfo) (bool, error) {
	return checkModified(ctx, info, false)
}

func checkModified(ctx context.Context, info *FileInfo, deep bool) (bool, error) {
	if info == nil {
		return false, ErrNilFileInfo
	}
	if info.IsStdin() {
		return false, ErrStdin
	}

	select {
	case <-ctx.Done():
		return false, fmt.Errorf("check modified: %w", ctx.Err())
	default:
	}

	stat, err := os.Stat(info.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", info.Path, err)
	}

	if !stat.ModTime().Equal(info.ModTime) || stat.Size() != info.Size {
		return true, nil
	}
	if !deep {
		return false, nil
	}

	content, err := os.ReadFile(info.Path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", info.Path, err)
	}
	return sha256.Sum256(content) != info.Hash, nil
}

func classify(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("read %s: %w", path, err)
	}
}
