package fsutil

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// BackupMode specifies how backups are stored.
type BackupMode string

const (
	// BackupModeSidecar stores the backup next to the file with BackupSuffix.
	BackupModeSidecar BackupMode = "sidecar"

	// BackupModeNone disables backups.
	BackupModeNone BackupMode = "none"
)

// BackupSuffix is the suffix used for sidecar backup files.
const BackupSuffix = ".textum.bak"

// Backups controls whether and where originals are saved before a write.
type Backups struct {
	Enabled bool
	Mode    BackupMode
}

// DefaultBackups returns backups disabled, in sidecar mode when enabled.
func DefaultBackups() Backups {
	return Backups{Mode: BackupModeSidecar}
}

func (b Backups) active() bool {
	return b.Enabled && b.Mode != BackupModeNone
}

// Path returns the backup path for path, or "" when backups are off.
func (b Backups) Path(path string) string {
	if !b.active() || IsStdin(path) {
		return ""
	}
	return path + BackupSuffix
}

// Save writes original, the content read before patching, to the backup
// path of info. An existing backup is kept so repeated runs never lose the
// first original. It reports whether a backup was written.
func (b Backups) Save(ctx context.Context, info *FileInfo, original []byte) (bool, error) {
	if info == nil {
		return false, ErrNilFileInfo
	}
	backupPath := b.Path(info.Path)
	if backupPath == "" {
		return false, nil
	}

	_, err := os.Stat(backupPath)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat backup path: %w", err)
	}

	if err := WriteAtomic(ctx, backupPath, original, info.Mode.Perm()); err != nil {
		return false, fmt.Errorf("write backup: %w", err)
	}
	return true, nil
}

// Restore copies the backup of path back over path. It reports whether a
// backup existed.
func (b Backups) Restore(ctx context.Context, path string) (bool, error) {
	backupPath := b.Path(path)
	if backupPath == "" {
		return false, nil
	}

	content, info, err := ReadFile(ctx, backupPath)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read backup: %w", err)
	}

	if err := WriteAtomic(ctx, path, content, info.Mode.Perm()); err != nil {
		return false, fmt.Errorf("restore from backup: %w", err)
	}
	return true, nil
}

// Remove deletes the backup of path. It reports whether one existed.
func (b Backups) Remove(path string) (bool, error) {
	backupPath := b.Path(path)
	if backupPath == "" {
		return false, nil
	}

	err := os.Remove(backupPath)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("remove backup: %w", err)
	}
	return true, nil
}
