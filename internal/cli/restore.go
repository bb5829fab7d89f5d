package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/textum/internal/logging"
	"github.com/yaklabco/textum/pkg/fsutil"
)

type restoreFlags struct {
	keep bool
}

func newRestoreCommand() *cobra.Command {
	flags := &restoreFlags{}

	cmd := &cobra.Command{
		Use:   "restore FILE...",
		Short: "Restore files from their backups",
		Long: `Copy FILE.textum.bak back over FILE for each FILE, undoing a patch run
made with --backup. The backup is removed afterwards unless --keep is set.

Examples:
  textum restore main.go
  textum restore --keep docs/*.md`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestore(cmd, args, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.keep, "keep", false, "keep backups after restoring")

	return cmd
}

func runRestore(cmd *cobra.Command, paths []string, flags *restoreFlags) error {
	ctx := commandContext(cmd)
	logger := logging.NewInteractive()
	backups := fsutil.Backups{Enabled: true, Mode: fsutil.BackupModeSidecar}

	var missing int
	for _, path := range paths {
		restored, err := backups.Restore(ctx, path)
		if err != nil {
			return fmt.Errorf("restore %s: %w", path, err)
		}
		if !restored {
			logger.Warn("no backup found", logging.FieldPath, path)
			missing++
			continue
		}

		if !flags.keep {
			if _, err := backups.Remove(path); err != nil {
				return fmt.Errorf("restore %s: %w", path, err)
			}
		}
		logger.Info("restored", logging.FieldPath, path, logging.FieldBackup, backups.Path(path))
	}

	if missing > 0 {
		return fmt.Errorf("%w: %d of %d files had no backup", ErrPatchesFailed, missing, len(paths))
	}
	return nil
}
