package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/yaklabco/textum/internal/configloader"
	"github.com/yaklabco/textum/internal/logging"
	"github.com/yaklabco/textum/pkg/config"
	"github.com/yaklabco/textum/pkg/fsutil"
	"github.com/yaklabco/textum/pkg/patch"
	"github.com/yaklabco/textum/pkg/request"
)

type applyFlags struct {
	format   string
	backup   bool
	noBackup bool
}

func newApplyCommand() *cobra.Command {
	var cfg config.Config
	flags := &applyFlags{}

	cmd := &cobra.Command{
		Use:   "apply [FILE|-]",
		Short: "Apply a list of patches",
		Long:  applyLongDescription,
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, args, &cfg, flags)
		},
	}

	addApplyFlags(cmd, &cfg, flags)

	return cmd
}

const applyLongDescription = `Apply a list of patches read from FILE, or from standard input when FILE
is "-" or omitted. The list is JSON or YAML; each entry names a file and
one locator (range, lines or snippet) plus an optional replacement.

All patches for a file are resolved against its original content and
applied together. A file whose patches fail is left untouched; other
files are still written.

Examples:
  textum apply patches.yaml              # Apply and write back
  textum apply --dry-run patches.json    # Show diffs without writing
  cat patches.json | textum apply -      # Read the list from stdin
  textum apply --backup patches.yaml     # Keep FILE.textum.bak copies
  textum apply --format json patches.yaml`

func runApply(cmd *cobra.Command, args []string, cliCfg *config.Config, flags *applyFlags) error {
	if cmd.Flags().Changed("format") {
		format, ok := config.ParseFormat(flags.format)
		if !ok {
			return usageError(fmt.Errorf("invalid format %q: must be one of text, json, diff", flags.format))
		}
		cliCfg.Format = format
	}
	if flags.backup && flags.noBackup {
		return usageError(errors.New("--backup and --no-backup are mutually exclusive"))
	}
	cliCfg.Backups.Enabled = flags.backup
	cliCfg.NoBackups = flags.noBackup

	source := fsutil.StdinMarker
	if len(args) == 1 {
		source = args[0]
	}

	in := cmd.InOrStdin()
	if fsutil.IsStdin(source) && in == os.Stdin && configloader.IsInteractive() {
		return usageError(errors.New("no patch list given: pass FILE or pipe patches on stdin"))
	}

	cfg, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	descs, err := readRequest(source, in)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Loaded %d patch(es)\n", len(descs))
	}

	set, err := request.Build(descs, patch.WithJobs(cfg.Jobs))
	if err != nil {
		return err
	}

	if fsutil.IsStdin(source) && slices.Contains(set.Files(), fsutil.StdinMarker) {
		return usageError(errors.New("cannot patch standard input while reading patches from it"))
	}

	logging.Default().Debug("patches loaded",
		logging.FieldInput, source,
		logging.FieldPatches, set.Len(),
	)

	return runSet(cmd, set, cfg)
}

// readRequest decodes the patch list at source, or from in for StdinMarker.
func readRequest(source string, in io.Reader) ([]request.Description, error) {
	if fsutil.IsStdin(source) {
		return request.Decode(in)
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open patch list: %w", err)
	}
	defer f.Close()

	return request.Decode(f)
}

func addApplyFlags(cmd *cobra.Command, cfg *config.Config, flags *applyFlags) {
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "show diffs without writing files")
	cmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "report patch counts and unchanged files")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of files patched concurrently (0 = auto)")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, diff")
	cmd.Flags().BoolVar(&cfg.AllowBinary, "allow-binary", false, "patch files that look binary")
	cmd.Flags().BoolVar(&flags.backup, "backup", false, "write FILE.textum.bak before patching")
	cmd.Flags().BoolVar(&flags.noBackup, "no-backup", false, "do not write backups even if configured")
}
