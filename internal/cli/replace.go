package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/textum/pkg/config"
	"github.com/yaklabco/textum/pkg/patch"
	"github.com/yaklabco/textum/pkg/request"
	"github.com/yaklabco/textum/pkg/snip"
)

type replaceFlags struct {
	snippet string
	with    string
	format  string
	backup  bool
}

func newReplaceCommand() *cobra.Command {
	var cfg config.Config
	flags := &replaceFlags{}

	cmd := &cobra.Command{
		Use:   "replace FILE",
		Short: "Replace the range a snippet selects",
		Long: `Replace the range a snippet selects in FILE with the text given by --with.
Without --with the range is deleted. Use "-" to patch standard input and
print the result.

Examples:
  textum replace greeting.txt --with "-" \
    --snippet '{between: {start: {target: {literal: hello}}, end: {target: {literal: world}}}}'
  textum replace notes.txt --dry-run --with EDITED \
    --snippet '{at: {target: {line: 1}, mode: extend, extent: {chars: 6}}}'`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplace(cmd, args[0], &cfg, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.snippet, "snippet", "s", "", "snippet selecting the range (YAML or JSON)")
	cmd.Flags().StringVarP(&flags.with, "with", "w", "", "replacement text (omit to delete the range)")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "show the diff without writing the file")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, diff")
	cmd.Flags().BoolVar(&flags.backup, "backup", false, "write FILE.textum.bak before patching")
	cmd.Flags().BoolVar(&cfg.AllowBinary, "allow-binary", false, "patch a file that looks binary")

	return cmd
}

func runReplace(cmd *cobra.Command, path string, cliCfg *config.Config, flags *replaceFlags) error {
	if flags.snippet == "" {
		return usageError(errors.New("--snippet is required"))
	}
	if cmd.Flags().Changed("format") {
		format, ok := config.ParseFormat(flags.format)
		if !ok {
			return usageError(fmt.Errorf("invalid format %q: must be one of text, json, diff", flags.format))
		}
		cliCfg.Format = format
	}
	cliCfg.Backups.Enabled = flags.backup

	snippet, err := request.ParseSnippet(flags.snippet)
	if err != nil {
		return err
	}

	tmpl := patch.Patch{File: path}
	if cmd.Flags().Changed("with") {
		if err := snip.CheckText(flags.with); err != nil {
			return err
		}
		tmpl.Replacement = patch.Text(flags.with)
	}

	cfg, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	set := patch.NewSet()
	set.AddLocated(tmpl, snippet)

	return runSet(cmd, set, cfg)
}
