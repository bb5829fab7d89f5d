// Package runner applies a patch set to files on disk, one pipeline per
// file, with a bounded worker pool.
package runner

import (
	"github.com/yaklabco/textum/pkg/config"
	"github.com/yaklabco/textum/pkg/fsutil"
)

// PipelineOptions controls how a single file is processed.
type PipelineOptions struct {
	// DryRun computes the diff without writing.
	DryRun bool

	// AllowBinary permits patching content go-enry classifies as binary.
	AllowBinary bool

	// Backups configures the copy kept before writing.
	Backups fsutil.Backups

	// StrictRaceDetection compares content hashes before writing back.
	// When false, only modification time and size are checked.
	StrictRaceDetection bool
}

// DefaultPipelineOptions returns the defaults used when no config is given.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		Backups:             fsutil.DefaultBackups(),
		StrictRaceDetection: true,
	}
}

// PipelineOptionsFromConfig derives pipeline options from cfg.
func PipelineOptionsFromConfig(cfg *config.Config) PipelineOptions {
	if cfg == nil {
		return DefaultPipelineOptions()
	}
	return PipelineOptions{
		DryRun:              cfg.DryRun,
		AllowBinary:         cfg.AllowBinary,
		Backups:             BackupsFromConfig(cfg),
		StrictRaceDetection: cfg.StrictRaceDetection,
	}
}

// BackupsFromConfig creates an fsutil.Backups from cfg.
func BackupsFromConfig(cfg *config.Config) fsutil.Backups {
	if cfg == nil {
		return fsutil.DefaultBackups()
	}
	return fsutil.Backups{
		Enabled: cfg.BackupsEnabled(),
		Mode:    fsutil.BackupMode(cfg.Backups.Mode),
	}
}

// Options controls a multi-file run.
type Options struct {
	// Jobs bounds the number of concurrent workers.
	// 0 or negative means runtime.NumCPU().
	Jobs int

	// Pipeline is applied to every file.
	Pipeline PipelineOptions
}

// OptionsFromConfig derives run options from cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{Pipeline: PipelineOptionsFromConfig(cfg)}
	if cfg != nil {
		opts.Jobs = cfg.Jobs
	}
	return opts
}
