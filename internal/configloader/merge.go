package configloader

import "github.com/yaklabco/textum/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// Scalar values in override replace base only when non-zero, so an unset
// flag never clears a value from a file. Booleans can therefore only be
// switched on here; config files switch them off through decodeOnto.
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.LogLevel != "" {
		result.LogLevel = override.LogLevel
	}
	if override.Format != "" {
		result.Format = override.Format
	}

	if override.AllowBinary {
		result.AllowBinary = true
	}
	if override.StrictRaceDetection {
		result.StrictRaceDetection = true
	}
	if override.DryRun {
		result.DryRun = true
	}
	if override.Verbose {
		result.Verbose = true
	}
	if override.NoBackups {
		result.NoBackups = true
	}

	if override.Backups.Mode != "" {
		result.Backups.Mode = override.Backups.Mode
	}
	if override.Backups.Enabled {
		result.Backups.Enabled = true
	}

	return &result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
