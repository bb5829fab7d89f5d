// Package config defines the configuration types for textum.
// These types are pure data structures; discovery and merging live in
// internal/configloader.
package config

// BackupMode selects where backups of patched files are kept.
type BackupMode string

const (
	// BackupModeSidecar writes FILE.textum.bak next to the file.
	BackupModeSidecar BackupMode = "sidecar"
	// BackupModeNone keeps no backups even when enabled.
	BackupModeNone BackupMode = "none"
)

// IsValid reports whether m is a known backup mode.
func (m BackupMode) IsValid() bool {
	switch m {
	case BackupModeSidecar, BackupModeNone:
		return true
	default:
		return false
	}
}

// BackupsConfig controls backup behavior when writing patched files.
type BackupsConfig struct {
	Enabled bool       `yaml:"enabled"`
	Mode    BackupMode `yaml:"mode"`
}

// Config is the root configuration structure for textum.
type Config struct {
	// Jobs is the number of files processed concurrently. 0 means one per CPU.
	Jobs int `yaml:"jobs"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level"`

	// Format is the report format.
	Format OutputFormat `yaml:"format"`

	// AllowBinary permits patching files that look binary.
	AllowBinary bool `yaml:"allow_binary"`

	// StrictRaceDetection compares content hashes, not only size and
	// modification time, before writing back.
	StrictRaceDetection bool `yaml:"strict_race_detection"`

	// Backups configures backup behavior.
	Backups BackupsConfig `yaml:"backups"`

	// CLI-level options (not persisted to config files).

	// DryRun shows what would change without writing.
	DryRun bool `yaml:"-"`

	// Verbose reports extra progress such as the number of loaded patches.
	Verbose bool `yaml:"-"`

	// NoBackups disables backups for this run.
	NoBackups bool `yaml:"-"`
}

// NewConfig returns a Config with defaults.
func NewConfig() *Config {
	return &Config{
		Jobs:                0,
		LogLevel:            "info",
		Format:              FormatText,
		AllowBinary:         false,
		StrictRaceDetection: true,
		Backups: BackupsConfig{
			Enabled: false,
			Mode:    BackupModeSidecar,
		},
	}
}

// BackupsEnabled reports whether backups should be written for this run.
func (c *Config) BackupsEnabled() bool {
	if c == nil {
		return false
	}
	return c.Backups.Enabled && !c.NoBackups && c.Backups.Mode != BackupModeNone
}
