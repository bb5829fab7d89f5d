package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/textum/pkg/config"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want config.OutputFormat
		ok   bool
	}{
		{"empty defaults to text", "", config.FormatText, true},
		{"text", "text", config.FormatText, true},
		{"json", "json", config.FormatJSON, true},
		{"diff", "diff", config.FormatDiff, true},
		{"unknown", "sarif", config.OutputFormat("sarif"), false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, ok := config.ParseFormat(testCase.in)
			assert.Equal(t, testCase.want, got)
			assert.Equal(t, testCase.ok, ok)
		})
	}
}

func TestBackupMode_IsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, config.BackupModeSidecar.IsValid())
	assert.True(t, config.BackupModeNone.IsValid())
	assert.False(t, config.BackupMode("xdg").IsValid())
}

func TestConfig_BackupsEnabled(t *testing.T) {
	t.Parallel()

	var nilCfg *config.Config
	assert.False(t, nilCfg.BackupsEnabled())

	cfg := config.NewConfig()
	assert.False(t, cfg.BackupsEnabled())

	cfg.Backups.Enabled = true
	assert.True(t, cfg.BackupsEnabled())

	cfg.NoBackups = true
	assert.False(t, cfg.BackupsEnabled())

	cfg.NoBackups = false
	cfg.Backups.Mode = config.BackupModeNone
	assert.False(t, cfg.BackupsEnabled())
}
