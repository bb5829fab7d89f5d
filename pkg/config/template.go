package config

import (
	"encoding/json"
	"fmt"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Format is the output format: "yaml" or "json".
	Format string
}

// GenerateTemplate creates a commented configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON(NewConfig())
	}

	return []byte(DefaultTemplateHeader() + `

# Number of files patched concurrently (0 = one per CPU)
jobs: 0

# Log level: debug, info, warn, or error
log_level: info

# Report format: text, json, or diff
format: text

# Patch files that look binary
allow_binary: false

# Compare content hashes before writing back (slower, catches same-size edits)
strict_race_detection: true

# Keep a copy of each file before it is patched
backups:
  enabled: false
  # sidecar writes FILE.textum.bak, none disables backups
  mode: sidecar
`), nil
}

// templateToJSON renders cfg as indented JSON.
func templateToJSON(cfg *Config) ([]byte, error) {
	doc := map[string]any{
		"jobs":                  cfg.Jobs,
		"log_level":             cfg.LogLevel,
		"format":                string(cfg.Format),
		"allow_binary":          cfg.AllowBinary,
		"strict_race_detection": cfg.StrictRaceDetection,
		"backups": map[string]any{
			"enabled": cfg.Backups.Enabled,
			"mode":    string(cfg.Backups.Mode),
		},
	}

	jsonBytes, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return append(jsonBytes, '\n'), nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# textum configuration
# See: https://github.com/yaklabco/textum`
}
