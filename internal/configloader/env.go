package configloader

import (
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/samber/lo"

	"github.com/yaklabco/textum/pkg/config"
)

// envVarPrefix is the prefix for all textum environment variables.
const envVarPrefix = "TEXTUM_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field string
	typ   envFieldType
	help  string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"JOBS":                  {field: "jobs", typ: envTypeInt, help: "Number of parallel workers (0 = one per CPU)"},
	"LOG_LEVEL":             {field: "log_level", typ: envTypeString, help: "Log level: debug, info, warn, or error"},
	"FORMAT":                {field: "format", typ: envTypeString, help: "Output format: text, json, or diff"},
	"ALLOW_BINARY":          {field: "allow_binary", typ: envTypeBool, help: "Patch files that look binary: true or false"},
	"STRICT_RACE_DETECTION": {field: "strict_race_detection", typ: envTypeBool, help: "Hash files before writing back: true or false"},
	"BACKUPS_ENABLED":       {field: "backups.enabled", typ: envTypeBool, help: "Back up files before writing: true or false"},
	"BACKUPS_MODE":          {field: "backups.mode", typ: envTypeString, help: "Backup mode: sidecar or none"},
	"DRY_RUN":               {field: "dry_run", typ: envTypeBool, help: "Dry-run mode: true or false"},
	"NO_BACKUPS":            {field: "no_backups", typ: envTypeBool, help: "Disable backups: true or false"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with TEXTUM_ (e.g., TEXTUM_JOBS).
// Variables are applied in name order so the first error is stable.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	suffixes := lo.Keys(envMappings)
	slices.Sort(suffixes)

	for _, envSuffix := range suffixes {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, envMappings[envSuffix], value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "log_level":
		cfg.LogLevel = value
	case "format":
		cfg.Format = config.OutputFormat(value)
	case "backups.mode":
		cfg.Backups.Mode = config.BackupMode(value)
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "allow_binary":
		cfg.AllowBinary = value
	case "strict_race_detection":
		cfg.StrictRaceDetection = value
	case "backups.enabled":
		cfg.Backups.Enabled = value
	case "dry_run":
		cfg.DryRun = value
	case "no_backups":
		cfg.NoBackups = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "jobs":
		cfg.Jobs = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	return lo.MapEntries(envMappings, func(suffix string, mapping envMapping) (string, string) {
		return envVarPrefix + suffix, mapping.help
	})
}
