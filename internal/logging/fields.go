package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError  = "error"
	FieldPath   = "path"
	FieldFiles  = "files"
	FieldInput  = "input"
	FieldConfig = "config"

	// Patch fields.
	FieldPatches = "patches"
	FieldRange   = "range"
	FieldSnippet = "snippet"
	FieldBytes   = "bytes"
	FieldReason  = "reason"

	// Run options.
	FieldDryRun = "dry_run"
	FieldJobs   = "jobs"
	FieldBackup = "backup"

	// Statistics fields.
	FieldFilesProcessed = "files_processed"
	FieldFilesModified  = "files_modified"
	FieldFilesWritten   = "files_written"
	FieldFilesErrored   = "files_errored"
	FieldPatchesApplied = "patches_applied"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
