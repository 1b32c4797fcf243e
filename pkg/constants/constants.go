// Package constants provides shared constants used throughout the eventmap codebase.
// This includes file permissions, default paths, matching thresholds and
// formats that should be consistent across the application.
package constants

import "time"

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Timeout constants
const (
	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 2 * time.Minute
)

// Path constants
const (
	// DefaultEventsPath is the events collection read and written by the CLI
	DefaultEventsPath = "data/events.json"

	// DefaultConfigName is the base name of the config file (.eventmap.yaml)
	DefaultConfigName = ".eventmap"

	// BackupSuffix separates a file name from its backup timestamp
	BackupSuffix = ".bak."
)

// Matching thresholds used when looking for probable duplicates
const (
	// TitleSimilarityThreshold is the minimum character ratio and token-set
	// Jaccard similarity for two titles in the same category to be
	// considered the same event
	TitleSimilarityThreshold = 0.9

	// NearIdenticalTitleRatio is the character ratio above which two titles
	// match regardless of category
	NearIdenticalTitleRatio = 0.97

	// SameWordsTitleRatio is the character ratio that suffices when both
	// titles have exactly the same significant words
	SameWordsTitleRatio = 0.88

	// MinTokenLength is the shortest title word kept for similarity
	MinTokenLength = 3
)

// Format constants
const (
	// TimeFormatISO8601 is the ISO 8601 time format
	TimeFormatISO8601 = time.RFC3339

	// TimeFormatFilename is the format used in backup file names
	TimeFormatFilename = "20060102T150405Z"
)

// Display constants
const (
	// MaxTitleWidth truncates titles in table output
	MaxTitleWidth = 60

	// MaxIssuesShown limits how many issues an aggregate error prints
	MaxIssuesShown = 3
)
