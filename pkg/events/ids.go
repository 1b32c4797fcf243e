package events

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// DefaultGapPrefix marks synthetic gap-filler records.
const DefaultGapPrefix = "ev_gap_"

// NewID returns a fresh record id.
func NewID() string {
	return "ev_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// GapID returns the id of the n-th gap record for year.
func GapID(prefix string, year, n int) string {
	if prefix == "" {
		prefix = DefaultGapPrefix
	}
	return prefix + strconv.Itoa(year) + "_" + strconv.Itoa(n)
}

// IsGap reports whether id marks a gap record.
func IsGap(id, prefix string) bool {
	if prefix == "" {
		prefix = DefaultGapPrefix
	}
	return strings.HasPrefix(id, prefix)
}
