// Package emoji provides symbol constants for CLI output.
// These symbols give every command the same visual language.
package emoji

// Status symbols used in tables and summaries.
const (
	// Success marks a resolved name, a clean check or a completed write.
	Success = "✓"

	// Error marks an unresolved name or an error-level issue.
	Error = "✗"

	// Warning marks a warning-level issue.
	Warning = "!"

	// Info marks informational lines such as dry-run notices.
	Info = "i"

	// Merge marks records folded into a survivor.
	Merge = "⇢"
)
