// Package emoji provides symbol constants for CLI output.
// These symbols create a consistent visual language across all commands.
package emoji

// Symbol constants for status lines written to stderr.
const (
	// Success represents successful completion of an operation.
	Success = "✓"

	// Error represents a failed operation.
	Error = "✗"

	// Warning represents a non-fatal problem, such as dropped import entries.
	Warning = "!"

	// Info represents informational messages.
	Info = "i"
)
