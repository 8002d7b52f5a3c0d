// Package appcontext provides the shared application context interface
// used by all commands. Commands accept this interface rather than the
// concrete App so they can be exercised against a mock in tests.
package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/apexvault"
)

// Interface defines the application context that commands need.
// The App struct from cmd/apexvault/app implements this interface.
type Interface interface {
	// Vault returns the loaded vault, opening it lazily on first use.
	// Repeated calls return the same client.
	Vault() (apexvault.Client, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml, wide).
	OutputFormat() string

	// Interactive reports whether commands may prompt on the terminal.
	Interactive() bool

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
