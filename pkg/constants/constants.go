// Package constants provides shared constants used throughout the apexvault codebase.
// This includes storage keys, file names, permissions, and display values
// that must stay consistent between the library and the CLI.
package constants

import "time"

// Storage constants
const (
	// StorageKey is the key the vault collection is persisted under
	StorageKey = "apex_workspace_vault_v1"

	// ExportSchema is the schema tag written into export envelopes
	ExportSchema = "apex_workspace_vault_v1"

	// ExportFileName is the suggested file name for exports
	ExportFileName = "apex-workspace-vault.json"

	// StorageFileExt is appended to storage keys by the files backend
	StorageFileExt = ".json"

	// SQLiteFileName is the database file used by the sqlite backend
	SQLiteFileName = "vault.db"
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwx------)
	DirPermissions = 0700

	// SecureFilePermissions is for vault files holding secrets (rw-------)
	SecureFilePermissions = 0600
)

// Timeout constants
const (
	// ShutdownTimeout bounds cleanup after a failed command
	ShutdownTimeout = 5 * time.Second

	// SQLiteBusyTimeout is how long sqlite waits on a locked database
	SQLiteBusyTimeout = 5 * time.Second
)

// Limits
const (
	// MaxReaderConnections is the size of the sqlite reader pool
	MaxReaderConnections = 4

	// MaxImportBytes caps the size of an import payload read from disk or stdin (32 MiB)
	MaxImportBytes = 32 * 1024 * 1024
)

// Display constants
const (
	// PasswordMask replaces passwords in listings
	PasswordMask = "••••••••"

	// TimeFormatHuman is a human-readable time format
	TimeFormatHuman = "Jan 2, 2006 at 3:04pm MST"
)

// Path constants
const (
	// DefaultDataPath is the default directory for vault storage
	DefaultDataPath = "~/.apexvault"

	// DefaultConfigFile is the default configuration file name in the home directory
	DefaultConfigFile = ".apexvault.yaml"

	// EnvPrefix is the prefix for environment variable configuration
	EnvPrefix = "APEXVAULT"
)
