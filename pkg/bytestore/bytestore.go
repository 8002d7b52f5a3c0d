// Package bytestore defines the storage boundary of the vault: a flat
// key/value space of byte payloads. Backends live in the memory, files and
// sqlite subpackages; Open picks one from configuration.
package bytestore

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	"github.com/agentstation/apexvault/pkg/bytestore/files"
	"github.com/agentstation/apexvault/pkg/bytestore/memory"
	"github.com/agentstation/apexvault/pkg/bytestore/sqlite"
	"github.com/agentstation/apexvault/pkg/constants"
	"github.com/agentstation/apexvault/pkg/errors"
)

// Store is a key/value byte store. Get reports ok=false for an absent key.
type Store interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte) error
	Close() error
}

// Compile-time interface checks.
var (
	_ Store = (*memory.Store)(nil)
	_ Store = (*files.Store)(nil)
	_ Store = (*sqlite.Store)(nil)
)

// Type names a backend
type Type string

// Backend types.
const (
	TypeMemory Type = "memory"
	TypeFiles  Type = "files"
	TypeSQLite Type = "sqlite"
)

// Config selects and configures a backend
type Config struct {
	// Type is one of memory, files, sqlite
	Type Type `mapstructure:"type" yaml:"type" default:"files" validate:"oneof=memory files sqlite"`

	// Path is the data directory; "~" expands to the home directory
	Path string `mapstructure:"path" yaml:"path" default:"~/.apexvault"`

	// ReadOnly rejects writes
	ReadOnly bool `mapstructure:"read_only" yaml:"read_only"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Open creates the backend described by cfg. Zero fields take their defaults.
func Open(cfg Config) (Store, error) {
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.NewConfigError("storage", "applying defaults", err)
	}
	cfg.Type = Type(strings.ToLower(string(cfg.Type)))
	if err := validate.Struct(cfg); err != nil {
		return nil, errors.NewConfigError("storage", "unknown type "+string(cfg.Type), err)
	}

	path, err := ExpandPath(cfg.Path)
	if err != nil {
		return nil, err
	}

	switch cfg.Type {
	case TypeMemory:
		return memory.New(memory.WithReadOnly(cfg.ReadOnly))
	case TypeSQLite:
		return sqlite.Open(filepath.Join(path, constants.SQLiteFileName))
	default:
		return files.New(path, files.WithReadOnly(cfg.ReadOnly))
	}
}

// ExpandPath resolves a leading "~" to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.NewConfigError("storage", "cannot resolve home directory", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
