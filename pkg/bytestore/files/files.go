// Package files provides a byte store that keeps one JSON file per key in a
// directory. Writes go through a temp file and rename, so a crash never leaves
// a half-written vault behind.
package files

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/agentstation/apexvault/pkg/constants"
	"github.com/agentstation/apexvault/pkg/errors"
)

// Option is a function that configures a Store
type Option func(*config) error

type config struct {
	readOnly bool
	ext      string
}

// WithReadOnly makes Set fail with errors.ErrReadOnly
func WithReadOnly(readOnly bool) Option {
	return func(cfg *config) error {
		cfg.readOnly = readOnly
		return nil
	}
}

// WithExtension sets the file extension appended to keys
func WithExtension(ext string) Option {
	return func(cfg *config) error {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
		cfg.ext = ext
		return nil
	}
}

// Store is a directory-backed byte store
type Store struct {
	dir      string
	ext      string
	readOnly bool
}

// New creates a store rooted at dir, creating the directory if needed
func New(dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("path is required for files store")
	}

	cfg := &config{ext: constants.StorageFileExt}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("applying files option: %w", err)
		}
	}

	if !cfg.readOnly {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return nil, errors.WrapIO("create", dir, err)
		}
	}

	return &Store{dir: dir, ext: cfg.ext, readOnly: cfg.readOnly}, nil
}

// Dir returns the directory the store writes to
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file that holds key
func (s *Store) Path(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", errors.NewValidationError("key", key, "must be a plain file name")
	}
	return filepath.Join(s.dir, key+s.ext), nil
}

// Get reads the file for key
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	path, err := s.Path(key)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.WrapIO("read", path, err)
	}
	return data, true, nil
}

// Set atomically replaces the file for key. The file is left owner-only.
func (s *Store) Set(_ context.Context, key string, data []byte) error {
	if s.readOnly {
		return errors.ErrReadOnly
	}
	path, err := s.Path(key)
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return errors.WrapIO("write", path, err)
	}
	if err := os.Chmod(path, constants.SecureFilePermissions); err != nil {
		return errors.WrapIO("chmod", path, err)
	}
	return nil
}

// Close is a no-op; files are closed after every operation
func (s *Store) Close() error {
	return nil
}
