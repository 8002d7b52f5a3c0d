package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"os"
	"path/filepath"

	"github.com/agentstation/apexvault/pkg/constants"
	"github.com/agentstation/apexvault/pkg/errors"
)

// Store is a byte store backed by the vault_kv table
type Store struct {
	db *DB
}

// Open opens or creates the database at path and migrates it
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.NewConfigError("sqlite", "path is required", nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", filepath.Dir(path), err)
	}

	db, err := openDB(fileDSN(path), path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	s, err := newStore(db)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(path, constants.SecureFilePermissions); err != nil {
		_ = s.Close()
		return nil, errors.WrapIO("chmod", path, err)
	}
	return s, nil
}

func newStore(db *DB) (*Store, error) {
	if err := RunMigrations(db.Writer); err != nil {
		_ = db.Close()
		return nil, errors.WrapIO("migrate", db.path, err)
	}
	return &Store{db: db}, nil
}

// Get returns the value stored under key
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	const query = `SELECT value FROM vault_kv WHERE key = ?`

	var data []byte
	err := s.db.Reader.QueryRowContext(ctx, query, key).Scan(&data)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.WrapIO("read", key, err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, true, nil
}

// Set inserts or replaces the value under key
func (s *Store) Set(ctx context.Context, key string, data []byte) error {
	const query = `
		INSERT INTO vault_kv (key, value, updated_at)
		VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`
	if data == nil {
		data = []byte{}
	}
	if _, err := s.db.Writer.ExecContext(ctx, query, key, data); err != nil {
		return errors.WrapIO("write", key, err)
	}
	return nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}
