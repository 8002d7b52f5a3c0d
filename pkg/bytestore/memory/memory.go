// Package memory provides an in-process byte store. Each Store is independent,
// which makes it the backend of choice for tests and for holding several
// vaults side by side.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/agentstation/apexvault/pkg/errors"
)

// Option is a function that configures a Store
type Option func(*config) error

type config struct {
	readOnly bool
	preload  map[string][]byte
}

// WithReadOnly makes Set fail with errors.ErrReadOnly
func WithReadOnly(readOnly bool) Option {
	return func(cfg *config) error {
		cfg.readOnly = readOnly
		return nil
	}
}

// WithPreload seeds the store with data under key
func WithPreload(key string, data []byte) Option {
	return func(cfg *config) error {
		if key == "" {
			return fmt.Errorf("preload key cannot be empty")
		}
		cfg.preload[key] = append([]byte(nil), data...)
		return nil
	}
}

// Store is a map-backed byte store
type Store struct {
	mu       sync.RWMutex
	data     map[string][]byte
	readOnly bool
	closed   bool
}

// New creates an empty in-memory store
func New(opts ...Option) (*Store, error) {
	cfg := &config{preload: make(map[string][]byte)}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("applying memory option: %w", err)
		}
	}
	return &Store{data: cfg.preload, readOnly: cfg.readOnly}, nil
}

// Get returns a copy of the bytes under key
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, false, errors.ErrClosed
	}
	data, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

// Set stores a copy of data under key
func (s *Store) Set(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.ErrClosed
	}
	if s.readOnly {
		return errors.ErrReadOnly
	}
	s.data[key] = append([]byte(nil), data...)
	return nil
}

// Close releases the stored data
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.data = nil
	return nil
}
