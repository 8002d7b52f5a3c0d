// Package vault holds the record collection and persists it through a
// bytestore.Store. Every mutation rebuilds the collection with the reconcile
// package, swaps it in under a lock and saves it before returning.
package vault

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/apexvault/pkg/bytestore"
	"github.com/agentstation/apexvault/pkg/constants"
	"github.com/agentstation/apexvault/pkg/errors"
	"github.com/agentstation/apexvault/pkg/logging"
	"github.com/agentstation/apexvault/pkg/reconcile"
	"github.com/agentstation/apexvault/pkg/records"
	"github.com/agentstation/apexvault/pkg/transfer"
)

// Store is the vault: an in-memory collection mirrored to a byte store.
type Store struct {
	mu       sync.RWMutex
	bs       bytestore.Store
	key      string
	logger   *zerolog.Logger
	strategy reconcile.Strategy
	entries  []records.Record
}

// Option configures a Store
type Option func(*Store)

// WithKey sets the storage key the collection is persisted under
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger used for load warnings and mutation traces
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStrategy sets the conflict strategy used by Merge and Import
func WithStrategy(strategy reconcile.Strategy) Option {
	return func(s *Store) {
		if strategy != nil {
			s.strategy = strategy
		}
	}
}

// New creates an empty vault over bs. Call Load to read persisted records.
func New(bs bytestore.Store, opts ...Option) *Store {
	s := &Store{
		bs:       bs,
		key:      constants.StorageKey,
		logger:   logging.Default(),
		strategy: reconcile.NewLastWriterWinsStrategy(),
		entries:  []records.Record{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the storage key
func (s *Store) Key() string {
	return s.key
}

// log returns the context logger when one is set, else the store's, tagged
// with the operation and storage key.
func (s *Store) log(ctx context.Context, operation string) *zerolog.Logger {
	base := s.logger
	if l := logging.FromContext(ctx); l != logging.Default() {
		base = l
	}
	l := base.With().Str("operation", operation).Str("storage_key", s.key).Logger()
	return &l
}

// Load reads the persisted collection and makes it current. Absent or
// unreadable payloads load as an empty vault; only backend failures are
// returned as errors.
func (s *Store) Load(ctx context.Context) ([]records.Record, error) {
	log := s.log(ctx, "load")

	data, ok, err := s.bs.Get(ctx, s.key)
	if err != nil {
		return nil, errors.WrapResource("load", "vault", s.key, err)
	}

	loaded := []records.Record{}
	if ok && len(data) > 0 {
		decoded, err := transfer.UnmarshalCollection(data)
		if err != nil {
			log.Warn().Err(err).Int("bytes", len(data)).Msg("Ignoring unreadable vault payload")
		} else {
			loaded = decoded
		}
	}

	s.mu.Lock()
	s.entries = loaded
	s.mu.Unlock()

	log.Debug().Int("records", len(loaded)).Msg("Vault loaded")
	return records.Clone(loaded), nil
}

// Save writes the current collection
func (s *Store) Save(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persist(ctx, s.entries)
}

// persist serializes entries; callers hold the lock
func (s *Store) persist(ctx context.Context, entries []records.Record) error {
	data, err := transfer.MarshalCollection(entries)
	if err != nil {
		return errors.WrapResource("save", "vault", s.key, err)
	}
	if err := s.bs.Set(ctx, s.key, data); err != nil {
		return errors.WrapResource("save", "vault", s.key, err)
	}
	return nil
}

// swap persists next and then makes it current; callers hold the write lock.
// A failed save leaves the current collection untouched.
func (s *Store) swap(ctx context.Context, next []records.Record) error {
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.entries = next
	return nil
}

// Upsert normalizes rec and stores it, replacing any record with the same
// identity key. It reports whether an existing record was replaced.
func (s *Store) Upsert(ctx context.Context, rec records.Record) (bool, error) {
	res, err := s.UpsertRecord(ctx, rec)
	if err != nil {
		return false, err
	}
	return res.WasUpdate, nil
}

// UpsertRecord is Upsert returning the full result, including the stored record
func (s *Store) UpsertRecord(ctx context.Context, rec records.Record) (*reconcile.UpsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := reconcile.Upsert(s.entries, rec)
	if err := s.swap(ctx, res.Records); err != nil {
		return nil, err
	}

	s.log(ctx, "upsert").Debug().
		Str("record_id", res.Record.ID).
		Bool("updated", res.WasUpdate).
		Msg("Record saved")
	return &res, nil
}

// Merge reconciles incoming into the vault
func (s *Store) Merge(ctx context.Context, incoming []records.Record) (*reconcile.Result, error) {
	return s.apply(ctx, reconcile.ModeMerge, incoming)
}

// Replace discards the vault contents in favour of incoming
func (s *Store) Replace(ctx context.Context, incoming []records.Record) (*reconcile.Result, error) {
	return s.apply(ctx, reconcile.ModeReplace, incoming)
}

func (s *Store) apply(ctx context.Context, mode reconcile.Mode, incoming []records.Record) (*reconcile.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := reconcile.Apply(mode, s.entries, incoming, reconcile.WithStrategy(s.strategy))
	if err := s.swap(ctx, res.Records); err != nil {
		return nil, err
	}

	s.log(ctx, string(mode)).Info().
		Int("added", res.Added).
		Int("updated", res.Updated).
		Int("total", res.Total()).
		Msg("Vault reconciled")
	return &res, nil
}

// DeleteByID removes the record with id. Deleting an unknown id is a no-op
// and reports false.
func (s *Store) DeleteByID(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]records.Record, 0, len(s.entries))
	for _, rec := range s.entries {
		if rec.ID != id {
			next = append(next, rec)
		}
	}
	deleted := len(next) != len(s.entries)
	if err := s.swap(ctx, next); err != nil {
		return false, err
	}

	s.log(ctx, "delete").Debug().Str("record_id", id).Bool("deleted", deleted).Msg("Delete applied")
	return deleted, nil
}

// Clear empties the vault
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.swap(ctx, []records.Record{}); err != nil {
		return err
	}
	s.log(ctx, "clear").Info().Msg("Vault cleared")
	return nil
}

// Records returns a snapshot of the collection in storage order
func (s *Store) Records() []records.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return records.Clone(s.entries)
}

// Sorted returns a snapshot ordered by updatedAt, newest first
func (s *Store) Sorted() []records.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return records.SortByUpdated(s.entries)
}

// Get returns the record with id
func (s *Store) Get(id string) (records.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.entries {
		if rec.ID == id {
			return rec, nil
		}
	}
	return records.Record{}, errors.NewNotFoundError("record", id)
}

// Len returns the number of records
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
