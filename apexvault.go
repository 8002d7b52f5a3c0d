// Package apexvault provides the main entry point for the apexvault
// credential and bookmark vault. It wraps a vault.Store with storage
// selection, functional options and change hooks.
//
// Example usage:
//
//	v, err := apexvault.New(apexvault.WithStorage(bytestore.Config{Type: bytestore.TypeSQLite}))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer v.Close()
//
//	v.OnRecordAdded(func(r records.Record) {
//	    log.Printf("saved %s", r.DisplayName())
//	})
//
//	res, err := v.Upsert(ctx, records.Record{
//	    Name: "Mail", Link: "https://mail.example.com",
//	    Workspace: "acme", Username: "jo", Password: "hunter2",
//	})
//	fmt.Println(res.Summary()) // Saved 1 entry.
package apexvault

import (
	"context"
	"fmt"
	"sync"

	"github.com/agentstation/apexvault/pkg/bytestore"
	"github.com/agentstation/apexvault/pkg/reconcile"
	"github.com/agentstation/apexvault/pkg/records"
	"github.com/agentstation/apexvault/pkg/transfer"
	"github.com/agentstation/apexvault/pkg/vault"
)

// Compile-time interface check.
var _ Client = (*client)(nil)

// Client is a loaded vault with change hooks
type Client interface {
	// Reload re-reads the persisted collection
	Reload(ctx context.Context) ([]records.Record, error)

	// Records returns a snapshot in storage order
	Records() []records.Record

	// Sorted returns a snapshot ordered newest first
	Sorted() []records.Record

	// Get returns the record with id
	Get(id string) (records.Record, error)

	// Len returns the number of records
	Len() int

	// Upsert saves a record, replacing one with the same identity key
	Upsert(ctx context.Context, rec records.Record) (*reconcile.UpsertResult, error)

	// DeleteByID removes a record; unknown ids report false
	DeleteByID(ctx context.Context, id string) (bool, error)

	// Clear removes every record
	Clear(ctx context.Context) error

	// Merge reconciles incoming records into the vault
	Merge(ctx context.Context, incoming []records.Record) (*reconcile.Result, error)

	// Replace swaps the vault contents for incoming
	Replace(ctx context.Context, incoming []records.Record) (*reconcile.Result, error)

	// Import applies an export payload
	Import(ctx context.Context, data []byte, mode reconcile.Mode) (*reconcile.Result, error)

	// Export renders the vault as an export payload
	Export(ctx context.Context, opts ...transfer.Option) ([]byte, error)

	// OnRecordAdded registers a callback for records with a new identity key
	OnRecordAdded(RecordAddedHook)

	// OnRecordUpdated registers a callback for records that changed
	OnRecordUpdated(RecordUpdatedHook)

	// OnRecordRemoved registers a callback for records that disappeared
	OnRecordRemoved(RecordRemovedHook)

	// Close releases the byte store if the client opened it
	Close() error
}

// client is the default implementation of Client
type client struct {
	mu    sync.Mutex
	store *vault.Store
	bs    bytestore.Store
	owned bool
	hooks *hooks
}

// New opens the configured byte store and loads the vault
func New(opts ...Option) (Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("applying options: %w", err)
		}
	}

	c := &client{bs: cfg.byteStore, hooks: newHooks()}
	if c.bs == nil {
		bs, err := bytestore.Open(cfg.storage)
		if err != nil {
			return nil, fmt.Errorf("opening storage: %w", err)
		}
		c.bs, c.owned = bs, true
	}

	storeOpts := []vault.Option{vault.WithKey(cfg.storageKey), vault.WithStrategy(cfg.strategy)}
	if cfg.logger != nil {
		storeOpts = append(storeOpts, vault.WithLogger(cfg.logger))
	}
	c.store = vault.New(c.bs, storeOpts...)

	if cfg.autoLoad {
		if _, err := c.store.Load(context.Background()); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("loading vault: %w", err)
		}
	}
	return c, nil
}

// mutate runs fn and fires hooks for the difference it made. Hooks run
// after c.mu is released so they may call back into the client.
func (c *client) mutate(fn func() error) error {
	c.mu.Lock()
	before := c.store.Records()
	if err := fn(); err != nil {
		c.mu.Unlock()
		return err
	}
	after := c.store.Records()
	c.mu.Unlock()

	c.hooks.trigger(before, after)
	return nil
}

func (c *client) Reload(ctx context.Context) ([]records.Record, error) {
	var out []records.Record
	err := c.mutate(func() error {
		var err error
		out, err = c.store.Load(ctx)
		return err
	})
	return out, err
}

func (c *client) Records() []records.Record { return c.store.Records() }

func (c *client) Sorted() []records.Record { return c.store.Sorted() }

func (c *client) Get(id string) (records.Record, error) { return c.store.Get(id) }

func (c *client) Len() int { return c.store.Len() }

func (c *client) Upsert(ctx context.Context, rec records.Record) (*reconcile.UpsertResult, error) {
	var res *reconcile.UpsertResult
	err := c.mutate(func() error {
		var err error
		res, err = c.store.UpsertRecord(ctx, rec)
		return err
	})
	return res, err
}

func (c *client) DeleteByID(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := c.mutate(func() error {
		var err error
		deleted, err = c.store.DeleteByID(ctx, id)
		return err
	})
	return deleted, err
}

func (c *client) Clear(ctx context.Context) error {
	return c.mutate(func() error {
		return c.store.Clear(ctx)
	})
}

func (c *client) Merge(ctx context.Context, incoming []records.Record) (*reconcile.Result, error) {
	return c.reconcile(func() (*reconcile.Result, error) {
		return c.store.Merge(ctx, incoming)
	})
}

func (c *client) Replace(ctx context.Context, incoming []records.Record) (*reconcile.Result, error) {
	return c.reconcile(func() (*reconcile.Result, error) {
		return c.store.Replace(ctx, incoming)
	})
}

func (c *client) Import(ctx context.Context, data []byte, mode reconcile.Mode) (*reconcile.Result, error) {
	return c.reconcile(func() (*reconcile.Result, error) {
		return c.store.Import(ctx, data, mode)
	})
}

func (c *client) reconcile(fn func() (*reconcile.Result, error)) (*reconcile.Result, error) {
	var res *reconcile.Result
	err := c.mutate(func() error {
		var err error
		res, err = fn()
		return err
	})
	return res, err
}

func (c *client) Export(ctx context.Context, opts ...transfer.Option) ([]byte, error) {
	return c.store.Export(ctx, opts...)
}

func (c *client) Close() error {
	if c.owned && c.bs != nil {
		return c.bs.Close()
	}
	return nil
}
