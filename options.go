package apexvault

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/agentstation/apexvault/pkg/bytestore"
	"github.com/agentstation/apexvault/pkg/constants"
	"github.com/agentstation/apexvault/pkg/reconcile"
)

// Option is a function that configures a Client
type Option func(*config) error

// config holds the client configuration
type config struct {
	storage    bytestore.Config
	byteStore  bytestore.Store
	storageKey string
	logger     *zerolog.Logger
	strategy   reconcile.Strategy
	autoLoad   bool
}

func defaultConfig() *config {
	return &config{
		storageKey: constants.StorageKey,
		strategy:   reconcile.NewLastWriterWinsStrategy(),
		autoLoad:   true,
	}
}

// WithStorage selects the backend to open
func WithStorage(cfg bytestore.Config) Option {
	return func(c *config) error {
		c.storage = cfg
		return nil
	}
}

// WithByteStore uses an already opened store. The client does not close it.
func WithByteStore(bs bytestore.Store) Option {
	return func(c *config) error {
		if bs == nil {
			return fmt.Errorf("byte store cannot be nil")
		}
		c.byteStore = bs
		return nil
	}
}

// WithStorageKey sets the key the collection is persisted under
func WithStorageKey(key string) Option {
	return func(c *config) error {
		if key == "" {
			return fmt.Errorf("storage key cannot be empty")
		}
		c.storageKey = key
		return nil
	}
}

// WithLogger sets the logger
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithStrategy sets the merge conflict strategy
func WithStrategy(strategy reconcile.Strategy) Option {
	return func(c *config) error {
		if strategy == nil {
			return fmt.Errorf("strategy cannot be nil")
		}
		c.strategy = strategy
		return nil
	}
}

// WithAutoLoad controls whether New loads the persisted collection
func WithAutoLoad(enabled bool) Option {
	return func(c *config) error {
		c.autoLoad = enabled
		return nil
	}
}
