// Package app provides the application context and dependency management
// for the apexvault CLI. It centralizes configuration, logging and the
// lifecycle of the vault the commands operate on.
package app

import (
	"context"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/agentstation/apexvault"
	"github.com/agentstation/apexvault/internal/appcontext"
	"github.com/agentstation/apexvault/pkg/errors"
)

// Ensure App implements appcontext.Interface at compile time.
var _ appcontext.Interface = (*App)(nil)

// App represents the apexvault application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Vault client (lazy-initialized, singleton)
	mu    sync.RWMutex
	vault apexvault.Client
}

// New creates a new App instance with the given version information.
// Configuration is loaded from the environment and the default config
// file and can be overridden with functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Interactive reports whether prompts may be shown: input must not be
// disabled and both stdin and stdout must be terminals.
func (a *App) Interactive() bool {
	if a.config.NoInput {
		return false
	}
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

// Vault returns the vault client, opening it lazily if needed.
// This is thread-safe and ensures only one client is created.
func (a *App) Vault() (apexvault.Client, error) {
	a.mu.RLock()
	if a.vault != nil {
		v := a.vault
		a.mu.RUnlock()
		return v, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.vault != nil {
		return a.vault, nil
	}

	v, err := apexvault.New(a.buildVaultOptions()...)
	if err != nil {
		return nil, errors.WrapResource("open", "vault", "", err)
	}

	a.vault = v
	return v, nil
}

// Shutdown releases the vault's byte store.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	v := a.vault
	a.vault = nil
	a.mu.Unlock()

	if v == nil {
		return nil
	}
	if err := v.Close(); err != nil {
		a.logger.Error().Err(err).Msg("Failed to close vault during shutdown")
		return err
	}
	return nil
}

// buildVaultOptions constructs client options from the app configuration.
func (a *App) buildVaultOptions() []apexvault.Option {
	opts := []apexvault.Option{
		apexvault.WithStorage(a.config.Storage),
		apexvault.WithLogger(a.logger),
	}
	if a.config.StorageKey != "" {
		opts = append(opts, apexvault.WithStorageKey(a.config.StorageKey))
	}
	return opts
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return errors.NewValidationError("config", nil, "cannot be nil")
		}
		a.config = config
		logger := NewLogger(config)
		a.logger = &logger
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithVault sets a custom vault client (useful for testing).
func WithVault(v apexvault.Client) Option {
	return func(a *App) error {
		a.vault = v
		return nil
	}
}
