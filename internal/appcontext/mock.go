package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/apexvault"
	"github.com/agentstation/apexvault/pkg/bytestore/memory"
	"github.com/agentstation/apexvault/pkg/logging"
)

// Mock provides a mock implementation of Interface for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
type Mock struct {
	VaultFunc        func() (apexvault.Client, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	InteractiveFunc  func() bool
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Vault returns a client using the mock function or nil.
func (m *Mock) Vault() (apexvault.Client, error) {
	if m.VaultFunc != nil {
		return m.VaultFunc()
	}
	return nil, nil
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Interactive returns the mock function result or false, so commands
// never block on a prompt in tests.
func (m *Mock) Interactive() bool {
	if m.InteractiveFunc != nil {
		return m.InteractiveFunc()
	}
	return false
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)

// NewMemoryMock returns a Mock backed by an empty in-memory vault, along
// with that vault so tests can seed and inspect it.
func NewMemoryMock() (*Mock, apexvault.Client, error) {
	bs, err := memory.New()
	if err != nil {
		return nil, nil, err
	}
	v, err := apexvault.New(apexvault.WithByteStore(bs), apexvault.WithLogger(logging.NewNopLogger()))
	if err != nil {
		return nil, nil, err
	}
	return &Mock{VaultFunc: func() (apexvault.Client, error) { return v, nil }}, v, nil
}
