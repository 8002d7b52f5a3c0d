package reconcile

import "github.com/agentstation/apexvault/pkg/records"

// Strategy decides which version survives when an incoming record shares an
// identity key with one already in the collection.
type Strategy interface {
	// Name returns the strategy name
	Name() string

	// Description returns a human-readable description
	Description() string

	// Resolve reports whether incoming should replace existing.
	Resolve(existing, incoming records.Record) bool
}

// baseStrategy provides common strategy functionality
type baseStrategy struct {
	name        string
	description string
}

// Name returns the strategy name
func (s *baseStrategy) Name() string {
	return s.name
}

// Description returns a human-readable description
func (s *baseStrategy) Description() string {
	return s.description
}

// LastWriterWinsStrategy keeps whichever record was updated most recently.
// Timestamps are compared as strings; a tie goes to the incoming record.
type LastWriterWinsStrategy struct {
	baseStrategy
}

// NewLastWriterWinsStrategy creates the default merge strategy
func NewLastWriterWinsStrategy() Strategy {
	return &LastWriterWinsStrategy{
		baseStrategy: baseStrategy{
			name:        "last-writer-wins",
			description: "Keeps the record with the later updatedAt; ties go to the incoming record",
		},
	}
}

// Resolve implements Strategy
func (s *LastWriterWinsStrategy) Resolve(existing, incoming records.Record) bool {
	return incoming.UpdatedAt >= existing.UpdatedAt
}

// KeepExistingStrategy never overwrites a record already in the collection.
type KeepExistingStrategy struct {
	baseStrategy
}

// NewKeepExistingStrategy creates a strategy that only adds new keys
func NewKeepExistingStrategy() Strategy {
	return &KeepExistingStrategy{
		baseStrategy: baseStrategy{
			name:        "keep-existing",
			description: "Adds records with new keys and leaves existing ones untouched",
		},
	}
}

// Resolve implements Strategy
func (s *KeepExistingStrategy) Resolve(records.Record, records.Record) bool {
	return false
}

// Resolver is a function that resolves a key conflict
type Resolver func(existing, incoming records.Record) bool

// CustomStrategy allows custom conflict resolution logic
type CustomStrategy struct {
	baseStrategy
	resolver Resolver
}

// NewCustomStrategy creates a new custom strategy. A nil resolver falls back
// to last-writer-wins.
func NewCustomStrategy(name, description string, resolver Resolver) Strategy {
	return &CustomStrategy{
		baseStrategy: baseStrategy{name: name, description: description},
		resolver:     resolver,
	}
}

// Resolve uses the custom resolver
func (s *CustomStrategy) Resolve(existing, incoming records.Record) bool {
	if s.resolver != nil {
		return s.resolver(existing, incoming)
	}
	return incoming.UpdatedAt >= existing.UpdatedAt
}
