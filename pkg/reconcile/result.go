package reconcile

import (
	"fmt"
	"strings"

	"github.com/agentstation/apexvault/pkg/errors"
	"github.com/agentstation/apexvault/pkg/records"
)

// Mode selects how an import is applied to the vault
type Mode string

const (
	// ModeMerge reconciles incoming records against the current collection
	ModeMerge Mode = "merge"
	// ModeReplace discards the current collection
	ModeReplace Mode = "replace"
)

// Modes lists the supported modes in display order
var Modes = []Mode{ModeMerge, ModeReplace}

// String returns the string representation of a mode
func (m Mode) String() string {
	return string(m)
}

// ParseMode parses a mode name case-insensitively
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeMerge:
		return ModeMerge, nil
	case ModeReplace:
		return ModeReplace, nil
	}
	return "", errors.NewValidationError("mode", s, "must be one of merge, replace")
}

// Result is the outcome of a merge or replace
type Result struct {
	// Records is the reconciled collection
	Records []records.Record

	// Added counts records whose key was not present before
	Added int

	// Updated counts existing records overwritten by an incoming one
	Updated int

	// Mode that produced the result
	Mode Mode

	// Strategy used to resolve conflicts (empty for replace)
	Strategy string
}

// Total returns the size of the reconciled collection
func (r *Result) Total() int {
	return len(r.Records)
}

// Summary returns the status line shown after an import
func (r *Result) Summary() string {
	if r.Mode == ModeReplace {
		return fmt.Sprintf("Imported %d entries (replaced).", r.Total())
	}
	return fmt.Sprintf("Merged: +%d added, %d updated. Total %d.", r.Added, r.Updated, r.Total())
}

// UpsertResult is the outcome of a single-record upsert
type UpsertResult struct {
	// Records is the new collection
	Records []records.Record

	// Record is the normalized record that was stored
	Record records.Record

	// WasUpdate is true when an existing record with the same key was replaced
	WasUpdate bool
}

// Summary returns the status line shown after saving a record
func (r *UpsertResult) Summary() string {
	if r.WasUpdate {
		return "Updated 1 entry."
	}
	return "Saved 1 entry."
}
