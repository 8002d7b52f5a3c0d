package reconcile

import (
	"fmt"
	"strings"

	"github.com/agentstation/apexvault/pkg/records"
)

// Update pairs the before and after versions of a record with the same key
type Update struct {
	Before records.Record
	After  records.Record
}

// Changeset describes how a collection changed between two snapshots
type Changeset struct {
	Added   []records.Record
	Updated []Update
	Removed []records.Record
}

// Diff compares two snapshots by identity key. A record counts as updated when
// any field differs. Output follows the order of the snapshot each record came
// from.
func Diff(before, after []records.Record) *Changeset {
	prev := make(map[string]records.Record, len(before))
	for _, rec := range before {
		prev[rec.Key()] = rec
	}
	next := make(map[string]records.Record, len(after))
	for _, rec := range after {
		next[rec.Key()] = rec
	}

	cs := &Changeset{}
	seen := make(map[string]bool, len(after))
	for _, rec := range after {
		key := rec.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		old, ok := prev[key]
		switch {
		case !ok:
			cs.Added = append(cs.Added, next[key])
		case old != next[key]:
			cs.Updated = append(cs.Updated, Update{Before: old, After: next[key]})
		}
	}
	for _, rec := range before {
		key := rec.Key()
		if _, ok := next[key]; !ok && !seen[key] {
			seen[key] = true
			cs.Removed = append(cs.Removed, prev[key])
		}
	}
	return cs
}

// HasChanges returns true if the changeset contains any changes
func (c *Changeset) HasChanges() bool {
	return len(c.Added)+len(c.Updated)+len(c.Removed) > 0
}

// String returns a one-line summary
func (c *Changeset) String() string {
	if !c.HasChanges() {
		return "No changes detected"
	}
	var parts []string
	if n := len(c.Added); n > 0 {
		parts = append(parts, fmt.Sprintf("%d added", n))
	}
	if n := len(c.Updated); n > 0 {
		parts = append(parts, fmt.Sprintf("%d updated", n))
	}
	if n := len(c.Removed); n > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", n))
	}
	return strings.Join(parts, ", ")
}
