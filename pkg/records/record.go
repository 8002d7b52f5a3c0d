// Package records defines the vault record type and the two pure functions
// the rest of the vault is built on: Normalize, which turns loosely-typed
// input into a well-formed Record, and IdentityKey, which decides when two
// records describe the same login.
package records

import (
	"cmp"
	"slices"
	"strings"
)

// Record is a single saved login. All fields are strings; UpdatedAt holds an
// ISO-8601 timestamp and is compared as a string when reconciling.
type Record struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Link      string `json:"link" validate:"required"`
	Workspace string `json:"workspace" validate:"required"`
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	UpdatedAt string `json:"updatedAt"`
}

// Raw is an untyped input object, such as one element of an imported array.
type Raw = map[string]any

// Field names as they appear in persisted and exported JSON.
const (
	FieldID         = "id"
	FieldName       = "name"
	FieldLink       = "link"
	FieldWorkspace  = "workspace"
	FieldUsername   = "username"
	FieldPassword   = "password"
	FieldUpdatedAt  = "updatedAt"
	FieldExportedAt = "exportedAt"
)

// Key returns the record's identity key.
func (r Record) Key() string {
	return IdentityKey(r)
}

// Normalized re-runs the normalizer over r.
func (r Record) Normalized() Record {
	return Normalize(FromRecord(r))
}

// DisplayName is the name shown in listings; it falls back to the link.
func (r Record) DisplayName() string {
	if strings.TrimSpace(r.Name) != "" {
		return r.Name
	}
	return r.Link
}

// FromRecord converts r back to its raw form.
func FromRecord(r Record) Raw {
	return Raw{
		FieldID:        r.ID,
		FieldName:      r.Name,
		FieldLink:      r.Link,
		FieldWorkspace: r.Workspace,
		FieldUsername:  r.Username,
		FieldPassword:  r.Password,
		FieldUpdatedAt: r.UpdatedAt,
	}
}

// Clone returns a copy of rs. A nil input yields an empty, non-nil slice.
func Clone(rs []Record) []Record {
	out := make([]Record, len(rs))
	copy(out, rs)
	return out
}

// SortByUpdated returns a copy of rs ordered by UpdatedAt, newest first.
// Records with equal timestamps keep their relative order.
func SortByUpdated(rs []Record) []Record {
	out := Clone(rs)
	slices.SortStableFunc(out, func(a, b Record) int {
		return cmp.Compare(b.UpdatedAt, a.UpdatedAt)
	})
	return out
}
