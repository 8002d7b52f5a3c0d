package apexvault

import (
	"slices"
	"sync"

	"github.com/agentstation/apexvault/pkg/reconcile"
	"github.com/agentstation/apexvault/pkg/records"
)

// Hook function types for record events
type (
	// RecordAddedHook is called when a record with a new identity key appears
	RecordAddedHook func(rec records.Record)

	// RecordUpdatedHook is called when a record's fields change
	RecordUpdatedHook func(old, new records.Record)

	// RecordRemovedHook is called when a record disappears
	RecordRemovedHook func(rec records.Record)
)

// hooks manages event callbacks for vault changes
type hooks struct {
	mu              sync.RWMutex
	onRecordAdded   []RecordAddedHook
	onRecordUpdated []RecordUpdatedHook
	onRecordRemoved []RecordRemovedHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnRecordAdded registers a callback for when records are added
func (h *hooks) OnRecordAdded(fn RecordAddedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onRecordAdded = append(h.onRecordAdded, fn)
}

// OnRecordUpdated registers a callback for when records are updated
func (h *hooks) OnRecordUpdated(fn RecordUpdatedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onRecordUpdated = append(h.onRecordUpdated, fn)
}

// OnRecordRemoved registers a callback for when records are removed
func (h *hooks) OnRecordRemoved(fn RecordRemovedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onRecordRemoved = append(h.onRecordRemoved, fn)
}

// trigger diffs two snapshots by identity key and fires the matching hooks.
// Callbacks run on a copy of the registrations, outside h.mu.
func (h *hooks) trigger(before, after []records.Record) {
	h.mu.RLock()
	added := slices.Clone(h.onRecordAdded)
	updated := slices.Clone(h.onRecordUpdated)
	removed := slices.Clone(h.onRecordRemoved)
	h.mu.RUnlock()

	if len(added)+len(updated)+len(removed) == 0 {
		return
	}

	cs := reconcile.Diff(before, after)
	for _, rec := range cs.Added {
		for _, hook := range added {
			hook(rec)
		}
	}
	for _, u := range cs.Updated {
		for _, hook := range updated {
			hook(u.Before, u.After)
		}
	}
	for _, rec := range cs.Removed {
		for _, hook := range removed {
			hook(rec)
		}
	}
}

func (c *client) OnRecordAdded(fn RecordAddedHook)     { c.hooks.OnRecordAdded(fn) }
func (c *client) OnRecordUpdated(fn RecordUpdatedHook) { c.hooks.OnRecordUpdated(fn) }
func (c *client) OnRecordRemoved(fn RecordRemovedHook) { c.hooks.OnRecordRemoved(fn) }
