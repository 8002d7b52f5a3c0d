// Package reconcile merges collections of vault records. Records are matched
// by identity key; conflicts are settled by a Strategy, last-writer-wins by
// default. All functions are pure: inputs are never modified and a fresh
// collection is returned.
package reconcile

import "github.com/agentstation/apexvault/pkg/records"

type options struct {
	strategy Strategy
}

// Option configures a merge
type Option func(*options)

// WithStrategy sets the conflict resolution strategy
func WithStrategy(s Strategy) Option {
	return func(o *options) {
		if s != nil {
			o.strategy = s
		}
	}
}

func applyOptions(opts []Option) *options {
	o := &options{strategy: NewLastWriterWinsStrategy()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Upsert normalizes rec and stores it in collection. A record sharing its
// identity key is replaced in place; otherwise rec is appended.
func Upsert(collection []records.Record, rec records.Record) UpsertResult {
	normalized := rec.Normalized()
	key := normalized.Key()

	out := records.Clone(collection)
	for i := range out {
		if out[i].Key() == key {
			out[i] = normalized
			return UpsertResult{Records: out, Record: normalized, WasUpdate: true}
		}
	}
	return UpsertResult{Records: append(out, normalized), Record: normalized}
}

// Merge reconciles incoming into current. Each incoming record either adds a
// new key or contends with the record already holding that key, in which case
// the strategy decides. Duplicate keys within current collapse to the last
// one; duplicates within incoming are resolved in sequence. The result keeps
// keys in first-seen order.
func Merge(current, incoming []records.Record, opts ...Option) Result {
	o := applyOptions(opts)

	order := make([]string, 0, len(current)+len(incoming))
	byKey := make(map[string]records.Record, len(current)+len(incoming))

	for _, rec := range current {
		key := rec.Key()
		if _, ok := byKey[key]; !ok {
			order = append(order, key)
		}
		byKey[key] = rec
	}

	result := Result{Mode: ModeMerge, Strategy: o.strategy.Name()}
	for _, rec := range incoming {
		key := rec.Key()
		existing, ok := byKey[key]
		if !ok {
			order = append(order, key)
			byKey[key] = rec
			result.Added++
			continue
		}
		if o.strategy.Resolve(existing, rec) {
			byKey[key] = rec
			result.Updated++
		}
	}

	result.Records = make([]records.Record, 0, len(order))
	for _, key := range order {
		result.Records = append(result.Records, byKey[key])
	}
	return result
}

// Replace returns incoming as the new collection.
func Replace(incoming []records.Record) Result {
	return Result{
		Records: records.Clone(incoming),
		Added:   len(incoming),
		Mode:    ModeReplace,
	}
}

// Apply dispatches to Merge or Replace according to mode.
func Apply(mode Mode, current, incoming []records.Record, opts ...Option) Result {
	if mode == ModeReplace {
		return Replace(incoming)
	}
	return Merge(current, incoming, opts...)
}
