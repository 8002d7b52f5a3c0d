// Package transfer encodes and decodes vault payloads: the persisted record
// array and the portable export envelope.
//
// Import accepts either a bare JSON array of records or an object carrying an
// "entries" array. Elements are normalized and records missing link,
// workspace, username or password are dropped.
package transfer

import (
	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/agentstation/apexvault/pkg/constants"
	"github.com/agentstation/apexvault/pkg/errors"
	"github.com/agentstation/apexvault/pkg/records"
)

// codec keeps numbers as json.Number so ids like 1712345678901 survive intact.
var codec = sonic.Config{
	UseNumber:   true,
	SortMapKeys: true,
}.Froze()

var validate = validator.New(validator.WithRequiredStructEnabled())

// Envelope is the export document
type Envelope struct {
	Schema     string           `json:"schema"`
	ExportedAt string           `json:"exportedAt"`
	Entries    []records.Record `json:"entries"`
}

// Complete reports whether r has every field an imported record needs.
func Complete(r records.Record) bool {
	return validate.Struct(r) == nil
}

// ParseImport decodes data into raw record objects without normalizing them.
func ParseImport(data []byte) ([]records.Raw, error) {
	var doc any
	if err := codec.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewFormatError("not valid JSON", err)
	}

	var items []any
	switch v := doc.(type) {
	case []any:
		items = v
	case map[string]any:
		entries, ok := v["entries"].([]any)
		if !ok {
			return nil, errors.NewFormatError("object has no entries array", nil)
		}
		items = entries
	default:
		return nil, errors.NewFormatError("expected an array or an object with entries", nil)
	}

	return toRaw(items), nil
}

// Import is the outcome of decoding an import payload
type Import struct {
	// Records are the normalized, complete records
	Records []records.Record
	// Dropped counts elements filtered out as incomplete
	Dropped int
}

// DecodeImport parses, normalizes and filters an import payload.
func DecodeImport(data []byte) (*Import, error) {
	raws, err := ParseImport(data)
	if err != nil {
		return nil, err
	}

	out := &Import{Records: make([]records.Record, 0, len(raws))}
	for _, raw := range raws {
		rec := records.Normalize(raw)
		if !Complete(rec) {
			out.Dropped++
			continue
		}
		out.Records = append(out.Records, rec)
	}
	return out, nil
}

type exportOptions struct {
	exportedAt string
	schema     string
}

// Option configures an export
type Option func(*exportOptions)

// WithExportedAt fixes the envelope timestamp
func WithExportedAt(ts string) Option {
	return func(o *exportOptions) {
		o.exportedAt = ts
	}
}

// WithSchema overrides the envelope schema tag
func WithSchema(schema string) Option {
	return func(o *exportOptions) {
		o.schema = schema
	}
}

// Export renders rs as an indented export envelope.
func Export(rs []records.Record, opts ...Option) ([]byte, error) {
	o := &exportOptions{schema: constants.ExportSchema}
	for _, opt := range opts {
		opt(o)
	}
	if o.exportedAt == "" {
		o.exportedAt = records.Now()
	}

	env := Envelope{
		Schema:     o.schema,
		ExportedAt: o.exportedAt,
		Entries:    records.Clone(rs),
	}
	data, err := codec.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, errors.WrapParse("json", "", err)
	}
	return data, nil
}

// MarshalCollection renders the persisted form of a collection: a JSON array.
func MarshalCollection(rs []records.Record) ([]byte, error) {
	data, err := codec.Marshal(records.Clone(rs))
	if err != nil {
		return nil, errors.WrapParse("json", "", err)
	}
	return data, nil
}

// UnmarshalCollection decodes persisted bytes into normalized records. Bytes
// that are not a JSON array yield a FormatError.
func UnmarshalCollection(data []byte) ([]records.Record, error) {
	var doc any
	if err := codec.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewFormatError("not valid JSON", err)
	}
	items, ok := doc.([]any)
	if !ok {
		return nil, errors.NewFormatError("persisted value is not an array", nil)
	}

	raws := toRaw(items)
	out := make([]records.Record, len(raws))
	for i, raw := range raws {
		out[i] = records.Normalize(raw)
	}
	return out, nil
}

// toRaw treats non-object elements as empty objects.
func toRaw(items []any) []records.Raw {
	out := make([]records.Raw, len(items))
	for i, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out[i] = obj
		} else {
			out[i] = records.Raw{}
		}
	}
	return out
}
