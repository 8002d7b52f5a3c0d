package records

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// TimestampLayout is the UTC millisecond ISO-8601 layout used for every
// timestamp the vault generates.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// clock is replaced in tests.
var clock = time.Now

// Now returns the current time formatted with TimestampLayout.
func Now() string {
	return clock().UTC().Format(TimestampLayout)
}

// NewID returns a fresh record id, time-ordered where the platform allows.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Normalize produces a well-formed Record from raw. Every field is coerced to
// text; empty-ish values (nil, false, zero, "") become "". A missing id is
// generated, and a missing updatedAt falls back to exportedAt and then to Now.
// Normalize never validates and never fails.
func Normalize(raw Raw) Record {
	r := Record{
		ID:        Coerce(raw[FieldID]),
		Name:      Coerce(raw[FieldName]),
		Link:      Coerce(raw[FieldLink]),
		Workspace: Coerce(raw[FieldWorkspace]),
		Username:  Coerce(raw[FieldUsername]),
		Password:  Coerce(raw[FieldPassword]),
		UpdatedAt: Coerce(raw[FieldUpdatedAt]),
	}
	if r.ID == "" {
		r.ID = NewID()
	}
	if r.UpdatedAt == "" {
		r.UpdatedAt = Coerce(raw[FieldExportedAt])
	}
	if r.UpdatedAt == "" {
		r.UpdatedAt = Now()
	}
	return r
}

// Coerce converts v to its string form, mapping falsy values to "".
// Non-falsy values render as a browser would: numbers in their shortest
// form, arrays as comma-joined elements and objects as "[object Object]".
func Coerce(v any) string {
	if isFalsy(v) {
		return ""
	}
	return toText(v)
}

const objectText = "[object Object]"

func toText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil && !math.IsInf(f, 0) {
			return t.String()
		}
		return formatNumber(f)
	case float64:
		return formatNumber(t)
	case float32:
		return formatNumber(float64(t))
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = toText(e)
		}
		return strings.Join(parts, ",")
	case map[string]any:
		return objectText
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return objectText
	}
	return s
}

// formatNumber renders f in positional notation between 1e-7 and 1e21 and
// in exponent notation outside that range, without exponent zero padding.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e-7 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	mant, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mant + "e" + sign + digits
}

func isFalsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0 || math.IsNaN(t)
	case float32:
		return t == 0 || math.IsNaN(float64(t))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return cast.ToInt64(t) == 0
	case json.Number:
		f, err := t.Float64()
		return err == nil && f == 0
	}
	return false
}
