// Package clientstate implements the client-held state bag: a small set of
// named values the server wants echoed back on every request, carried by the
// client as an opaque encrypted blob. It replaces server-side session
// affinity for per-screen scratch state.
package clientstate

import (
	"strings"
)

// Prefix marks the fields that participate in the round trip. Anything
// without it never leaves the server.
const Prefix = "store_"

// Bag holds the round-tripped fields. Only Prefix-named keys with primitive
// or array values belong here; Sanitize enforces that.
type Bag map[string]any

// Merge overlays other on top of b and returns b.
func (b Bag) Merge(other Bag) Bag {
	for k, v := range other {
		b[k] = v
	}
	return b
}

// Clone copies the bag.
func (b Bag) Clone() Bag {
	out := make(Bag, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Sanitize drops everything that is not allowed on the wire: keys without
// the reserved prefix, and values that are neither primitive nor array.
func (b Bag) Sanitize() Bag {
	out := make(Bag, len(b))
	for k, v := range b {
		if !strings.HasPrefix(k, Prefix) {
			continue
		}
		if !allowedValue(v) {
			continue
		}
		out[k] = v
	}
	return out
}

// Pick returns a bag holding only the declared keys, taking the incoming
// value when present and the declared default otherwise. This is the
// explicit replacement for injecting store_* fields by reflection: each
// service declares its fields with defaults, and only those round-trip.
func Pick(declared Bag, incoming Bag) Bag {
	out := make(Bag, len(declared))
	for k, def := range declared {
		if v, ok := incoming[k]; ok && allowedValue(v) {
			out[k] = v
			continue
		}
		out[k] = def
	}
	return out
}

func allowedValue(v any) bool {
	switch v.(type) {
	case nil:
		return false
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	case []any, []string, []int, []float64, []bool:
		return true
	default:
		return false
	}
}

// String reads a string field, falling back when missing or mistyped.
func (b Bag) String(key, def string) string {
	if v, ok := b[key].(string); ok {
		return v
	}
	return def
}

// Int reads an int field. JSON decoding turns numbers into float64, so both
// shapes are accepted.
func (b Bag) Int(key string, def int) int {
	switch v := b[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// Bool reads a bool field.
func (b Bag) Bool(key string, def bool) bool {
	if v, ok := b[key].(bool); ok {
		return v
	}
	return def
}
