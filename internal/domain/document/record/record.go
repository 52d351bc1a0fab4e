// Package record provides tolerant, synonym-aware access to loosely typed
// domain records as they arrive from JSON or YAML.
package record

import (
	"fmt"
	"reflect"
	"strings"
)

// Placeholder is the display value of a concept that resolved to nothing
const Placeholder = "—"

// Record is a semi-structured domain record. It is read-only input:
// nothing in this package mutates a Record it was given.
type Record map[string]any

// FromAny normalizes v into a Record. It accepts Record, map[string]any,
// map[string]string and map[any]any (keys are stringified).
func FromAny(v any) (Record, bool) {
	switch m := v.(type) {
	case Record:
		return m, m != nil
	case map[string]any:
		return Record(m), m != nil
	case map[string]string:
		if m == nil {
			return nil, false
		}
		r := make(Record, len(m))
		for k, val := range m {
			r[k] = val
		}
		return r, true
	case map[any]any:
		if m == nil {
			return nil, false
		}
		r := make(Record, len(m))
		for k, val := range m {
			r[fmt.Sprint(k)] = val
		}
		return r, true
	}
	return nil, false
}

// Get returns the value stored under key when it is present.
// Dotted keys ("patient.name") descend into nested records.
func (r Record) Get(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	if v, ok := r[key]; ok {
		return v, Present(v)
	}
	head, rest, found := strings.Cut(key, ".")
	if !found {
		return nil, false
	}
	nested, ok := FromAny(r[head])
	if !ok {
		return nil, false
	}
	return nested.Get(rest)
}

// Has reports whether any of the keys is present
func (r Record) Has(keys ...string) bool {
	for _, k := range keys {
		if _, ok := r.Get(k); ok {
			return true
		}
	}
	return false
}

// With returns a shallow copy of r with key set to v
func (r Record) With(key string, v any) Record {
	out := make(Record, len(r)+1)
	for k, val := range r {
		out[k] = val
	}
	out[key] = v
	return out
}

// Present reports whether v carries content. Nil, blank strings and empty
// collections are absent; numbers and booleans are present even when zero.
func Present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	case bool:
		return true
	case []any:
		return len(t) > 0
	case Record:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}
