package record

import (
	"encoding/json"
	"reflect"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Item is one normalized element of a Group. Plain scalars keep their display
// form in Text and are also exposed as a record {"name": Text}, so every item
// can be read through the same Field definitions.
type Item struct {
	Record Record
	Text   string
}

// Plain reports whether the item came from a scalar rather than a record
func (it Item) Plain() bool {
	return it.Text != ""
}

// Group is a collection of heterogeneous items normalized once
type Group struct {
	items      []Item
	structured bool
}

// NewGroup normalizes v into a Group. Accepted shapes:
//
//	[]any of records and/or scalars
//	a map of named sub-groups ({"monday": [...]}), ordered by weekday or key
//	a single record, treated as a one-item group
//	a non-blank string or number, treated as a one-item plain group
//
// ok is false when nothing usable remains.
func NewGroup(v any) (Group, bool) {
	var g Group
	if rec, ok := FromAny(v); ok {
		if isNamedGroups(rec) {
			g.structured = true
			for _, key := range orderedKeys(rec) {
				g.items = append(g.items, Item{Record: namedItem(key, rec[key])})
			}
		} else if len(rec) > 0 {
			g.structured = true
			g.items = []Item{{Record: rec}}
		}
		return g, len(g.items) > 0
	}

	elems := toSlice(v)
	if elems == nil && isScalar(v) {
		elems = []any{v}
	}
	for _, elem := range elems {
		if rec, ok := FromAny(elem); ok {
			if len(rec) == 0 {
				continue
			}
			g.structured = true
			g.items = append(g.items, Item{Record: rec})
			continue
		}
		s := DisplayString(elem)
		if s == "" {
			continue
		}
		g.items = append(g.items, Item{Record: Record{"name": s}, Text: s})
	}
	return g, len(g.items) > 0
}

// Items returns the normalized items in input order
func (g Group) Items() []Item {
	return g.items
}

// Len returns the number of items
func (g Group) Len() int {
	return len(g.items)
}

// Structured is true when any element was a record. Adapters render
// structured groups as tables and plain groups as lists.
func (g Group) Structured() bool {
	return g.structured
}

// Texts returns the display text of every item. Structured items are
// rendered through label, or the record's own display form when label is absent.
func (g Group) Texts(label Field) []string {
	out := make([]string, 0, len(g.items))
	for _, it := range g.items {
		if it.Plain() {
			out = append(out, it.Text)
			continue
		}
		if s, ok := label.String(it.Record); ok {
			out = append(out, s)
			continue
		}
		if s := DisplayString(map[string]any(it.Record)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Rows builds one table row per item, one cell per column field
func (g Group) Rows(columns ...Field) [][]string {
	rows := make([][]string, 0, len(g.items))
	for _, it := range g.items {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = col.Display(it.Record)
		}
		rows = append(rows, row)
	}
	return rows
}

// isScalar reports whether v is a string or a number
func isScalar(v any) bool {
	switch v.(type) {
	case string, json.Number, decimal.Decimal:
		return true
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func toSlice(v any) []any {
	switch s := v.(type) {
	case nil:
		return nil
	case []any:
		return s
	case []string:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out
	case []map[string]any:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// isNamedGroups reports whether every value of rec is itself a record or a collection
func isNamedGroups(rec Record) bool {
	if len(rec) == 0 {
		return false
	}
	for _, v := range rec {
		if _, ok := FromAny(v); ok {
			continue
		}
		if toSlice(v) != nil {
			continue
		}
		return false
	}
	return true
}

func namedItem(key string, v any) Record {
	if rec, ok := FromAny(v); ok {
		if _, has := rec.Get("name"); has {
			return rec
		}
		return rec.With("name", Title(key))
	}
	return Record{"name": Title(key), "items": v}
}

var weekdays = map[string]int{
	"monday": 1, "mon": 1,
	"tuesday": 2, "tue": 2, "tues": 2,
	"wednesday": 3, "wed": 3,
	"thursday": 4, "thu": 4, "thurs": 4,
	"friday": 5, "fri": 5,
	"saturday": 6, "sat": 6,
	"sunday": 7, "sun": 7,
}

// orderedKeys orders keys by weekday when all of them are weekdays, lexicographically otherwise
func orderedKeys(rec Record) []string {
	keys := make([]string, 0, len(rec))
	allWeekdays := true
	for k := range rec {
		keys = append(keys, k)
		if _, ok := weekdays[strings.ToLower(k)]; !ok {
			allWeekdays = false
		}
	}
	if allWeekdays {
		sort.SliceStable(keys, func(i, j int) bool {
			wi, wj := weekdays[strings.ToLower(keys[i])], weekdays[strings.ToLower(keys[j])]
			if wi != wj {
				return wi < wj
			}
			return keys[i] < keys[j]
		})
		return keys
	}
	sort.Strings(keys)
	return keys
}
