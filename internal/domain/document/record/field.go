package record

import (
	"github.com/lenses/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Field is the ordered list of synonym keys under which one concept may
// appear. The first key holding a present value wins.
type Field []string

// Lookup returns the first present value among the field's keys
func (f Field) Lookup(r Record) (any, bool) {
	for _, key := range f {
		if v, ok := r.Get(key); ok {
			return v, true
		}
	}
	return nil, false
}

// String returns the display string of the first present value
func (f Field) String(r Record) (string, bool) {
	for _, key := range f {
		v, ok := r.Get(key)
		if !ok {
			continue
		}
		if s := DisplayString(v); s != "" {
			return s, true
		}
	}
	return "", false
}

// StringOr returns the display string of the field or def when absent
func (f Field) StringOr(r Record, def string) string {
	if s, ok := f.String(r); ok {
		return s
	}
	return def
}

// Display returns the display string of the field or Placeholder
func (f Field) Display(r Record) string {
	return f.StringOr(r, Placeholder)
}

// Decimal coerces the first present value to a decimal. A present but
// malformed value yields zero with ok == false.
func (f Field) Decimal(r Record) (decimal.Decimal, bool) {
	v, ok := f.Lookup(r)
	if !ok {
		return decimal.Zero, false
	}
	return valueobject.ParseDecimal(v)
}

// DecimalOr returns the numeric value of the field or def when absent or malformed
func (f Field) DecimalOr(r Record, def decimal.Decimal) decimal.Decimal {
	if d, ok := f.Decimal(r); ok {
		return d
	}
	return def
}

// Record returns the first value that is a nested record
func (f Field) Record(r Record) (Record, bool) {
	for _, key := range f {
		v, ok := r.Get(key)
		if !ok {
			continue
		}
		if nested, ok := FromAny(v); ok {
			return nested, true
		}
	}
	return nil, false
}

// Group returns the first value that normalizes into a non-empty Group
func (f Field) Group(r Record) (Group, bool) {
	for _, key := range f {
		v, ok := r.Get(key)
		if !ok {
			continue
		}
		if g, ok := NewGroup(v); ok {
			return g, true
		}
	}
	return Group{}, false
}

// Present reports whether the field resolves to anything
func (f Field) Present(r Record) bool {
	_, ok := f.Lookup(r)
	return ok
}
