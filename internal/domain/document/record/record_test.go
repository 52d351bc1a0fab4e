package record

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAny(t *testing.T) {
	t.Run("string keyed maps", func(t *testing.T) {
		r, ok := FromAny(map[string]any{"a": 1})
		require.True(t, ok)
		assert.Equal(t, 1, r["a"])

		r, ok = FromAny(map[string]string{"b": "x"})
		require.True(t, ok)
		assert.Equal(t, "x", r["b"])
	})

	t.Run("yaml style maps stringify keys", func(t *testing.T) {
		r, ok := FromAny(map[any]any{1: "one", "two": 2})
		require.True(t, ok)
		assert.Equal(t, "one", r["1"])
		assert.Equal(t, 2, r["two"])
	})

	t.Run("non maps are rejected", func(t *testing.T) {
		for _, v := range []any{nil, "x", 3, []any{map[string]any{}}} {
			_, ok := FromAny(v)
			assert.False(t, ok, "%v", v)
		}
	})
}

func TestPresent(t *testing.T) {
	assert.False(t, Present(nil))
	assert.False(t, Present(""))
	assert.False(t, Present("   "))
	assert.False(t, Present([]any{}))
	assert.False(t, Present(map[string]any{}))
	assert.False(t, Present([]string{}))

	assert.True(t, Present(0))
	assert.True(t, Present(0.0))
	assert.True(t, Present(false))
	assert.True(t, Present("x"))
	assert.True(t, Present([]string{"a"}))
}

func TestRecord_Get(t *testing.T) {
	r := Record{
		"name":    "Ada",
		"blank":   " ",
		"patient": map[string]any{"mrn": "123", "address": map[string]any{"city": "Oslo"}},
	}

	v, ok := r.Get("name")
	assert.True(t, ok)
	assert.Equal(t, "Ada", v)

	_, ok = r.Get("blank")
	assert.False(t, ok)

	v, ok = r.Get("patient.mrn")
	assert.True(t, ok)
	assert.Equal(t, "123", v)

	v, ok = r.Get("patient.address.city")
	assert.True(t, ok)
	assert.Equal(t, "Oslo", v)

	_, ok = r.Get("patient.missing")
	assert.False(t, ok)
	_, ok = r.Get("name.first")
	assert.False(t, ok)

	var nilRecord Record
	_, ok = nilRecord.Get("x")
	assert.False(t, ok)
}

func TestRecord_WithDoesNotMutate(t *testing.T) {
	r := Record{"a": 1}
	out := r.With("b", 2)
	assert.Equal(t, Record{"a": 1}, r)
	assert.Equal(t, Record{"a": 1, "b": 2}, out)
}

func TestField_Resolution(t *testing.T) {
	diagnosis := Field{"name", "condition", "diagnosis"}

	t.Run("first present synonym wins", func(t *testing.T) {
		r := Record{"condition": "Hypertension", "diagnosis": "ignored"}
		s, ok := diagnosis.String(r)
		assert.True(t, ok)
		assert.Equal(t, "Hypertension", s)
	})

	t.Run("blank values fall through", func(t *testing.T) {
		r := Record{"name": "  ", "diagnosis": "Asthma"}
		assert.Equal(t, "Asthma", diagnosis.Display(r))
	})

	t.Run("absent concept yields placeholder", func(t *testing.T) {
		assert.Equal(t, Placeholder, diagnosis.Display(Record{}))
		assert.Equal(t, "n/a", diagnosis.StringOr(Record{}, "n/a"))
		assert.False(t, diagnosis.Present(Record{"other": 1}))
	})

	t.Run("zero and false are values", func(t *testing.T) {
		f := Field{"count"}
		assert.Equal(t, "0", f.Display(Record{"count": 0}))
		assert.Equal(t, "No", Field{"flag"}.Display(Record{"flag": false}))
	})
}

func TestField_Decimal(t *testing.T) {
	price := Field{"unitPrice", "price"}

	d, ok := price.Decimal(Record{"price": "12.50"})
	assert.True(t, ok)
	assert.True(t, d.Equal(decimal.RequireFromString("12.5")))

	d, ok = price.Decimal(Record{"unitPrice": "abc"})
	assert.False(t, ok)
	assert.True(t, d.IsZero())

	d, ok = price.Decimal(Record{"unitPrice": math.NaN()})
	assert.False(t, ok)
	assert.True(t, d.IsZero())

	assert.True(t, price.DecimalOr(Record{}, decimal.NewFromInt(1)).Equal(decimal.NewFromInt(1)))
	assert.True(t, price.DecimalOr(Record{"price": json.Number("3")}, decimal.Zero).Equal(decimal.NewFromInt(3)))
}

func TestField_RecordAndGroup(t *testing.T) {
	r := Record{
		"client": "not a record",
		"billTo": map[string]any{"name": "Acme"},
		"items":  []any{},
		"lines":  []any{"a"},
	}

	nested, ok := Field{"client", "billTo"}.Record(r)
	require.True(t, ok)
	assert.Equal(t, "Acme", nested["name"])

	g, ok := Field{"items", "lines"}.Group(r)
	require.True(t, ok)
	assert.Equal(t, 1, g.Len())
	assert.False(t, g.Structured())

	_, ok = Field{"missing"}.Group(r)
	assert.False(t, ok)
}

func TestNewGroup(t *testing.T) {
	t.Run("plain strings", func(t *testing.T) {
		g, ok := NewGroup([]any{"Walk daily", "", nil, "Low salt diet"})
		require.True(t, ok)
		assert.False(t, g.Structured())
		assert.Equal(t, []string{"Walk daily", "Low salt diet"}, g.Texts(Field{"name"}))
		assert.Equal(t, Record{"name": "Walk daily"}, g.Items()[0].Record)
	})

	t.Run("typed string slice", func(t *testing.T) {
		g, ok := NewGroup([]string{"a", "b"})
		require.True(t, ok)
		assert.Equal(t, 2, g.Len())
	})

	t.Run("mixed elements are structured", func(t *testing.T) {
		g, ok := NewGroup([]any{"Aspirin", map[string]any{"name": "Metformin", "dose": "500mg"}})
		require.True(t, ok)
		assert.True(t, g.Structured())
		assert.Equal(t, [][]string{
			{"Aspirin", Placeholder},
			{"Metformin", "500mg"},
		}, g.Rows(Field{"name"}, Field{"dose"}))
	})

	t.Run("single record is a one item group", func(t *testing.T) {
		g, ok := NewGroup(map[string]any{"date": "2024-03-01", "with": "Dr. Lee"})
		require.True(t, ok)
		assert.True(t, g.Structured())
		assert.Equal(t, "Dr. Lee", Field{"with"}.Display(g.Items()[0].Record))
	})

	t.Run("weekday keyed map is ordered by weekday", func(t *testing.T) {
		g, ok := NewGroup(map[string]any{
			"wednesday": []any{"Squat"},
			"monday":    map[string]any{"focus": "Push"},
			"Friday":    []any{"Rest"},
		})
		require.True(t, ok)
		assert.Equal(t, []string{"Monday", "Wednesday", "Friday"}, g.Texts(Field{"name"}))
		assert.Equal(t, "Push", Field{"focus"}.Display(g.Items()[0].Record))
		assert.Equal(t, []any{"Squat"}, g.Items()[1].Record["items"])
	})

	t.Run("other keyed maps are ordered lexicographically", func(t *testing.T) {
		g, ok := NewGroup(map[string]any{"produce": []any{"Kale"}, "dairy": []any{"Milk"}})
		require.True(t, ok)
		assert.Equal(t, []string{"Dairy", "Produce"}, g.Texts(Field{"name"}))
	})

	t.Run("nothing usable", func(t *testing.T) {
		for _, v := range []any{nil, []any{}, []any{"", nil}, "   ", true, map[string]any{}} {
			_, ok := NewGroup(v)
			assert.False(t, ok, "%v", v)
		}
	})

	t.Run("scalar is a one item plain group", func(t *testing.T) {
		for _, tc := range []struct {
			value any
			text  string
		}{
			{"Penicillin", "Penicillin"},
			{" in 2 weeks ", "in 2 weeks"},
			{3, "3"},
			{json.Number("2.5"), "2.5"},
		} {
			g, ok := NewGroup(tc.value)
			require.True(t, ok, "%v", tc.value)
			assert.False(t, g.Structured())
			assert.Equal(t, []Item{{Record: Record{"name": tc.text}, Text: tc.text}}, g.Items())
		}
	})
}

func TestDisplayString(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"nil", nil, ""},
		{"trimmed string", "  hi  ", "hi"},
		{"true", true, "Yes"},
		{"false", false, "No"},
		{"whole float", 3.0, "3"},
		{"fractional float", 2.50, "2.5"},
		{"NaN", math.NaN(), ""},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"json number", json.Number("1.25"), "1.25"},
		{"decimal", decimal.RequireFromString("9.90"), "9.9"},
		{"string slice", []any{"a", "", "b"}, "a, b"},
		{"typed slice", []string{"x", "y"}, "x, y"},
		{"record by name", map[string]any{"name": "Ada", "title": "Dr"}, "Ada"},
		{"record by label", map[string]any{"label": "L"}, "L"},
		{"record without display key", map[string]any{"x": 1}, ""},
		{"date", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), "2024-01-05"},
		{"date time", time.Date(2024, 1, 5, 9, 30, 0, 0, time.UTC), "2024-01-05 09:30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DisplayString(tt.value))
		})
	}
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Daily Calories", Title("dailyCalories"))
	assert.Equal(t, "Daily Calories", Title("daily_calories"))
	assert.Equal(t, "Protein", Title("protein"))
	assert.Equal(t, "Icd Code", Title("icd-code"))
	assert.Equal(t, "MRN Number", Title("MRNNumber"))
	assert.Equal(t, "", Title(""))
}
