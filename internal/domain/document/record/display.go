package record

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// displayKeys are consulted, in order, when a record is rendered as a single value
var displayKeys = []string{"name", "title", "label", "value"}

// DisplayString renders a scalar, collection or record as a final display string.
// The empty string means "nothing to show".
func DisplayString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case bool:
		if t {
			return "Yes"
		}
		return "No"
	case float64:
		return formatFloat(t, 64)
	case float32:
		return formatFloat(float64(t), 32)
	case int:
		return strconv.Itoa(t)
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", t)
	case json.Number:
		return t.String()
	case decimal.Decimal:
		return t.String()
	case time.Time:
		if t.IsZero() {
			return ""
		}
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
			return t.Format("2006-01-02")
		}
		return t.Format("2006-01-02 15:04")
	case []string:
		return joinDisplay(toSlice(t))
	case []any:
		return joinDisplay(t)
	}
	if rec, ok := FromAny(v); ok {
		for _, key := range displayKeys {
			if val, ok := rec.Get(key); ok {
				if s := DisplayString(val); s != "" {
					return s
				}
			}
		}
		return ""
	}
	if s := toSlice(v); s != nil {
		return joinDisplay(s)
	}
	if s, ok := v.(fmt.Stringer); ok {
		return strings.TrimSpace(s.String())
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

func formatFloat(f float64, bits int) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}

func joinDisplay(values []any) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if s := DisplayString(v); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// Title humanizes a record key: "dailyCalories" and "daily_calories" both
// become "Daily Calories".
func Title(key string) string {
	var words []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}
	runes := []rune(strings.TrimSpace(key))
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == '.' || unicode.IsSpace(r):
			flush()
			continue
		case unicode.IsUpper(r) && len(current) > 0:
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		current = append(current, r)
	}
	flush()
	return cases.Title(language.English, cases.NoLower).String(strings.Join(words, " "))
}
