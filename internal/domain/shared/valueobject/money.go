package valueobject

import (
	"encoding/json"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	USD Currency = "USD" // US Dollar (default)
	EUR Currency = "EUR" // Euro
	GBP Currency = "GBP" // British Pound
	CAD Currency = "CAD" // Canadian Dollar
	AUD Currency = "AUD" // Australian Dollar
)

// DefaultCurrency is used when a record does not declare one
const DefaultCurrency = USD

// defaultSymbol is rendered for unknown or missing currency codes
const defaultSymbol = "$"

var currencySymbols = map[Currency]string{
	USD: "$",
	EUR: "€",
	GBP: "£",
	CAD: "CA$",
	AUD: "AU$",
}

// ParseCurrency normalizes a free-form currency code.
// Blank input yields DefaultCurrency; unknown codes are kept (upper-cased) so they
// still round-trip, but render with the default symbol.
func ParseCurrency(code string) Currency {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return DefaultCurrency
	}
	return Currency(code)
}

// Symbol returns the display symbol for the currency
func (c Currency) Symbol() string {
	if s, ok := currencySymbols[c]; ok {
		return s
	}
	return defaultSymbol
}

// String returns the string representation of Currency
func (c Currency) String() string {
	return string(c)
}

// Money is a value object representing monetary amounts
// It is immutable - all operations return new Money instances
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates a new Money with the specified amount and currency
func NewMoney(amount decimal.Decimal, currency Currency) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{amount: amount, currency: currency}
}

// Zero returns a zero-value Money in the specified currency
func Zero(currency Currency) Money {
	return NewMoney(decimal.Zero, currency)
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// Add returns a new Money with the sum of both amounts.
// The receiver's currency wins; documents carry a single currency.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}
}

// Subtract returns a new Money with the difference
func (m Money) Subtract(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}
}

// Multiply returns a new Money multiplied by the factor
func (m Money) Multiply(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor), currency: m.currency}
}

// CalculatePercentage returns percent% of the amount (e.g. 10 -> 10%)
func (m Money) CalculatePercentage(percent decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(percent).Div(decimal.NewFromInt(100)), currency: m.currency}
}

// Format renders the amount with the currency symbol and two decimals, e.g. "$1234.50"
func (m Money) Format() string {
	if m.amount.IsNegative() {
		return "-" + m.currency.Symbol() + m.amount.Abs().StringFixed(2)
	}
	return m.currency.Symbol() + m.amount.StringFixed(2)
}

// String implements fmt.Stringer
func (m Money) String() string {
	return m.Format()
}

// FormatPercent renders a rate without trailing zeros: 10 -> "10", 7.50 -> "7.5"
func FormatPercent(rate decimal.Decimal) string {
	return rate.Round(4).String()
}

// ParseDecimal coerces a loosely typed value into a decimal, reporting whether
// v was numeric. Supported: Go numeric types, json.Number, decimal.Decimal and
// numeric strings (currency symbols and codes, thousands separators, '%' and
// spaces are ignored). Everything else, including NaN and Inf, yields zero.
func ParseDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case nil:
		return decimal.Zero, false
	case decimal.Decimal:
		return n, true
	case float64:
		return fromFloat(n)
	case float32:
		return fromFloat(float64(n))
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int8:
		return decimal.NewFromInt(int64(n)), true
	case int16:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case uint:
		return fromUint(uint64(n)), true
	case uint8:
		return fromUint(uint64(n)), true
	case uint16:
		return fromUint(uint64(n)), true
	case uint32:
		return fromUint(uint64(n)), true
	case uint64:
		return fromUint(n), true
	case json.Number:
		return parseNumericString(string(n))
	case string:
		return parseNumericString(n)
	}
	return decimal.Zero, false
}

func fromUint(u uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(u), 0)
}

func fromFloat(f float64) (decimal.Decimal, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(f), true
}

// numericNoise strips the symbols a formatted amount may carry. Longer
// symbols come first so "CA$" is removed whole.
var numericNoise = strings.NewReplacer(
	"CA$", "", "AU$", "", "$", "", "€", "", "£", "", ",", "", "%", "",
)

// stripCurrencyCodes removes whitespace-separated ISO codes ("12.50 CAD")
func stripCurrencyCodes(s string) string {
	fields := strings.Fields(s)
	kept := fields[:0]
	for _, f := range fields {
		if _, ok := currencySymbols[Currency(strings.ToUpper(f))]; ok {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, "")
}

func parseNumericString(s string) (decimal.Decimal, bool) {
	s = numericNoise.Replace(stripCurrencyCodes(s))
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
