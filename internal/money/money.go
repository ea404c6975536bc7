// Package money converts between human-entered decimal currency amounts and the
// integer minor-unit representation stored by the ledger.
//
// Every amount is persisted as an int64 count of thousandths of the major unit,
// so $10.50 is stored as 10500. Sums are always computed on the integers and
// converted to decimals only when crossing the API boundary.
package money

import (
	"fmt"
	"math"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Scale is the number of minor units per major unit.
const Scale = 1000

// scaleDigits is log10(Scale).
const scaleDigits = 3

// DefaultCurrency is used when no currency is configured.
const DefaultCurrency = gomoney.USD

var (
	minMinor = decimal.NewFromInt(math.MinInt64)
	maxMinor = decimal.NewFromInt(math.MaxInt64)
)

// ToMinorUnits converts a decimal amount to minor units. Inputs with more than
// three fractional digits are rounded to the nearest minor unit, half away
// from zero.
func ToMinorUnits(d decimal.Decimal) int64 {
	return d.Shift(scaleDigits).Round(0).IntPart()
}

// FromMinorUnits converts minor units back to a decimal amount.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -scaleDigits)
}

// ParseMinorUnits parses a human-entered decimal string ("10.5", "-3", "1,25")
// and returns its value in minor units. Values outside the int64 range of minor
// units are rejected.
func ParseMinorUnits(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	minor := d.Shift(scaleDigits).Round(0)
	if minor.LessThan(minMinor) || minor.GreaterThan(maxMinor) {
		return 0, fmt.Errorf("amount %q out of range", s)
	}
	return minor.IntPart(), nil
}

// Decimal renders minor units as a fixed-point string with three fractional digits.
func Decimal(minor int64) string {
	return FromMinorUnits(minor).StringFixed(scaleDigits)
}

// Format renders minor units as a display string in the given currency, e.g.
// "$1,234.50". The value is rounded to the currency's own fraction digits.
func Format(minor int64, currency string) string {
	cur := gomoney.GetCurrency(currency)
	if cur == nil {
		cur = gomoney.GetCurrency(DefaultCurrency)
	}
	units := FromMinorUnits(minor).Shift(int32(cur.Fraction)).Round(0).IntPart()
	return gomoney.New(units, cur.Code).Display()
}

// IsCurrency reports whether code is a known ISO 4217 currency code.
func IsCurrency(code string) bool {
	return gomoney.GetCurrency(code) != nil
}
