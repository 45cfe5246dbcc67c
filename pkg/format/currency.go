// Package format renders monetary amounts for display. Amounts are rounded
// here, at the presentation boundary, and nowhere in the calculators.
package format

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Whole returns an amount rounded to whole units with thousands separators (e.g., "-1,235").
func Whole(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "0"
	}
	rounded := decimal.NewFromFloat(amount).Round(0)
	return humanize.Comma(rounded.IntPart())
}

// NumericCurrency returns an amount with two decimals and separators but no symbol (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "0.00"
	}
	fixed := decimal.NewFromFloat(amount).StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}
	intPart, decPart, _ := strings.Cut(fixed, ".")
	whole, _ := decimal.NewFromString(intPart)
	return sign + humanize.Comma(whole.IntPart()) + "." + decPart
}

// Currency returns a whole-unit amount prefixed by a symbol or label. Single
// glyph symbols attach directly ("$20,000"); longer labels are separated by a
// space ("CFA 1,234,568").
func Currency(amount float64, symbol string) string {
	formatted := Whole(math.Abs(amount))
	sign := ""
	if amount <= -0.5 {
		sign = "-"
	}
	if symbol == "" {
		return sign + formatted
	}
	if utf8.RuneCountInString(symbol) == 1 {
		return sign + symbol + formatted
	}
	return sign + symbol + " " + formatted
}
