// Package money formats decimal amounts for customer-facing copy.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Format renders d with comma thousands separators and exactly two decimals,
// e.g. -1234567.5 -> "-1,234,567.50".
func Format(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if d.Round(2).IsNegative() {
		b.WriteByte('-')
	}
	lead := len(intPart) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(intPart[:lead])
	for i := lead; i < len(intPart); i += 3 {
		b.WriteByte(',')
		b.WriteString(intPart[i : i+3])
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// Signed is Format with a leading "+" for positive amounts.
func Signed(d decimal.Decimal) string {
	if d.Round(2).IsPositive() {
		return "+" + Format(d)
	}
	return Format(d)
}
