// Package money holds the fixed-point helpers used for every price, subtotal and total.
// Amounts carry two fractional digits and are rounded half-up.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits kept on derived amounts.
const Places = 2

var Zero = decimal.Zero

// Round rounds half-up to two places. Prices are never negative, so decimal's
// half-away-from-zero rounding is the same thing here.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// LineTotal returns price × qty without rounding.
func LineTotal(price decimal.Decimal, qty int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(qty)))
}

// Sum adds the amounts and rounds the result once.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return Round(total)
}

// Format renders the amount as a fixed two-decimal string, e.g. "25.00".
func Format(d decimal.Decimal) string {
	return Round(d).StringFixed(Places)
}

// Parse reads a user supplied amount. Empty input is zero; comma decimal separators are accepted.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("invalid amount %q: negative", s)
	}
	return Round(d), nil
}
