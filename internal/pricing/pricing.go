// Package pricing turns the formatted price strings of the catalog into
// amounts and back.
package pricing

import (
	"math"
	"strconv"
	"strings"

	"github.com/nyumba-homes/storefront-api/internal/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency prefix used on every displayed amount
const Currency = "Ksh"

var printer = message.NewPrinter(language.English)

// Normalize strips every non-digit from price and parses the rest.
// Strings without digits, or too large for int64, contribute 0.
func Normalize(price string) int64 {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, price)
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Total sums the normalized prices of items. It saturates at math.MaxInt64.
func Total(items []domain.CartItem) int64 {
	var total int64
	for _, item := range items {
		n := Normalize(item.Price)
		if total > math.MaxInt64-n {
			return math.MaxInt64
		}
		total += n
	}
	return total
}

// Format renders an amount with English digit grouping, e.g. "Ksh 18,000,000"
func Format(amount int64) string {
	return printer.Sprintf("%s %d", Currency, amount)
}

// FormatDecimal renders an amount with two decimals, e.g. "Ksh 1,234.50"
func FormatDecimal(amount float64) string {
	return printer.Sprintf("%s %.2f", Currency, amount)
}
