package dashboard

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatRupees renders an amount with the rupee sign and digit grouping.
// Whole amounts drop the decimals.
func FormatRupees(amount float64) string {
	p := message.NewPrinter(language.English)
	if amount == math.Trunc(amount) {
		return p.Sprintf("₹%d", int64(amount))
	}
	return p.Sprintf("₹%.2f", amount)
}
