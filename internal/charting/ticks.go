package charting

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FormatTick renders an axis value compactly: values at or above a
// million as "₹<v/1e6>M", at or above a thousand as "₹<v/1e3>K", and
// everything else as "₹<v>". Pie charts have no axis and never call this.
func FormatTick(v float64) string {
	abs := v
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 1_000_000:
		return "₹" + trimTrailingZero(v/1_000_000) + "M"
	case abs >= 1_000:
		return "₹" + trimTrailingZero(v/1_000) + "K"
	default:
		return "₹" + trimTrailingZero(v)
	}
}

func trimTrailingZero(v float64) string {
	s := strconv.FormatFloat(v, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0")
}

// inr prints full amounts with Indian digit grouping for legends and
// value annotations, matching the backend's ₹-formatted table cells.
var inr = message.NewPrinter(language.MustParse("en-IN"))

// FormatAmount renders the exact value with locale grouping, e.g.
// "₹12,00,000".
func FormatAmount(v float64) string {
	return inr.Sprintf("₹%v", number.Decimal(v, number.MaxFractionDigits(2)))
}
