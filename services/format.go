package services

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/currency"

	"planexport/visuals"
)

// FormatMetricValue renders a metric value for display.
//
//	currency   -> "$2,500"
//	percentage -> value*100 with one decimal, "15.6%"
//	text       -> the value as given
//	anything else, including no format -> grouped whole number, "2,501"
//
// Values that are not numeric are returned in their literal string form.
func FormatMetricValue(value any, format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == visuals.FormatText {
		return visuals.Text(value)
	}
	v, ok := visuals.Number(value)
	if !ok {
		return visuals.Text(value)
	}
	switch format {
	case visuals.FormatCurrency:
		return formatDollars(v)
	case visuals.FormatPercentage:
		return strconv.FormatFloat(v*100, 'f', 1, 64) + "%"
	default:
		return formatGrouped(v)
	}
}

// formatGrouped rounds half away from zero and groups thousands with commas.
// Values beyond the int64 range are grouped exactly through big.Int.
func formatGrouped(v float64) string {
	r := math.Round(v)
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	if math.Abs(r) < 1<<62 {
		return humanize.Comma(int64(r))
	}
	b, _ := big.NewFloat(r).Int(nil)
	return humanize.BigComma(b)
}

func formatDollars(v float64) string {
	if math.Round(v) < 0 {
		return "-$" + formatGrouped(-v)
	}
	return "$" + formatGrouped(v)
}

// FormatTotal renders a chart series total. A valid ISO 4217 code is
// appended; INR uses Indian digit grouping.
func FormatTotal(v float64, currencyCode string) string {
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	if code == "" {
		return formatGrouped(v)
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return formatGrouped(v)
	}
	if unit == currency.INR {
		return formatRupees(v)
	}
	return formatGrouped(v) + " " + unit.String()
}

// formatRupees formats a whole rupee amount in Indian notation (₹12,34,567).
func formatRupees(amount float64) string {
	rounded := math.Round(amount)
	result := "₹" + applyIndianGrouping(formatGrouped(math.Abs(rounded)))
	if rounded < 0 {
		result = "-" + result
	}
	return result
}

// applyIndianGrouping regroups an integer string using the Indian numbering
// system: the rightmost 3 digits form the first group, then every 2 digits
// form subsequent groups. Existing commas are ignored.
func applyIndianGrouping(s string) string {
	s = strings.ReplaceAll(s, ",", "")
	n := len(s)
	if n <= 3 {
		return s
	}

	// The last 3 digits stay together.
	result := s[n-3:]
	remaining := s[:n-3]

	// Group remaining digits in pairs from the right.
	for len(remaining) > 2 {
		result = remaining[len(remaining)-2:] + "," + result
		remaining = remaining[:len(remaining)-2]
	}
	if len(remaining) > 0 {
		result = remaining + "," + result
	}

	return result
}
