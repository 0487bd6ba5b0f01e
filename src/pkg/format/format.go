// Package format turns amounts, percentages and byte counts into display strings.
package format

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

/*
FormatCurrency formats the absolute value of amount with two decimals and a
leading "$". The sign is never shown.

Example:

	-128.15 -> "$128.15"
*/
func FormatCurrency(amount decimal.Decimal) string {
	return "$" + amount.Abs().StringFixed(2)
}

/*
FormatSigned formats amount with an explicit sign:

	 8.6  -> "+$8.60"
	-8.6  -> "-$8.60"
	 0    -> "$0.00"
*/
func FormatSigned(amount decimal.Decimal) string {
	switch amount.Sign() {
	case 1:
		return "+$" + amount.StringFixed(2)
	case -1:
		return "-$" + amount.Abs().StringFixed(2)
	default:
		return "$0.00"
	}
}

/*
FormatLedger is the sign rule used by the exported transaction tables: only
positive amounts get "+$", everything else (zero included) gets "-$".
*/
func FormatLedger(amount decimal.Decimal) string {
	if amount.Sign() > 0 {
		return "+$" + amount.StringFixed(2)
	}
	return "-$" + amount.Abs().StringFixed(2)
}

// FormatPlain is "$" followed by the amount as received, sign included.
func FormatPlain(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// Percent returns part/total*100, or zero when total is not positive.
func Percent(part, total decimal.Decimal) decimal.Decimal {
	if total.Sign() <= 0 {
		return decimal.Zero
	}
	return part.Div(total).Mul(hundred)
}

// FormatPercent formats Percent(part, total) with one decimal, without the "%".
func FormatPercent(part, total decimal.Decimal) string {
	return Percent(part, total).StringFixed(1)
}

/*
FormatFileSize formats a byte count the way the upload list shows it:

	512      -> "512 B"
	2048     -> "2.0 KB"
	3145728  -> "3.0 MB"
*/
func FormatFileSize(bytes int64) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%d B", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	}
}
