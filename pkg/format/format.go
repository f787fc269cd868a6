// Package format renders the canonical currency and date strings used by the
// UI tables and every exported report. Output is locale-independent: the
// numeric convention is pinned to English grouping regardless of the runtime
// environment, so the same inputs always produce the same strings.
package format

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"contractops/internal/core/types"
)

// CurrencyCode is the fixed label suffixed to every rendered amount.
const CurrencyCode = "EGP"

const dateLayout = "02/01/2006"
const dateTimeLayout = "02/01/2006 15:04"

var printer = message.NewPrinter(language.English)

// Currency renders an amount with thousands grouping, exactly two decimal
// places and the currency-code suffix: 1234567.5 -> "1,234,567.50 EGP".
func Currency(amount types.Money) string {
	f, _ := amount.Float64()
	return printer.Sprintf("%v %s",
		number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2)),
		CurrencyCode,
	)
}

// Percent renders a percentage with one decimal place: 33.333 -> "33.3%".
func Percent(p types.Percent) string {
	return p.StringFixed(1) + "%"
}

// Date renders a day-month-year date, zero-padded. Zero time renders as the
// empty string; this function never fails.
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// DatePtr renders an optional date, empty for nil.
func DatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return Date(*t)
}

// DateTime renders a date with hours and minutes. Zero time renders empty.
func DateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateTimeLayout)
}
