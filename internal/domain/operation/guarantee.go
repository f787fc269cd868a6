package operation

import (
	"math"
	"time"
)

// ExpiryStatus is the derived, non-persisted classification of a guarantee's
// expiry or due date relative to the current instant.
type ExpiryStatus string

const (
	ExpiryActive       ExpiryStatus = "active"
	ExpiryExpiringSoon ExpiryStatus = "expiring_soon"
	ExpiryExpired      ExpiryStatus = "expired"
)

// Label returns the display name used in reports.
func (s ExpiryStatus) Label() string {
	switch s {
	case ExpiryExpired:
		return "Expired"
	case ExpiryExpiringSoon:
		return "Expiring Soon"
	default:
		return "Active"
	}
}

// expiringSoonWindowDays is the look-ahead window for the expiring-soon state.
const expiringSoonWindowDays = 30

// DaysUntil returns the number of days from now until the given date,
// rounding partial days up. Negative for past dates.
func DaysUntil(date, now time.Time) int {
	return int(math.Ceil(date.Sub(now).Hours() / 24))
}

// ClassifyExpiryAt classifies an expiry/due date against the given instant.
//
// Both comparisons work on raw timestamps, not calendar dates: a guarantee
// expiring today at 09:00 reads as expired at 10:00. Callers inject the
// instant so the boundary behavior is pinned in tests.
func ClassifyExpiryAt(expiry, now time.Time) ExpiryStatus {
	if expiry.Before(now) {
		return ExpiryExpired
	}
	if d := DaysUntil(expiry, now); d > 0 && d <= expiringSoonWindowDays {
		return ExpiryExpiringSoon
	}
	return ExpiryActive
}

// WarrantyEndDate computes a warranty's end date: the start date advanced by
// the warranty period in calendar months.
func WarrantyEndDate(start time.Time, months int) time.Time {
	return start.AddDate(0, months, 0)
}
