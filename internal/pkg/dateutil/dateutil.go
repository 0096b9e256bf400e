// internal/pkg/dateutil/dateutil.go
package dateutil

import (
	"fmt"
	"time"
)

// Layout is the storage format for calendar dates.
const Layout = "2006-01-02"

// AddMonths adds n calendar months to d, clamping the day-of-month to the
// last valid day of the target month (Jan 31 + 1 month = Feb 28/29, never
// Mar 2/3). The zero time is returned for a zero input.
func AddMonths(d time.Time, n int) time.Time {
	if d.IsZero() {
		return time.Time{}
	}
	year, month, day := d.Date()
	// Shift from the first of the month so the month index never overflows,
	// then clamp the day.
	first := time.Date(year, month, 1, 0, 0, 0, 0, d.Location())
	shifted := first.AddDate(0, n, 0)
	last := lastDayOfMonth(shifted.Year(), shifted.Month())
	if day > last {
		day = last
	}
	return time.Date(shifted.Year(), shifted.Month(), day, 0, 0, 0, 0, d.Location())
}

// SubtractMonths subtracts n calendar months from d with the same clamping
// rule as AddMonths.
func SubtractMonths(d time.Time, n int) time.Time {
	return AddMonths(d, -n)
}

// Format renders d as YYYY-MM-DD from its local calendar components. It never
// round-trips through UTC, so a date constructed in any zone keeps its
// calendar day.
func Format(d time.Time) string {
	if d.IsZero() {
		return ""
	}
	year, month, day := d.Date()
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// Parse reads a YYYY-MM-DD string into a local midnight time. The zero time
// is returned with an error for anything unparseable.
func Parse(s string) (time.Time, error) {
	d, err := time.ParseInLocation(Layout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// Today returns the current local date at midnight.
func Today() time.Time {
	year, month, day := time.Now().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

// DaysBetween returns b − a in whole calendar days, ignoring the time of day.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	at := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bt := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(bt.Sub(at).Hours() / 24)
}

func lastDayOfMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
