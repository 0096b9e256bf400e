// internal/service/expiry/classifier.go
package expiry

import (
	"time"

	"visatrack-service/internal/domain/notification"
	"visatrack-service/internal/pkg/dateutil"
)

// Classify maps a visa expiry date to its notification window relative to
// today. The windows are three days wide so a reminder still fires when the
// daily run is skipped for a day or two either side of the exact mark.
// Returns ok=false when the expiry falls outside every window.
func Classify(expiryDate, today time.Time) (notification.Category, bool) {
	daysUntil := dateutil.DaysBetween(today, expiryDate)

	switch {
	case daysUntil >= 29 && daysUntil <= 31:
		return notification.CategoryMonthBefore, true
	case daysUntil >= 14 && daysUntil <= 16:
		return notification.Category15DaysBefore, true
	case daysUntil >= 6 && daysUntil <= 8:
		return notification.CategoryWeekBefore, true
	case daysUntil >= -1 && daysUntil <= 1:
		return notification.CategoryOnExpiryDate, true
	case daysUntil >= -8 && daysUntil <= -6:
		return notification.CategoryWeekAfter, true
	}
	return "", false
}
