package expiry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visatrack-service/internal/domain/notification"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestClassifyWindows(t *testing.T) {
	today := date(2026, time.March, 15)

	cases := []struct {
		name     string
		offset   int
		expected notification.Category
		ok       bool
	}{
		{"31 days out", 31, notification.CategoryMonthBefore, true},
		{"30 days out", 30, notification.CategoryMonthBefore, true},
		{"29 days out", 29, notification.CategoryMonthBefore, true},
		{"16 days out", 16, notification.Category15DaysBefore, true},
		{"15 days out", 15, notification.Category15DaysBefore, true},
		{"14 days out", 14, notification.Category15DaysBefore, true},
		{"8 days out", 8, notification.CategoryWeekBefore, true},
		{"7 days out", 7, notification.CategoryWeekBefore, true},
		{"6 days out", 6, notification.CategoryWeekBefore, true},
		{"tomorrow", 1, notification.CategoryOnExpiryDate, true},
		{"today", 0, notification.CategoryOnExpiryDate, true},
		{"yesterday", -1, notification.CategoryOnExpiryDate, true},
		{"6 days ago", -6, notification.CategoryWeekAfter, true},
		{"7 days ago", -7, notification.CategoryWeekAfter, true},
		{"8 days ago", -8, notification.CategoryWeekAfter, true},
		{"32 days out", 32, "", false},
		{"28 days out", 28, "", false},
		{"17 days out", 17, "", false},
		{"13 days out", 13, "", false},
		{"9 days out", 9, "", false},
		{"5 days out", 5, "", false},
		{"2 days out", 2, "", false},
		{"2 days ago", -2, "", false},
		{"5 days ago", -5, "", false},
		{"9 days ago", -9, "", false},
		{"90 days out", 90, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cat, ok := Classify(today.AddDate(0, 0, tc.offset), today)
			require.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, cat)
		})
	}
}

// Sweeping a wide range around today confirms the windows are disjoint and
// cover exactly the offsets they should; a client can never land in two
// sections of the same email.
func TestClassifyDisjoint(t *testing.T) {
	today := date(2026, time.June, 1)

	expected := map[int]notification.Category{}
	for _, off := range []int{29, 30, 31} {
		expected[off] = notification.CategoryMonthBefore
	}
	for _, off := range []int{14, 15, 16} {
		expected[off] = notification.Category15DaysBefore
	}
	for _, off := range []int{6, 7, 8} {
		expected[off] = notification.CategoryWeekBefore
	}
	for _, off := range []int{-1, 0, 1} {
		expected[off] = notification.CategoryOnExpiryDate
	}
	for _, off := range []int{-8, -7, -6} {
		expected[off] = notification.CategoryWeekAfter
	}

	for offset := -40; offset <= 40; offset++ {
		cat, ok := Classify(today.AddDate(0, 0, offset), today)
		want, inWindow := expected[offset]
		assert.Equal(t, inWindow, ok, "offset %d", offset)
		if inWindow {
			assert.Equal(t, want, cat, "offset %d", offset)
		}
	}
}

func TestClassifyIgnoresTimeOfDay(t *testing.T) {
	today := date(2026, time.March, 15)
	expiry := time.Date(2026, time.March, 22, 23, 59, 0, 0, time.Local)

	cat, ok := Classify(expiry, today)
	require.True(t, ok)
	assert.Equal(t, notification.CategoryWeekBefore, cat)
}
