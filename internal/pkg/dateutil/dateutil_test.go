package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestAddMonthsClampsToMonthEnd(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		n    int
		want time.Time
	}{
		{"jan 31 plus one non-leap", date(2025, time.January, 31), 1, date(2025, time.February, 28)},
		{"jan 31 plus one leap", date(2024, time.January, 31), 1, date(2024, time.February, 29)},
		{"mar 31 plus one", date(2025, time.March, 31), 1, date(2025, time.April, 30)},
		{"mid month unaffected", date(2025, time.January, 15), 1, date(2025, time.February, 15)},
		{"across year boundary", date(2025, time.November, 30), 3, date(2026, time.February, 28)},
		{"plus twelve", date(2024, time.February, 29), 12, date(2025, time.February, 28)},
		{"zero months", date(2025, time.June, 10), 0, date(2025, time.June, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonths(tt.in, tt.n))
		})
	}
}

func TestSubtractMonths(t *testing.T) {
	assert.Equal(t, date(2025, time.January, 28), SubtractMonths(date(2025, time.February, 28), 1))
	assert.Equal(t, date(2025, time.February, 28), SubtractMonths(date(2025, time.March, 31), 1))
}

// Round-tripping add/subtract restores the original date only when no
// clamping occurred; a clamped result stays clamped. That loss is the
// documented behavior, not a defect.
func TestAddThenSubtractRoundTrip(t *testing.T) {
	noClamp := date(2025, time.April, 12)
	assert.Equal(t, noClamp, SubtractMonths(AddMonths(noClamp, 2), 2))

	clamped := date(2025, time.January, 31)
	got := SubtractMonths(AddMonths(clamped, 1), 1)
	assert.Equal(t, date(2025, time.January, 28), got)
	assert.NotEqual(t, clamped, got)
}

func TestAddMonthsZeroInput(t *testing.T) {
	assert.True(t, AddMonths(time.Time{}, 3).IsZero())
}

func TestFormatUsesLocalComponents(t *testing.T) {
	// 23:30 in a zone west of UTC is the next day in UTC; the stored date
	// must still be the local calendar day.
	loc := time.FixedZone("UTC-7", -7*3600)
	d := time.Date(2025, time.March, 9, 23, 30, 0, 0, loc)
	assert.Equal(t, "2025-03-09", Format(d))
	assert.Equal(t, "", Format(time.Time{}))
}

func TestParse(t *testing.T) {
	d, err := Parse("2025-02-28")
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.February, 28), d)

	_, err = Parse("not-a-date")
	assert.Error(t, err)

	_, err = Parse("")
	assert.Error(t, err)
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 30, DaysBetween(date(2025, time.June, 1), date(2025, time.July, 1)))
	assert.Equal(t, -1, DaysBetween(date(2025, time.June, 2), date(2025, time.June, 1)))
	assert.Equal(t, 0, DaysBetween(date(2025, time.June, 1), date(2025, time.June, 1)))
}
