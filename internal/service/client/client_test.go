package client

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visatrack-service/internal/domain/client"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestParseExtension(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"  ", 0, false},
		{"2", 2, false},
		{"0", 0, false},
		{"1 MONTH EXTENSION 1", 1, false},
		{"2 MONTH EXTENSION 1", 2, false},
		{"3 MONTH EXTENSION 2", 3, false},
		{"1 month extension 1", 1, false},
		{"-1", 0, true},
		{"soon", 0, true},
		{"MONTH 2", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseExtension(tc.in)
		if tc.wantErr {
			require.Error(t, err, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestBasePeriod(t *testing.T) {
	assert.Equal(t, 1, BasePeriod("30 DAY"))
	assert.Equal(t, 1, BasePeriod("30 DAY VISIT"))
	assert.Equal(t, 2, BasePeriod("60 DAY"))
	assert.Equal(t, 2, BasePeriod("60 day"))
	assert.Equal(t, 0, BasePeriod("90 DAY"))
	assert.Equal(t, 0, BasePeriod(""))
}

func TestExtendedExpiry(t *testing.T) {
	base := date(2025, time.March, 15)

	assert.Equal(t, base, ExtendedExpiry(base, 0))
	assert.Equal(t, date(2025, time.April, 15), ExtendedExpiry(base, 1))
	assert.Equal(t, date(2025, time.June, 15), ExtendedExpiry(base, 3))

	// Month-end clamping: Jan 31 + 1 month lands on the last day of February.
	assert.Equal(t, date(2025, time.February, 28), ExtendedExpiry(date(2025, time.January, 31), 1))
	assert.Equal(t, date(2024, time.February, 29), ExtendedExpiry(date(2024, time.January, 31), 1))
}

func TestRevertedExpiryPrefersStoredInitial(t *testing.T) {
	c := &client.Client{
		InitialExpiry: sql.NullTime{Time: date(2025, time.January, 31), Valid: true},
		CurrentExpiry: sql.NullTime{Time: date(2025, time.February, 28), Valid: true},
		ExtendFor:     1,
	}

	// Subtracting a month from Feb 28 would give Jan 28; the stored initial
	// date restores the exact original.
	assert.Equal(t, date(2025, time.January, 31), RevertedExpiry(c))
}

func TestRevertedExpiryFallsBackToSubtraction(t *testing.T) {
	c := &client.Client{
		CurrentExpiry: sql.NullTime{Time: date(2025, time.June, 15), Valid: true},
		ExtendFor:     2,
	}
	assert.Equal(t, date(2025, time.April, 15), RevertedExpiry(c))
}

func TestRevertedExpiryNoExtension(t *testing.T) {
	c := &client.Client{
		CurrentExpiry: sql.NullTime{Time: date(2025, time.June, 15), Valid: true},
		ExtendFor:     0,
	}
	assert.Equal(t, date(2025, time.June, 15), RevertedExpiry(c))
}

func strp(s string) *string { return &s }

// Sequential extensions each build on the current expiry: Jan 1 extended by
// one month twice lands on Mar 1, not Feb 1.
func TestApplyUpdateSequentialExtensionsStack(t *testing.T) {
	c := &client.Client{
		InitialPeriod: 1,
		VisaPeriod:    1,
		InitialExpiry: sql.NullTime{Time: date(2025, time.January, 1), Valid: true},
		CurrentExpiry: sql.NullTime{Time: date(2025, time.January, 1), Valid: true},
	}

	require.NoError(t, ApplyUpdate(c, &client.UpdateClientRequest{VisaExtendFor: strp("1")}))
	require.Equal(t, date(2025, time.February, 1), c.CurrentExpiry.Time)

	require.NoError(t, ApplyUpdate(c, &client.UpdateClientRequest{VisaExtendFor: strp("1")}))
	assert.Equal(t, date(2025, time.March, 1), c.CurrentExpiry.Time)
	assert.Equal(t, 1, c.ExtendFor, "extend_for records only the most recent extension")
	assert.Equal(t, 2, c.VisaPeriod)
	assert.Equal(t, date(2025, time.January, 1), c.InitialExpiry.Time)
}

func TestApplyUpdateExtensionUsesSuppliedExpiry(t *testing.T) {
	c := &client.Client{
		InitialPeriod: 1,
		InitialExpiry: sql.NullTime{Time: date(2025, time.January, 1), Valid: true},
		CurrentExpiry: sql.NullTime{Time: date(2025, time.February, 1), Valid: true},
	}

	err := ApplyUpdate(c, &client.UpdateClientRequest{
		VisaExpiryDate: strp("2025-03-15"),
		VisaExtendFor:  strp("2"),
	})
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.May, 15), c.CurrentExpiry.Time)
	assert.Equal(t, 2, c.ExtendFor)
}

func TestApplyUpdateBareExpiryChangeResets(t *testing.T) {
	c := &client.Client{
		InitialPeriod: 2,
		VisaPeriod:    3,
		ExtendFor:     1,
		InitialExpiry: sql.NullTime{Time: date(2025, time.January, 1), Valid: true},
		CurrentExpiry: sql.NullTime{Time: date(2025, time.February, 1), Valid: true},
	}

	require.NoError(t, ApplyUpdate(c, &client.UpdateClientRequest{VisaExpiryDate: strp("2025-06-01")}))
	assert.Equal(t, date(2025, time.June, 1), c.CurrentExpiry.Time)
	assert.Equal(t, 0, c.ExtendFor)
	assert.Equal(t, 2, c.VisaPeriod)
	assert.Equal(t, date(2025, time.January, 1), c.InitialExpiry.Time)
}

// initial_expiry and initial_period are set at creation and never written by
// updates, so the in-memory record must not drift from the stored row.
func TestApplyUpdateLeavesInitialFieldsAlone(t *testing.T) {
	c := &client.Client{
		InitialPeriod: 1,
		VisaPeriod:    1,
		InitialExpiry: sql.NullTime{Time: date(2025, time.January, 1), Valid: true},
		CurrentExpiry: sql.NullTime{Time: date(2025, time.January, 1), Valid: true},
	}

	err := ApplyUpdate(c, &client.UpdateClientRequest{
		VisaType:      strp("60 DAY"),
		VisaExtendFor: strp("1"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, c.InitialPeriod)
	assert.Equal(t, date(2025, time.January, 1), c.InitialExpiry.Time)
	assert.Equal(t, "60 DAY", c.VisaType.String)
	assert.Equal(t, 2, c.VisaPeriod)
}

func TestApplyUpdateExtensionWithoutExpiryFails(t *testing.T) {
	c := &client.Client{InitialPeriod: 1}
	err := ApplyUpdate(c, &client.UpdateClientRequest{VisaExtendFor: strp("1")})
	require.Error(t, err)
}

// Extension then revert round-trips even across a clamped month boundary.
func TestExtendRevertRoundTrip(t *testing.T) {
	initial := date(2025, time.January, 31)
	extended := ExtendedExpiry(initial, 1)
	require.Equal(t, date(2025, time.February, 28), extended)

	c := &client.Client{
		InitialExpiry: sql.NullTime{Time: initial, Valid: true},
		CurrentExpiry: sql.NullTime{Time: extended, Valid: true},
		ExtendFor:     1,
	}
	assert.Equal(t, initial, RevertedExpiry(c))
}
