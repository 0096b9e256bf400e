package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Equal(t, 9, cfg.NotifyHour)
	assert.Equal(t, 24*time.Hour, cfg.NotifyDedupWindow)
	assert.Equal(t, "visatrack", cfg.JWT.Issuer)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("NOTIFY_HOUR", "6")
	t.Setenv("NOTIFY_DEDUP_WINDOW", "12h")
	t.Setenv("SMTP_SECURE", "false")

	cfg := Load()

	assert.Equal(t, 6, cfg.NotifyHour)
	assert.Equal(t, 12*time.Hour, cfg.NotifyDedupWindow)
	assert.False(t, cfg.SMTPSecure)
}

func TestLoadIgnoresBadValues(t *testing.T) {
	t.Setenv("NOTIFY_HOUR", "noon")
	t.Setenv("NOTIFY_DEDUP_WINDOW", "-3h")

	cfg := Load()

	assert.Equal(t, 9, cfg.NotifyHour)
	assert.Equal(t, 24*time.Hour, cfg.NotifyDedupWindow)
}

// An out-of-range hour would silently roll into the next day via time.Date,
// so it falls back to the default instead.
func TestLoadRejectsOutOfRangeNotifyHour(t *testing.T) {
	t.Setenv("NOTIFY_HOUR", "25")
	assert.Equal(t, 9, Load().NotifyHour)

	t.Setenv("NOTIFY_HOUR", "-1")
	assert.Equal(t, 9, Load().NotifyHour)

	t.Setenv("NOTIFY_HOUR", "0")
	assert.Equal(t, 0, Load().NotifyHour)

	t.Setenv("NOTIFY_HOUR", "23")
	assert.Equal(t, 23, Load().NotifyHour)
}
