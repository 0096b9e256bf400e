package session

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T) *RateLimiter {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRateLimiter(client)
}

// The second return counts attempts remaining in the window, ticking down to
// zero as the limit approaches.
func TestCheckLoginAttemptCountsDownRemaining(t *testing.T) {
	limiter := newTestLimiter(t)
	ctx := context.Background()

	for want := int64(4); want >= 0; want-- {
		allowed, remaining, err := limiter.CheckLoginAttempt(ctx, "1.2.3.4", "user@example.com")
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, want, remaining)
	}

	allowed, remaining, err := limiter.CheckLoginAttempt(ctx, "1.2.3.4", "user@example.com")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, int64(0), remaining)
}

func TestCheckLoginAttemptIsPerIdentity(t *testing.T) {
	limiter := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		limiter.CheckLoginAttempt(ctx, "1.2.3.4", "user@example.com")
	}

	allowed, remaining, err := limiter.CheckLoginAttempt(ctx, "1.2.3.4", "other@example.com")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, int64(4), remaining)
}

func TestResetLoginAttempts(t *testing.T) {
	limiter := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		limiter.CheckLoginAttempt(ctx, "1.2.3.4", "user@example.com")
	}
	allowed, _, err := limiter.CheckLoginAttempt(ctx, "1.2.3.4", "user@example.com")
	require.NoError(t, err)
	require.False(t, allowed)

	require.NoError(t, limiter.ResetLoginAttempts(ctx, "1.2.3.4", "user@example.com"))

	allowed, remaining, err := limiter.CheckLoginAttempt(ctx, "1.2.3.4", "user@example.com")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, int64(4), remaining)
}
