// internal/pkg/session/manager.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	xerrors "visatrack-service/internal/pkg/errors"

	"github.com/redis/go-redis/v9"
)

// Session is the server-side record behind an issued token.
type Session struct {
	JTI       string    `json:"jti"`
	UserID    int64     `json:"user_id"`
	Role      string    `json:"role"`
	IP        string    `json:"ip,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Manager stores sessions in redis, keyed by JTI, with a per-user index so
// logout-all can revoke every device at once.
type Manager struct {
	client *redis.Client
	ttl    time.Duration
}

func NewManager(client *redis.Client, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{client: client, ttl: ttl}
}

func sessionKey(jti string) string {
	return fmt.Sprintf("session:%s", jti)
}

func userSessionsKey(userID int64) string {
	return fmt.Sprintf("user_sessions:%d", userID)
}

// Create stores a new session.
func (m *Manager) Create(ctx context.Context, s *Session) error {
	s.CreatedAt = time.Now()
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	pipe := m.client.TxPipeline()
	pipe.Set(ctx, sessionKey(s.JTI), data, m.ttl)
	pipe.SAdd(ctx, userSessionsKey(s.UserID), s.JTI)
	pipe.Expire(ctx, userSessionsKey(s.UserID), m.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Get returns the session for a JTI, or ErrSessionExpired when it is gone.
func (m *Manager) Get(ctx context.Context, jti string) (*Session, error) {
	data, err := m.client.Get(ctx, sessionKey(jti)).Bytes()
	if err == redis.Nil {
		return nil, xerrors.ErrSessionExpired
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

// Delete revokes one session.
func (m *Manager) Delete(ctx context.Context, userID int64, jti string) error {
	pipe := m.client.TxPipeline()
	pipe.Del(ctx, sessionKey(jti))
	pipe.SRem(ctx, userSessionsKey(userID), jti)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteAll revokes every session belonging to a user.
func (m *Manager) DeleteAll(ctx context.Context, userID int64) error {
	jtis, err := m.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("failed to list user sessions: %w", err)
	}

	pipe := m.client.TxPipeline()
	for _, jti := range jtis {
		pipe.Del(ctx, sessionKey(jti))
	}
	pipe.Del(ctx, userSessionsKey(userID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}
	return nil
}
