// internal/repository/postgres/notification_repo.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"visatrack-service/internal/domain/notification"

	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepository struct {
	db *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// LogAttempt appends one audit row for a (client, category) send outcome.
func (r *NotificationRepository) LogAttempt(ctx context.Context, a *notification.Attempt) error {
	query := `
		INSERT INTO notification_history (client_id, notification_type, status, error_message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, sent_at
	`

	err := r.db.QueryRow(ctx, query, a.ClientID, a.Type, a.Status, a.ErrorMessage).
		Scan(&a.ID, &a.SentAt)
	if err != nil {
		return fmt.Errorf("failed to log notification attempt: %w", err)
	}
	return nil
}

// RecentSuccesses returns the (client, category) pairs with a successful
// attempt at or after the cutoff. The dispatcher suppresses these.
func (r *NotificationRepository) RecentSuccesses(ctx context.Context, since time.Time) (map[notification.AttemptKey]struct{}, error) {
	query := `
		SELECT DISTINCT client_id, notification_type
		FROM notification_history
		WHERE status = 'success' AND sent_at >= $1
	`

	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent successes: %w", err)
	}
	defer rows.Close()

	keys := map[notification.AttemptKey]struct{}{}
	for rows.Next() {
		var k notification.AttemptKey
		if err := rows.Scan(&k.ClientID, &k.Type); err != nil {
			return nil, fmt.Errorf("failed to scan success row: %w", err)
		}
		keys[k] = struct{}{}
	}
	return keys, rows.Err()
}

// ListCandidates returns every client eligible for classification: a
// non-null expiry date and an active agent with an email address.
// Ordered by agent then expiry so grouped sends list clients expiry-first.
func (r *NotificationRepository) ListCandidates(ctx context.Context) ([]notification.Candidate, error) {
	query := `
		SELECT c.id, COALESCE(c.first_name, ''), COALESCE(c.last_name, ''),
		       COALESCE(c.email, ''), COALESCE(c.visa_type, ''), c.current_expiry,
		       a.id, a.company_name, a.email, COALESCE(a.cc_emails, '{}')
		FROM clients c
		JOIN agents a ON c.agent_id = a.id
		WHERE c.current_expiry IS NOT NULL
		  AND a.email IS NOT NULL
		  AND a.status = 'active'
		ORDER BY a.id, c.current_expiry ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list notification candidates: %w", err)
	}
	defer rows.Close()

	candidates := []notification.Candidate{}
	for rows.Next() {
		var c notification.Candidate
		err := rows.Scan(
			&c.ClientID, &c.FirstName, &c.LastName,
			&c.Email, &c.VisaType, &c.ExpiryDate,
			&c.AgentID, &c.AgentCompany, &c.AgentEmail, &c.AgentCC,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// AddDailyStats accumulates one run's counts into the row for its date.
// Counters add across runs in the same day; duration keeps the latest run's.
func (r *NotificationRepository) AddDailyStats(ctx context.Context, s *notification.DailyStats) error {
	query := `
		INSERT INTO notification_daily_stats (stat_date, total_attempts, successful, failed, skipped, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (stat_date) DO UPDATE SET
			total_attempts = notification_daily_stats.total_attempts + EXCLUDED.total_attempts,
			successful     = notification_daily_stats.successful + EXCLUDED.successful,
			failed         = notification_daily_stats.failed + EXCLUDED.failed,
			skipped        = notification_daily_stats.skipped + EXCLUDED.skipped,
			duration_ms    = EXCLUDED.duration_ms
	`

	_, err := r.db.Exec(ctx, query, s.Date, s.TotalAttempts, s.Successful, s.Failed, s.Skipped, s.DurationMS)
	if err != nil {
		return fmt.Errorf("failed to upsert daily stats: %w", err)
	}
	return nil
}

// GetStats returns (type, status, day) rollups from the audit log, optionally
// bounded by an inclusive date range.
func (r *NotificationRepository) GetStats(ctx context.Context, start, end *time.Time) ([]notification.StatRollup, error) {
	query := `
		SELECT notification_type, status, COUNT(*), DATE(sent_at)
		FROM notification_history
	`
	args := []interface{}{}
	if start != nil && end != nil {
		query += ` WHERE sent_at BETWEEN $1 AND $2`
		args = append(args, *start, *end)
	}
	query += `
		GROUP BY notification_type, status, DATE(sent_at)
		ORDER BY DATE(sent_at) DESC
	`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get notification stats: %w", err)
	}
	defer rows.Close()

	stats := []notification.StatRollup{}
	for rows.Next() {
		var s notification.StatRollup
		if err := rows.Scan(&s.Type, &s.Status, &s.Count, &s.Date); err != nil {
			return nil, fmt.Errorf("failed to scan stat row: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// ClientHistory returns the audit trail for one client, newest first.
func (r *NotificationRepository) ClientHistory(ctx context.Context, clientID int64) ([]notification.ClientAttempt, error) {
	query := `
		SELECT nh.id, nh.client_id, nh.notification_type, nh.sent_at, nh.status,
		       nh.error_message, c.first_name, c.last_name, c.email, c.visa_type,
		       c.current_expiry
		FROM notification_history nh
		JOIN clients c ON c.id = nh.client_id
		WHERE nh.client_id = $1
		ORDER BY nh.sent_at DESC
	`
	return r.queryClientAttempts(ctx, query, clientID)
}

// FailedAttempts returns failed audit rows, optionally date-bounded.
func (r *NotificationRepository) FailedAttempts(ctx context.Context, start, end *time.Time) ([]notification.ClientAttempt, error) {
	query := `
		SELECT nh.id, nh.client_id, nh.notification_type, nh.sent_at, nh.status,
		       nh.error_message, c.first_name, c.last_name, c.email, c.visa_type,
		       c.current_expiry
		FROM notification_history nh
		JOIN clients c ON c.id = nh.client_id
		WHERE nh.status = 'failed'
	`
	args := []interface{}{}
	if start != nil && end != nil {
		query += ` AND nh.sent_at BETWEEN $1 AND $2`
		args = append(args, *start, *end)
	}
	query += ` ORDER BY nh.sent_at DESC`

	return r.queryClientAttempts(ctx, query, args...)
}

func (r *NotificationRepository) queryClientAttempts(ctx context.Context, query string, args ...interface{}) ([]notification.ClientAttempt, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempts: %w", err)
	}
	defer rows.Close()

	attempts := []notification.ClientAttempt{}
	for rows.Next() {
		var a notification.ClientAttempt
		err := rows.Scan(
			&a.ID, &a.ClientID, &a.Type, &a.SentAt, &a.Status,
			&a.ErrorMessage, &a.FirstName, &a.LastName, &a.Email, &a.VisaType,
			&a.ExpiryDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
