// internal/repository/postgres/dashboard_repo.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"visatrack-service/internal/domain/dashboard"
)

type DashboardRepository struct {
	db *pgxpool.Pool
}

func NewDashboardRepository(db *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// Stats gathers the dashboard counters in one round trip.
func (r *DashboardRepository) Stats(ctx context.Context) (*dashboard.Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM clients),
			(SELECT COUNT(*) FROM clients
				WHERE current_expiry BETWEEN CURRENT_DATE AND CURRENT_DATE + INTERVAL '7 days'),
			(SELECT COUNT(*) FROM clients
				WHERE current_expiry BETWEEN CURRENT_DATE AND CURRENT_DATE + INTERVAL '1 month'),
			(SELECT COUNT(*) FROM clients
				WHERE current_expiry IS NOT NULL AND current_expiry < CURRENT_DATE),
			(SELECT COUNT(*) FROM agents WHERE status = 'active'),
			(SELECT COUNT(*) FROM suppliers WHERE status = 'active'),
			(SELECT COUNT(*) FROM client_history),
			(SELECT COUNT(*) FROM notification_history WHERE DATE(sent_at) = CURRENT_DATE)
	`

	s := &dashboard.Stats{GeneratedAt: time.Now()}
	err := r.db.QueryRow(ctx, query).Scan(
		&s.TotalClients,
		&s.ExpiringThisWeek,
		&s.ExpiringThisMonth,
		&s.ExpiredUnarchived,
		&s.ActiveAgents,
		&s.ActiveSuppliers,
		&s.ArchivedClients,
		&s.NotificationsToday,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard stats: %w", err)
	}

	series, err := r.expirySeries(ctx)
	if err != nil {
		return nil, err
	}
	s.ExpirySeries = series
	return s, nil
}

// expirySeries counts visas expiring per day over the next 30 days.
func (r *DashboardRepository) expirySeries(ctx context.Context) ([]dashboard.ExpiryPoint, error) {
	query := `
		SELECT current_expiry, COUNT(*)
		FROM clients
		WHERE current_expiry BETWEEN CURRENT_DATE AND CURRENT_DATE + INTERVAL '30 days'
		GROUP BY current_expiry
		ORDER BY current_expiry ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load expiry series: %w", err)
	}
	defer rows.Close()

	series := []dashboard.ExpiryPoint{}
	for rows.Next() {
		var day time.Time
		var p dashboard.ExpiryPoint
		if err := rows.Scan(&day, &p.Count); err != nil {
			return nil, fmt.Errorf("failed to scan expiry series: %w", err)
		}
		p.Date = day.Format("2006-01-02")
		series = append(series, p)
	}
	return series, rows.Err()
}
