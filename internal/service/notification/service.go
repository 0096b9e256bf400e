// internal/service/notification/service.go
package notification

import (
	"context"
	"time"

	"go.uber.org/zap"

	"visatrack-service/internal/domain/notification"
	"visatrack-service/internal/repository/postgres"
)

// NotificationService exposes the reminder audit log: per-client send
// history, failure listings and aggregated counts.
type NotificationService struct {
	notificationRepo *postgres.NotificationRepository
	logger           *zap.Logger
}

func NewNotificationService(notificationRepo *postgres.NotificationRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// Stats returns (type, status, day) counts from the audit log, optionally
// bounded to a date range.
func (s *NotificationService) Stats(ctx context.Context, start, end *time.Time) ([]notification.StatRollup, error) {
	return s.notificationRepo.GetStats(ctx, start, end)
}

// ClientHistory returns every send attempt recorded for one client, newest
// first.
func (s *NotificationService) ClientHistory(ctx context.Context, clientID int64) ([]notification.ClientAttempt, error) {
	return s.notificationRepo.ClientHistory(ctx, clientID)
}

// FailedAttempts returns failed sends joined with the clients they concern,
// optionally bounded to a date range.
func (s *NotificationService) FailedAttempts(ctx context.Context, start, end *time.Time) ([]notification.ClientAttempt, error) {
	return s.notificationRepo.FailedAttempts(ctx, start, end)
}
