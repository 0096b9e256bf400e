// internal/service/dashboard/dashboard.go
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"visatrack-service/internal/domain/dashboard"
	"visatrack-service/internal/repository/postgres"
)

const (
	cacheKey = "dashboard:stats"
	cacheTTL = 5 * time.Minute
)

// DashboardService serves the operator dashboard snapshot, cached in redis
// so repeated page loads don't hammer the counters.
type DashboardService struct {
	dashboardRepo *postgres.DashboardRepository
	cache         *redis.Client
	logger        *zap.Logger
}

func NewDashboardService(dashboardRepo *postgres.DashboardRepository, cache *redis.Client, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		dashboardRepo: dashboardRepo,
		cache:         cache,
		logger:        logger,
	}
}

// Stats returns the dashboard counters, served from cache when fresh.
func (s *DashboardService) Stats(ctx context.Context) (*dashboard.Stats, error) {
	if cached, err := s.cache.Get(ctx, cacheKey).Bytes(); err == nil {
		var stats dashboard.Stats
		if json.Unmarshal(cached, &stats) == nil {
			return &stats, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.logger.Warn("dashboard cache read failed", zap.Error(err))
	}

	stats, err := s.dashboardRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(stats); err == nil {
		if err := s.cache.Set(ctx, cacheKey, data, cacheTTL).Err(); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}

// Invalidate drops the cached snapshot; called after archival runs so the
// counters reflect the move immediately.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if err := s.cache.Del(ctx, cacheKey).Err(); err != nil && !errors.Is(err, redis.Nil) {
		s.logger.Warn("dashboard cache invalidate failed", zap.Error(err))
	}
}
