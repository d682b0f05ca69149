package service

import (
	"context"

	"gdocs/internal/domain"
	"gdocs/internal/logger"
	"gdocs/internal/port"
)

// StatsService provides dashboard aggregates.
type StatsService interface {
	Get(ctx context.Context, sess *domain.Session) (*domain.Stats, error)
}

type statsService struct {
	statsRepo port.StatsRepository
	fx        *effects
}

// NewStatsService creates a new StatsService implementation.
func NewStatsService(statsRepo port.StatsRepository, audit AuditService, log *logger.Logger) StatsService {
	return &statsService{statsRepo: statsRepo, fx: newEffects(audit, nil, log)}
}

func (s *statsService) Get(ctx context.Context, sess *domain.Session) (*domain.Stats, error) {
	if err := s.fx.authorize(sess, domain.ResourceDashboard, domain.ActionView, "stats", "get"); err != nil {
		return nil, err
	}
	stats, err := s.statsRepo.GetStats(ctx)
	if err != nil {
		return nil, s.fx.gatewayFailure(ctx, sess, "stats", "get", "get_stats", err)
	}
	return stats, nil
}
