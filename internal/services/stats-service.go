package services

import (
	"context"

	"github.com/SundayYogurt/application_service/internal/domain"
	"github.com/SundayYogurt/application_service/internal/dto"
	"github.com/SundayYogurt/application_service/internal/interfaces"
	"github.com/SundayYogurt/application_service/internal/repository"
)

type StatsService interface {
	Compute(ctx context.Context) (*dto.ApplicationStats, error)
}

type statsService struct {
	applications repository.ApplicationRepository
	guard        storageGuard
}

func NewStatsService(applications repository.ApplicationRepository, health interfaces.HealthChecker) StatsService {
	return &statsService{applications: applications, guard: storageGuard{health: health}}
}

// Compute counts applications per status in one grouped query. Total is the sum
// of the three groups.
func (s *statsService) Compute(ctx context.Context) (*dto.ApplicationStats, error) {
	counts, err := s.applications.CountByStatus(ctx)
	if err != nil {
		return nil, s.guard.classify(ctx, err)
	}

	stats := &dto.ApplicationStats{
		Pending:  counts[domain.ApplicationStatusPending],
		Approved: counts[domain.ApplicationStatusApproved],
		Rejected: counts[domain.ApplicationStatusRejected],
	}
	stats.Total = stats.Pending + stats.Approved + stats.Rejected
	return stats, nil
}
