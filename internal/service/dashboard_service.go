package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/lpk-cms-api/internal/dto"
	"github.com/noah-isme/lpk-cms-api/internal/models"
)

type dashboardRepository interface {
	Stats(ctx context.Context) (*dto.DashboardStats, error)
}

// DashboardService aggregates admin landing page counts.
type DashboardService struct {
	repo   dashboardRepository
	logger *zap.Logger
}

// NewDashboardService constructs the dashboard service.
func NewDashboardService(repo dashboardRepository, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{repo: repo, logger: logger}
}

// Stats returns row counts per table and registrations grouped by status. Every status is present, zero when unused.
func (s *DashboardService) Stats(ctx context.Context) (*dto.DashboardStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, internalError(err, "failed to load dashboard stats")
	}
	if stats.RegistrationsByState == nil {
		stats.RegistrationsByState = make(map[string]int, len(models.RegistrationStatuses))
	}
	for _, status := range models.RegistrationStatuses {
		if _, ok := stats.RegistrationsByState[string(status)]; !ok {
			stats.RegistrationsByState[string(status)] = 0
		}
	}
	return stats, nil
}
