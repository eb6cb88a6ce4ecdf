package service

import (
	"context"
	"fmt"

	"github.com/vizboard/vizboard/api/internal/domain"
)

// DashboardService builds the owner's overview
type DashboardService struct {
	datasetRepo DatasetRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(datasetRepo DatasetRepository) *DashboardService {
	return &DashboardService{datasetRepo: datasetRepo}
}

// Get summarizes every project the owner has
func (s *DashboardService) Get(ctx context.Context, ownerID string) (*domain.Dashboard, error) {
	summaries, err := s.datasetRepo.Summaries(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}

	dashboard := &domain.Dashboard{
		Projects:     summaries,
		ProjectCount: len(summaries),
	}
	for _, summary := range summaries {
		dashboard.DatasetCount += summary.DatasetCount
		dashboard.TotalBytes += summary.TotalBytes
	}
	if dashboard.Projects == nil {
		dashboard.Projects = []domain.ProjectSummary{}
	}

	return dashboard, nil
}
