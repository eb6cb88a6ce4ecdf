package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/vizboard/vizboard/api/internal/domain"
)

// ProjectRepository defines project persistence. Lookups are scoped by owner
// and report a missing or foreign project as not found.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*domain.Project, error)
	List(ctx context.Context, filter *domain.ProjectFilter) ([]domain.Project, int64, error)
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, ownerID string, id uuid.UUID) error
}

// DatasetRepository defines dataset persistence
type DatasetRepository interface {
	Create(ctx context.Context, dataset *domain.Dataset) error
	GetByID(ctx context.Context, projectID, id uuid.UUID) (*domain.Dataset, error)
	List(ctx context.Context, filter *domain.DatasetFilter) ([]domain.Dataset, int64, error)
	Delete(ctx context.Context, projectID, id uuid.UUID) error
	ObjectKeysByProject(ctx context.Context, projectID uuid.UUID) ([]string, error)
	Summaries(ctx context.Context, ownerID string) ([]domain.ProjectSummary, error)
}

// JobEnqueuer hands work to background workers
type JobEnqueuer interface {
	EnqueueVisualization(ctx context.Context, job *domain.VisualizationJob) error
	EnqueuePurge(ctx context.Context, keys []string) error
}
