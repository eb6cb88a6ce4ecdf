package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vizboard/vizboard/api/internal/domain"
	apperrors "github.com/vizboard/vizboard/api/internal/pkg/errors"
	"github.com/vizboard/vizboard/api/internal/pkg/pagination"
	"github.com/vizboard/vizboard/api/internal/validator"
)

// ProjectService handles project operations
type ProjectService struct {
	logger      *zap.Logger
	projectRepo ProjectRepository
	datasetRepo DatasetRepository
	jobs        JobEnqueuer
}

// NewProjectService creates a new project service
func NewProjectService(logger *zap.Logger, projectRepo ProjectRepository, datasetRepo DatasetRepository, jobs JobEnqueuer) *ProjectService {
	return &ProjectService{
		logger:      logger,
		projectRepo: projectRepo,
		datasetRepo: datasetRepo,
		jobs:        jobs,
	}
}

// Create creates a new project owned by ownerID
func (s *ProjectService) Create(ctx context.Context, ownerID string, input *domain.ProjectInput) (*domain.Project, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	slug, err := slugFor(input.Name)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	project := &domain.Project{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        input.Name,
		Slug:        slug,
		Description: input.Description,
		ChartType:   input.ChartType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// Get retrieves one of the owner's projects
func (s *ProjectService) Get(ctx context.Context, ownerID string, id uuid.UUID) (*domain.Project, error) {
	return s.projectRepo.GetByID(ctx, ownerID, id)
}

// List returns a page of the owner's projects, newest first
func (s *ProjectService) List(ctx context.Context, ownerID string, page pagination.Params) (*domain.ProjectList, error) {
	projects, total, err := s.projectRepo.List(ctx, &domain.ProjectFilter{
		OwnerID: ownerID,
		Limit:   page.Limit,
		Offset:  page.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return &domain.ProjectList{
		Projects:   projects,
		TotalCount: total,
		HasMore:    page.HasMore(len(projects), total),
	}, nil
}

// Update applies the fields present in input
func (s *ProjectService) Update(ctx context.Context, ownerID string, id uuid.UUID, input *domain.ProjectUpdateInput) (*domain.Project, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != project.Name {
		slug, err := slugFor(*input.Name)
		if err != nil {
			return nil, err
		}
		project.Name = *input.Name
		project.Slug = slug
	}
	if input.Description != nil {
		project.Description = input.Description
	}
	if input.ChartType != nil {
		project.ChartType = *input.ChartType
	}
	project.UpdatedAt = time.Now().UTC()

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// Delete removes a project and its datasets. Stored files are purged in the
// background once the rows are gone.
func (s *ProjectService) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	if _, err := s.projectRepo.GetByID(ctx, ownerID, id); err != nil {
		return err
	}

	keys, err := s.datasetRepo.ObjectKeysByProject(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list dataset objects: %w", err)
	}

	if err := s.projectRepo.Delete(ctx, ownerID, id); err != nil {
		return err
	}

	if err := s.jobs.EnqueuePurge(ctx, keys); err != nil {
		s.logger.Warn("stored objects left behind after project delete",
			zap.String("project_id", id.String()),
			zap.Strings("keys", keys),
			zap.Error(err),
		)
	}

	return nil
}

// slugFor derives a slug, rejecting names with no usable characters
func slugFor(name string) (string, error) {
	slug := domain.GenerateSlug(name)
	if slug == "" {
		return "", apperrors.Validation(apperrors.FieldError{
			Field:   "name",
			Message: "name must contain a letter or digit",
		})
	}
	return slug, nil
}
