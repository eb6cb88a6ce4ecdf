package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vizboard/vizboard/api/internal/domain"
	"github.com/vizboard/vizboard/api/internal/pkg/metrics"
	"github.com/vizboard/vizboard/api/internal/pkg/pagination"
	"github.com/vizboard/vizboard/api/internal/storage"
)

// DatasetUpload is an accepted file ready to be stored
type DatasetUpload struct {
	Name        string
	Ext         string
	ContentType string
	Size        int64
	Tags        []string
	Content     io.Reader
}

// DatasetServiceConfig configures a DatasetService
type DatasetServiceConfig struct {
	// Folder prefixes every object key
	Folder string
	// URLExpiry bounds download URL lifetime
	URLExpiry time.Duration
}

// DatasetService handles dataset uploads and lookups
type DatasetService struct {
	logger      *zap.Logger
	projectRepo ProjectRepository
	datasetRepo DatasetRepository
	store       storage.ObjectStore
	jobs        JobEnqueuer
	cfg         DatasetServiceConfig
}

// NewDatasetService creates a new dataset service
func NewDatasetService(
	logger *zap.Logger,
	projectRepo ProjectRepository,
	datasetRepo DatasetRepository,
	store storage.ObjectStore,
	jobs JobEnqueuer,
	cfg DatasetServiceConfig,
) *DatasetService {
	return &DatasetService{
		logger:      logger,
		projectRepo: projectRepo,
		datasetRepo: datasetRepo,
		store:       store,
		jobs:        jobs,
		cfg:         cfg,
	}
}

// Upload stores the file, records the dataset and queues its visualization.
// A dataset row that cannot be written takes its stored object with it. A
// failed enqueue leaves the dataset pending.
func (s *DatasetService) Upload(ctx context.Context, ownerID string, projectID uuid.UUID, file *DatasetUpload) (*domain.Dataset, error) {
	project, err := s.projectRepo.GetByID(ctx, ownerID, projectID)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	key := storage.Key(s.cfg.Folder, projectID.String(), id.String(), file.Ext)

	obj, err := s.store.Put(ctx, key, file.Content, file.Size, file.ContentType)
	if err != nil {
		metrics.RecordUpload(s.store.Provider(), metrics.UploadFailed, file.Size)
		return nil, err
	}

	now := time.Now().UTC()
	dataset := &domain.Dataset{
		ID:           id,
		ProjectID:    projectID,
		OwnerID:      ownerID,
		OriginalName: file.Name,
		ObjectKey:    obj.Key,
		URL:          obj.URL,
		ContentType:  file.ContentType,
		SizeBytes:    file.Size,
		Tags:         normalizeTags(file.Tags),
		Status:       domain.DatasetStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.datasetRepo.Create(ctx, dataset); err != nil {
		metrics.RecordUpload(s.store.Provider(), metrics.UploadRejected, file.Size)
		if derr := s.store.Delete(context.WithoutCancel(ctx), obj.Key); derr != nil {
			s.logger.Warn("failed to remove object after dataset insert failed",
				zap.String("key", obj.Key),
				zap.Error(derr),
			)
		}
		return nil, fmt.Errorf("failed to create dataset: %w", err)
	}

	metrics.RecordUpload(s.store.Provider(), metrics.UploadStored, file.Size)

	job := &domain.VisualizationJob{
		DatasetID:   dataset.ID,
		ProjectID:   projectID,
		ObjectKey:   dataset.ObjectKey,
		ContentType: dataset.ContentType,
		ChartType:   project.ChartType,
	}
	if err := s.jobs.EnqueueVisualization(ctx, job); err != nil {
		s.logger.Warn("visualization job not queued",
			zap.String("dataset_id", dataset.ID.String()),
			zap.Error(err),
		)
	}

	return dataset, nil
}

// Get retrieves a dataset of one of the owner's projects
func (s *DatasetService) Get(ctx context.Context, ownerID string, projectID, id uuid.UUID) (*domain.Dataset, error) {
	if _, err := s.projectRepo.GetByID(ctx, ownerID, projectID); err != nil {
		return nil, err
	}
	return s.datasetRepo.GetByID(ctx, projectID, id)
}

// List returns a page of a project's datasets
func (s *DatasetService) List(ctx context.Context, ownerID string, projectID uuid.UUID, status *domain.DatasetStatus, page pagination.Params) (*domain.DatasetList, error) {
	if _, err := s.projectRepo.GetByID(ctx, ownerID, projectID); err != nil {
		return nil, err
	}

	datasets, total, err := s.datasetRepo.List(ctx, &domain.DatasetFilter{
		ProjectID: projectID,
		Status:    status,
		Limit:     page.Limit,
		Offset:    page.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}

	return &domain.DatasetList{
		Datasets:   datasets,
		TotalCount: total,
		HasMore:    page.HasMore(len(datasets), total),
	}, nil
}

// URL returns a time-limited download link for a dataset file
func (s *DatasetService) URL(ctx context.Context, ownerID string, projectID, id uuid.UUID) (*domain.DatasetURL, error) {
	dataset, err := s.Get(ctx, ownerID, projectID, id)
	if err != nil {
		return nil, err
	}

	url, err := s.store.URL(ctx, dataset.ObjectKey, s.cfg.URLExpiry)
	if err != nil {
		return nil, err
	}

	return &domain.DatasetURL{
		URL:       url,
		ExpiresAt: time.Now().UTC().Add(s.cfg.URLExpiry),
	}, nil
}

// Delete removes a dataset and its stored file. A file the store refuses to
// delete is handed to the purge queue.
func (s *DatasetService) Delete(ctx context.Context, ownerID string, projectID, id uuid.UUID) error {
	dataset, err := s.Get(ctx, ownerID, projectID, id)
	if err != nil {
		return err
	}

	if err := s.datasetRepo.Delete(ctx, projectID, id); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, dataset.ObjectKey); err != nil {
		s.logger.Warn("object delete failed, queueing purge",
			zap.String("key", dataset.ObjectKey),
			zap.Error(err),
		)
		if err := s.jobs.EnqueuePurge(ctx, []string{dataset.ObjectKey}); err != nil {
			s.logger.Error("stored object left behind after dataset delete",
				zap.String("key", dataset.ObjectKey),
				zap.Error(err),
			)
		}
	}

	return nil
}

// normalizeTags trims tags and drops blanks and repeats, keeping order
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
