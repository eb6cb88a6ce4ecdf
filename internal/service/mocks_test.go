package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/vizboard/vizboard/api/internal/domain"
	"github.com/vizboard/vizboard/api/internal/storage"
)

// MockProjectRepository is a mock implementation of ProjectRepository
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	return m.Called(ctx, project).Error(0)
}

func (m *MockProjectRepository) GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*domain.Project, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) List(ctx context.Context, filter *domain.ProjectFilter) ([]domain.Project, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Project), args.Get(1).(int64), args.Error(2)
}

func (m *MockProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	return m.Called(ctx, project).Error(0)
}

func (m *MockProjectRepository) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

// MockDatasetRepository is a mock implementation of DatasetRepository
type MockDatasetRepository struct {
	mock.Mock
}

func (m *MockDatasetRepository) Create(ctx context.Context, dataset *domain.Dataset) error {
	return m.Called(ctx, dataset).Error(0)
}

func (m *MockDatasetRepository) GetByID(ctx context.Context, projectID, id uuid.UUID) (*domain.Dataset, error) {
	args := m.Called(ctx, projectID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dataset), args.Error(1)
}

func (m *MockDatasetRepository) List(ctx context.Context, filter *domain.DatasetFilter) ([]domain.Dataset, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Dataset), args.Get(1).(int64), args.Error(2)
}

func (m *MockDatasetRepository) Delete(ctx context.Context, projectID, id uuid.UUID) error {
	return m.Called(ctx, projectID, id).Error(0)
}

func (m *MockDatasetRepository) ObjectKeysByProject(ctx context.Context, projectID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockDatasetRepository) Summaries(ctx context.Context, ownerID string) ([]domain.ProjectSummary, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProjectSummary), args.Error(1)
}

// MockJobEnqueuer is a mock implementation of JobEnqueuer
type MockJobEnqueuer struct {
	mock.Mock
}

func (m *MockJobEnqueuer) EnqueueVisualization(ctx context.Context, job *domain.VisualizationJob) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockJobEnqueuer) EnqueuePurge(ctx context.Context, keys []string) error {
	return m.Called(ctx, keys).Error(0)
}

// MockObjectStore is a mock implementation of storage.ObjectStore
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Provider() string {
	return storage.ProviderCloudinary
}

func (m *MockObjectStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*storage.Object, error) {
	args := m.Called(ctx, key, r, size, contentType)
	if fn, ok := args.Get(0).(func(context.Context, string, io.Reader, int64, string) *storage.Object); ok {
		return fn(ctx, key, r, size, contentType), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Object), args.Error(1)
}

func (m *MockObjectStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockObjectStore) URL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
