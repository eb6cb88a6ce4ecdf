package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vizboard/vizboard/api/internal/domain"
	apperrors "github.com/vizboard/vizboard/api/internal/pkg/errors"
	"github.com/vizboard/vizboard/api/internal/pkg/pagination"
	"github.com/vizboard/vizboard/api/internal/storage"
)

type datasetFixture struct {
	svc      *DatasetService
	projects *MockProjectRepository
	datasets *MockDatasetRepository
	store    *MockObjectStore
	jobs     *MockJobEnqueuer
	project  *domain.Project
}

func newDatasetFixture() *datasetFixture {
	f := &datasetFixture{
		projects: new(MockProjectRepository),
		datasets: new(MockDatasetRepository),
		store:    new(MockObjectStore),
		jobs:     new(MockJobEnqueuer),
		project:  &domain.Project{ID: uuid.New(), OwnerID: testOwner, ChartType: domain.ChartTypeScatter},
	}
	f.svc = NewDatasetService(zap.NewNop(), f.projects, f.datasets, f.store, f.jobs, DatasetServiceConfig{
		Folder:    "vizboard",
		URLExpiry: 15 * time.Minute,
	})
	return f
}

func (f *datasetFixture) ownsProject() {
	f.projects.On("GetByID", mock.Anything, testOwner, f.project.ID).Return(f.project, nil)
}

func csvUpload() *DatasetUpload {
	return &DatasetUpload{
		Name:        "sales.csv",
		Ext:         ".csv",
		ContentType: "text/csv",
		Size:        12,
		Tags:        []string{" q1 ", "", "sales", "q1"},
		Content:     strings.NewReader("a,b\n1,2\n3,4\n"),
	}
}

func keyPrefix(projectID uuid.UUID) string {
	return "vizboard/projects/" + projectID.String() + "/datasets/"
}

func TestDatasetService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("stores, records and enqueues", func(t *testing.T) {
		f := newDatasetFixture()
		f.ownsProject()
		prefix := keyPrefix(f.project.ID)
		f.store.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, prefix) && strings.HasSuffix(key, ".csv")
		}), mock.Anything, int64(12), "text/csv").
			Return(func(_ context.Context, key string, _ io.Reader, _ int64, _ string) *storage.Object {
				return &storage.Object{Key: key, URL: "https://res.cloudinary.com/demo/raw/upload/" + key}
			}, nil)
		f.datasets.On("Create", ctx, mock.AnythingOfType("*domain.Dataset")).Return(nil)
		f.jobs.On("EnqueueVisualization", ctx, mock.MatchedBy(func(job *domain.VisualizationJob) bool {
			return job.ChartType == domain.ChartTypeScatter && job.ProjectID == f.project.ID
		})).Return(nil)

		dataset, err := f.svc.Upload(ctx, testOwner, f.project.ID, csvUpload())

		require.NoError(t, err)
		assert.Equal(t, domain.DatasetStatusPending, dataset.Status)
		assert.Equal(t, []string{"q1", "sales"}, dataset.Tags)
		assert.Equal(t, keyPrefix(f.project.ID)+dataset.ID.String()+".csv", dataset.ObjectKey)
		assert.Contains(t, dataset.URL, dataset.ObjectKey)
		f.store.AssertExpectations(t)
		f.jobs.AssertExpectations(t)
	})

	t.Run("foreign project stores nothing", func(t *testing.T) {
		f := newDatasetFixture()
		f.projects.On("GetByID", ctx, "intruder", f.project.ID).Return(nil, apperrors.NotFound("project"))

		_, err := f.svc.Upload(ctx, "intruder", f.project.ID, csvUpload())

		assert.True(t, apperrors.IsNotFound(err))
		f.store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("storage failure is returned unchanged", func(t *testing.T) {
		f := newDatasetFixture()
		f.ownsProject()
		failure := apperrors.Storage(storage.ProviderCloudinary, "Cloudinary: Invalid Signature").WithStatus(401)
		f.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, failure)

		_, err := f.svc.Upload(ctx, testOwner, f.project.ID, csvUpload())

		assert.Same(t, failure, err)
		f.datasets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("insert failure removes the stored object", func(t *testing.T) {
		f := newDatasetFixture()
		f.ownsProject()
		f.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(&storage.Object{Key: "k.csv"}, nil)
		f.datasets.On("Create", ctx, mock.Anything).Return(apperrors.DuplicateKey("original_name"))
		f.store.On("Delete", mock.Anything, "k.csv").Return(nil)

		_, err := f.svc.Upload(ctx, testOwner, f.project.ID, csvUpload())

		var dup *apperrors.DuplicateKeyError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, []string{"original_name"}, dup.Fields)
		f.store.AssertCalled(t, "Delete", mock.Anything, "k.csv")
		f.jobs.AssertNotCalled(t, "EnqueueVisualization", mock.Anything, mock.Anything)
	})

	t.Run("enqueue failure keeps the dataset pending", func(t *testing.T) {
		f := newDatasetFixture()
		f.ownsProject()
		f.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(&storage.Object{Key: "k.csv"}, nil)
		f.datasets.On("Create", ctx, mock.Anything).Return(nil)
		f.jobs.On("EnqueueVisualization", ctx, mock.Anything).Return(errors.New("redis: connection refused"))

		dataset, err := f.svc.Upload(ctx, testOwner, f.project.ID, csvUpload())

		require.NoError(t, err)
		assert.Equal(t, domain.DatasetStatusPending, dataset.Status)
	})
}

func TestDatasetService_List(t *testing.T) {
	ctx := context.Background()
	f := newDatasetFixture()
	f.ownsProject()
	ready := domain.DatasetStatusReady
	f.datasets.On("List", ctx, &domain.DatasetFilter{ProjectID: f.project.ID, Status: &ready, Limit: 10, Offset: 10}).
		Return([]domain.Dataset{{OriginalName: "a.csv"}}, int64(11), nil)

	list, err := f.svc.List(ctx, testOwner, f.project.ID, &ready, pagination.Params{Limit: 10, Offset: 10})

	require.NoError(t, err)
	assert.Len(t, list.Datasets, 1)
	assert.False(t, list.HasMore)
}

func TestDatasetService_URL(t *testing.T) {
	ctx := context.Background()
	f := newDatasetFixture()
	f.ownsProject()
	id := uuid.New()
	f.datasets.On("GetByID", ctx, f.project.ID, id).Return(&domain.Dataset{ID: id, ObjectKey: "k.csv"}, nil)
	f.store.On("URL", ctx, "k.csv", 15*time.Minute).Return("https://minio.local/k.csv?X-Amz-Signature=abc", nil)

	before := time.Now().UTC()
	link, err := f.svc.URL(ctx, testOwner, f.project.ID, id)

	require.NoError(t, err)
	assert.Contains(t, link.URL, "X-Amz-Signature")
	assert.WithinDuration(t, before.Add(15*time.Minute), link.ExpiresAt, 5*time.Second)
}

func TestDatasetService_Delete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("removes row and object", func(t *testing.T) {
		f := newDatasetFixture()
		f.ownsProject()
		f.datasets.On("GetByID", ctx, f.project.ID, id).Return(&domain.Dataset{ID: id, ObjectKey: "k.csv"}, nil)
		f.datasets.On("Delete", ctx, f.project.ID, id).Return(nil)
		f.store.On("Delete", ctx, "k.csv").Return(nil)

		require.NoError(t, f.svc.Delete(ctx, testOwner, f.project.ID, id))
		f.jobs.AssertNotCalled(t, "EnqueuePurge", mock.Anything, mock.Anything)
	})

	t.Run("object delete failure is queued for purge", func(t *testing.T) {
		f := newDatasetFixture()
		f.ownsProject()
		f.datasets.On("GetByID", ctx, f.project.ID, id).Return(&domain.Dataset{ID: id, ObjectKey: "k.csv"}, nil)
		f.datasets.On("Delete", ctx, f.project.ID, id).Return(nil)
		f.store.On("Delete", ctx, "k.csv").Return(apperrors.Storage(storage.ProviderMinIO, "MinIO: delete failed"))
		f.jobs.On("EnqueuePurge", ctx, []string{"k.csv"}).Return(nil)

		require.NoError(t, f.svc.Delete(ctx, testOwner, f.project.ID, id))
		f.jobs.AssertExpectations(t)
	})

	t.Run("missing dataset", func(t *testing.T) {
		f := newDatasetFixture()
		f.ownsProject()
		f.datasets.On("GetByID", ctx, f.project.ID, id).Return(nil, apperrors.NotFound("dataset"))

		assert.True(t, apperrors.IsNotFound(f.svc.Delete(ctx, testOwner, f.project.ID, id)))
	})
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{}, normalizeTags(nil))
	assert.Equal(t, []string{"a", "b"}, normalizeTags([]string{"a", " b", "a ", "  "}))
}
