package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vizboard/vizboard/api/internal/domain"
	apperrors "github.com/vizboard/vizboard/api/internal/pkg/errors"
	"github.com/vizboard/vizboard/api/internal/pkg/pagination"
)

const testOwner = "user-1"

func newProjectService() (*ProjectService, *MockProjectRepository, *MockDatasetRepository, *MockJobEnqueuer) {
	projects := new(MockProjectRepository)
	datasets := new(MockDatasetRepository)
	jobs := new(MockJobEnqueuer)
	return NewProjectService(zap.NewNop(), projects, datasets, jobs), projects, datasets, jobs
}

func TestProjectService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, projects, _, _ := newProjectService()
		projects.On("Create", ctx, mock.AnythingOfType("*domain.Project")).Return(nil)

		project, err := svc.Create(ctx, testOwner, &domain.ProjectInput{Name: "Quarterly Sales", ChartType: domain.ChartTypeBar})

		require.NoError(t, err)
		assert.Equal(t, "quarterly-sales", project.Slug)
		assert.Equal(t, testOwner, project.OwnerID)
		assert.NotEqual(t, uuid.Nil, project.ID)
		projects.AssertExpectations(t)
	})

	t.Run("validation failure", func(t *testing.T) {
		svc, projects, _, _ := newProjectService()

		_, err := svc.Create(ctx, testOwner, &domain.ProjectInput{Name: "  ", ChartType: "radar"})

		var verr *apperrors.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Fields, 2)
		projects.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("name without slug characters", func(t *testing.T) {
		svc, _, _, _ := newProjectService()

		_, err := svc.Create(ctx, testOwner, &domain.ProjectInput{Name: "!!!", ChartType: domain.ChartTypePie})

		var verr *apperrors.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"name must contain a letter or digit"}, verr.Messages())
	})

	t.Run("duplicate slug survives wrapping", func(t *testing.T) {
		svc, projects, _, _ := newProjectService()
		projects.On("Create", ctx, mock.Anything).Return(apperrors.DuplicateKey("slug"))

		_, err := svc.Create(ctx, testOwner, &domain.ProjectInput{Name: "Sales", ChartType: domain.ChartTypeBar})

		var dup *apperrors.DuplicateKeyError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, []string{"slug"}, dup.Fields)
		assert.Contains(t, err.Error(), "failed to create project")
	})
}

func TestProjectService_List(t *testing.T) {
	ctx := context.Background()
	svc, projects, _, _ := newProjectService()
	page := pagination.Params{Limit: 2, Offset: 0}

	projects.On("List", ctx, &domain.ProjectFilter{OwnerID: testOwner, Limit: 2}).
		Return([]domain.Project{{Name: "a"}, {Name: "b"}}, int64(5), nil)

	list, err := svc.List(ctx, testOwner, page)

	require.NoError(t, err)
	assert.Len(t, list.Projects, 2)
	assert.Equal(t, int64(5), list.TotalCount)
	assert.True(t, list.HasMore)
}

func TestProjectService_Update(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("renaming changes the slug", func(t *testing.T) {
		svc, projects, _, _ := newProjectService()
		existing := &domain.Project{ID: id, OwnerID: testOwner, Name: "Old", Slug: "old", ChartType: domain.ChartTypeBar}
		projects.On("GetByID", ctx, testOwner, id).Return(existing, nil)
		projects.On("Update", ctx, existing).Return(nil)

		name := "New Name"
		chart := domain.ChartTypeArea
		project, err := svc.Update(ctx, testOwner, id, &domain.ProjectUpdateInput{Name: &name, ChartType: &chart})

		require.NoError(t, err)
		assert.Equal(t, "new-name", project.Slug)
		assert.Equal(t, domain.ChartTypeArea, project.ChartType)
	})

	t.Run("foreign project is not found", func(t *testing.T) {
		svc, projects, _, _ := newProjectService()
		projects.On("GetByID", ctx, "intruder", id).Return(nil, apperrors.NotFound("project"))

		_, err := svc.Update(ctx, "intruder", id, &domain.ProjectUpdateInput{})

		assert.True(t, apperrors.IsNotFound(err))
		projects.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestProjectService_Delete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	keys := []string{"vizboard/projects/p/datasets/a.csv"}

	t.Run("purges stored objects after delete", func(t *testing.T) {
		svc, projects, datasets, jobs := newProjectService()
		projects.On("GetByID", ctx, testOwner, id).Return(&domain.Project{ID: id}, nil)
		datasets.On("ObjectKeysByProject", ctx, id).Return(keys, nil)
		projects.On("Delete", ctx, testOwner, id).Return(nil)
		jobs.On("EnqueuePurge", ctx, keys).Return(nil)

		require.NoError(t, svc.Delete(ctx, testOwner, id))
		jobs.AssertExpectations(t)
	})

	t.Run("purge enqueue failure does not fail the delete", func(t *testing.T) {
		svc, projects, datasets, jobs := newProjectService()
		projects.On("GetByID", ctx, testOwner, id).Return(&domain.Project{ID: id}, nil)
		datasets.On("ObjectKeysByProject", ctx, id).Return(keys, nil)
		projects.On("Delete", ctx, testOwner, id).Return(nil)
		jobs.On("EnqueuePurge", ctx, keys).Return(errors.New("redis down"))

		assert.NoError(t, svc.Delete(ctx, testOwner, id))
	})

	t.Run("missing project", func(t *testing.T) {
		svc, projects, datasets, _ := newProjectService()
		projects.On("GetByID", ctx, testOwner, id).Return(nil, apperrors.NotFound("project"))

		assert.True(t, apperrors.IsNotFound(svc.Delete(ctx, testOwner, id)))
		datasets.AssertNotCalled(t, "ObjectKeysByProject", mock.Anything, mock.Anything)
	})
}
