package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vizboard/vizboard/api/internal/domain"
	apperrors "github.com/vizboard/vizboard/api/internal/pkg/errors"
)

func newTestProject(ownerID, name string) *domain.Project {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Project{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      name,
		Slug:      domain.GenerateSlug(name),
		ChartType: domain.ChartTypeBar,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestProjectRepository_Integration(t *testing.T) {
	pool, _ := getTestDBs(t)
	repo := NewProjectRepository(pool)
	ctx := context.Background()
	owner := "owner-" + uuid.NewString()
	cleanupOwner(t, pool, owner)

	project := newTestProject(owner, "Quarterly Sales")
	require.NoError(t, repo.Create(ctx, project))

	t.Run("get own project", func(t *testing.T) {
		got, err := repo.GetByID(ctx, owner, project.ID)
		require.NoError(t, err)
		assert.Equal(t, project.Name, got.Name)
		assert.Equal(t, "quarterly-sales", got.Slug)
		assert.Equal(t, domain.ChartTypeBar, got.ChartType)
	})

	t.Run("foreign owner sees not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "someone-else", project.ID)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("duplicate slug", func(t *testing.T) {
		err := repo.Create(ctx, newTestProject(owner, "quarterly sales"))

		var dup *apperrors.DuplicateKeyError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, []string{"slug"}, dup.Fields)
	})

	t.Run("list and update", func(t *testing.T) {
		second := newTestProject(owner, "Churn")
		require.NoError(t, repo.Create(ctx, second))

		projects, total, err := repo.List(ctx, &domain.ProjectFilter{OwnerID: owner, Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, projects, 1)

		second.ChartType = domain.ChartTypeLine
		require.NoError(t, repo.Update(ctx, second))
		got, err := repo.GetByID(ctx, owner, second.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ChartTypeLine, got.ChartType)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, owner, project.ID))
		assert.True(t, apperrors.IsNotFound(repo.Delete(ctx, owner, project.ID)))
	})
}
