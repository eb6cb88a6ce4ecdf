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

func newTestDataset(project *domain.Project, name string, size int64) *domain.Dataset {
	now := time.Now().UTC().Truncate(time.Microsecond)
	id := uuid.New()
	return &domain.Dataset{
		ID:           id,
		ProjectID:    project.ID,
		OwnerID:      project.OwnerID,
		OriginalName: name,
		ObjectKey:    "test/" + id.String() + ".csv",
		ContentType:  "text/csv",
		SizeBytes:    size,
		Tags:         []string{"q1", "sales"},
		Status:       domain.DatasetStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestDatasetRepository_Integration(t *testing.T) {
	pool, db := getTestDBs(t)
	projects := NewProjectRepository(pool)
	repo := NewDatasetRepository(db)
	ctx := context.Background()
	owner := "owner-" + uuid.NewString()
	cleanupOwner(t, pool, owner)

	project := newTestProject(owner, "Revenue")
	require.NoError(t, projects.Create(ctx, project))

	first := newTestDataset(project, "jan.csv", 100)
	require.NoError(t, repo.Create(ctx, first))

	t.Run("get keeps tags", func(t *testing.T) {
		got, err := repo.GetByID(ctx, project.ID, first.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"q1", "sales"}, got.Tags)
		assert.Equal(t, domain.DatasetStatusPending, got.Status)
		assert.Nil(t, got.StatusDetail)
	})

	t.Run("duplicate original name", func(t *testing.T) {
		err := repo.Create(ctx, newTestDataset(project, "jan.csv", 5))

		var dup *apperrors.DuplicateKeyError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, []string{"original_name"}, dup.Fields)
	})

	t.Run("status and summaries", func(t *testing.T) {
		second := newTestDataset(project, "feb.csv", 50)
		require.NoError(t, repo.Create(ctx, second))
		detail := "chart rendered"
		require.NoError(t, repo.UpdateStatus(ctx, second.ID, domain.DatasetStatusReady, &detail))

		ready := domain.DatasetStatusReady
		list, total, err := repo.List(ctx, &domain.DatasetFilter{ProjectID: project.ID, Status: &ready, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, list, 1)
		assert.Equal(t, "feb.csv", list[0].OriginalName)

		summaries, err := repo.Summaries(ctx, owner)
		require.NoError(t, err)
		require.Len(t, summaries, 1)
		assert.Equal(t, int64(2), summaries[0].DatasetCount)
		assert.Equal(t, int64(150), summaries[0].TotalBytes)
		assert.Equal(t, int64(1), summaries[0].StatusCounts[domain.DatasetStatusReady])
		assert.Equal(t, int64(1), summaries[0].StatusCounts[domain.DatasetStatusPending])
		assert.NotNil(t, summaries[0].LatestUploadAt)

		keys, err := repo.ObjectKeysByProject(ctx, project.ID)
		require.NoError(t, err)
		assert.Len(t, keys, 2)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, project.ID, first.ID))
		_, err := repo.GetByID(ctx, project.ID, first.ID)
		assert.True(t, apperrors.IsNotFound(err))
	})
}
