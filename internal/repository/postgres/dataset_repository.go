package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/vizboard/vizboard/api/internal/domain"
	apperrors "github.com/vizboard/vizboard/api/internal/pkg/errors"
)

const datasetColumns = `id, project_id, owner_id, original_name, object_key, url, content_type,
	size_bytes, tags, status, status_detail, created_at, updated_at`

// datasetRow is the database shape of domain.Dataset
type datasetRow struct {
	ID           uuid.UUID      `db:"id"`
	ProjectID    uuid.UUID      `db:"project_id"`
	OwnerID      string         `db:"owner_id"`
	OriginalName string         `db:"original_name"`
	ObjectKey    string         `db:"object_key"`
	URL          string         `db:"url"`
	ContentType  string         `db:"content_type"`
	SizeBytes    int64          `db:"size_bytes"`
	Tags         pq.StringArray `db:"tags"`
	Status       string         `db:"status"`
	StatusDetail sql.NullString `db:"status_detail"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (r datasetRow) toDomain() domain.Dataset {
	d := domain.Dataset{
		ID:           r.ID,
		ProjectID:    r.ProjectID,
		OwnerID:      r.OwnerID,
		OriginalName: r.OriginalName,
		ObjectKey:    r.ObjectKey,
		URL:          r.URL,
		ContentType:  r.ContentType,
		SizeBytes:    r.SizeBytes,
		Tags:         []string(r.Tags),
		Status:       domain.DatasetStatus(r.Status),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
	if r.StatusDetail.Valid {
		d.StatusDetail = &r.StatusDetail.String
	}
	return d
}

// summaryRow is one project's dataset aggregate
type summaryRow struct {
	ProjectID      uuid.UUID    `db:"project_id"`
	Name           string       `db:"name"`
	Slug           string       `db:"slug"`
	ChartType      string       `db:"chart_type"`
	DatasetCount   int64        `db:"dataset_count"`
	TotalBytes     int64        `db:"total_bytes"`
	LatestUploadAt sql.NullTime `db:"latest_upload_at"`
	Pending        int64        `db:"pending"`
	Processing     int64        `db:"processing"`
	Ready          int64        `db:"ready"`
	Failed         int64        `db:"failed"`
}

// DatasetRepository handles dataset data operations through sqlx and lib/pq
type DatasetRepository struct {
	db *sqlx.DB
}

// NewDatasetRepository creates a new dataset repository
func NewDatasetRepository(db *sqlx.DB) *DatasetRepository {
	return &DatasetRepository{db: db}
}

// Create creates a new dataset
func (r *DatasetRepository) Create(ctx context.Context, dataset *domain.Dataset) error {
	query := `
		INSERT INTO datasets (id, project_id, owner_id, original_name, object_key, url, content_type,
			size_bytes, tags, status, status_detail, created_at, updated_at)
		VALUES (:id, :project_id, :owner_id, :original_name, :object_key, :url, :content_type,
			:size_bytes, :tags, :status, :status_detail, :created_at, :updated_at)
	`

	row := datasetRow{
		ID:           dataset.ID,
		ProjectID:    dataset.ProjectID,
		OwnerID:      dataset.OwnerID,
		OriginalName: dataset.OriginalName,
		ObjectKey:    dataset.ObjectKey,
		URL:          dataset.URL,
		ContentType:  dataset.ContentType,
		SizeBytes:    dataset.SizeBytes,
		Tags:         pq.StringArray(dataset.Tags),
		Status:       string(dataset.Status),
		CreatedAt:    dataset.CreatedAt,
		UpdatedAt:    dataset.UpdatedAt,
	}
	if row.Tags == nil {
		row.Tags = pq.StringArray{}
	}
	if dataset.StatusDetail != nil {
		row.StatusDetail = sql.NullString{String: *dataset.StatusDetail, Valid: true}
	}

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to create dataset: %w", translateWriteError(err))
	}

	return nil
}

// GetByID retrieves a dataset within a project
func (r *DatasetRepository) GetByID(ctx context.Context, projectID, id uuid.UUID) (*domain.Dataset, error) {
	query := `SELECT ` + datasetColumns + ` FROM datasets WHERE id = $1 AND project_id = $2`

	var row datasetRow
	if err := r.db.GetContext(ctx, &row, query, id, projectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("dataset")
		}
		return nil, fmt.Errorf("failed to get dataset: %w", err)
	}

	dataset := row.toDomain()
	return &dataset, nil
}

// List retrieves a project's datasets, newest first
func (r *DatasetRepository) List(ctx context.Context, filter *domain.DatasetFilter) ([]domain.Dataset, int64, error) {
	var status sql.NullString
	if filter.Status != nil {
		status = sql.NullString{String: string(*filter.Status), Valid: true}
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM datasets WHERE project_id = $1 AND ($2::text IS NULL OR status = $2)`
	if err := r.db.GetContext(ctx, &total, countQuery, filter.ProjectID, status); err != nil {
		return nil, 0, fmt.Errorf("failed to count datasets: %w", err)
	}

	query := `
		SELECT ` + datasetColumns + `
		FROM datasets
		WHERE project_id = $1 AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at DESC, id
		LIMIT $3 OFFSET $4
	`

	var rows []datasetRow
	if err := r.db.SelectContext(ctx, &rows, query, filter.ProjectID, status, filter.Limit, filter.Offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list datasets: %w", err)
	}

	datasets := make([]domain.Dataset, 0, len(rows))
	for _, row := range rows {
		datasets = append(datasets, row.toDomain())
	}

	return datasets, total, nil
}

// UpdateStatus records visualization progress for a dataset
func (r *DatasetRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.DatasetStatus, detail *string) error {
	var statusDetail sql.NullString
	if detail != nil {
		statusDetail = sql.NullString{String: *detail, Valid: true}
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE datasets SET status = $2, status_detail = $3, updated_at = NOW() WHERE id = $1`,
		id, string(status), statusDetail,
	)
	if err != nil {
		return fmt.Errorf("failed to update dataset status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NotFound("dataset")
	}

	return nil
}

// Delete deletes a dataset within a project
func (r *DatasetRepository) Delete(ctx context.Context, projectID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM datasets WHERE id = $1 AND project_id = $2`, id, projectID)
	if err != nil {
		return fmt.Errorf("failed to delete dataset: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NotFound("dataset")
	}

	return nil
}

// ObjectKeysByProject returns the storage keys of every dataset in a project
func (r *DatasetRepository) ObjectKeysByProject(ctx context.Context, projectID uuid.UUID) ([]string, error) {
	var keys []string
	if err := r.db.SelectContext(ctx, &keys, `SELECT object_key FROM datasets WHERE project_id = $1`, projectID); err != nil {
		return nil, fmt.Errorf("failed to list dataset keys: %w", err)
	}
	return keys, nil
}

// Summaries aggregates datasets per project for an owner's dashboard.
// Projects without datasets are included with zero counts.
func (r *DatasetRepository) Summaries(ctx context.Context, ownerID string) ([]domain.ProjectSummary, error) {
	query := `
		SELECT
			p.id AS project_id,
			p.name,
			p.slug,
			p.chart_type,
			COUNT(d.id) AS dataset_count,
			COALESCE(SUM(d.size_bytes), 0) AS total_bytes,
			MAX(d.created_at) AS latest_upload_at,
			COUNT(d.id) FILTER (WHERE d.status = 'pending') AS pending,
			COUNT(d.id) FILTER (WHERE d.status = 'processing') AS processing,
			COUNT(d.id) FILTER (WHERE d.status = 'ready') AS ready,
			COUNT(d.id) FILTER (WHERE d.status = 'failed') AS failed
		FROM projects p
		LEFT JOIN datasets d ON d.project_id = p.id
		WHERE p.owner_id = $1
		GROUP BY p.id
		ORDER BY p.created_at DESC, p.id
	`

	var rows []summaryRow
	if err := r.db.SelectContext(ctx, &rows, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to summarize datasets: %w", err)
	}

	summaries := make([]domain.ProjectSummary, 0, len(rows))
	for _, row := range rows {
		s := domain.ProjectSummary{
			ProjectID:    row.ProjectID,
			Name:         row.Name,
			Slug:         row.Slug,
			ChartType:    domain.ChartType(row.ChartType),
			DatasetCount: row.DatasetCount,
			TotalBytes:   row.TotalBytes,
			StatusCounts: map[domain.DatasetStatus]int64{
				domain.DatasetStatusPending:    row.Pending,
				domain.DatasetStatusProcessing: row.Processing,
				domain.DatasetStatusReady:      row.Ready,
				domain.DatasetStatusFailed:     row.Failed,
			},
		}
		if row.LatestUploadAt.Valid {
			latest := row.LatestUploadAt.Time
			s.LatestUploadAt = &latest
		}
		summaries = append(summaries, s)
	}

	return summaries, nil
}
