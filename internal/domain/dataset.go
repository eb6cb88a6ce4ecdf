package domain

import (
	"time"

	"github.com/google/uuid"
)

// Dataset is an uploaded file belonging to a project.
type Dataset struct {
	ID           uuid.UUID     `json:"id"`
	ProjectID    uuid.UUID     `json:"projectId"`
	OwnerID      string        `json:"ownerId"`
	OriginalName string        `json:"originalName"`
	ObjectKey    string        `json:"-"`
	URL          string        `json:"url,omitempty"`
	ContentType  string        `json:"contentType"`
	SizeBytes    int64         `json:"sizeBytes"`
	Tags         []string      `json:"tags"`
	Status       DatasetStatus `json:"status"`
	StatusDetail *string       `json:"statusDetail,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// DatasetFilter represents filter options for querying datasets
type DatasetFilter struct {
	ProjectID uuid.UUID
	Status    *DatasetStatus
	Limit     int
	Offset    int
}

// DatasetList represents a paginated list of datasets
type DatasetList struct {
	Datasets   []Dataset `json:"datasets"`
	TotalCount int64     `json:"totalCount"`
	HasMore    bool      `json:"hasMore"`
}

// DatasetURL is a time-limited download link.
type DatasetURL struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// VisualizationJob is the payload handed to the visualization generator.
type VisualizationJob struct {
	DatasetID   uuid.UUID `json:"datasetId"`
	ProjectID   uuid.UUID `json:"projectId"`
	ObjectKey   string    `json:"objectKey"`
	ContentType string    `json:"contentType"`
	ChartType   ChartType `json:"chartType"`
}
