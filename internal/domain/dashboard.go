package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProjectSummary aggregates a project's datasets for the dashboard.
type ProjectSummary struct {
	ProjectID      uuid.UUID               `json:"projectId"`
	Name           string                  `json:"name"`
	Slug           string                  `json:"slug"`
	ChartType      ChartType               `json:"chartType"`
	DatasetCount   int64                   `json:"datasetCount"`
	TotalBytes     int64                   `json:"totalBytes"`
	LatestUploadAt *time.Time              `json:"latestUploadAt,omitempty"`
	StatusCounts   map[DatasetStatus]int64 `json:"statusCounts"`
}

// Dashboard is the owner's overview across all projects.
type Dashboard struct {
	Projects     []ProjectSummary `json:"projects"`
	ProjectCount int              `json:"projectCount"`
	DatasetCount int64            `json:"datasetCount"`
	TotalBytes   int64            `json:"totalBytes"`
}
