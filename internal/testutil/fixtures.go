package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/vizboard/vizboard/api/internal/domain"
)

// NewTestProject creates a test project with default values.
func NewTestProject(ownerID string) *domain.Project {
	return &domain.Project{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      "Quarterly Sales",
		Slug:      "quarterly-sales",
		ChartType: domain.ChartTypeBar,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// NewTestDataset creates a pending test dataset in project.
func NewTestDataset(project *domain.Project) *domain.Dataset {
	return &domain.Dataset{
		ID:           uuid.New(),
		ProjectID:    project.ID,
		OwnerID:      project.OwnerID,
		OriginalName: "sales.csv",
		ObjectKey:    "datasets/" + project.ID.String() + "/sales.csv",
		ContentType:  "text/csv; charset=utf-8",
		SizeBytes:    26,
		Tags:         []string{},
		Status:       domain.DatasetStatusPending,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}
