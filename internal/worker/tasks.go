package worker

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/vizboard/vizboard/api/internal/domain"
)

const (
	// TypeVisualization is consumed by the external visualization generator
	TypeVisualization = "visualization:generate"
	// TypeVisualizationStatus carries generator progress back to this service
	TypeVisualizationStatus = "visualization:status"
	// TypeObjectPurge removes stored dataset files
	TypeObjectPurge = "storage:purge"
)

// VisualizationStatusPayload reports a dataset's generation progress
type VisualizationStatusPayload struct {
	DatasetID uuid.UUID            `json:"datasetId"`
	Status    domain.DatasetStatus `json:"status"`
	Detail    *string              `json:"detail,omitempty"`
}

// ObjectPurgePayload is the payload for object purge tasks
type ObjectPurgePayload struct {
	Keys []string `json:"keys"`
}

// NewVisualizationTask creates a visualization task
func NewVisualizationTask(job *domain.VisualizationJob, opts ...asynq.Option) (*asynq.Task, error) {
	data, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal visualization job: %w", err)
	}
	return asynq.NewTask(TypeVisualization, data, opts...), nil
}

// NewObjectPurgeTask creates an object purge task
func NewObjectPurgeTask(payload *ObjectPurgePayload, opts ...asynq.Option) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal object purge payload: %w", err)
	}
	opts = append([]asynq.Option{asynq.Timeout(10 * time.Minute)}, opts...)
	return asynq.NewTask(TypeObjectPurge, data, opts...), nil
}

// NewVisualizationStatusTask creates a visualization status task
func NewVisualizationStatusTask(payload *VisualizationStatusPayload, opts ...asynq.Option) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal visualization status payload: %w", err)
	}
	return asynq.NewTask(TypeVisualizationStatus, data, opts...), nil
}
