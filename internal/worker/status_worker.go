package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/vizboard/vizboard/api/internal/domain"
	apperrors "github.com/vizboard/vizboard/api/internal/pkg/errors"
)

// StatusUpdater records visualization progress
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.DatasetStatus, detail *string) error
}

// StatusWorker applies generator progress reports to datasets
type StatusWorker struct {
	logger   *zap.Logger
	datasets StatusUpdater
}

// NewStatusWorker creates a new status worker
func NewStatusWorker(logger *zap.Logger, datasets StatusUpdater) *StatusWorker {
	return &StatusWorker{
		logger:   logger,
		datasets: datasets,
	}
}

// ProcessTask records the reported status. Reports for datasets deleted in
// the meantime are dropped.
func (w *StatusWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload VisualizationStatusPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal visualization status payload: %w: %w", err, asynq.SkipRetry)
	}
	if payload.DatasetID == uuid.Nil {
		return fmt.Errorf("visualization status without dataset: %w", asynq.SkipRetry)
	}
	if !payload.Status.IsValid() || payload.Status == domain.DatasetStatusPending {
		return fmt.Errorf("invalid visualization status %q: %w", payload.Status, asynq.SkipRetry)
	}

	err := w.datasets.UpdateStatus(ctx, payload.DatasetID, payload.Status, payload.Detail)
	if apperrors.IsNotFound(err) {
		w.logger.Warn("visualization status for unknown dataset",
			zap.String("dataset_id", payload.DatasetID.String()),
		)
		return nil
	}
	if err != nil {
		return err
	}

	w.logger.Info("visualization status recorded",
		zap.String("dataset_id", payload.DatasetID.String()),
		zap.String("status", string(payload.Status)),
		zap.Bool("final", payload.Status.IsTerminal()),
	)
	return nil
}
