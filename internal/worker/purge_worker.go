package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/vizboard/vizboard/api/internal/storage"
)

// PurgeWorker deletes stored dataset files
type PurgeWorker struct {
	logger *zap.Logger
	store  storage.ObjectStore
}

// NewPurgeWorker creates a new purge worker
func NewPurgeWorker(logger *zap.Logger, store storage.ObjectStore) *PurgeWorker {
	return &PurgeWorker{
		logger: logger,
		store:  store,
	}
}

// ProcessTask deletes every key in the payload. Keys that fail are reported
// together so the task is retried; deleting an already removed object
// succeeds.
func (w *PurgeWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload ObjectPurgePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal object purge payload: %w: %w", err, asynq.SkipRetry)
	}

	var errs []error
	for _, key := range payload.Keys {
		if err := w.store.Delete(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", key, err))
		}
	}

	w.logger.Info("object purge completed",
		zap.String("provider", w.store.Provider()),
		zap.Int("keys", len(payload.Keys)),
		zap.Int("failed", len(errs)),
	)

	return errors.Join(errs...)
}
