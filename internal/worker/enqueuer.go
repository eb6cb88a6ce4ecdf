package worker

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/vizboard/vizboard/api/internal/domain"
)

// taskClient is the part of *asynq.Client the enqueuer uses
type taskClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Enqueuer hands jobs to the task queue
type Enqueuer struct {
	client           taskClient
	queue            string
	maintenanceQueue string
	maxRetry         int
}

// NewEnqueuer creates an enqueuer publishing visualization jobs on queue and
// purge jobs on maintenanceQueue
func NewEnqueuer(client *asynq.Client, queue, maintenanceQueue string, maxRetry int) *Enqueuer {
	return newEnqueuer(client, queue, maintenanceQueue, maxRetry)
}

func newEnqueuer(client taskClient, queue, maintenanceQueue string, maxRetry int) *Enqueuer {
	return &Enqueuer{
		client:           client,
		queue:            queue,
		maintenanceQueue: maintenanceQueue,
		maxRetry:         maxRetry,
	}
}

// EnqueueVisualization enqueues a visualization job for a stored dataset
func (e *Enqueuer) EnqueueVisualization(ctx context.Context, job *domain.VisualizationJob) error {
	task, err := NewVisualizationTask(job,
		asynq.Queue(e.queue),
		asynq.MaxRetry(e.maxRetry),
		asynq.TaskID(job.DatasetID.String()),
	)
	if err != nil {
		return err
	}

	if _, err := e.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue visualization job: %w", err)
	}
	return nil
}

// EnqueuePurge enqueues removal of stored objects
func (e *Enqueuer) EnqueuePurge(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	task, err := NewObjectPurgeTask(&ObjectPurgePayload{Keys: keys},
		asynq.Queue(e.maintenanceQueue),
		asynq.MaxRetry(e.maxRetry),
	)
	if err != nil {
		return err
	}

	if _, err := e.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue object purge: %w", err)
	}
	return nil
}
