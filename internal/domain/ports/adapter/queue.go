package adapter

import (
	"context"

	"betting-insight/internal/domain/model"
)

// AnalysisQueue is the durable FIFO job queue, deduplicated by job key.
//
// Enqueue returns domain.ErrJobAlreadyQueued when a job for the same
// prediction is outstanding (callers treat that as a no-op) and
// domain.ErrQueueUnavailable when the backing store cannot be reached.
type AnalysisQueue interface {
	Enqueue(ctx context.Context, predictionID, userID string) (*model.AnalysisJob, error)

	// Dequeue pops the oldest waiting job and marks it active. Returns
	// domain.ErrNotFound when the queue is empty.
	Dequeue(ctx context.Context) (*model.AnalysisJob, error)

	// Complete records terminal success and releases the job key.
	Complete(ctx context.Context, job *model.AnalysisJob) error

	// Fail records a failed attempt. When attempts remain the job is
	// scheduled on the delayed set with exponential backoff; otherwise it is
	// recorded terminally failed and the job key released.
	Fail(ctx context.Context, job *model.AnalysisJob, cause error) error

	// PromoteDelayed moves due delayed jobs back to waiting.
	PromoteDelayed(ctx context.Context) (int, error)

	// ReclaimStalled re-queues active jobs whose visibility deadline passed
	// (worker died without reporting).
	ReclaimStalled(ctx context.Context) (int, error)

	// Stats returns queue depth counts in O(1). It never returns an error
	// for a down backend; it returns QueueStats{Available: false} instead.
	Stats(ctx context.Context) model.QueueStats
}
