package queue

import (
	"context"

	"betting-insight/internal/domain"
	"betting-insight/internal/domain/model"
	"betting-insight/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.AnalysisQueue = (*unavailableQueue)(nil)

// unavailableQueue stands in when no queue backend is configured. Every
// write reports the queue as down, which routes submissions through the
// inline fallback.
type unavailableQueue struct{}

func NewUnavailableQueue() *unavailableQueue { return &unavailableQueue{} }

func (q *unavailableQueue) Enqueue(context.Context, string, string) (*model.AnalysisJob, error) {
	return nil, domain.ErrQueueUnavailable
}

func (q *unavailableQueue) Dequeue(context.Context) (*model.AnalysisJob, error) {
	return nil, domain.ErrQueueUnavailable
}

func (q *unavailableQueue) Complete(context.Context, *model.AnalysisJob) error {
	return domain.ErrQueueUnavailable
}

func (q *unavailableQueue) Fail(context.Context, *model.AnalysisJob, error) error {
	return domain.ErrQueueUnavailable
}

func (q *unavailableQueue) PromoteDelayed(context.Context) (int, error) {
	return 0, domain.ErrQueueUnavailable
}

func (q *unavailableQueue) ReclaimStalled(context.Context) (int, error) {
	return 0, domain.ErrQueueUnavailable
}

func (q *unavailableQueue) Stats(context.Context) model.QueueStats {
	return model.QueueStats{Available: false}
}
