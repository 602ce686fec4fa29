package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"betting-insight/internal/domain/model"
	"betting-insight/internal/domain/ports/adapter"
)

// Compile-time check
var _ QueueStatsUseCase = (*queueStatsUC)(nil)

// QueueStatsUseCase is the operator-facing read path. It bounds the read
// with a short timeout and degrades to an explicit unavailable snapshot so
// a slow or down backend never stalls a monitoring page.
type QueueStatsUseCase interface {
	Stats(ctx context.Context) model.QueueStats
}

type queueStatsUC struct {
	queue   adapter.AnalysisQueue
	timeout time.Duration
	log     *zerolog.Logger
}

func NewQueueStatsUseCase(queue adapter.AnalysisQueue, timeout time.Duration, logger *zerolog.Logger) *queueStatsUC {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	l := logger.With().Str("component", "queue_stats_uc").Logger()
	return &queueStatsUC{queue: queue, timeout: timeout, log: &l}
}

func (uc *queueStatsUC) Stats(ctx context.Context) model.QueueStats {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	done := make(chan model.QueueStats, 1)
	go func() { done <- uc.queue.Stats(ctx) }()

	select {
	case st := <-done:
		return st
	case <-ctx.Done():
		uc.log.Warn().Dur("timeout", uc.timeout).Msg("queue stats read timed out")
		return model.QueueStats{Available: false}
	}
}
