package worker

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"betting-insight/internal/config"
	"betting-insight/internal/domain"
	"betting-insight/internal/domain/ports/adapter"
	"betting-insight/internal/infra/logging"
	"betting-insight/internal/usecase"
)

// AnalysisProcessor pulls analysis jobs off the queue and drives them
// through the pipeline. Job starts are rate limited so a burst of
// submissions cannot hammer the external providers.
type AnalysisProcessor struct {
	queue   adapter.AnalysisQueue
	analyze usecase.AnalyzeUseCase
	limiter *rate.Limiter
	poll    time.Duration
	log     *zerolog.Logger
}

func NewAnalysisProcessor(
	queue adapter.AnalysisQueue,
	analyze usecase.AnalyzeUseCase,
	cfg config.QueueConfig,
	logger *zerolog.Logger,
) *AnalysisProcessor {
	l := logger.With().Str("component", "analysis_processor").Logger()
	return &AnalysisProcessor{
		queue:   queue,
		analyze: analyze,
		limiter: rate.NewLimiter(rate.Limit(cfg.JobsPerSecond), cfg.JobsPerSecond),
		poll:    cfg.PollInterval,
		log:     &l,
	}
}

// Start runs the poll loop until ctx is cancelled. Run it in a goroutine.
func (p *AnalysisProcessor) Start(ctx context.Context, pool *Pool) {
	p.log.Info().Dur("poll_interval", p.poll).Msg("analysis processor started")
	ticker := time.NewTicker(p.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info().Msg("analysis processor stopping")
			return
		case <-ticker.C:
			p.tick(ctx, pool)
		}
	}
}

// tick does queue housekeeping, then hands one waiting job to the pool.
func (p *AnalysisProcessor) tick(ctx context.Context, pool *Pool) {
	if n, err := p.queue.PromoteDelayed(ctx); err != nil {
		p.log.Warn().Err(err).Msg("promote delayed failed")
	} else if n > 0 {
		p.log.Debug().Int("promoted", n).Msg("delayed jobs promoted")
	}
	if n, err := p.queue.ReclaimStalled(ctx); err != nil {
		p.log.Warn().Err(err).Msg("reclaim stalled failed")
	} else if n > 0 {
		p.log.Warn().Int("reclaimed", n).Msg("stalled jobs reclaimed")
	}

	if !p.limiter.Allow() {
		return
	}
	_ = pool.Submit(func(ctx context.Context) error {
		p.processOne(ctx)
		return nil
	})
}

func (p *AnalysisProcessor) processOne(ctx context.Context) {
	job, err := p.queue.Dequeue(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			p.log.Error().Err(err).Msg("dequeue failed")
		}
		return
	}

	ctx = logging.WithJobID(logging.WithPredictionID(ctx, job.PredictionID), job.ID)
	log := logging.With(ctx, p.log)
	defer logging.TraceDuration(log, "AnalysisProcessor.processOne")()

	log.Info().Int("attempt", job.Attempts).Msg("processing analysis job")
	start := time.Now()

	runErr := p.analyze.Run(ctx, job.PredictionID)

	// Report the outcome on a background context: the job must not stay
	// active just because shutdown began mid-run.
	reportCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if runErr != nil {
		if err := p.queue.Fail(reportCtx, job, runErr); err != nil {
			log.Error().Err(err).Msg("could not record job failure")
		}
		log.Error().Err(runErr).Dur("duration", time.Since(start)).Msg("analysis job failed")
		return
	}
	if err := p.queue.Complete(reportCtx, job); err != nil {
		log.Error().Err(err).Msg("could not record job completion")
		return
	}
	log.Info().Dur("duration", time.Since(start)).Msg("analysis job finished")
}
