package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"betting-insight/internal/domain"
	"betting-insight/internal/domain/model"
	"betting-insight/internal/domain/ports/adapter"
	"betting-insight/internal/domain/ports/repository"
)

// Compile-time check
var _ SubmitUseCase = (*submitUC)(nil)

// SubmitResult reports how a submission was handled.
type SubmitResult struct {
	Queued bool
	Job    *model.AnalysisJob
	// Result is set only when the inline path ran.
	Result *model.AnalysisResult
}

// SubmitUseCase is the enqueue-or-inline glue between the submission
// collaborator and the pipeline: enqueue when the queue is up, run the
// synchronous fallback when it is not or when fast-dev mode asks for it.
type SubmitUseCase interface {
	Submit(ctx context.Context, predictionID, userID string) (*SubmitResult, error)
}

type submitUC struct {
	queue          adapter.AnalysisQueue
	analyze        AnalyzeUseCase
	predictions    repository.PredictionRepository
	fastDev        bool
	inlineFallback bool

	log *zerolog.Logger
}

func NewSubmitUseCase(
	queue adapter.AnalysisQueue,
	analyze AnalyzeUseCase,
	predictions repository.PredictionRepository,
	fastDev, inlineFallback bool,
	logger *zerolog.Logger,
) *submitUC {
	l := logger.With().Str("component", "submit_uc").Logger()
	return &submitUC{
		queue:          queue,
		analyze:        analyze,
		predictions:    predictions,
		fastDev:        fastDev,
		inlineFallback: inlineFallback,
		log:            &l,
	}
}

func (uc *submitUC) Submit(ctx context.Context, predictionID, userID string) (*SubmitResult, error) {
	if uc.fastDev {
		return uc.runInline(ctx, predictionID)
	}

	job, err := uc.queue.Enqueue(ctx, predictionID, userID)
	if err == nil {
		return &SubmitResult{Queued: true, Job: job}, nil
	}
	if errors.Is(err, domain.ErrJobAlreadyQueued) {
		// Idempotent by job key: the outstanding job covers this submission.
		uc.log.Debug().Str("prediction_id", predictionID).Msg("job already outstanding, submission deduplicated")
		return &SubmitResult{Queued: true}, nil
	}
	if !errors.Is(err, domain.ErrQueueUnavailable) {
		return nil, err
	}

	uc.log.Warn().Err(err).Str("prediction_id", predictionID).Msg("queue unavailable")
	if uc.inlineFallback {
		return uc.runInline(ctx, predictionID)
	}

	// No fallback: the prediction fails outright rather than sitting
	// pending forever.
	uc.markFailed(ctx, predictionID)
	return nil, err
}

func (uc *submitUC) runInline(ctx context.Context, predictionID string) (*SubmitResult, error) {
	pred, err := uc.predictions.FindByID(ctx, repository.NoTX, predictionID)
	if err != nil {
		return nil, fmt.Errorf("load prediction: %w", err)
	}
	result, err := uc.analyze.RunInline(ctx, pred)
	if err != nil {
		// RunInline already marked the prediction failed; this final layer
		// surfaces the error instead of swallowing it.
		return nil, err
	}
	return &SubmitResult{Queued: false, Result: result}, nil
}

func (uc *submitUC) markFailed(ctx context.Context, predictionID string) {
	pred, err := uc.predictions.FindByID(ctx, repository.NoTX, predictionID)
	if err != nil || !pred.Status.CanTransition(model.PredictionStatusFailed) {
		return
	}
	if err := uc.predictions.UpdateStatus(ctx, repository.NoTX, predictionID, model.PredictionStatusFailed, time.Now()); err != nil {
		uc.log.Error().Err(err).Str("prediction_id", predictionID).Msg("could not mark prediction failed after enqueue failure")
	}
}
