package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"betting-insight/internal/domain"
	"betting-insight/internal/domain/model"
	"betting-insight/internal/domain/ports/adapter"
	"betting-insight/internal/domain/ports/repository"
	"betting-insight/internal/infra/logging"
)

// ContextAggregator is what the pipeline needs from the aggregation layer.
type ContextAggregator interface {
	Aggregate(ctx context.Context, home, away, competition string) *model.MatchContext
}

// Compile-time check
var _ AnalyzeUseCase = (*analyzeUC)(nil)

// AnalyzeUseCase drives one prediction through the analysis pipeline. Run is
// the worker entry point; RunInline is the synchronous fallback that bypasses
// the queue with identical persistence and state-transition rules.
type AnalyzeUseCase interface {
	Run(ctx context.Context, predictionID string) error
	RunInline(ctx context.Context, pred *model.Prediction) (*model.AnalysisResult, error)
}

type analyzeUC struct {
	predictions repository.PredictionRepository
	feedback    repository.FeedbackRepository
	sources     repository.SourceRepository
	citations   repository.CitationRepository
	tm          repository.TransactionManager
	aggregator  ContextAggregator
	generator   adapter.AnalysisGenerator

	log *zerolog.Logger
}

func NewAnalyzeUseCase(
	predictions repository.PredictionRepository,
	feedback repository.FeedbackRepository,
	sources repository.SourceRepository,
	citations repository.CitationRepository,
	tm repository.TransactionManager,
	aggregator ContextAggregator,
	generator adapter.AnalysisGenerator,
	logger *zerolog.Logger,
) *analyzeUC {
	l := logger.With().Str("component", "analyze_uc").Logger()
	return &analyzeUC{
		predictions: predictions,
		feedback:    feedback,
		sources:     sources,
		citations:   citations,
		tm:          tm,
		aggregator:  aggregator,
		generator:   generator,
		log:         &l,
	}
}

func (uc *analyzeUC) Run(ctx context.Context, predictionID string) error {
	pred, err := uc.predictions.FindByID(ctx, repository.NoTX, predictionID)
	if err != nil {
		return fmt.Errorf("load prediction: %w", err)
	}
	_, err = uc.process(ctx, pred)
	return err
}

func (uc *analyzeUC) RunInline(ctx context.Context, pred *model.Prediction) (*model.AnalysisResult, error) {
	return uc.process(ctx, pred)
}

// process performs the pipeline: mark processing, aggregate, generate,
// persist, mark completed. On any error after the first transition the
// prediction is marked failed before the error propagates, so the record is
// never left mid-flight.
func (uc *analyzeUC) process(ctx context.Context, pred *model.Prediction) (*model.AnalysisResult, error) {
	log := logging.With(ctx, uc.log)
	defer logging.TraceDuration(log, "analyzeUC.process")()
	start := time.Now()

	if err := uc.transition(ctx, pred, model.PredictionStatusProcessing); err != nil {
		return nil, err
	}

	result, drafts, err := uc.analyze(ctx, pred)
	if err != nil {
		uc.markFailed(pred)
		return nil, err
	}

	if err := uc.persist(ctx, pred, result, drafts); err != nil {
		uc.markFailed(pred)
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
	}

	log.Info().
		Str("prediction_id", pred.ID).
		Float64("confidence", result.ConfidenceScore).
		Int("citations", len(result.Citations)).
		Dur("duration", time.Since(start)).
		Msg("analysis completed")
	return result, nil
}

func (uc *analyzeUC) analyze(ctx context.Context, pred *model.Prediction) (*model.AnalysisResult, []CitationDraft, error) {
	mctx := uc.aggregator.Aggregate(ctx, pred.HomeTeam, pred.AwayTeam, pred.Competition)

	result, err := uc.generator.Generate(ctx, pred, mctx)
	if err != nil {
		return nil, nil, fmt.Errorf("generate analysis: %w", err)
	}
	result.Normalize()

	drafts := BuildCitations(mctx)
	result.Citations = make([]model.Citation, 0, len(drafts))
	for _, d := range drafts {
		result.Citations = append(result.Citations, model.Citation{
			SourceURL: d.URL,
			Claim:     d.Claim,
			Excerpt:   d.Excerpt,
		})
	}
	return result, drafts, nil
}

// persist writes the feedback row, its deduplicated sources and citations,
// and the terminal status inside one transaction. Re-running after a
// transient failure upserts the feedback row and re-derives citations, so
// retries cannot duplicate rows.
func (uc *analyzeUC) persist(ctx context.Context, pred *model.Prediction, result *model.AnalysisResult, drafts []CitationDraft) error {
	if !pred.Status.CanTransition(model.PredictionStatusCompleted) {
		return fmt.Errorf("%w: %s -> completed", domain.ErrInvalidTransition, pred.Status)
	}

	return uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		fb := &model.Feedback{PredictionID: pred.ID, Result: *result}
		if err := uc.feedback.Save(ctx, tx, fb); err != nil {
			return err
		}

		// Clear citations from an earlier attempt before re-writing.
		if err := uc.citations.DeleteByFeedbackID(ctx, tx, fb.ID); err != nil {
			return err
		}

		bySourceURL := make(map[string]string, len(drafts))
		for i, d := range drafts {
			sourceID, seen := bySourceURL[d.URL]
			if !seen {
				src, err := uc.sources.FindOrCreate(ctx, tx, &model.Source{
					PredictionID: pred.ID,
					Provider:     d.Provider,
					URL:          d.URL,
					Title:        d.Title,
					Snippet:      d.Snippet,
					FetchedAt:    d.FetchedAt,
				})
				if err != nil {
					return err
				}
				sourceID = src.ID
				bySourceURL[d.URL] = sourceID
			}
			c := &model.Citation{
				FeedbackID: fb.ID,
				SourceID:   sourceID,
				SourceURL:  d.URL,
				Claim:      d.Claim,
				Excerpt:    d.Excerpt,
			}
			if err := uc.citations.Save(ctx, tx, c); err != nil {
				return err
			}
			if i < len(result.Citations) {
				result.Citations[i].SourceID = sourceID
				result.Citations[i].ID = c.ID
				result.Citations[i].FeedbackID = fb.ID
			}
		}

		now := time.Now()
		if err := uc.predictions.UpdateStatus(ctx, tx, pred.ID, model.PredictionStatusCompleted, now); err != nil {
			return err
		}
		pred.Status = model.PredictionStatusCompleted
		pred.UpdatedAt = now
		return nil
	})
}

func (uc *analyzeUC) transition(ctx context.Context, pred *model.Prediction, to model.PredictionStatus) error {
	if !pred.Status.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, pred.Status, to)
	}
	now := time.Now()
	if err := uc.predictions.UpdateStatus(ctx, repository.NoTX, pred.ID, to, now); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
	}
	pred.Status = to
	pred.UpdatedAt = now
	return nil
}

// markFailed is best-effort: the triggering error is what propagates, and a
// background context is used so cancellation cannot leave the prediction
// observed as processing forever.
func (uc *analyzeUC) markFailed(pred *model.Prediction) {
	if !pred.Status.CanTransition(model.PredictionStatusFailed) {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	now := time.Now()
	if err := uc.predictions.UpdateStatus(ctx, repository.NoTX, pred.ID, model.PredictionStatusFailed, now); err != nil {
		uc.log.Error().Err(err).Str("prediction_id", pred.ID).Msg("could not mark prediction failed")
		return
	}
	pred.Status = model.PredictionStatusFailed
	pred.UpdatedAt = now
}
