//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v4"

	"betting-insight/internal/domain"
	"betting-insight/internal/domain/model"
	"betting-insight/internal/domain/ports/repository"
	"betting-insight/internal/usecase"
)

func newAnalyzeFixture(preds ...*model.Prediction) (*memPredictionRepo, *memFeedbackRepo, *memSourceRepo, *memCitationRepo, *MockTxManager, *MockAggregator, *MockGenerator) {
	return newMemPredictionRepo(preds...), newMemFeedbackRepo(), newMemSourceRepo(), newMemCitationRepo(),
		NewMockTxManager(), &MockAggregator{}, &MockGenerator{}
}

func TestAnalyzeUseCaseRun(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()

	t.Run("should complete the prediction and persist feedback with citations", func(t *testing.T) {
		// Arrange
		pred := pendingPrediction("pred-1")
		predRepo, fbRepo, srcRepo, citRepo, tm, agg, gen := newAnalyzeFixture(pred)
		uc := usecase.NewAnalyzeUseCase(predRepo, fbRepo, srcRepo, citRepo, tm, agg, gen, logger)

		// Act
		if err := uc.Run(ctx, "pred-1"); err != nil {
			t.Fatalf("Run returned an error: %v", err)
		}

		// Assert
		if got := predRepo.status("pred-1"); got != model.PredictionStatusCompleted {
			t.Errorf("prediction status %s, want completed", got)
		}
		fb, err := fbRepo.FindByPredictionID(ctx, repository.NoTX, "pred-1")
		if err != nil {
			t.Fatalf("feedback not persisted: %v", err)
		}
		// richMatchContext carries six claim-bearing facts: two forms, the
		// head-to-head, the odds snapshot, one news item and sentiment.
		citations := citRepo.byFeedback(fb.ID)
		if len(citations) != 6 {
			t.Errorf("persisted %d citations, want 6", len(citations))
		}
		for _, c := range citations {
			if c.SourceID == "" {
				t.Errorf("citation %q has no source", c.Claim)
			}
			if c.Claim == "" || c.Excerpt == "" {
				t.Errorf("citation missing claim or excerpt: %+v", c)
			}
		}
		if srcRepo.count() != 6 {
			t.Errorf("persisted %d sources, want 6", srcRepo.count())
		}
	})

	t.Run("should collapse citations sharing a URL onto one source", func(t *testing.T) {
		// Arrange: two news items pointing at the same article.
		pred := pendingPrediction("pred-dup")
		predRepo, fbRepo, srcRepo, citRepo, tm, agg, gen := newAnalyzeFixture(pred)
		agg.AggregateFunc = func(ctx context.Context, home, away, competition string) *model.MatchContext {
			return &model.MatchContext{
				HomeTeam: home, AwayTeam: away, Competition: competition,
				Intelligence: &model.Intelligence{
					News: []model.NewsItem{
						{Title: "Keeper doubtful", URL: "https://news.example.com/shared"},
						{Title: "Keeper ruled out", URL: "https://news.example.com/shared"},
					},
				},
				Tiers: []string{model.TierIntelligence},
			}
		}
		uc := usecase.NewAnalyzeUseCase(predRepo, fbRepo, srcRepo, citRepo, tm, agg, gen, logger)

		// Act
		if err := uc.Run(ctx, "pred-dup"); err != nil {
			t.Fatalf("Run returned an error: %v", err)
		}

		// Assert
		if srcRepo.count() != 1 {
			t.Errorf("sources %d, want 1 (deduplicated by URL)", srcRepo.count())
		}
		fb, _ := fbRepo.FindByPredictionID(ctx, repository.NoTX, "pred-dup")
		cits := citRepo.byFeedback(fb.ID)
		if len(cits) != 2 {
			t.Fatalf("citations %d, want 2", len(cits))
		}
		if cits[0].SourceID != cits[1].SourceID {
			t.Error("citations over the same URL must share a source id")
		}
	})

	t.Run("should mark the prediction failed when generation fails", func(t *testing.T) {
		// Arrange
		pred := pendingPrediction("pred-2")
		predRepo, fbRepo, srcRepo, citRepo, tm, agg, gen := newAnalyzeFixture(pred)
		genErr := errors.New("model exploded")
		gen.GenerateFunc = func(ctx context.Context, pred *model.Prediction, mctx *model.MatchContext) (*model.AnalysisResult, error) {
			return nil, genErr
		}
		uc := usecase.NewAnalyzeUseCase(predRepo, fbRepo, srcRepo, citRepo, tm, agg, gen, logger)

		// Act
		err := uc.Run(ctx, "pred-2")

		// Assert
		if !errors.Is(err, genErr) {
			t.Fatalf("expected generator error, got %v", err)
		}
		if got := predRepo.status("pred-2"); got != model.PredictionStatusFailed {
			t.Errorf("prediction status %s, want failed", got)
		}
		if fbRepo.count() != 0 {
			t.Error("no feedback row may exist after a failed generation")
		}
	})

	t.Run("should mark the prediction failed when the transaction fails", func(t *testing.T) {
		// Arrange
		pred := pendingPrediction("pred-3")
		predRepo, fbRepo, srcRepo, citRepo, tm, agg, gen := newAnalyzeFixture(pred)
		tm.WithTxFunc = func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
			return errors.New("connection reset")
		}
		uc := usecase.NewAnalyzeUseCase(predRepo, fbRepo, srcRepo, citRepo, tm, agg, gen, logger)

		// Act
		err := uc.Run(ctx, "pred-3")

		// Assert
		if !errors.Is(err, domain.ErrPersistenceFailure) {
			t.Fatalf("expected ErrPersistenceFailure, got %v", err)
		}
		if got := predRepo.status("pred-3"); got != model.PredictionStatusFailed {
			t.Errorf("prediction status %s, want failed", got)
		}
	})

	t.Run("should succeed on retry after a failed attempt without duplicating rows", func(t *testing.T) {
		// Arrange: the first run's transaction fails, the second succeeds.
		pred := pendingPrediction("pred-4")
		predRepo, fbRepo, srcRepo, citRepo, tm, agg, gen := newAnalyzeFixture(pred)
		failing := true
		tm.WithTxFunc = func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
			if failing {
				return errors.New("connection reset")
			}
			return fn(ctx, repository.NoTX)
		}
		uc := usecase.NewAnalyzeUseCase(predRepo, fbRepo, srcRepo, citRepo, tm, agg, gen, logger)

		// Act
		if err := uc.Run(ctx, "pred-4"); err == nil {
			t.Fatal("first run should fail")
		}
		failing = false
		if err := uc.Run(ctx, "pred-4"); err != nil {
			t.Fatalf("retry returned an error: %v", err)
		}

		// Assert
		if got := predRepo.status("pred-4"); got != model.PredictionStatusCompleted {
			t.Errorf("prediction status %s, want completed", got)
		}
		if fbRepo.count() != 1 {
			t.Errorf("feedback rows %d, want 1 (retry upserts)", fbRepo.count())
		}
		fb, _ := fbRepo.FindByPredictionID(ctx, repository.NoTX, "pred-4")
		if got := len(citRepo.byFeedback(fb.ID)); got != 6 {
			t.Errorf("citations after retry %d, want 6 (rewritten, not appended)", got)
		}
	})

	t.Run("should return not found for an unknown prediction", func(t *testing.T) {
		predRepo, fbRepo, srcRepo, citRepo, tm, agg, gen := newAnalyzeFixture()
		uc := usecase.NewAnalyzeUseCase(predRepo, fbRepo, srcRepo, citRepo, tm, agg, gen, logger)

		if err := uc.Run(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestAnalyzeUseCaseRunInline(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()

	t.Run("should return the result with citations attached", func(t *testing.T) {
		pred := pendingPrediction("pred-inline")
		predRepo, fbRepo, srcRepo, citRepo, tm, agg, gen := newAnalyzeFixture(pred)
		uc := usecase.NewAnalyzeUseCase(predRepo, fbRepo, srcRepo, citRepo, tm, agg, gen, logger)

		loaded, err := predRepo.FindByID(ctx, repository.NoTX, "pred-inline")
		if err != nil {
			t.Fatal(err)
		}
		result, err := uc.RunInline(ctx, loaded)
		if err != nil {
			t.Fatalf("RunInline returned an error: %v", err)
		}
		if len(result.Citations) != 6 {
			t.Errorf("result citations %d, want 6", len(result.Citations))
		}
		for _, c := range result.Citations {
			if c.SourceID == "" {
				t.Errorf("inline result citation %q missing source id", c.Claim)
			}
		}
		if got := predRepo.status("pred-inline"); got != model.PredictionStatusCompleted {
			t.Errorf("prediction status %s, want completed", got)
		}
	})
}
