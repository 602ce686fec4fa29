//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"betting-insight/internal/domain"
	"betting-insight/internal/domain/model"
	"betting-insight/internal/domain/ports/adapter"
	"betting-insight/internal/domain/ports/repository"
)

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// =============================
// Repositories
// =============================

// ---- In-memory PredictionRepository ----

type memPredictionRepo struct {
	mu          sync.Mutex
	predictions map[string]*model.Prediction

	UpdateStatusErr error // simulate a status write failure
	StatusWrites    []model.PredictionStatus
}

var _ repository.PredictionRepository = (*memPredictionRepo)(nil)

func newMemPredictionRepo(preds ...*model.Prediction) *memPredictionRepo {
	m := &memPredictionRepo{predictions: make(map[string]*model.Prediction)}
	for _, p := range preds {
		cp := *p
		m.predictions[p.ID] = &cp
	}
	return m
}

func (m *memPredictionRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Prediction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.predictions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPredictionRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.PredictionStatus, at time.Time) error {
	if m.UpdateStatusErr != nil {
		return m.UpdateStatusErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.predictions[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = status
	p.UpdatedAt = at
	m.StatusWrites = append(m.StatusWrites, status)
	return nil
}

func (m *memPredictionRepo) status(id string) model.PredictionStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.predictions[id].Status
}

// ---- In-memory FeedbackRepository ----

type memFeedbackRepo struct {
	mu   sync.Mutex
	rows map[string]*model.Feedback // keyed by prediction id

	SaveErr error
}

var _ repository.FeedbackRepository = (*memFeedbackRepo)(nil)

func newMemFeedbackRepo() *memFeedbackRepo {
	return &memFeedbackRepo{rows: make(map[string]*model.Feedback)}
}

func (m *memFeedbackRepo) Save(ctx context.Context, tx repository.Tx, fb *model.Feedback) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.rows[fb.PredictionID]; ok {
		fb.ID = existing.ID
		fb.CreatedAt = existing.CreatedAt
	} else {
		fb.ID = uuid.NewString()
		fb.CreatedAt = time.Now()
	}
	fb.UpdatedAt = time.Now()
	cp := *fb
	m.rows[fb.PredictionID] = &cp
	return nil
}

func (m *memFeedbackRepo) FindByPredictionID(ctx context.Context, tx repository.Tx, predictionID string) (*model.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fb, ok := m.rows[predictionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *fb
	return &cp, nil
}

func (m *memFeedbackRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// ---- In-memory SourceRepository ----

type memSourceRepo struct {
	mu   sync.Mutex
	rows map[string]*model.Source // keyed by prediction id + "\x00" + url
}

var _ repository.SourceRepository = (*memSourceRepo)(nil)

func newMemSourceRepo() *memSourceRepo {
	return &memSourceRepo{rows: make(map[string]*model.Source)}
}

func (m *memSourceRepo) FindOrCreate(ctx context.Context, tx repository.Tx, src *model.Source) (*model.Source, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := src.PredictionID + "\x00" + src.URL
	if existing, ok := m.rows[key]; ok {
		cp := *existing
		return &cp, nil
	}
	cp := *src
	cp.ID = uuid.NewString()
	m.rows[key] = &cp
	out := cp
	return &out, nil
}

func (m *memSourceRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// ---- In-memory CitationRepository ----

type memCitationRepo struct {
	mu   sync.Mutex
	rows []*model.Citation
}

var _ repository.CitationRepository = (*memCitationRepo)(nil)

func newMemCitationRepo() *memCitationRepo { return &memCitationRepo{} }

func (m *memCitationRepo) Save(ctx context.Context, tx repository.Tx, c *model.Citation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = uuid.NewString()
	cp := *c
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *memCitationRepo) DeleteByFeedbackID(ctx context.Context, tx repository.Tx, feedbackID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.rows[:0]
	for _, c := range m.rows {
		if c.FeedbackID != feedbackID {
			kept = append(kept, c)
		}
	}
	m.rows = kept
	return nil
}

func (m *memCitationRepo) byFeedback(feedbackID string) []*model.Citation {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Citation
	for _, c := range m.rows {
		if c.FeedbackID == feedbackID {
			out = append(out, c)
		}
	}
	return out
}

// ---- Mock TransactionManager ----

type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func NewMockTxManager() *MockTxManager { return &MockTxManager{} }

// WithTx runs fn directly by default; tests assign WithTxFunc to inject
// transaction failures.
func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, repository.NoTX)
}

// =============================
// Adapters
// =============================

// ---- Mock AnalysisQueue ----

type MockQueue struct {
	mu       sync.Mutex
	Enqueued []*model.AnalysisJob

	EnqueueFunc func(ctx context.Context, predictionID, userID string) (*model.AnalysisJob, error)
	StatsFunc   func(ctx context.Context) model.QueueStats
}

var _ adapter.AnalysisQueue = (*MockQueue)(nil)

func (m *MockQueue) Enqueue(ctx context.Context, predictionID, userID string) (*model.AnalysisJob, error) {
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(ctx, predictionID, userID)
	}
	job := &model.AnalysisJob{
		ID:           uuid.NewString(),
		Key:          model.JobKey(predictionID),
		PredictionID: predictionID,
		UserID:       userID,
		MaxAttempts:  3,
		EnqueuedAt:   time.Now(),
	}
	m.mu.Lock()
	m.Enqueued = append(m.Enqueued, job)
	m.mu.Unlock()
	return job, nil
}

func (m *MockQueue) Dequeue(ctx context.Context) (*model.AnalysisJob, error) {
	return nil, domain.ErrNotFound
}

func (m *MockQueue) Complete(ctx context.Context, job *model.AnalysisJob) error { return nil }

func (m *MockQueue) Fail(ctx context.Context, job *model.AnalysisJob, cause error) error { return nil }

func (m *MockQueue) PromoteDelayed(ctx context.Context) (int, error) { return 0, nil }

func (m *MockQueue) ReclaimStalled(ctx context.Context) (int, error) { return 0, nil }

func (m *MockQueue) Stats(ctx context.Context) model.QueueStats {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return model.QueueStats{Available: true}
}

// ---- Mock ContextAggregator ----

type MockAggregator struct {
	AggregateFunc func(ctx context.Context, home, away, competition string) *model.MatchContext
}

func (m *MockAggregator) Aggregate(ctx context.Context, home, away, competition string) *model.MatchContext {
	if m.AggregateFunc != nil {
		return m.AggregateFunc(ctx, home, away, competition)
	}
	return richMatchContext(home, away, competition)
}

// ---- Mock AnalysisGenerator ----

type MockGenerator struct {
	mu    sync.Mutex
	Calls int

	GenerateFunc func(ctx context.Context, pred *model.Prediction, mctx *model.MatchContext) (*model.AnalysisResult, error)
}

var _ adapter.AnalysisGenerator = (*MockGenerator)(nil)

func (m *MockGenerator) Name() string { return "test" }

func (m *MockGenerator) Generate(ctx context.Context, pred *model.Prediction, mctx *model.MatchContext) (*model.AnalysisResult, error) {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, pred, mctx)
	}
	r := &model.AnalysisResult{
		Summary:         "solid home pick",
		ConfidenceScore: 0.7,
		Model:           "test",
	}
	r.Normalize()
	return r, nil
}

// =============================
// Fixtures
// =============================

func pendingPrediction(id string) *model.Prediction {
	return &model.Prediction{
		ID:          id,
		UserID:      "user-1",
		Status:      model.PredictionStatusPending,
		Competition: "Premier League",
		HomeTeam:    "Arsenal",
		AwayTeam:    "Chelsea",
		KickoffAt:   time.Now().Add(48 * time.Hour),
		Market:      "1X2",
		Pick:        "home",
		Odds:        2.10,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

// richMatchContext covers every citation-bearing fact: both forms, H2H,
// odds, one news item and a sentiment signal.
func richMatchContext(home, away, competition string) *model.MatchContext {
	return &model.MatchContext{
		HomeTeam:    home,
		AwayTeam:    away,
		Competition: competition,
		HomeForm:    &model.TeamForm{Wins: 3, Draws: 1, Losses: 1, GoalsFor: 9, GoalsAgainst: 4, LastResults: []string{"W", "W", "D", "W", "L"}},
		AwayForm:    &model.TeamForm{Wins: 2, Draws: 2, Losses: 1, GoalsFor: 6, GoalsAgainst: 5, LastResults: []string{"D", "W", "D", "W", "L"}},
		HeadToHead:  &model.H2HSummary{Matches: 5, HomeWins: 2, Draws: 2, AwayWins: 1},
		Odds:        &model.MarketOdds{HomeWin: 1.95, Draw: 3.60, AwayWin: 4.00},
		Intelligence: &model.Intelligence{
			News: []model.NewsItem{
				{Title: "Striker returns to training", URL: "https://news.example.com/striker-returns", Snippet: "Back in full training ahead of the derby."},
			},
			Sentiment: &model.SentimentSignal{Score: 0.4, Samples: 120, Summary: "Mood leans toward the home side."},
		},
		Tiers:     []string{model.TierIntelligence, model.TierStatistics},
		FetchedAt: time.Now(),
	}
}
