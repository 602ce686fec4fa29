package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"betting-insight/internal/domain"
	"betting-insight/internal/domain/model"
	"betting-insight/internal/domain/ports/repository"
)

var _ repository.FeedbackRepository = (*feedbackRepo)(nil)

type feedbackRepo struct {
	pool *pgxpool.Pool
}

func NewFeedbackRepo(pool *pgxpool.Pool) *feedbackRepo {
	return &feedbackRepo{pool: pool}
}

// Every column is written unconditionally; list columns hold JSON arrays
// that are never null (the result is normalized before it gets here).
func (r *feedbackRepo) Save(ctx context.Context, tx repository.Tx, fb *model.Feedback) error {
	if fb.ID == "" {
		fb.ID = uuid.NewString()
	}
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now()
	}
	fb.UpdatedAt = time.Now()

	lists, err := json.Marshal(struct {
		Strengths        []string `json:"strengths"`
		Risks            []string `json:"risks"`
		MissingChecks    []string `json:"missing_checks"`
		Contradictions   []string `json:"contradictions"`
		KeyFactors       []string `json:"key_factors"`
		MindChangers     []string `json:"mind_changers"`
		DataQualityNotes []string `json:"data_quality_notes"`
	}{
		fb.Result.Strengths, fb.Result.Risks, fb.Result.MissingChecks,
		fb.Result.Contradictions, fb.Result.KeyFactors, fb.Result.MindChangers,
		fb.Result.DataQualityNotes,
	})
	if err != nil {
		return err
	}

	var sections []byte
	if fb.Result.Sections != nil {
		sections, err = json.Marshal(fb.Result.Sections)
		if err != nil {
			return err
		}
	}

	const q = `
INSERT INTO feedback (id, prediction_id, summary, lists, confidence_explanation,
                      confidence_score, model, processed_in_ms, sections,
                      created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (prediction_id) DO UPDATE SET
  summary = EXCLUDED.summary,
  lists = EXCLUDED.lists,
  confidence_explanation = EXCLUDED.confidence_explanation,
  confidence_score = EXCLUDED.confidence_score,
  model = EXCLUDED.model,
  processed_in_ms = EXCLUDED.processed_in_ms,
  sections = EXCLUDED.sections,
  updated_at = EXCLUDED.updated_at
RETURNING id;`

	row, err := pickRow(ctx, r.pool, tx, q,
		fb.ID, fb.PredictionID, fb.Result.Summary, lists,
		fb.Result.ConfidenceExplanation, fb.Result.ConfidenceScore,
		fb.Result.Model, fb.Result.ProcessedIn.Milliseconds(), sections,
		fb.CreatedAt, fb.UpdatedAt)
	if err != nil {
		return err
	}
	// On conflict the pre-existing row id survives; carry it back so
	// citations attach to the right feedback row.
	return row.Scan(&fb.ID)
}

func (r *feedbackRepo) FindByPredictionID(ctx context.Context, tx repository.Tx, predictionID string) (*model.Feedback, error) {
	const q = `
SELECT id, prediction_id, summary, lists, confidence_explanation,
       confidence_score, model, processed_in_ms, sections, created_at, updated_at
FROM feedback
WHERE prediction_id = $1;`

	row, err := pickRow(ctx, r.pool, tx, q, predictionID)
	if err != nil {
		return nil, err
	}

	var fb model.Feedback
	var lists []byte
	var sections []byte
	var processedMs int64
	err = row.Scan(
		&fb.ID, &fb.PredictionID, &fb.Result.Summary, &lists,
		&fb.Result.ConfidenceExplanation, &fb.Result.ConfidenceScore,
		&fb.Result.Model, &processedMs, &sections, &fb.CreatedAt, &fb.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}

	var decoded struct {
		Strengths        []string `json:"strengths"`
		Risks            []string `json:"risks"`
		MissingChecks    []string `json:"missing_checks"`
		Contradictions   []string `json:"contradictions"`
		KeyFactors       []string `json:"key_factors"`
		MindChangers     []string `json:"mind_changers"`
		DataQualityNotes []string `json:"data_quality_notes"`
	}
	if err := json.Unmarshal(lists, &decoded); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	fb.Result.Strengths = decoded.Strengths
	fb.Result.Risks = decoded.Risks
	fb.Result.MissingChecks = decoded.MissingChecks
	fb.Result.Contradictions = decoded.Contradictions
	fb.Result.KeyFactors = decoded.KeyFactors
	fb.Result.MindChangers = decoded.MindChangers
	fb.Result.DataQualityNotes = decoded.DataQualityNotes
	fb.Result.ProcessedIn = time.Duration(processedMs) * time.Millisecond
	if len(sections) > 0 {
		var s model.AnalysisSections
		if err := json.Unmarshal(sections, &s); err == nil {
			fb.Result.Sections = &s
		}
	}
	fb.Result.Normalize()
	return &fb, nil
}
