package repository

import (
	"context"

	"betting-insight/internal/domain/model"
)

type FeedbackRepository interface {
	// Save upserts by prediction id so a retried job overwrites its earlier
	// partial write instead of creating a duplicate row.
	Save(ctx context.Context, tx Tx, fb *model.Feedback) error
	FindByPredictionID(ctx context.Context, tx Tx, predictionID string) (*model.Feedback, error)
}

type SourceRepository interface {
	// FindOrCreate dedupes by (prediction_id, url) and returns the surviving
	// row, whether it was just inserted or already existed.
	FindOrCreate(ctx context.Context, tx Tx, src *model.Source) (*model.Source, error)
}

type CitationRepository interface {
	Save(ctx context.Context, tx Tx, c *model.Citation) error
	// DeleteByFeedbackID clears citations from an earlier failed attempt so
	// a retry does not double them.
	DeleteByFeedbackID(ctx context.Context, tx Tx, feedbackID string) error
}
