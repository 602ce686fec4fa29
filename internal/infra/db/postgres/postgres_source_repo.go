package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"betting-insight/internal/domain"
	"betting-insight/internal/domain/model"
	"betting-insight/internal/domain/ports/repository"
)

var (
	_ repository.SourceRepository   = (*sourceRepo)(nil)
	_ repository.CitationRepository = (*citationRepo)(nil)
)

type sourceRepo struct {
	pool *pgxpool.Pool
}

func NewSourceRepo(pool *pgxpool.Pool) *sourceRepo {
	return &sourceRepo{pool: pool}
}

// FindOrCreate relies on the unique index on (prediction_id, url) so a
// retried job cannot duplicate source rows.
func (r *sourceRepo) FindOrCreate(ctx context.Context, tx repository.Tx, src *model.Source) (*model.Source, error) {
	if src.ID == "" {
		src.ID = uuid.NewString()
	}

	const insert = `
INSERT INTO sources (id, prediction_id, provider, url, title, snippet, fetched_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (prediction_id, url) DO NOTHING;`

	if _, err := execSQL(ctx, r.pool, tx, insert,
		src.ID, src.PredictionID, src.Provider, src.URL, src.Title, src.Snippet, src.FetchedAt); err != nil {
		return nil, err
	}

	const q = `
SELECT id, prediction_id, provider, url, title, snippet, fetched_at
FROM sources
WHERE prediction_id = $1 AND url = $2;`

	row, err := pickRow(ctx, r.pool, tx, q, src.PredictionID, src.URL)
	if err != nil {
		return nil, err
	}
	var out model.Source
	err = row.Scan(&out.ID, &out.PredictionID, &out.Provider, &out.URL, &out.Title, &out.Snippet, &out.FetchedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &out, nil
}

type citationRepo struct {
	pool *pgxpool.Pool
}

func NewCitationRepo(pool *pgxpool.Pool) *citationRepo {
	return &citationRepo{pool: pool}
}

func (r *citationRepo) Save(ctx context.Context, tx repository.Tx, c *model.Citation) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	const q = `
INSERT INTO citations (id, feedback_id, source_id, claim, excerpt)
VALUES ($1, $2, $3, $4, $5);`

	_, err := execSQL(ctx, r.pool, tx, q, c.ID, c.FeedbackID, c.SourceID, c.Claim, c.Excerpt)
	return err
}

func (r *citationRepo) DeleteByFeedbackID(ctx context.Context, tx repository.Tx, feedbackID string) error {
	const q = `DELETE FROM citations WHERE feedback_id = $1;`
	_, err := execSQL(ctx, r.pool, tx, q, feedbackID)
	return err
}
