package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"betting-insight/internal/domain"
	"betting-insight/internal/domain/model"
	"betting-insight/internal/domain/ports/repository"
)

var _ repository.PredictionRepository = (*predictionRepo)(nil)

type predictionRepo struct {
	pool *pgxpool.Pool
}

func NewPredictionRepo(pool *pgxpool.Pool) *predictionRepo {
	return &predictionRepo{pool: pool}
}

func (r *predictionRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Prediction, error) {
	const q = `
SELECT id, user_id, status, competition, home_team, away_team, kickoff_at,
       market, pick, odds, stake, reasoning, created_at, updated_at
FROM predictions
WHERE id = $1;`

	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}

	var p model.Prediction
	var statusStr string
	err = row.Scan(
		&p.ID, &p.UserID, &statusStr, &p.Competition, &p.HomeTeam, &p.AwayTeam,
		&p.KickoffAt, &p.Market, &p.Pick, &p.Odds, &p.Stake, &p.Reasoning,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	p.Status = model.PredictionStatus(statusStr)
	return &p, nil
}

func (r *predictionRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.PredictionStatus, at time.Time) error {
	const q = `UPDATE predictions SET status = $2, updated_at = $3 WHERE id = $1;`

	tag, err := execSQL(ctx, r.pool, tx, q, id, string(status), at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
