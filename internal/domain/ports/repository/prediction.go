package repository

import (
	"context"
	"time"

	"betting-insight/internal/domain/model"
)

type PredictionRepository interface {
	FindByID(ctx context.Context, tx Tx, id string) (*model.Prediction, error)
	// UpdateStatus writes the new status and touches updated_at. It does not
	// validate the transition; the use case does that first.
	UpdateStatus(ctx context.Context, tx Tx, id string, status model.PredictionStatus, at time.Time) error
}
