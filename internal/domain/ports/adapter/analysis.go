package adapter

import (
	"context"

	"betting-insight/internal/domain/model"
)

// AnalysisGenerator turns a prediction plus its aggregated match context
// into a structured result. Implementations must return a result that
// satisfies model.AnalysisResult's structural contract (call Normalize).
type AnalysisGenerator interface {
	// Name identifies the strategy ("model", "mock", ...) for logging and
	// the result's Model field.
	Name() string
	Generate(ctx context.Context, pred *model.Prediction, mctx *model.MatchContext) (*model.AnalysisResult, error)
}
