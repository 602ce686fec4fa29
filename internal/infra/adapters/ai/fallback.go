package ai

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"betting-insight/internal/domain/model"
	"betting-insight/internal/domain/ports/adapter"
	"betting-insight/internal/infra/metrics"
)

var _ adapter.AnalysisGenerator = (*FallbackGenerator)(nil)

// FallbackGenerator tries the primary strategy and degrades to the fallback
// on ANY primary failure (network, timeout, parse, validation). The fallback
// is expected to be infallible, so Generate never propagates a model error.
type FallbackGenerator struct {
	primary  adapter.AnalysisGenerator // nil when model access is disabled
	fallback adapter.AnalysisGenerator
	log      *zerolog.Logger
}

func NewFallbackGenerator(primary, fallback adapter.AnalysisGenerator, logger *zerolog.Logger) *FallbackGenerator {
	l := logger.With().Str("component", "analysis_generator").Logger()
	return &FallbackGenerator{primary: primary, fallback: fallback, log: &l}
}

func (g *FallbackGenerator) Name() string {
	if g.primary != nil {
		return g.primary.Name()
	}
	return g.fallback.Name()
}

func (g *FallbackGenerator) Generate(ctx context.Context, pred *model.Prediction, mctx *model.MatchContext) (*model.AnalysisResult, error) {
	if g.primary != nil {
		start := time.Now()
		result, err := g.primary.Generate(ctx, pred, mctx)
		if err == nil {
			metrics.ObserveAnalysis(g.primary.Name(), int(time.Since(start).Milliseconds()))
			return result, nil
		}
		g.log.Warn().Err(err).Str("prediction_id", pred.ID).Msg("primary generator failed, using fallback")
	}

	start := time.Now()
	result, err := g.fallback.Generate(ctx, pred, mctx)
	if err != nil {
		return nil, err
	}
	metrics.ObserveAnalysis(g.fallback.Name(), int(time.Since(start).Milliseconds()))
	return result, nil
}
