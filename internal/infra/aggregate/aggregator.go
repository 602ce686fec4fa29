package aggregate

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"betting-insight/internal/domain/model"
	"betting-insight/internal/domain/ports/adapter"
	"betting-insight/internal/infra/metrics"
	"betting-insight/internal/infra/providers/estimate"
)

// Aggregator composes the provider tiers into one MatchContext. It never
// returns an error: when every tier fails the context is populated with
// estimated values and a degradation reason.
type Aggregator struct {
	intel adapter.IntelligenceProvider
	stats adapter.StatisticsProvider
	est   *estimate.Estimator
	log   *zerolog.Logger
}

func NewAggregator(
	intel adapter.IntelligenceProvider,
	stats adapter.StatisticsProvider,
	est *estimate.Estimator,
	logger *zerolog.Logger,
) *Aggregator {
	l := logger.With().Str("component", "aggregator").Logger()
	return &Aggregator{intel: intel, stats: stats, est: est, log: &l}
}

// Aggregate runs the tiers most-authoritative first. Each field keeps the
// value of the first tier that produced it; tier outputs are copied into the
// context, never mutated in place.
func (a *Aggregator) Aggregate(ctx context.Context, home, away, competition string) *model.MatchContext {
	home = NormalizeName(home)
	away = NormalizeName(away)
	competition = NormalizeName(competition)

	mctx := &model.MatchContext{
		HomeTeam:    home,
		AwayTeam:    away,
		Competition: competition,
		FetchedAt:   time.Now(),
	}
	var degraded []string

	// Tier 1: enriched intelligence. Only this tier carries news, sentiment
	// and narrative insights.
	if a.intel != nil && a.intel.Configured() {
		if intel, err := a.intel.FetchIntel(ctx, home, away, competition); err == nil && intel != nil {
			mctx.Intelligence = intel
			mctx.Tiers = append(mctx.Tiers, model.TierIntelligence)
			metrics.IncTierUsed(model.TierIntelligence)
		} else {
			degraded = append(degraded, "intelligence provider returned no data")
		}
	} else {
		degraded = append(degraded, "intelligence provider not configured")
	}

	// Tier 2: season statistics.
	if a.stats != nil && a.stats.Configured() {
		if bundle, err := a.stats.FetchStats(ctx, home, away, competition); err == nil && bundle != nil {
			applyBundle(mctx, bundle, false)
			mctx.Tiers = append(mctx.Tiers, model.TierStatistics)
			metrics.IncTierUsed(model.TierStatistics)
		} else {
			degraded = append(degraded, "statistics provider returned no data")
		}
	} else {
		degraded = append(degraded, "statistics provider not configured")
	}

	// Tier 3: deterministic estimate fills whatever is still missing.
	if mctx.HomeForm == nil || mctx.AwayForm == nil || mctx.HeadToHead == nil || mctx.Odds == nil {
		applyBundle(mctx, a.est.Estimate(home, away, competition), true)
		mctx.Tiers = append(mctx.Tiers, model.TierEstimate)
		mctx.Estimated = true
	}

	if len(degraded) > 0 {
		mctx.DegradedReason = strings.Join(degraded, "; ")
		a.log.Debug().Str("fixture", home+" vs "+away).Str("reason", mctx.DegradedReason).Msg("aggregation degraded")
	}
	return mctx
}

// applyBundle copies bundle fields into the context where the context does
// not already hold a value from a more authoritative tier.
func applyBundle(mctx *model.MatchContext, b *adapter.StatsBundle, estimated bool) {
	if mctx.HomeForm == nil && b.HomeForm != nil {
		form := *b.HomeForm
		mctx.HomeForm = &form
	}
	if mctx.AwayForm == nil && b.AwayForm != nil {
		form := *b.AwayForm
		mctx.AwayForm = &form
	}
	if mctx.HeadToHead == nil && b.HeadToHead != nil {
		h2h := *b.HeadToHead
		mctx.HeadToHead = &h2h
	}
	if mctx.Odds == nil && b.Odds != nil {
		odds := *b.Odds
		if estimated {
			odds.Implied = true
		}
		mctx.Odds = &odds
	}
	if len(mctx.Injuries) == 0 && len(b.Injuries) > 0 {
		mctx.Injuries = append([]model.InjuryReport(nil), b.Injuries...)
	}
}

// NormalizeName collapses internal whitespace and trims the edges so team
// and competition strings compare canonically across providers.
func NormalizeName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
