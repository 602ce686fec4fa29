package adapter

import (
	"context"

	"betting-insight/internal/domain/model"
)

// IntelligenceProvider is the tier-1 enriched data source (news, social
// sentiment, trending insights, related questions). Implementations must be
// safely callable when unconfigured: Configured() false means FetchIntel is
// never invoked by the aggregator.
type IntelligenceProvider interface {
	Configured() bool
	FetchIntel(ctx context.Context, home, away, competition string) (*model.Intelligence, error)
}

// StatsBundle is the tier-2 provider output.
type StatsBundle struct {
	HomeForm   *model.TeamForm
	AwayForm   *model.TeamForm
	HeadToHead *model.H2HSummary
	Injuries   []model.InjuryReport
	Odds       *model.MarketOdds
	// Standings positions used for implied-odds computation, 0 when unknown.
	HomePosition int
	AwayPosition int
	TableSize    int
}

// StatisticsProvider is the tier-2 season statistics source.
type StatisticsProvider interface {
	Configured() bool
	FetchStats(ctx context.Context, home, away, competition string) (*StatsBundle, error)
}
