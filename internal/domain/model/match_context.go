package model

import "time"

// Tier names recorded in MatchContext.Tiers, most authoritative first.
const (
	TierIntelligence = "intelligence"
	TierStatistics   = "statistics"
	TierEstimate     = "estimate"
)

// TeamForm summarizes one team's recent record.
type TeamForm struct {
	Wins         int
	Draws        int
	Losses       int
	GoalsFor     int
	GoalsAgainst int
	LastResults  []string // most recent first, "W"/"D"/"L"
}

// H2HSummary summarizes prior meetings between the two teams.
type H2HSummary struct {
	Matches   int
	HomeWins  int
	Draws     int
	AwayWins  int
	LastScore string
}

type InjuryReport struct {
	Team    string
	Player  string
	Status  string
	Detail  string
}

// MarketOdds holds a 1X2 snapshot. Implied is set when the odds were
// computed from standings rather than observed at a bookmaker.
type MarketOdds struct {
	HomeWin float64
	Draw    float64
	AwayWin float64
	Implied bool
	TakenAt time.Time
}

type NewsItem struct {
	Title       string
	URL         string
	Snippet     string
	Source      string
	PublishedAt time.Time
}

// SentimentSignal is the scored public mood around the fixture.
type SentimentSignal struct {
	Score   float64 // -1 (negative) .. +1 (positive), toward the home side
	Samples int
	Summary string
}

// Intelligence is the enriched tier-1 payload. Any field may be empty.
type Intelligence struct {
	News              []NewsItem
	Sentiment         *SentimentSignal
	Rankings          []string
	Insights          []string
	RelatedQuestions  []string
	RiskSignals       []string
	ConfidenceSignals []string
}

// MatchContext is the ephemeral aggregation of all external data about one
// fixture. It is owned by the analysis run that created it and never stored.
type MatchContext struct {
	HomeTeam    string
	AwayTeam    string
	Competition string

	HomeForm   *TeamForm
	AwayForm   *TeamForm
	HeadToHead *H2HSummary
	Injuries   []InjuryReport
	Odds       *MarketOdds

	Intelligence *Intelligence

	Tiers          []string
	Estimated      bool
	DegradedReason string
	FetchedAt      time.Time
}

// HasTier reports whether the named tier contributed data.
func (m *MatchContext) HasTier(tier string) bool {
	for _, t := range m.Tiers {
		if t == tier {
			return true
		}
	}
	return false
}
