package ai

import (
	"context"
	"fmt"
	"time"

	"betting-insight/internal/domain/model"
	"betting-insight/internal/domain/ports/adapter"
)

var _ adapter.AnalysisGenerator = (*MockGenerator)(nil)

// neutralConfidence is used when no model signal exists.
const neutralConfidence = 0.5

// MockGenerator synthesizes a structurally complete result from whatever
// match context is available. It states missing capabilities explicitly
// instead of inventing confident claims, and it cannot fail.
type MockGenerator struct{}

func NewMockGenerator() *MockGenerator { return &MockGenerator{} }

func (g *MockGenerator) Name() string { return "mock" }

func (g *MockGenerator) Generate(ctx context.Context, pred *model.Prediction, mctx *model.MatchContext) (*model.AnalysisResult, error) {
	start := time.Now()
	result := &model.AnalysisResult{
		Summary: fmt.Sprintf("Rule-based review of %s @ %.2f on %s vs %s.",
			pred.Pick, pred.Odds, mctx.HomeTeam, mctx.AwayTeam),
		ConfidenceScore:       neutralConfidence,
		ConfidenceExplanation: "Neutral confidence: no model-backed signal was available for this analysis.",
		Model:                 "deterministic",
		DataQualityNotes:      []string{"AI analysis disabled; deterministic review generated instead."},
	}

	if form := mctx.HomeForm; form != nil {
		if form.Wins >= 3 {
			result.Strengths = append(result.Strengths,
				fmt.Sprintf("%s won %d of their last 5.", mctx.HomeTeam, form.Wins))
		}
		if form.Losses >= 3 {
			result.Risks = append(result.Risks,
				fmt.Sprintf("%s lost %d of their last 5.", mctx.HomeTeam, form.Losses))
		}
	}
	if form := mctx.AwayForm; form != nil {
		if form.Wins >= 3 {
			result.KeyFactors = append(result.KeyFactors,
				fmt.Sprintf("%s arrive in form with %d recent wins.", mctx.AwayTeam, form.Wins))
		}
	}
	if h := mctx.HeadToHead; h != nil && h.Matches > 0 {
		result.KeyFactors = append(result.KeyFactors,
			fmt.Sprintf("Head-to-head over %d meetings: %d-%d-%d.", h.Matches, h.HomeWins, h.Draws, h.AwayWins))
	}
	if o := mctx.Odds; o != nil {
		result.KeyFactors = append(result.KeyFactors,
			fmt.Sprintf("Market snapshot: home %.2f, draw %.2f, away %.2f.", o.HomeWin, o.Draw, o.AwayWin))
		if o.HomeWin > 0 && pred.Odds > o.HomeWin*1.2 {
			result.Strengths = append(result.Strengths, "Taken odds sit above the market price; positive expected value if the pick is right.")
		}
	} else {
		result.MissingChecks = append(result.MissingChecks, "No market odds were available to compare against the taken price.")
	}
	for _, inj := range mctx.Injuries {
		result.Risks = append(result.Risks, fmt.Sprintf("%s: %s is %s.", inj.Team, inj.Player, inj.Status))
	}
	if intel := mctx.Intelligence; intel != nil && intel.Sentiment != nil {
		result.KeyFactors = append(result.KeyFactors, intel.Sentiment.Summary)
	}

	if mctx.Estimated {
		result.DataQualityNotes = append(result.DataQualityNotes,
			"Form, head-to-head or odds fields are estimates derived from heuristics, not observed data.")
	}
	if mctx.DegradedReason != "" {
		result.DataQualityNotes = append(result.DataQualityNotes,
			"Data degradation: "+mctx.DegradedReason+".")
	}
	result.MindChangers = append(result.MindChangers,
		"Confirmed team news close to kickoff.",
		"A significant odds move against the pick.")

	result.ProcessedIn = time.Since(start)
	result.Normalize()
	return result, nil
}
