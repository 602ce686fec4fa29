package ai

import (
	"fmt"
	"strings"

	"betting-insight/internal/domain/model"
)

const systemPrompt = `You are a sceptical betting analyst. You critique a user's prediction using only the match data provided. Reply with a single JSON object and nothing else, with keys: prediction, confidence (number 0..1), summary, strengths, risks, missing_checks, contradictions, key_factors, what_would_change_my_mind, data_quality_notes, confidence_explanation, team_comparison, market_insight, tactical_breakdown. List values are arrays of short strings.`

// BuildPrompt renders the prediction and its match context into the user
// message. Absent context fields are stated as absent rather than omitted,
// so the model knows what it cannot rely on.
func BuildPrompt(pred *model.Prediction, mctx *model.MatchContext) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Prediction under review:\n")
	fmt.Fprintf(&sb, "Fixture: %s vs %s (%s), kickoff %s\n",
		pred.HomeTeam, pred.AwayTeam, pred.Competition, pred.KickoffAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&sb, "Market: %s, pick: %s, odds: %.2f\n", pred.Market, pred.Pick, pred.Odds)
	if pred.Stake != nil {
		fmt.Fprintf(&sb, "Stake: %.2f units\n", *pred.Stake)
	}
	if pred.Reasoning != "" {
		fmt.Fprintf(&sb, "User's reasoning: %s\n", pred.Reasoning)
	}

	sb.WriteString("\nMatch context:\n")
	writeForm(&sb, "Home", mctx.HomeTeam, mctx.HomeForm)
	writeForm(&sb, "Away", mctx.AwayTeam, mctx.AwayForm)

	if h := mctx.HeadToHead; h != nil {
		fmt.Fprintf(&sb, "Head-to-head (last %d): %d home wins, %d draws, %d away wins",
			h.Matches, h.HomeWins, h.Draws, h.AwayWins)
		if h.LastScore != "" {
			fmt.Fprintf(&sb, ", last score %s", h.LastScore)
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString("Head-to-head: no data\n")
	}

	if o := mctx.Odds; o != nil {
		kind := "bookmaker"
		if o.Implied {
			kind = "implied/estimated"
		}
		fmt.Fprintf(&sb, "Market odds (%s): home %.2f, draw %.2f, away %.2f\n", kind, o.HomeWin, o.Draw, o.AwayWin)
	} else {
		sb.WriteString("Market odds: no data\n")
	}

	for _, inj := range mctx.Injuries {
		fmt.Fprintf(&sb, "Injury: %s - %s (%s)\n", inj.Team, inj.Player, inj.Status)
	}

	if intel := mctx.Intelligence; intel != nil {
		if intel.Sentiment != nil {
			fmt.Fprintf(&sb, "Social sentiment: %s (score %.2f)\n", intel.Sentiment.Summary, intel.Sentiment.Score)
		}
		for _, n := range intel.News {
			fmt.Fprintf(&sb, "News: %s - %s\n", n.Title, n.Snippet)
		}
		for _, ins := range intel.Insights {
			fmt.Fprintf(&sb, "Insight: %s\n", ins)
		}
		for _, r := range intel.RiskSignals {
			fmt.Fprintf(&sb, "Risk signal: %s\n", r)
		}
	}

	if mctx.Estimated {
		sb.WriteString("\nNOTE: some or all of the above is estimated, not observed. Reflect that in data_quality_notes.\n")
	}
	if mctx.DegradedReason != "" {
		fmt.Fprintf(&sb, "Data degradation: %s\n", mctx.DegradedReason)
	}
	return sb.String()
}

func writeForm(sb *strings.Builder, side, team string, form *model.TeamForm) {
	if form == nil {
		fmt.Fprintf(sb, "%s team %s: no form data\n", side, team)
		return
	}
	fmt.Fprintf(sb, "%s team %s form: %dW-%dD-%dL, goals %d:%d, last: %s\n",
		side, team, form.Wins, form.Draws, form.Losses,
		form.GoalsFor, form.GoalsAgainst, strings.Join(form.LastResults, ""))
}
