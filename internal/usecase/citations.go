package usecase

import (
	"fmt"
	"strings"
	"time"

	"betting-insight/internal/domain/model"
)

// CitationDraft pairs a claim with the source that backs it, before either
// has a database identity. Drafts sharing a URL collapse onto one source
// row at persistence time.
type CitationDraft struct {
	Provider  string
	URL       string
	Title     string
	Snippet   string
	FetchedAt time.Time
	Claim     string
	Excerpt   string
}

// BuildCitations derives citations from whichever tiers contributed data.
// It is independent of the generator strategy: one citation per
// claim-bearing fact, always with a readable claim and an excerpt.
func BuildCitations(mctx *model.MatchContext) []CitationDraft {
	var drafts []CitationDraft
	statsProvider := model.TierStatistics
	if mctx.Estimated && !mctx.HasTier(model.TierStatistics) {
		statsProvider = model.TierEstimate
	}

	if form := mctx.HomeForm; form != nil {
		drafts = append(drafts, formDraft(statsProvider, mctx.HomeTeam, form, mctx.FetchedAt))
	}
	if form := mctx.AwayForm; form != nil {
		drafts = append(drafts, formDraft(statsProvider, mctx.AwayTeam, form, mctx.FetchedAt))
	}

	if h := mctx.HeadToHead; h != nil {
		drafts = append(drafts, CitationDraft{
			Provider:  statsProvider,
			URL:       fmt.Sprintf("data://%s/h2h/%s-vs-%s", statsProvider, slug(mctx.HomeTeam), slug(mctx.AwayTeam)),
			Title:     fmt.Sprintf("Head-to-head: %s vs %s", mctx.HomeTeam, mctx.AwayTeam),
			Snippet:   fmt.Sprintf("%d meetings: %d-%d-%d", h.Matches, h.HomeWins, h.Draws, h.AwayWins),
			FetchedAt: mctx.FetchedAt,
			Claim: fmt.Sprintf("%s and %s met %d times recently; %s won %d.",
				mctx.HomeTeam, mctx.AwayTeam, h.Matches, mctx.HomeTeam, h.HomeWins),
			Excerpt: fmt.Sprintf("H2H record %d-%d-%d (home-draw-away)", h.HomeWins, h.Draws, h.AwayWins),
		})
	}

	if o := mctx.Odds; o != nil {
		provider := statsProvider
		if o.Implied && mctx.Estimated {
			provider = model.TierEstimate
		}
		kind := "bookmaker snapshot"
		if o.Implied {
			kind = "implied from standings"
		}
		drafts = append(drafts, CitationDraft{
			Provider:  provider,
			URL:       fmt.Sprintf("data://%s/odds/%s-vs-%s", provider, slug(mctx.HomeTeam), slug(mctx.AwayTeam)),
			Title:     "1X2 odds snapshot",
			Snippet:   fmt.Sprintf("home %.2f / draw %.2f / away %.2f (%s)", o.HomeWin, o.Draw, o.AwayWin, kind),
			FetchedAt: mctx.FetchedAt,
			Claim:     fmt.Sprintf("The market prices %s at %.2f to win at home.", mctx.HomeTeam, o.HomeWin),
			Excerpt:   fmt.Sprintf("1X2: %.2f / %.2f / %.2f, %s", o.HomeWin, o.Draw, o.AwayWin, kind),
		})
	}

	if intel := mctx.Intelligence; intel != nil {
		for _, n := range intel.News {
			excerpt := n.Snippet
			if excerpt == "" {
				excerpt = n.Title
			}
			drafts = append(drafts, CitationDraft{
				Provider:  model.TierIntelligence,
				URL:       n.URL,
				Title:     n.Title,
				Snippet:   n.Snippet,
				FetchedAt: mctx.FetchedAt,
				Claim:     fmt.Sprintf("Reported: %s", n.Title),
				Excerpt:   excerpt,
			})
		}
		if s := intel.Sentiment; s != nil {
			drafts = append(drafts, CitationDraft{
				Provider:  model.TierIntelligence,
				URL:       fmt.Sprintf("data://intelligence/sentiment/%s-vs-%s", slug(mctx.HomeTeam), slug(mctx.AwayTeam)),
				Title:     "Social sentiment",
				Snippet:   s.Summary,
				FetchedAt: mctx.FetchedAt,
				Claim:     fmt.Sprintf("Public sentiment around the fixture scores %.2f over %d posts.", s.Score, s.Samples),
				Excerpt:   s.Summary,
			})
		}
	}
	return drafts
}

func formDraft(provider, team string, form *model.TeamForm, fetchedAt time.Time) CitationDraft {
	return CitationDraft{
		Provider:  provider,
		URL:       fmt.Sprintf("data://%s/form/%s", provider, slug(team)),
		Title:     fmt.Sprintf("Recent form: %s", team),
		Snippet:   fmt.Sprintf("%dW-%dD-%dL, goals %d:%d", form.Wins, form.Draws, form.Losses, form.GoalsFor, form.GoalsAgainst),
		FetchedAt: fetchedAt,
		Claim:     fmt.Sprintf("%s's last five read %dW-%dD-%dL.", team, form.Wins, form.Draws, form.Losses),
		Excerpt:   fmt.Sprintf("Sequence %s, goals %d:%d", strings.Join(form.LastResults, ""), form.GoalsFor, form.GoalsAgainst),
	}
}

func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}
