//go:build !integration

package usecase_test

import (
	"strings"
	"testing"
	"time"

	"betting-insight/internal/domain/model"
	"betting-insight/internal/usecase"
)

func TestBuildCitations(t *testing.T) {
	t.Run("should cite every contributed fact", func(t *testing.T) {
		mctx := richMatchContext("Arsenal", "Chelsea", "Premier League")
		drafts := usecase.BuildCitations(mctx)

		if len(drafts) != 6 {
			t.Fatalf("drafts %d, want 6 (two forms, h2h, odds, one news item, sentiment)", len(drafts))
		}
		for _, d := range drafts {
			if d.URL == "" || d.Claim == "" || d.Excerpt == "" {
				t.Errorf("incomplete draft: %+v", d)
			}
		}
	})

	t.Run("should keep real URLs for news and synthesize the rest", func(t *testing.T) {
		mctx := richMatchContext("Arsenal", "Chelsea", "Premier League")
		drafts := usecase.BuildCitations(mctx)

		var news, synthetic int
		for _, d := range drafts {
			if strings.HasPrefix(d.URL, "https://") {
				news++
			}
			if strings.HasPrefix(d.URL, "data://") {
				synthetic++
			}
		}
		if news != 1 {
			t.Errorf("web-backed drafts %d, want 1", news)
		}
		if synthetic != 5 {
			t.Errorf("synthetic drafts %d, want 5", synthetic)
		}
	})

	t.Run("should attribute estimated facts to the estimate tier", func(t *testing.T) {
		mctx := &model.MatchContext{
			HomeTeam: "Leeds United", AwayTeam: "Norwich City",
			HomeForm:  &model.TeamForm{Wins: 2, Draws: 1, Losses: 2},
			AwayForm:  &model.TeamForm{Wins: 1, Draws: 2, Losses: 2},
			Odds:      &model.MarketOdds{HomeWin: 2.1, Draw: 4.0, AwayWin: 3.2, Implied: true},
			Tiers:     []string{model.TierEstimate},
			Estimated: true,
			FetchedAt: time.Now(),
		}
		drafts := usecase.BuildCitations(mctx)

		for _, d := range drafts {
			if d.Provider != model.TierEstimate {
				t.Errorf("draft %q attributed to %q, want estimate", d.Title, d.Provider)
			}
		}
	})

	t.Run("should attribute observed stats to the statistics tier", func(t *testing.T) {
		mctx := &model.MatchContext{
			HomeTeam: "Arsenal", AwayTeam: "Chelsea",
			HomeForm: &model.TeamForm{Wins: 3, Draws: 1, Losses: 1},
			Tiers:    []string{model.TierStatistics},
		}
		drafts := usecase.BuildCitations(mctx)
		if len(drafts) != 1 {
			t.Fatalf("drafts %d, want 1", len(drafts))
		}
		if drafts[0].Provider != model.TierStatistics {
			t.Errorf("provider %q, want statistics", drafts[0].Provider)
		}
	})

	t.Run("should produce nothing from an empty context", func(t *testing.T) {
		drafts := usecase.BuildCitations(&model.MatchContext{HomeTeam: "A", AwayTeam: "B"})
		if len(drafts) != 0 {
			t.Errorf("drafts %d, want 0", len(drafts))
		}
	})

	t.Run("should slugify team names in synthetic URLs", func(t *testing.T) {
		mctx := &model.MatchContext{
			HomeTeam: "Leeds United", AwayTeam: "Norwich City",
			HeadToHead: &model.H2HSummary{Matches: 4, HomeWins: 2, Draws: 1, AwayWins: 1},
			Tiers:      []string{model.TierStatistics},
		}
		drafts := usecase.BuildCitations(mctx)
		if len(drafts) != 1 {
			t.Fatalf("drafts %d, want 1", len(drafts))
		}
		if want := "data://statistics/h2h/leeds-united-vs-norwich-city"; drafts[0].URL != want {
			t.Errorf("URL %q, want %q", drafts[0].URL, want)
		}
	})
}
