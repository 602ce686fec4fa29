package sportstats

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"betting-insight/internal/config"
	"betting-insight/internal/domain"
	"betting-insight/internal/domain/model"
	"betting-insight/internal/domain/ports/adapter"
	"betting-insight/internal/infra/metrics"
	"betting-insight/internal/infra/providers/httpclient"
)

var _ adapter.StatisticsProvider = (*Client)(nil)

const providerName = "statistics"

// Client is the secondary statistics provider: season standings, recent
// results, head-to-head and odds implied from table positions.
type Client struct {
	apiKey  string
	baseURL string
	http    *httpclient.Client
	log     *zerolog.Logger
}

func NewClient(cfg config.ProviderConfig, logger *zerolog.Logger) *Client {
	sc := cfg.Statistics
	base := sc.BaseURL
	if base == "" {
		base = "https://api.leaguestats.dev/v2"
	}
	l := logger.With().Str("component", "sportstats_client").Logger()
	return &Client{
		apiKey:  sc.APIKey,
		baseURL: base,
		http: httpclient.New(httpclient.Options{
			Timeout:     sc.RequestTimeout,
			MinInterval: sc.MinInterval,
		}),
		log: &l,
	}
}

func (c *Client) Configured() bool { return c.apiKey != "" }

func (c *Client) FetchStats(ctx context.Context, home, away, competition string) (*adapter.StatsBundle, error) {
	if !c.Configured() {
		return nil, domain.ErrProviderUnavailable
	}

	standings, err := c.standings(ctx, competition)
	if err != nil {
		metrics.IncProviderRequest(providerName, "unavailable")
		return nil, domain.ErrProviderUnavailable
	}

	bundle := &adapter.StatsBundle{TableSize: len(standings)}
	for i, row := range standings {
		if teamMatches(row.Team, home) {
			bundle.HomePosition = i + 1
		}
		if teamMatches(row.Team, away) {
			bundle.AwayPosition = i + 1
		}
	}

	// Recent results and H2H degrade independently; partial data is fine.
	if form, err := c.recentForm(ctx, home); err == nil {
		bundle.HomeForm = form
	}
	if form, err := c.recentForm(ctx, away); err == nil {
		bundle.AwayForm = form
	}
	if h2h, err := c.headToHead(ctx, home, away); err == nil {
		bundle.HeadToHead = h2h
	}
	if injuries, err := c.injuries(ctx, home, away); err == nil {
		bundle.Injuries = injuries
	}

	if bundle.HomePosition > 0 && bundle.AwayPosition > 0 {
		bundle.Odds = ImpliedOdds(bundle.HomePosition, bundle.AwayPosition, bundle.TableSize)
	}

	if bundle.HomeForm == nil && bundle.AwayForm == nil && bundle.HeadToHead == nil && bundle.Odds == nil {
		metrics.IncProviderRequest(providerName, "empty")
		return nil, domain.ErrProviderUnavailable
	}
	metrics.IncProviderRequest(providerName, "ok")
	return bundle, nil
}

type standingRow struct {
	Team   string `json:"team"`
	Played int    `json:"played"`
	Points int    `json:"points"`
}

func (c *Client) get(ctx context.Context, path string, params url.Values, dst interface{}) error {
	params.Set("key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(dst)
}

func (c *Client) standings(ctx context.Context, competition string) ([]standingRow, error) {
	var payload struct {
		Table []standingRow `json:"table"`
	}
	if err := c.get(ctx, "/standings", url.Values{"league": {competition}}, &payload); err != nil {
		return nil, err
	}
	if len(payload.Table) == 0 {
		return nil, domain.ErrProviderUnavailable
	}
	return payload.Table, nil
}

func (c *Client) recentForm(ctx context.Context, team string) (*model.TeamForm, error) {
	var payload struct {
		Matches []struct {
			GoalsFor     int    `json:"goals_for"`
			GoalsAgainst int    `json:"goals_against"`
			Result       string `json:"result"` // "W" | "D" | "L"
		} `json:"matches"`
	}
	if err := c.get(ctx, "/teams/results", url.Values{"team": {team}, "limit": {"5"}}, &payload); err != nil {
		return nil, err
	}
	if len(payload.Matches) == 0 {
		return nil, domain.ErrProviderUnavailable
	}

	form := &model.TeamForm{}
	for _, m := range payload.Matches {
		form.GoalsFor += m.GoalsFor
		form.GoalsAgainst += m.GoalsAgainst
		form.LastResults = append(form.LastResults, m.Result)
		switch m.Result {
		case "W":
			form.Wins++
		case "D":
			form.Draws++
		case "L":
			form.Losses++
		}
	}
	return form, nil
}

func (c *Client) headToHead(ctx context.Context, home, away string) (*model.H2HSummary, error) {
	var payload struct {
		Matches int    `json:"matches"`
		Wins    int    `json:"home_wins"`
		Draws   int    `json:"draws"`
		Losses  int    `json:"away_wins"`
		Last    string `json:"last_score"`
	}
	if err := c.get(ctx, "/h2h", url.Values{"home": {home}, "away": {away}}, &payload); err != nil {
		return nil, err
	}
	if payload.Matches == 0 {
		return nil, domain.ErrProviderUnavailable
	}
	return &model.H2HSummary{
		Matches:   payload.Matches,
		HomeWins:  payload.Wins,
		Draws:     payload.Draws,
		AwayWins:  payload.Losses,
		LastScore: payload.Last,
	}, nil
}

func (c *Client) injuries(ctx context.Context, home, away string) ([]model.InjuryReport, error) {
	var payload struct {
		Injuries []struct {
			Team   string `json:"team"`
			Player string `json:"player"`
			Status string `json:"status"`
			Detail string `json:"detail"`
		} `json:"injuries"`
	}
	if err := c.get(ctx, "/injuries", url.Values{"teams": {home + "," + away}}, &payload); err != nil {
		return nil, err
	}
	out := make([]model.InjuryReport, 0, len(payload.Injuries))
	for _, inj := range payload.Injuries {
		out = append(out, model.InjuryReport{
			Team:   inj.Team,
			Player: inj.Player,
			Status: inj.Status,
			Detail: inj.Detail,
		})
	}
	return out, nil
}

// ImpliedOdds derives a 1X2 price from league positions. A better position
// gets a shorter home price; a flat 25% draw share is assumed.
func ImpliedOdds(homePos, awayPos, tableSize int) *model.MarketOdds {
	if tableSize < 2 {
		return nil
	}
	// Strength decays linearly with table position; home advantage bump.
	homeStrength := float64(tableSize-homePos+1)/float64(tableSize) + 0.15
	awayStrength := float64(tableSize-awayPos+1) / float64(tableSize)

	total := homeStrength + awayStrength
	const drawShare = 0.25
	homeProb := (1 - drawShare) * homeStrength / total
	awayProb := (1 - drawShare) * awayStrength / total

	return &model.MarketOdds{
		HomeWin: round2(1 / homeProb),
		Draw:    round2(1 / drawShare),
		AwayWin: round2(1 / awayProb),
		Implied: true,
		TakenAt: time.Now(),
	}
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func teamMatches(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
