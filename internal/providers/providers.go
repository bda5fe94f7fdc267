// Package providers adapts each upstream data source to a cascade provider.
// Every provider fetches through the shared resilient client and hands the
// raw payload to the normalizer.
package providers

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/client"
	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/normalize"
)

// Provider names as they appear in logs and metrics
const (
	NameStatsAPI  = "nhl_statsapi"
	NameAPIWeb    = "nhl_api_web"
	NameStatsREST = "nhl_stats_rest"
	NameESPN      = "espn"
	NameReference = "reference_file"
)

// Endpoints are the base URLs of every upstream
type Endpoints struct {
	StatsAPI      string
	APIWeb        string
	StatsREST     string
	ESPNSite      string
	ESPNStandings string
}

// DefaultEndpoints returns the public base URLs
func DefaultEndpoints() Endpoints {
	return Endpoints{
		StatsAPI:      "https://statsapi.web.nhl.com/api/v1",
		APIWeb:        "https://api-web.nhle.com/v1",
		StatsREST:     "https://api.nhle.com/stats/rest/en",
		ESPNSite:      "https://site.api.espn.com/apis/site/v2/sports/hockey/nhl",
		ESPNStandings: "https://site.api.espn.com/apis/v2/sports/hockey/nhl",
	}
}

// Fetcher is the slice of *client.Client providers need
type Fetcher interface {
	GetJSON(ctx context.Context, rawURL string, params map[string]string, opts ...client.RequestOption) (any, error)
	Pace(ctx context.Context) error
}

// Source builds providers that share one fetcher and normalizer
type Source struct {
	fetch     Fetcher
	norm      *normalize.Normalizer
	endpoints Endpoints
	teams     []string
	season    string
	now       func() time.Time
}

// Option customizes a Source
type Option func(*Source)

// WithClock overrides the clock used for capture timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Source) { s.now = now }
}

// NewSource creates a Source. teams are league abbreviations used by the
// per-team endpoints; season is the eight-digit season code.
func NewSource(f Fetcher, n *normalize.Normalizer, endpoints Endpoints, teams []string, season string, opts ...Option) *Source {
	if n == nil {
		n = normalize.New(nil)
	}
	s := &Source{
		fetch:     f,
		norm:      n,
		endpoints: endpoints,
		teams:     teams,
		season:    season,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Season returns the season code requests are made for
func (s *Source) Season() string {
	return s.season
}

func (s *Source) url(base string, parts ...string) string {
	return strings.TrimRight(base, "/") + "/" + strings.Join(parts, "/")
}

// perTeam runs fn for every team with pacing in between. A failing team is
// logged and skipped; the last error is returned only when no team produced
// rows.
func perTeam[T any](ctx context.Context, s *Source, provider string, fn func(ctx context.Context, team string) ([]T, error)) ([]T, error) {
	var (
		out     []T
		lastErr error
	)
	for i, team := range s.teams {
		if i > 0 {
			if err := s.fetch.Pace(ctx); err != nil {
				return out, err
			}
		}

		rows, err := fn(ctx, team)
		if err != nil {
			log.Warn().
				Err(err).
				Str("provider", provider).
				Str("team", team).
				Msg("Failed to fetch team, continuing")
			lastErr = err
			continue
		}
		out = append(out, rows...)
	}

	if len(out) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return out, nil
}

// espnTeams maps league abbreviations to the ones ESPN uses in URLs
var espnTeams = map[string]string{
	"LAK": "la",
	"NJD": "nj",
	"SJS": "sj",
	"TBL": "tb",
	"UTA": "utah",
}

func espnTeam(team string) string {
	if t, ok := espnTeams[strings.ToUpper(team)]; ok {
		return t
	}
	return strings.ToLower(team)
}
