package providers

import (
	"context"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"

	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/cascade"
	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/models"
	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/normalize"
)

// statLookup fetches one player's stat line from one endpoint
type statLookup struct {
	name   string
	url    func(id string) string
	params map[string]string
}

// PerPlayerStats looks up each player in turn: statsapi single season,
// then the api-web landing page with and without a season. Players with no
// stats anywhere are dropped. Calls are paced between players.
func (s *Source) PerPlayerStats(players []models.Player) cascade.Provider[models.PlayerSeasonStat] {
	lookups := []statLookup{
		{
			name:   NameStatsAPI,
			url:    func(id string) string { return s.url(s.endpoints.StatsAPI, "people", id, "stats") },
			params: map[string]string{"stats": "statsSingleSeason", "season": s.season},
		},
		{
			name:   NameAPIWeb,
			url:    func(id string) string { return s.url(s.endpoints.APIWeb, "player", id, "landing") },
			params: map[string]string{"season": s.season},
		},
		{
			name: NameAPIWeb,
			url:  func(id string) string { return s.url(s.endpoints.APIWeb, "player", id, "landing") },
		},
	}

	return cascade.Func[models.PlayerSeasonStat]{
		ProviderName: "per_player",
		Fn: func(ctx context.Context) ([]models.PlayerSeasonStat, error) {
			var (
				out     []models.PlayerSeasonStat
				fetched int
			)
			for _, p := range players {
				id := normalize.NormalizeID(p.PlayerID)
				if _, err := strconv.ParseInt(id, 10, 64); err != nil {
					continue
				}
				if fetched > 0 {
					if err := s.fetch.Pace(ctx); err != nil {
						return out, err
					}
				}
				fetched++

				line, ok := s.playerStat(ctx, id, lookups)
				if !ok {
					continue
				}
				p.PlayerID = id
				out = append(out, line.ToPlayerSeasonStat(p))
			}

			log.Info().
				Int("players", len(players)).
				Int("resolved", len(out)).
				Msg("Per-player stats pass complete")
			return out, nil
		},
	}
}

func (s *Source) playerStat(ctx context.Context, id string, lookups []statLookup) (models.PlayerStatLine, bool) {
	for _, l := range lookups {
		if ctx.Err() != nil {
			break
		}
		payload, err := s.fetch.GetJSON(ctx, l.url(id), l.params)
		if err != nil {
			log.Debug().Err(err).Str("provider", l.name).Str("player_id", id).Msg("Player stat lookup failed")
			continue
		}
		line, ok, err := s.norm.NormalizePlayerStat(payload)
		if err != nil {
			log.Debug().Err(err).Str("provider", l.name).Str("player_id", id).Msg("Player stat payload not recognized")
			continue
		}
		if ok {
			return line, true
		}
	}
	return models.PlayerStatLine{}, false
}

// SkaterSummary reads season totals for every skater from the stats REST API
func (s *Source) SkaterSummary() cascade.Provider[models.PlayerSeasonStat] {
	return cascade.Func[models.PlayerSeasonStat]{
		ProviderName: NameStatsREST,
		Fn: func(ctx context.Context) ([]models.PlayerSeasonStat, error) {
			payload, err := s.fetch.GetJSON(ctx, s.url(s.endpoints.StatsREST, "skater", "summary"), s.summaryParams())
			if err != nil {
				return nil, err
			}
			return s.norm.NormalizeSkaterSummary(payload)
		},
	}
}

// GoalieSummary reads goaltender totals from the stats REST API. The
// starter probability is each goalie's share of the team's starts.
func (s *Source) GoalieSummary() cascade.Provider[models.GoalieRow] {
	return cascade.Func[models.GoalieRow]{
		ProviderName: NameStatsREST,
		Fn: func(ctx context.Context) ([]models.GoalieRow, error) {
			payload, err := s.fetch.GetJSON(ctx, s.url(s.endpoints.StatsREST, "goalie", "summary"), s.summaryParams())
			if err != nil {
				return nil, err
			}
			rows, err := s.norm.NormalizeGoalieSummary(payload, s.now())
			if err != nil {
				return nil, errors.Wrapf(err, "goalie summary %s", s.season)
			}
			return rows, nil
		},
	}
}

func (s *Source) summaryParams() map[string]string {
	return map[string]string{
		"limit":      "-1",
		"cayenneExp": "seasonId=" + s.season + " and gameTypeId=2",
	}
}
