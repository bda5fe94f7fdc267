package providers

import (
	"context"
	"strings"

	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/cascade"
	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/models"
)

// StatsAPIRosters reads every roster from the statsapi teams endpoint
func (s *Source) StatsAPIRosters() cascade.Provider[models.Player] {
	return cascade.Func[models.Player]{
		ProviderName: NameStatsAPI,
		Fn: func(ctx context.Context) ([]models.Player, error) {
			payload, err := s.fetch.GetJSON(ctx, s.url(s.endpoints.StatsAPI, "teams"), map[string]string{"expand": "team.roster"})
			if err != nil {
				return nil, err
			}
			return s.norm.NormalizeRoster(payload, "")
		},
	}
}

// APIWebRosters reads the current roster of each team from api-web
func (s *Source) APIWebRosters() cascade.Provider[models.Player] {
	return cascade.Func[models.Player]{
		ProviderName: NameAPIWeb,
		Fn: func(ctx context.Context) ([]models.Player, error) {
			return perTeam(ctx, s, NameAPIWeb, func(ctx context.Context, team string) ([]models.Player, error) {
				payload, err := s.fetch.GetJSON(ctx, s.url(s.endpoints.APIWeb, "roster", strings.ToUpper(team), "current"), nil)
				if err != nil {
					return nil, err
				}
				return s.norm.NormalizeRoster(payload, team)
			})
		},
	}
}

// ESPNRosters reads each team's roster from ESPN. Players are labelled with
// the league abbreviation, not ESPN's.
func (s *Source) ESPNRosters() cascade.Provider[models.Player] {
	return cascade.Func[models.Player]{
		ProviderName: NameESPN,
		Fn: func(ctx context.Context) ([]models.Player, error) {
			return perTeam(ctx, s, NameESPN, func(ctx context.Context, team string) ([]models.Player, error) {
				payload, err := s.fetch.GetJSON(ctx, s.url(s.endpoints.ESPNSite, "teams", espnTeam(team), "roster"), nil)
				if err != nil {
					return nil, err
				}
				players, err := s.norm.NormalizeRoster(payload, team)
				if err != nil {
					return nil, err
				}
				for i := range players {
					players[i].Team = strings.ToUpper(team)
				}
				return players, nil
			})
		},
	}
}
