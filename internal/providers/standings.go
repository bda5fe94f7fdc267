package providers

import (
	"context"

	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/cascade"
	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/models"
)

// StatsAPIStandings reads league records from statsapi
func (s *Source) StatsAPIStandings() cascade.Provider[models.TeamStanding] {
	return s.standings(NameStatsAPI, s.url(s.endpoints.StatsAPI, "standings"))
}

// APIWebStandings reads today's standings from api-web
func (s *Source) APIWebStandings() cascade.Provider[models.TeamStanding] {
	return s.standings(NameAPIWeb, s.url(s.endpoints.APIWeb, "standings", "now"))
}

// ESPNStandings reads standings from ESPN
func (s *Source) ESPNStandings() cascade.Provider[models.TeamStanding] {
	return s.standings(NameESPN, s.url(s.endpoints.ESPNStandings, "standings"))
}

func (s *Source) standings(name, url string) cascade.Provider[models.TeamStanding] {
	return cascade.Func[models.TeamStanding]{
		ProviderName: name,
		Fn: func(ctx context.Context) ([]models.TeamStanding, error) {
			payload, err := s.fetch.GetJSON(ctx, url, nil)
			if err != nil {
				return nil, err
			}
			return s.norm.NormalizeStandings(payload)
		},
	}
}
