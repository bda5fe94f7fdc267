package providers

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/cascade"
	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/models"
	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/reference"
)

// ReferenceGoalies reads the first existing goalie reference file
func (s *Source) ReferenceGoalies(candidates []string) cascade.Provider[models.GoalieRow] {
	return referenceProvider(candidates, s.norm.GoalieRows)
}

// ReferenceInjuries reads the first existing injury reference file
func (s *Source) ReferenceInjuries(candidates []string) cascade.Provider[models.InjuryRow] {
	return referenceProvider(candidates, func(t reference.Table) ([]models.InjuryRow, error) {
		return s.norm.InjuryRows(t, "reference")
	})
}

// ReferenceRinks reads the first existing rinks reference file
func (s *Source) ReferenceRinks(candidates []string) cascade.Provider[models.RinkRow] {
	return referenceProvider(candidates, s.norm.RinkRows)
}

// referenceProvider yields no rows when no candidate exists and an
// ErrSchemaMismatch when the file lacks required columns
func referenceProvider[T any](candidates []string, rows func(reference.Table) ([]T, error)) cascade.Provider[T] {
	return cascade.Func[T]{
		ProviderName: NameReference,
		Fn: func(_ context.Context) ([]T, error) {
			t, path := reference.Load(candidates)
			if path == "" {
				log.Info().Strs("candidates", candidates).Msg("No reference file found")
				return nil, nil
			}
			log.Info().Str("path", path).Int("rows", t.Len()).Msg("Reference file loaded")
			return rows(t)
		},
	}
}

// ESPNInjuries reads the league-wide injury report from ESPN
func (s *Source) ESPNInjuries() cascade.Provider[models.InjuryRow] {
	return cascade.Func[models.InjuryRow]{
		ProviderName: NameESPN,
		Fn: func(ctx context.Context) ([]models.InjuryRow, error) {
			payload, err := s.fetch.GetJSON(ctx, s.url(s.endpoints.ESPNSite, "injuries"), nil)
			if err != nil {
				return nil, err
			}
			return s.norm.NormalizeInjuryFeed(payload, NameESPN, s.now())
		},
	}
}
