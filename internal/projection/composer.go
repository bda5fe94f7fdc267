package projection

import (
	"github.com/rs/zerolog/log"

	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/models"
	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/normalize"
	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/reference"
)

// Inputs are the tables a composition reads. Any of them may be empty.
type Inputs struct {
	Base     reference.Table
	Goalies  reference.Table
	Rinks    reference.Table
	Injuries reference.Table
}

// Summary counts composed rows and the rows each factor moved off neutral
type Summary struct {
	Rows           int
	GoalieAdjusted int
	RinkAdjusted   int
	InjuryAdjusted int
	// InjuryNameJoins counts rows whose player id missed the injury table
	// and matched on name and team instead
	InjuryNameJoins int
}

// Composer applies goalie, rink and injury factors to base projections
type Composer struct {
	norm *normalize.Normalizer
}

// NewComposer creates a composer resolving columns with n's rules
func NewComposer(n *normalize.Normalizer) *Composer {
	if n == nil {
		n = normalize.New(nil)
	}
	return &Composer{norm: n}
}

// Compose returns one projection row per base row, in base order:
//
//	proj_points_final = proj_points_raw × goalie × rink × injury
//
// Raw points default to 0.0 and each factor to 1.0, independently.
func (c *Composer) Compose(in Inputs) ([]models.ProjectionRow, Summary) {
	var sum Summary
	if in.Base.Empty() {
		return []models.ProjectionRow{}, sum
	}

	rules := c.norm.Rules()
	goalies := NewGoalieModel(in.Goalies, rules)
	rinks := NewRinkModel(in.Rinks, rules)
	injuries := NewInjuryModel(in.Injuries, rules)

	inputs := c.norm.ProjectionInputs(in.Base)
	out := make([]models.ProjectionRow, 0, len(inputs))
	for _, p := range inputs {
		row := models.ProjectionRow{
			PlayerID:      p.PlayerID,
			Name:          p.Name,
			Team:          p.Team,
			Opponent:      p.Opponent,
			Home:          p.Home,
			ProjPointsRaw: rawPoints(p.RawPoints),
			GoalieFactor:  goalies.Factor(p.Opponent),
			RinkFactor:    rinks.Factor(p.Team, p.Home),
		}
		var byName bool
		row.InjuryFactor, byName = injuries.Lookup(p.PlayerID, p.Name, p.Team)
		if byName {
			sum.InjuryNameJoins++
			log.Debug().
				Str("player_id", p.PlayerID).
				Str("name", p.Name).
				Str("team", p.Team).
				Msg("Injury matched by name after player id miss")
		}
		row.ProjPointsFinal = row.ProjPointsRaw * row.GoalieFactor * row.RinkFactor * row.InjuryFactor

		if row.GoalieFactor != Neutral {
			sum.GoalieAdjusted++
		}
		if row.RinkFactor != Neutral {
			sum.RinkAdjusted++
		}
		if row.InjuryFactor != Neutral {
			sum.InjuryAdjusted++
		}
		out = append(out, row)
	}
	sum.Rows = len(out)

	log.Info().
		Int("rows", sum.Rows).
		Int("goalie_adjusted", sum.GoalieAdjusted).
		Int("rink_adjusted", sum.RinkAdjusted).
		Int("injury_adjusted", sum.InjuryAdjusted).
		Int("injury_name_joins", sum.InjuryNameJoins).
		Float64("league_sv", goalies.LeagueSv).
		Msg("Projections composed")

	return out, sum
}

func rawPoints(cell string) float64 {
	v := normalize.FloatOf(cell)
	if !v.Valid {
		return 0
	}
	return v.Float64
}
