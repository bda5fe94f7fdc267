package projection

import (
	"strings"

	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/models"
	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/normalize"
	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/reference"
)

// Goalie factor constants
const (
	LeagueSvFallback = 0.905
	OpponentSvMin    = 0.880
	OpponentSvMax    = 0.960

	defaultStarterProb = 0.5
	minStarterProbSum  = 0.01
)

// Neutral is the factor applied when nothing can be joined
const Neutral = 1.0

// Injury factors by normalized status
const (
	InjuryOutFactor     = 0.0
	InjuryLimitedFactor = 0.8
)

// GoalieModel holds the expected save percentage each team's net will post
type GoalieModel struct {
	TeamSv   map[string]float64
	LeagueSv float64
}

// NewGoalieModel builds team expected save percentages from a goalie matrix.
// Each team's value is its starter-probability weighted mean sv_pct; a null
// sv_pct counts as the league mean and a null starter_prob as 0. When a
// team's probabilities sum to at most 0.01 the plain mean is used. A table
// without a starter_prob column weights every goalie 0.5.
func NewGoalieModel(t reference.Table, rules normalize.Rules) GoalieModel {
	m := GoalieModel{TeamSv: map[string]float64{}, LeagueSv: LeagueSvFallback}

	teamCol, hasTeam := rules.Column(t, normalize.FieldTeam)
	svCol, hasSv := rules.Column(t, normalize.FieldSvPct)
	if t.Empty() || !hasTeam || !hasSv {
		return m
	}
	probCol, hasProb := rules.Column(t, normalize.FieldStarterProb)

	type goalie struct {
		sv   models.NullFloat
		prob float64
	}
	byTeam := map[string][]goalie{}
	var order []string

	var svSum float64
	var svCount int
	for i := 0; i < t.Len(); i++ {
		g := goalie{sv: normalize.NormalizeSavePct(normalize.FloatOf(t.Cell(i, svCol))), prob: defaultStarterProb}
		if hasProb {
			g.prob = normalize.ClampProb(normalize.FloatOf(t.Cell(i, probCol)))
		}
		if g.sv.Valid {
			svSum += g.sv.Float64
			svCount++
		}

		// teamless goalies count toward the league mean only
		team := t.Cell(i, teamCol)
		if team == "" {
			continue
		}

		if _, seen := byTeam[team]; !seen {
			order = append(order, team)
		}
		byTeam[team] = append(byTeam[team], g)
	}

	if svCount > 0 {
		m.LeagueSv = svSum / float64(svCount)
	}

	for _, team := range order {
		goalies := byTeam[team]

		var weighted, probSum, plain float64
		for _, g := range goalies {
			sv := m.LeagueSv
			if g.sv.Valid {
				sv = g.sv.Float64
			}
			weighted += g.prob * sv
			probSum += g.prob
			plain += sv
		}

		if probSum <= minStarterProbSum {
			m.TeamSv[team] = plain / float64(len(goalies))
			continue
		}
		m.TeamSv[team] = weighted / probSum
	}
	return m
}

// Factor returns league_sv / clamp(opponent_sv, 0.880, 0.960), or 1.0 when
// the opponent is unknown
func (m GoalieModel) Factor(opponent string) float64 {
	sv, ok := m.TeamSv[strings.TrimSpace(opponent)]
	if !ok {
		return Neutral
	}
	denom := clamp(sv, OpponentSvMin, OpponentSvMax)
	return m.LeagueSv / denom
}

// RinkModel maps a home team to its rink scoring bias
type RinkModel struct {
	bias map[string]models.NullFloat
}

// NewRinkModel indexes the first rinks row of each team
func NewRinkModel(t reference.Table, rules normalize.Rules) RinkModel {
	m := RinkModel{bias: map[string]models.NullFloat{}}

	teamCol, hasTeam := rules.Column(t, normalize.FieldTeam)
	biasCol, hasBias := rules.Column(t, normalize.FieldRinkBias)
	if !hasTeam {
		return m
	}

	for i := 0; i < t.Len(); i++ {
		team := t.Cell(i, teamCol)
		if _, seen := m.bias[team]; seen || team == "" {
			continue
		}
		var v models.NullFloat
		if hasBias {
			v = normalize.FloatOf(t.Cell(i, biasCol))
		}
		if v.Valid && v.Float64 <= 0 {
			v = models.NullFloat{}
		}
		m.bias[team] = normalize.ClampRinkBias(v)
	}
	return m
}

// Factor returns the home team's rink bias for home rows. Away rows, teams
// without a rinks row and non-positive biases get 1.0.
func (m RinkModel) Factor(team string, home bool) float64 {
	if !home {
		return Neutral
	}
	v, ok := m.bias[strings.TrimSpace(team)]
	if !ok || !v.Valid {
		return Neutral
	}
	return v.Float64
}

// InjuryModel maps players to an availability factor
type InjuryModel struct {
	byID   map[string]float64
	byName map[string]float64
}

// NewInjuryModel indexes injury flags by player id (when the table carries
// one) and by lowercase "name|team". Later rows override earlier ones.
func NewInjuryModel(t reference.Table, rules normalize.Rules) InjuryModel {
	m := InjuryModel{byID: map[string]float64{}, byName: map[string]float64{}}

	statusCol, hasStatus := rules.Column(t, normalize.FieldStatus)
	idCol, hasID := rules.Column(t, normalize.FieldPlayerID)
	nameCol, hasName := rules.Column(t, normalize.FieldPlayerName)
	teamCol, hasTeam := rules.Column(t, normalize.FieldTeam)

	for i := 0; i < t.Len(); i++ {
		var status string
		if hasStatus {
			status = t.Cell(i, statusCol)
		}
		f := InjuryFactor(status)

		if hasID {
			if id := normalize.NormalizeID(t.Cell(i, idCol)); id != "" {
				m.byID[id] = f
			}
		}

		var name, team string
		if hasName {
			name = t.Cell(i, nameCol)
		}
		if hasTeam {
			team = t.Cell(i, teamCol)
		}
		if name != "" {
			m.byName[nameKey(name, team)] = f
		}
	}
	return m
}

// Factor looks the player up by id first, then by name and team
func (m InjuryModel) Factor(playerID, name, team string) float64 {
	f, _ := m.Lookup(playerID, name, team)
	return f
}

// Lookup is Factor that also reports whether a player with an id was matched
// by name and team instead
func (m InjuryModel) Lookup(playerID, name, team string) (f float64, byNameFallback bool) {
	id := normalize.NormalizeID(playerID)
	if id != "" {
		if f, ok := m.byID[id]; ok {
			return f, false
		}
	}
	if name == "" {
		return Neutral, false
	}
	if f, ok := m.byName[nameKey(name, team)]; ok {
		return f, id != "" && len(m.byID) > 0
	}
	return Neutral, false
}

// InjuryFactor maps an injury status to 0.0 (out), 0.8 (dtd, probable) or
// 1.0 (everything else)
func InjuryFactor(status string) float64 {
	switch normalize.NormalizeInjuryStatus(status) {
	case models.StatusOut:
		return InjuryOutFactor
	case models.StatusDTD, models.StatusProbable:
		return InjuryLimitedFactor
	default:
		return Neutral
	}
}

func nameKey(name, team string) string {
	return strings.ToLower(strings.TrimSpace(name) + "|" + strings.TrimSpace(team))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
