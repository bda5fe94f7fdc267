package normalize

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/models"
)

// StatShape identifies a player statistics payload structure
type StatShape int

const (
	StatUnknown StatShape = iota
	// StatSplits is stats[0].splits[0].stat
	StatSplits
	// StatLanding is a player landing page with nested totals
	StatLanding
	// StatSummary is data[] bulk rows from the stats REST API
	StatSummary
)

func (s StatShape) String() string {
	switch s {
	case StatSplits:
		return "splits"
	case StatLanding:
		return "landing"
	case StatSummary:
		return "summary"
	}
	return "unknown"
}

// landingTotalsPaths are tried in order; the first non-empty wins
var landingTotalsPaths = [][]string{
	{"seasonTotals"},
	{"skaterStats", "regularSeason", "seasonTotals"},
	{"careerTotals", "regularSeason"},
}

// DetectStatShape inspects a decoded payload
func DetectStatShape(payload any) StatShape {
	m := asMap(payload)
	if m == nil {
		return StatUnknown
	}
	if _, ok := m["stats"].([]any); ok {
		return StatSplits
	}
	if _, ok := m["data"].([]any); ok {
		return StatSummary
	}
	for _, p := range landingTotalsPaths {
		if hasKey(m, p[0]) {
			return StatLanding
		}
	}
	if hasKey(m, "playerId") || hasKey(m, "featuredStats") {
		return StatLanding
	}
	return StatUnknown
}

// NormalizePlayerStat extracts one player's season line from a per-player
// payload. ok is false when the payload is recognized but carries no stats.
func (n *Normalizer) NormalizePlayerStat(payload any) (line models.PlayerStatLine, ok bool, err error) {
	var totals map[string]any

	switch DetectStatShape(payload) {
	case StatSplits:
		first := asMap(firstOf(asMap(payload)["stats"]))
		split := asMap(firstOf(first["splits"]))
		totals = asMap(split["stat"])
	case StatLanding:
		totals = landingTotals(asMap(payload))
	case StatSummary:
		return line, false, errors.Wrap(ErrUnknownShape, "bulk summary is not a per-player payload")
	default:
		return line, false, errors.Wrap(ErrUnknownShape, "player stats")
	}

	if len(totals) == 0 {
		return line, false, nil
	}
	line = n.statLine(totals)
	return line, !line.Empty(), nil
}

// NormalizeSkaterSummary maps the bulk skater summary into season stats
func (n *Normalizer) NormalizeSkaterSummary(payload any) ([]models.PlayerSeasonStat, error) {
	if DetectStatShape(payload) != StatSummary {
		return nil, errors.Wrap(ErrUnknownShape, "skater summary")
	}

	var out []models.PlayerSeasonStat
	for _, r := range asSlice(asMap(payload)["data"]) {
		rm := asMap(r)
		p := models.Player{
			PlayerID: StringOf(n.rules.Value(rm, FieldPlayerID)),
			Name:     n.personName(rm),
			Team:     lastTeam(StringOf(n.rules.Value(rm, FieldTeam))),
		}
		if p.PlayerID == "" {
			continue
		}
		line := n.statLine(rm)
		out = append(out, line.ToPlayerSeasonStat(p))
	}
	return out, nil
}

// NormalizeGoalieSummary maps the bulk goalie summary into goalie rows.
// starter_prob is each goalie's share of the team's games started.
func (n *Normalizer) NormalizeGoalieSummary(payload any, asof time.Time) ([]models.GoalieRow, error) {
	if DetectStatShape(payload) != StatSummary {
		return nil, errors.Wrap(ErrUnknownShape, "goalie summary")
	}

	type entry struct {
		row     models.GoalieRow
		started float64
	}

	var entries []entry
	teamStarts := map[string]float64{}
	for _, r := range asSlice(asMap(payload)["data"]) {
		rm := asMap(r)
		row := models.GoalieRow{
			PlayerID:   StringOf(n.rules.Value(rm, FieldPlayerID)),
			GoalieName: StringOf(n.rules.Value(rm, FieldGoalieName)),
			Team:       lastTeam(StringOf(n.rules.Value(rm, FieldTeam))),
			SvPct:      NormalizeSavePct(FloatOf(n.rules.Value(rm, FieldSvPct))),
			AsOf:       models.Time(asof),
		}
		if row.PlayerID == "" {
			continue
		}
		started, _ := ToFloat(n.rules.Value(rm, FieldGamesStarted))
		teamStarts[row.Team] += started
		entries = append(entries, entry{row: row, started: started})
	}

	out := make([]models.GoalieRow, 0, len(entries))
	for _, e := range entries {
		prob := models.NullFloat{}
		if total := teamStarts[e.row.Team]; total > 0 {
			prob = models.Float(e.started / total)
		}
		e.row.StarterProb = models.Float(ClampProb(prob))
		out = append(out, e.row)
	}
	return out, nil
}

func (n *Normalizer) statLine(m map[string]any) models.PlayerStatLine {
	return models.PlayerStatLine{
		GamesPlayed:    IntOf(n.rules.Value(m, FieldGamesPlayed)),
		Goals:          IntOf(n.rules.Value(m, FieldGoals)),
		Assists:        IntOf(n.rules.Value(m, FieldAssists)),
		Points:         IntOf(n.rules.Value(m, FieldPoints)),
		Shots:          IntOf(n.rules.Value(m, FieldShots)),
		PlusMinus:      IntOf(n.rules.Value(m, FieldPlusMinus)),
		PenaltyMinutes: IntOf(n.rules.Value(m, FieldPenaltyMinutes)),
		TimeOnIce:      StringOf(n.rules.Value(m, FieldTimeOnIce)),
	}
}

// landingTotals resolves the first non-empty totals path. A list takes its
// last element, and an element wrapping "stat" is unwrapped.
func landingTotals(m map[string]any) map[string]any {
	var totals any
	for _, p := range landingTotalsPaths {
		if v := dig(m, p...); nonEmpty(v) {
			totals = v
			break
		}
	}

	if list, ok := totals.([]any); ok {
		totals = list[len(list)-1]
		if tm := asMap(totals); tm != nil && hasKey(tm, "stat") {
			totals = tm["stat"]
		}
	}
	return asMap(totals)
}

// lastTeam picks the current club from "TOR,NYR" style multi-team values
func lastTeam(s string) string {
	if i := strings.LastIndex(s, ","); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}

func firstOf(v any) any {
	s := asSlice(v)
	if len(s) == 0 {
		return nil
	}
	return s[0]
}
