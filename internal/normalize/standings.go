package normalize

import (
	"github.com/cockroachdb/errors"

	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/models"
)

// StandingsShape identifies a standings payload structure
type StandingsShape int

const (
	StandingsUnknown StandingsShape = iota
	// StandingsRecords is records[].teamRecords[] with a leagueRecord object
	StandingsRecords
	// StandingsFlat is standings[] with flattened per-team fields
	StandingsFlat
	// StandingsStatEntries is entries[] of team plus name/value stats
	StandingsStatEntries
)

func (s StandingsShape) String() string {
	switch s {
	case StandingsRecords:
		return "records"
	case StandingsFlat:
		return "flat"
	case StandingsStatEntries:
		return "stat-entries"
	}
	return "unknown"
}

// DetectStandingsShape inspects a decoded payload
func DetectStandingsShape(payload any) StandingsShape {
	m := asMap(payload)
	if m == nil {
		return StandingsUnknown
	}
	if _, ok := m["records"].([]any); ok {
		return StandingsRecords
	}
	if _, ok := m["standings"].([]any); ok {
		return StandingsFlat
	}
	if _, ok := m["children"].([]any); ok {
		return StandingsStatEntries
	}
	if _, ok := dig(m, "standings", "entries").([]any); ok {
		return StandingsStatEntries
	}
	return StandingsUnknown
}

// NormalizeStandings maps any known standings payload to team records
func (n *Normalizer) NormalizeStandings(payload any) ([]models.TeamStanding, error) {
	switch DetectStandingsShape(payload) {
	case StandingsRecords:
		return n.standingsRecords(asMap(payload)), nil
	case StandingsFlat:
		return n.standingsFlat(asMap(payload)), nil
	case StandingsStatEntries:
		return n.standingsStatEntries(asMap(payload)), nil
	default:
		return nil, errors.Wrap(ErrUnknownShape, "standings")
	}
}

func (n *Normalizer) standingsRecords(m map[string]any) []models.TeamStanding {
	var out []models.TeamStanding
	for _, rec := range asSlice(m["records"]) {
		for _, tr := range asSlice(asMap(rec)["teamRecords"]) {
			trm := asMap(tr)
			team := asMap(trm["team"])
			abbr := firstNonBlank(StringOf(team["abbreviation"]), StringOf(team["name"]))
			if abbr == "" {
				continue
			}
			lr := asMap(trm["leagueRecord"])
			out = append(out, models.TeamStanding{
				Team:         abbr,
				Wins:         IntOf(n.rules.Value(lr, FieldWins)),
				Losses:       IntOf(n.rules.Value(lr, FieldLosses)),
				OT:           IntOf(n.rules.Value(lr, FieldOT)),
				GoalsFor:     IntOf(n.rules.Value(trm, FieldGoalsFor)),
				GoalsAgainst: IntOf(n.rules.Value(trm, FieldGoalsAgainst)),
			})
		}
	}
	return out
}

func (n *Normalizer) standingsFlat(m map[string]any) []models.TeamStanding {
	var out []models.TeamStanding
	for _, s := range asSlice(m["standings"]) {
		sm := asMap(s)
		abbr := StringOf(n.rules.Value(sm, FieldTeam))
		if abbr == "" {
			abbr = StringOf(sm["teamName"])
		}
		if abbr == "" {
			continue
		}
		out = append(out, n.standingFrom(abbr, sm))
	}
	return out
}

func (n *Normalizer) standingsStatEntries(m map[string]any) []models.TeamStanding {
	var groups []any
	if children, ok := m["children"].([]any); ok {
		groups = children
	} else {
		groups = []any{m}
	}

	var out []models.TeamStanding
	for _, g := range groups {
		for _, e := range asSlice(dig(g, "standings", "entries")) {
			em := asMap(e)
			team := asMap(em["team"])
			abbr := firstNonBlank(StringOf(team["abbreviation"]), StringOf(team["displayName"]))
			if abbr == "" {
				continue
			}
			out = append(out, n.standingFrom(abbr, statEntries(em["stats"])))
		}
	}
	return out
}

func (n *Normalizer) standingFrom(team string, m map[string]any) models.TeamStanding {
	return models.TeamStanding{
		Team:         team,
		Wins:         IntOf(n.rules.Value(m, FieldWins)),
		Losses:       IntOf(n.rules.Value(m, FieldLosses)),
		OT:           IntOf(n.rules.Value(m, FieldOT)),
		GoalsFor:     IntOf(n.rules.Value(m, FieldGoalsFor)),
		GoalsAgainst: IntOf(n.rules.Value(m, FieldGoalsAgainst)),
	}
}

// statEntries flattens [{"name": "wins", "value": 50}, ...] into an object.
// Entries keyed by "type" or "abbreviation" are accepted when "name" is absent.
func statEntries(v any) map[string]any {
	out := map[string]any{}
	for _, s := range asSlice(v) {
		sm := asMap(s)
		key := firstNonBlank(StringOf(sm["name"]), StringOf(sm["type"]), StringOf(sm["abbreviation"]))
		if key == "" || hasKey(out, key) {
			continue
		}
		if val, ok := sm["value"]; ok {
			out[key] = val
		} else {
			out[key] = sm["displayValue"]
		}
	}
	return out
}
