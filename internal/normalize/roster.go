package normalize

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/models"
)

// RosterShape identifies a roster payload structure
type RosterShape int

const (
	RosterUnknown RosterShape = iota
	// RosterStatsAPI is teams[].roster.roster[] with person/position objects
	RosterStatsAPI
	// RosterGrouped is forwards/defensemen/goalies lists with localized names
	RosterGrouped
	// RosterAthletes is a team object plus athletes[], optionally grouped in items[]
	RosterAthletes
)

func (s RosterShape) String() string {
	switch s {
	case RosterStatsAPI:
		return "statsapi"
	case RosterGrouped:
		return "grouped"
	case RosterAthletes:
		return "athletes"
	}
	return "unknown"
}

var rosterGroups = []string{"forwards", "defensemen", "goalies"}

// DetectRosterShape inspects a decoded payload
func DetectRosterShape(payload any) RosterShape {
	m := asMap(payload)
	if m == nil {
		return RosterUnknown
	}
	if _, ok := m["teams"].([]any); ok {
		return RosterStatsAPI
	}
	for _, g := range rosterGroups {
		if _, ok := m[g].([]any); ok {
			return RosterGrouped
		}
	}
	if _, ok := m["athletes"].([]any); ok {
		return RosterAthletes
	}
	return RosterUnknown
}

// NormalizeRoster maps any known roster payload to players. team labels
// players when the payload itself does not name the team.
func (n *Normalizer) NormalizeRoster(payload any, team string) ([]models.Player, error) {
	switch shape := DetectRosterShape(payload); shape {
	case RosterStatsAPI:
		return n.rosterStatsAPI(asMap(payload)), nil
	case RosterGrouped:
		return n.rosterGrouped(asMap(payload), team), nil
	case RosterAthletes:
		return n.rosterAthletes(asMap(payload), team), nil
	default:
		return nil, errors.Wrap(ErrUnknownShape, "roster")
	}
}

func (n *Normalizer) rosterStatsAPI(m map[string]any) []models.Player {
	var out []models.Player
	for _, t := range asSlice(m["teams"]) {
		tm := asMap(t)
		abbr := StringOf(tm["abbreviation"])
		if abbr == "" {
			abbr = StringOf(tm["name"])
		}
		for _, entry := range asSlice(dig(tm, "roster", "roster")) {
			em := asMap(entry)
			person := asMap(em["person"])
			p := models.Player{
				PlayerID: StringOf(n.rules.Value(person, FieldPlayerID)),
				Name:     StringOf(n.rules.Value(person, FieldName)),
				Team:     abbr,
				Position: positionOf(em["position"]),
			}
			if p.PlayerID == "" {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}

func (n *Normalizer) rosterGrouped(m map[string]any, team string) []models.Player {
	var out []models.Player
	for _, g := range rosterGroups {
		for _, entry := range asSlice(m[g]) {
			em := asMap(entry)
			if em == nil {
				continue
			}
			p := models.Player{
				PlayerID: StringOf(n.rules.Value(em, FieldPlayerID)),
				Name:     n.personName(em),
				Team:     firstNonBlank(StringOf(n.rules.Value(em, FieldTeam)), team),
				Position: positionOf(n.rules.Value(em, FieldPosition)),
			}
			if p.PlayerID == "" {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}

func (n *Normalizer) rosterAthletes(m map[string]any, team string) []models.Player {
	tm := asMap(m["team"])
	abbr := firstNonBlank(StringOf(tm["abbreviation"]), team)

	var out []models.Player
	add := func(entry any) {
		em := asMap(entry)
		if a := asMap(em["athlete"]); a != nil {
			em = a
		}
		if em == nil {
			return
		}
		p := models.Player{
			PlayerID: StringOf(n.rules.Value(em, FieldPlayerID)),
			Name:     n.personName(em),
			Team:     abbr,
			Position: positionOf(em["position"]),
		}
		if p.PlayerID == "" {
			return
		}
		out = append(out, p)
	}

	for _, a := range asSlice(m["athletes"]) {
		am := asMap(a)
		if items, ok := am["items"].([]any); ok {
			for _, it := range items {
				add(it)
			}
			continue
		}
		add(a)
	}
	return out
}

// personName prefers a full name, then first + last
func (n *Normalizer) personName(m map[string]any) string {
	if name := StringOf(n.rules.Value(m, FieldName)); name != "" {
		return name
	}
	first := StringOf(n.rules.Value(m, FieldFirstName))
	last := StringOf(n.rules.Value(m, FieldLastName))
	return strings.TrimSpace(first + " " + last)
}

// positionOf accepts "C", {"abbreviation": "C"} or {"code": "C"}
func positionOf(v any) string {
	if pm := asMap(v); pm != nil {
		for _, k := range []string{"abbreviation", "code", "type"} {
			if s := StringOf(pm[k]); s != "" {
				return s
			}
		}
		return ""
	}
	return StringOf(v)
}

func firstNonBlank(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
