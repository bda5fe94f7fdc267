package normalize

import (
	"os"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/reference"
)

// Rules maps a canonical field to the ordered source names it may appear
// under. The first name present wins.
type Rules map[string][]string

// Canonical field names
const (
	FieldPlayerID       = "player_id"
	FieldName           = "name"
	FieldFirstName      = "first_name"
	FieldLastName       = "last_name"
	FieldTeam           = "team"
	FieldPosition       = "position"
	FieldGamesPlayed    = "games_played"
	FieldGoals          = "goals"
	FieldAssists        = "assists"
	FieldPoints         = "points"
	FieldShots          = "shots"
	FieldPlusMinus      = "plus_minus"
	FieldPenaltyMinutes = "penalty_minutes"
	FieldTimeOnIce      = "time_on_ice"
	FieldWins           = "wins"
	FieldLosses         = "losses"
	FieldOT             = "ot"
	FieldGoalsFor       = "goals_for"
	FieldGoalsAgainst   = "goals_against"
	FieldGoalieName     = "goalie_name"
	FieldSvPct          = "sv_pct"
	FieldSvPctEV        = "sv_pct_ev"
	FieldStarterProb    = "starter_prob"
	FieldGSAx           = "gsa_x"
	FieldTOIRolling     = "toi_minutes_rolling14"
	FieldInjuryStatus   = "injury_status"
	FieldGamesStarted   = "games_started"
	FieldPlayerName     = "player_name"
	FieldStatus         = "status"
	FieldDetail         = "detail"
	FieldSource         = "source"
	FieldAsOf           = "asof"
	FieldArenaID        = "arena_id"
	FieldArenaName      = "arena_name"
	FieldRinkBias       = "home_rink_scoring_bias"
	FieldShotBiasX      = "shot_coord_bias_x"
	FieldShotBiasY      = "shot_coord_bias_y"
	FieldNotes          = "notes"
	FieldOpponent       = "opponent"
	FieldHome           = "home"
	FieldProjPointsRaw  = "proj_points_raw"
)

// DefaultRules returns the built-in resolution table
func DefaultRules() Rules {
	return Rules{
		FieldPlayerID:       {"player_id", "playerId", "id", "nhl_id"},
		FieldName:           {"name", "fullName", "full_name", "player_name", "skaterFullName", "displayName"},
		FieldFirstName:      {"firstName", "first_name"},
		FieldLastName:       {"lastName", "last_name"},
		FieldTeam:           {"team", "abbreviation", "teamAbbrev", "team_abbrev", "triCode", "teamAbbrevs"},
		FieldPosition:       {"position", "positionCode", "pos"},
		FieldGamesPlayed:    {"games_played", "gamesPlayed", "games", "gp"},
		FieldGoals:          {"goals"},
		FieldAssists:        {"assists"},
		FieldPoints:         {"points"},
		FieldShots:          {"shots", "shotsOnGoal"},
		FieldPlusMinus:      {"plus_minus", "plusMinus"},
		FieldPenaltyMinutes: {"penalty_minutes", "pim", "penaltyMinutes"},
		FieldTimeOnIce:      {"time_on_ice", "timeOnIce", "timeOnIcePerGame", "avgToi"},
		FieldWins:           {"wins", "w"},
		FieldLosses:         {"losses", "l"},
		FieldOT:             {"ot", "otLosses", "ot_losses", "overtimeLosses"},
		FieldGoalsFor:       {"goals_for", "goalsScored", "goalFor", "goalsFor", "gf", "pointsFor"},
		FieldGoalsAgainst:   {"goals_against", "goalsAgainst", "goalAgainst", "ga", "pointsAgainst"},
		FieldGoalieName:     {"goalie_name", "goalieFullName", "goalie", "name", "player_name"},
		FieldSvPct:          {"sv_pct", "savePct", "save_pct", "savePctg", "svpct"},
		FieldSvPctEV:        {"sv_pct_ev", "evSavePct", "ev_sv_pct"},
		FieldStarterProb:    {"starter_prob", "start_prob", "starter_probability"},
		FieldGSAx:           {"gsa_x", "gsax"},
		FieldTOIRolling:     {"toi_minutes_rolling14", "toi_rolling14"},
		FieldInjuryStatus:   {"injury_status"},
		FieldGamesStarted:   {"games_started", "gamesStarted", "gs"},
		FieldPlayerName:     {"player_name", "name", "displayName", "fullName"},
		FieldStatus:         {"status", "injury_status", "designation"},
		FieldDetail:         {"detail", "details", "shortComment", "injury", "description"},
		FieldSource:         {"source"},
		FieldAsOf:           {"asof", "as_of", "date", "updated_at", "last_updated"},
		FieldArenaID:        {"arena_id", "arenaId", "venue_id", "rink_id"},
		FieldArenaName:      {"arena_name", "arena", "venue", "rink"},
		FieldRinkBias:       {"home_rink_scoring_bias", "rink_bias", "scoring_bias"},
		FieldShotBiasX:      {"shot_coord_bias_x"},
		FieldShotBiasY:      {"shot_coord_bias_y"},
		FieldNotes:          {"notes", "note"},
		FieldOpponent:       {"opponent", "opp", "opponent_team"},
		FieldHome:           {"home", "is_home"},
		FieldProjPointsRaw:  {"proj_points_raw", "proj_points", "points", "expected_points"},
	}
}

// LoadRules reads a JSON object of field -> names from path and overlays it
// on the defaults. Fields in the file replace the default list entirely.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read normalizer rules %s", path)
	}

	var overlay map[string][]string
	if err := sonic.Unmarshal(data, &overlay); err != nil {
		return nil, errors.Wrapf(err, "parse normalizer rules %s", path)
	}

	for field, names := range overlay {
		if len(names) == 0 {
			continue
		}
		rules[field] = names
	}
	return rules, nil
}

// Names returns the alternatives for field, or the field itself when the
// table has no entry
func (r Rules) Names(field string) []string {
	if names, ok := r[field]; ok && len(names) > 0 {
		return names
	}
	return []string{field}
}

// Value returns the first non-null value among field's alternatives in obj
func (r Rules) Value(obj map[string]any, field string) any {
	if obj == nil {
		return nil
	}
	for _, name := range r.Names(field) {
		if v, ok := obj[name]; ok && v != nil {
			return v
		}
	}
	return nil
}

// Column returns the first of field's alternatives present as a column in t
func (r Rules) Column(t reference.Table, field string) (string, bool) {
	return t.First(r.Names(field)...)
}

// Require reports reference.ErrSchemaMismatch when any field has no column in t
func (r Rules) Require(t reference.Table, fields ...string) error {
	return reference.RequireAny(t, r, fields...)
}
