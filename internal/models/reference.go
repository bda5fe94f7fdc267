package models

// GoalieRow is one goaltender in the goalie matrix snapshot
type GoalieRow struct {
	PlayerID    string    `csv:"player_id" db:"player_id"`
	GoalieName  string    `csv:"goalie_name" db:"goalie_name"`
	Team        string    `csv:"team" db:"team"`
	SvPct       NullFloat `csv:"sv_pct" db:"sv_pct"`
	StarterProb NullFloat `csv:"starter_prob" db:"starter_prob"`

	SvPctEV           NullFloat `csv:"sv_pct_ev" db:"sv_pct_ev"`
	GSAx              NullFloat `csv:"gsa_x" db:"gsa_x"`
	TOIMinutesRolling NullFloat `csv:"toi_minutes_rolling14" db:"toi_minutes_rolling14"`
	InjuryStatus      string    `csv:"injury_status" db:"injury_status"`
	AsOf              NullTime  `csv:"asof" db:"asof"`
}

// SnapshotKey returns the goalie's player id
func (g GoalieRow) SnapshotKey() string { return g.PlayerID }

// SnapshotAsOf returns the capture timestamp
func (g GoalieRow) SnapshotAsOf() NullTime { return g.AsOf }

// Values returns the column values in Columns order
func (g GoalieRow) Values() []any {
	return []any{
		g.PlayerID, nullString(g.GoalieName), nullString(g.Team),
		g.SvPct.Any(), g.StarterProb.Any(), g.SvPctEV.Any(), g.GSAx.Any(),
		g.TOIMinutesRolling.Any(), nullString(g.InjuryStatus), g.AsOf.Any(),
	}
}

// Injury statuses after normalization
const (
	StatusOut      = "out"
	StatusDTD      = "dtd"
	StatusProbable = "probable"
	StatusActive   = "active"
)

// InjuryRow is one player's availability flag
type InjuryRow struct {
	PlayerID   string `csv:"player_id" db:"player_id"`
	PlayerName string `csv:"player_name" db:"player_name"`
	Team       string `csv:"team" db:"team"`

	// Status is always one of the Status* constants
	Status    string   `csv:"status" db:"status"`
	StatusRaw string   `csv:"status_raw" db:"status_raw"`
	Detail    string   `csv:"detail" db:"detail"`
	Source    string   `csv:"source" db:"source"`
	AsOf      NullTime `csv:"asof" db:"asof"`
}

// SnapshotKey returns the player id
func (i InjuryRow) SnapshotKey() string { return i.PlayerID }

// SnapshotAsOf returns the capture timestamp
func (i InjuryRow) SnapshotAsOf() NullTime { return i.AsOf }

// Values returns the column values in Columns order
func (i InjuryRow) Values() []any {
	return []any{
		i.PlayerID, nullString(i.PlayerName), nullString(i.Team), i.Status,
		nullString(i.StatusRaw), nullString(i.Detail), nullString(i.Source), i.AsOf.Any(),
	}
}

// RinkRow is one arena and its home scoring bias
type RinkRow struct {
	ArenaID             string    `csv:"arena_id" db:"arena_id"`
	Team                string    `csv:"team" db:"team"`
	ArenaName           string    `csv:"arena_name" db:"arena_name"`
	HomeRinkScoringBias NullFloat `csv:"home_rink_scoring_bias" db:"home_rink_scoring_bias"`
	ShotCoordBiasX      NullFloat `csv:"shot_coord_bias_x" db:"shot_coord_bias_x"`
	ShotCoordBiasY      NullFloat `csv:"shot_coord_bias_y" db:"shot_coord_bias_y"`
	Notes               string    `csv:"notes" db:"notes"`
	AsOf                NullTime  `csv:"asof" db:"asof"`
}

// SnapshotKey returns the arena id
func (r RinkRow) SnapshotKey() string { return r.ArenaID }

// SnapshotAsOf returns the capture timestamp
func (r RinkRow) SnapshotAsOf() NullTime { return r.AsOf }

// Values returns the column values in Columns order
func (r RinkRow) Values() []any {
	return []any{
		r.ArenaID, nullString(r.Team), nullString(r.ArenaName),
		r.HomeRinkScoringBias.Any(), r.ShotCoordBiasX.Any(), r.ShotCoordBiasY.Any(),
		nullString(r.Notes), r.AsOf.Any(),
	}
}
