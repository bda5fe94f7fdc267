package models

// ProjectionRow is one player's final point projection with its factors
type ProjectionRow struct {
	PlayerID        string  `csv:"player_id" db:"player_id"`
	Name            string  `csv:"name" db:"name"`
	Team            string  `csv:"team" db:"team"`
	Opponent        string  `csv:"opponent" db:"opponent"`
	Home            bool    `csv:"home" db:"home"`
	ProjPointsRaw   float64 `csv:"proj_points_raw" db:"proj_points_raw"`
	GoalieFactor    float64 `csv:"goalie_factor" db:"goalie_factor"`
	RinkFactor      float64 `csv:"rink_factor" db:"rink_factor"`
	InjuryFactor    float64 `csv:"injury_factor" db:"injury_factor"`
	ProjPointsFinal float64 `csv:"proj_points_final" db:"proj_points_final"`
}

// SnapshotKey returns an empty key
func (p ProjectionRow) SnapshotKey() string { return "" }

// SnapshotUnkeyed marks projection rows as written in base order, undeduplicated
func (p ProjectionRow) SnapshotUnkeyed() {}

// SnapshotAsOf returns a null time
func (p ProjectionRow) SnapshotAsOf() NullTime { return NullTime{} }

// Values returns the column values in Columns order
func (p ProjectionRow) Values() []any {
	return []any{
		nullString(p.PlayerID), nullString(p.Name), nullString(p.Team), nullString(p.Opponent),
		p.Home, p.ProjPointsRaw, p.GoalieFactor, p.RinkFactor, p.InjuryFactor, p.ProjPointsFinal,
	}
}
