package models

// Player is one rostered player from the players snapshot
type Player struct {
	PlayerID string `csv:"player_id" db:"player_id"`
	Name     string `csv:"name" db:"name"`
	Team     string `csv:"team" db:"team"`
	Position string `csv:"position" db:"position"`
}

// SnapshotKey returns the player id
func (p Player) SnapshotKey() string { return p.PlayerID }

// SnapshotAsOf returns a null time; rosters carry no capture timestamp
func (p Player) SnapshotAsOf() NullTime { return NullTime{} }

// Values returns the column values in Columns order
func (p Player) Values() []any {
	return []any{p.PlayerID, nullString(p.Name), nullString(p.Team), nullString(p.Position)}
}

// PlayerSeasonStat represents season-level totals for a single player
type PlayerSeasonStat struct {
	PlayerID string `csv:"player_id" db:"player_id"`
	Name     string `csv:"name" db:"name"`
	Team     string `csv:"team" db:"team"`

	GamesPlayed    NullInt `csv:"games_played" db:"games_played"`
	Goals          NullInt `csv:"goals" db:"goals"`
	Assists        NullInt `csv:"assists" db:"assists"`
	Points         NullInt `csv:"points" db:"points"`
	Shots          NullInt `csv:"shots" db:"shots"`
	PlusMinus      NullInt `csv:"plus_minus" db:"plus_minus"`
	PenaltyMinutes NullInt `csv:"penalty_minutes" db:"penalty_minutes"`

	// TimeOnIce is kept as the provider renders it ("1234:56" or seconds)
	TimeOnIce string `csv:"time_on_ice" db:"time_on_ice"`
}

// PlayerStatLine is the stat portion of a PlayerSeasonStat as returned by
// a per-player provider, before identity fields are attached
type PlayerStatLine struct {
	GamesPlayed    NullInt
	Goals          NullInt
	Assists        NullInt
	Points         NullInt
	Shots          NullInt
	PlusMinus      NullInt
	PenaltyMinutes NullInt
	TimeOnIce      string
}

// ToPlayerSeasonStat attaches player identity to a stat line
func (l *PlayerStatLine) ToPlayerSeasonStat(p Player) PlayerSeasonStat {
	return PlayerSeasonStat{
		PlayerID:       p.PlayerID,
		Name:           p.Name,
		Team:           p.Team,
		GamesPlayed:    l.GamesPlayed,
		Goals:          l.Goals,
		Assists:        l.Assists,
		Points:         l.Points,
		Shots:          l.Shots,
		PlusMinus:      l.PlusMinus,
		PenaltyMinutes: l.PenaltyMinutes,
		TimeOnIce:      l.TimeOnIce,
	}
}

// Empty reports whether no stat field was resolved
func (l *PlayerStatLine) Empty() bool {
	return !l.GamesPlayed.Valid && !l.Goals.Valid && !l.Assists.Valid && !l.Points.Valid &&
		!l.Shots.Valid && !l.PlusMinus.Valid && !l.PenaltyMinutes.Valid && l.TimeOnIce == ""
}

// SnapshotKey returns the player id
func (s PlayerSeasonStat) SnapshotKey() string { return s.PlayerID }

// SnapshotAsOf returns a null time; stat totals carry no capture timestamp
func (s PlayerSeasonStat) SnapshotAsOf() NullTime { return NullTime{} }

// Values returns the column values in Columns order
func (s PlayerSeasonStat) Values() []any {
	return []any{
		s.PlayerID, nullString(s.Name), nullString(s.Team),
		s.GamesPlayed.Any(), s.Goals.Any(), s.Assists.Any(), s.Points.Any(),
		s.Shots.Any(), s.PlusMinus.Any(), s.PenaltyMinutes.Any(),
		nullString(s.TimeOnIce),
	}
}
