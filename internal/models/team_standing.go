package models

// TeamStanding is one team's league record from the team-stats snapshot
type TeamStanding struct {
	Team         string  `csv:"team" db:"team"`
	Wins         NullInt `csv:"wins" db:"wins"`
	Losses       NullInt `csv:"losses" db:"losses"`
	OT           NullInt `csv:"ot" db:"ot"`
	GoalsFor     NullInt `csv:"goals_for" db:"goals_for"`
	GoalsAgainst NullInt `csv:"goals_against" db:"goals_against"`
}

// SnapshotKey returns the team abbreviation
func (t TeamStanding) SnapshotKey() string { return t.Team }

// SnapshotAsOf returns a null time; standings carry no capture timestamp
func (t TeamStanding) SnapshotAsOf() NullTime { return NullTime{} }

// Values returns the column values in Columns order
func (t TeamStanding) Values() []any {
	return []any{
		t.Team,
		t.Wins.Any(),
		t.Losses.Any(),
		t.OT.Any(),
		t.GoalsFor.Any(),
		t.GoalsAgainst.Any(),
	}
}
