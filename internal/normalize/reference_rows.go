package normalize

import (
	"strings"

	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/models"
	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/reference"
)

// Required canonical fields per reference dataset
var (
	GoalieRequired = []string{FieldPlayerID, FieldGoalieName, FieldTeam, FieldSvPct, FieldStarterProb}
	InjuryRequired = []string{FieldPlayerID, FieldPlayerName, FieldTeam, FieldStatus}
	RinkRequired   = []string{FieldArenaID, FieldTeam, FieldArenaName, FieldRinkBias}
)

// columns resolves each field to its column in t once, so every row reads
// the same source column
type columns struct {
	t    reference.Table
	cols map[string]string
}

func (n *Normalizer) columns(t reference.Table, fields ...string) columns {
	c := columns{t: t, cols: make(map[string]string, len(fields))}
	for _, f := range fields {
		if col, ok := n.rules.Column(t, f); ok {
			c.cols[f] = col
		}
	}
	return c
}

func (c columns) get(i int, field string) string {
	col, ok := c.cols[field]
	if !ok {
		return ""
	}
	return c.t.Cell(i, col)
}

// GoalieRows normalizes a goalie reference table. sv_pct and sv_pct_ev are
// rescaled and clamped, starter_prob is clamped with null as 0.
func (n *Normalizer) GoalieRows(t reference.Table) ([]models.GoalieRow, error) {
	if err := n.rules.Require(t, GoalieRequired...); err != nil {
		return nil, err
	}

	c := n.columns(t, FieldPlayerID, FieldGoalieName, FieldTeam, FieldSvPct, FieldStarterProb,
		FieldSvPctEV, FieldGSAx, FieldTOIRolling, FieldInjuryStatus, FieldAsOf)

	out := make([]models.GoalieRow, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		out = append(out, models.GoalieRow{
			PlayerID:          c.get(i, FieldPlayerID),
			GoalieName:        c.get(i, FieldGoalieName),
			Team:              c.get(i, FieldTeam),
			SvPct:             NormalizeSavePct(FloatOf(c.get(i, FieldSvPct))),
			StarterProb:       models.Float(ClampProb(FloatOf(c.get(i, FieldStarterProb)))),
			SvPctEV:           NormalizeSavePct(FloatOf(c.get(i, FieldSvPctEV))),
			GSAx:              FloatOf(c.get(i, FieldGSAx)),
			TOIMinutesRolling: FloatOf(c.get(i, FieldTOIRolling)),
			InjuryStatus:      c.get(i, FieldInjuryStatus),
			AsOf:              ParseAsOf(c.get(i, FieldAsOf)),
		})
	}
	return out, nil
}

// InjuryRows normalizes an injury reference table
func (n *Normalizer) InjuryRows(t reference.Table, source string) ([]models.InjuryRow, error) {
	if err := n.rules.Require(t, InjuryRequired...); err != nil {
		return nil, err
	}

	c := n.columns(t, FieldPlayerID, FieldPlayerName, FieldTeam, FieldStatus,
		FieldDetail, FieldSource, FieldAsOf)

	out := make([]models.InjuryRow, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		raw := c.get(i, FieldStatus)
		out = append(out, models.InjuryRow{
			PlayerID:   c.get(i, FieldPlayerID),
			PlayerName: c.get(i, FieldPlayerName),
			Team:       c.get(i, FieldTeam),
			Status:     NormalizeInjuryStatus(raw),
			StatusRaw:  raw,
			Detail:     c.get(i, FieldDetail),
			Source:     firstNonBlank(c.get(i, FieldSource), source),
			AsOf:       ParseAsOf(c.get(i, FieldAsOf)),
		})
	}
	return out, nil
}

// RinkRows normalizes a rinks reference table; the scoring bias is clamped
func (n *Normalizer) RinkRows(t reference.Table) ([]models.RinkRow, error) {
	if err := n.rules.Require(t, RinkRequired...); err != nil {
		return nil, err
	}

	c := n.columns(t, FieldArenaID, FieldTeam, FieldArenaName, FieldRinkBias,
		FieldShotBiasX, FieldShotBiasY, FieldNotes, FieldAsOf)

	out := make([]models.RinkRow, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		out = append(out, models.RinkRow{
			ArenaID:             c.get(i, FieldArenaID),
			Team:                c.get(i, FieldTeam),
			ArenaName:           c.get(i, FieldArenaName),
			HomeRinkScoringBias: ClampRinkBias(FloatOf(c.get(i, FieldRinkBias))),
			ShotCoordBiasX:      FloatOf(c.get(i, FieldShotBiasX)),
			ShotCoordBiasY:      FloatOf(c.get(i, FieldShotBiasY)),
			Notes:               c.get(i, FieldNotes),
			AsOf:                ParseAsOf(c.get(i, FieldAsOf)),
		})
	}
	return out, nil
}

// PlayerRows reads a players table back into Player rows, dropping rows
// without an id
func (n *Normalizer) PlayerRows(t reference.Table) []models.Player {
	c := n.columns(t, FieldPlayerID, FieldName, FieldTeam, FieldPosition)

	out := make([]models.Player, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		id := strings.TrimSpace(c.get(i, FieldPlayerID))
		if id == "" {
			continue
		}
		out = append(out, models.Player{
			PlayerID: id,
			Name:     c.get(i, FieldName),
			Team:     c.get(i, FieldTeam),
			Position: c.get(i, FieldPosition),
		})
	}
	return out
}

// ProjectionInput is one base projection row before factors are applied
type ProjectionInput struct {
	PlayerID string
	Name     string
	Team     string
	Opponent string
	Home     bool

	// RawPoints is the unparsed raw points cell; empty when no column resolved
	RawPoints string
}

// ProjectionInputs reads the base projections table. The raw points column
// is the first present of the proj_points_raw alternatives.
func (n *Normalizer) ProjectionInputs(t reference.Table) []ProjectionInput {
	c := n.columns(t, FieldPlayerID, FieldName, FieldTeam, FieldOpponent, FieldHome, FieldProjPointsRaw)

	out := make([]ProjectionInput, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		out = append(out, ProjectionInput{
			PlayerID:  c.get(i, FieldPlayerID),
			Name:      c.get(i, FieldName),
			Team:      c.get(i, FieldTeam),
			Opponent:  c.get(i, FieldOpponent),
			Home:      BoolOf(c.get(i, FieldHome)),
			RawPoints: c.get(i, FieldProjPointsRaw),
		})
	}
	return out
}

// NormalizeID trims an identifier and drops a ".0" suffix ("8478402.0")
// left behind by spreadsheet round-trips
func NormalizeID(s string) string {
	return strings.TrimSuffix(strings.TrimSpace(s), ".0")
}
