package normalize

import (
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/models"
	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/reference"
)

func table(t *testing.T, csv string) reference.Table {
	t.Helper()
	tbl, err := reference.Read(strings.NewReader(csv), ',')
	require.NoError(t, err)
	return tbl
}

func TestGoalieRows(t *testing.T) {
	n := New(nil)
	tbl := table(t, `player_id,goalie_name,team,sv_pct,starter_prob,sv_pct_ev,gsa_x,asof,extra
8480280,Jeremy Swayman,BOS,91.4,0.6,0.925,12.5,2024-03-01,x
8471695,Linus Ullmark,BOS,0.914,,,,,
8479361,Joseph Woll,TOR,bad,1.4,,,not-a-date,
`)

	rows, err := n.GoalieRows(tbl)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "8480280", rows[0].PlayerID)
	assert.InDelta(t, 0.914, rows[0].SvPct.Float64, 1e-9)
	assert.Equal(t, 0.6, rows[0].StarterProb.Float64)
	assert.InDelta(t, 0.925, rows[0].SvPctEV.Float64, 1e-9)
	assert.Equal(t, models.Float(12.5), rows[0].GSAx)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), rows[0].AsOf.Time)

	assert.InDelta(t, 0.914, rows[1].SvPct.Float64, 1e-9)
	assert.True(t, rows[1].StarterProb.Valid)
	assert.Equal(t, 0.0, rows[1].StarterProb.Float64)
	assert.False(t, rows[1].SvPctEV.Valid)
	assert.False(t, rows[1].AsOf.Valid)

	assert.False(t, rows[2].SvPct.Valid)
	assert.Equal(t, 1.0, rows[2].StarterProb.Float64)
	assert.False(t, rows[2].AsOf.Valid)
}

func TestGoalieRows_MissingRequiredColumns(t *testing.T) {
	n := New(nil)
	rows, err := n.GoalieRows(table(t, "player_id,goalie_name,team,sv_pct\n1,A,BOS,0.91\n"))
	assert.Nil(t, rows)
	require.Error(t, err)
	assert.True(t, errors.Is(err, reference.ErrSchemaMismatch))
}

func TestInjuryRows(t *testing.T) {
	n := New(nil)
	tbl := table(t, `player_id,player_name,team,status,detail,asof
1,A,BOS,IR,knee,2024-01-01T00:00:00Z
2,B,BOS,Day-to-day,,
3,C,TOR,questionable,,
`)

	rows, err := n.InjuryRows(tbl, "reference")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, models.StatusOut, rows[0].Status)
	assert.Equal(t, "IR", rows[0].StatusRaw)
	assert.Equal(t, "knee", rows[0].Detail)
	assert.Equal(t, "reference", rows[0].Source)
	assert.Equal(t, models.StatusDTD, rows[1].Status)
	assert.Equal(t, models.StatusActive, rows[2].Status)

	_, err = n.InjuryRows(table(t, "player_id,team\n1,BOS\n"), "reference")
	assert.True(t, errors.Is(err, reference.ErrSchemaMismatch))
}

func TestRinkRows(t *testing.T) {
	n := New(nil)
	tbl := table(t, `arena_id,team,arena_name,home_rink_scoring_bias,shot_coord_bias_x,notes
1,BOS,TD Garden,1.05,0.5,
2,TOR,Scotiabank Arena,1.9,,tall
3,NYR,MSG,,,
`)

	rows, err := n.RinkRows(tbl)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, models.Float(1.05), rows[0].HomeRinkScoringBias)
	assert.Equal(t, models.Float(0.5), rows[0].ShotCoordBiasX)
	assert.Equal(t, models.Float(1.3), rows[1].HomeRinkScoringBias)
	assert.Equal(t, "tall", rows[1].Notes)
	assert.False(t, rows[2].HomeRinkScoringBias.Valid)
}

func TestProjectionInputs(t *testing.T) {
	n := New(nil)
	tbl := table(t, `player_id,name,team,opponent,home,points,expected_points
8478402.0,David Pastrnak,BOS,TOR,True,1.2,9
,Someone,TOR,BOS,False,,
`)

	in := n.ProjectionInputs(tbl)
	require.Len(t, in, 2)
	assert.Equal(t, ProjectionInput{
		PlayerID: "8478402.0", Name: "David Pastrnak", Team: "BOS", Opponent: "TOR", Home: true, RawPoints: "1.2",
	}, in[0])
	assert.False(t, in[1].Home)
	assert.Equal(t, "", in[1].RawPoints)

	assert.Equal(t, "8478402", NormalizeID(" 8478402.0 "))
	assert.Equal(t, "8478402", NormalizeID("8478402"))
}

func TestPlayerRows(t *testing.T) {
	n := New(nil)
	rows := n.PlayerRows(table(t, `player_id,name,team,position
8478402,David Pastrnak,BOS,R
,Nobody,TOR,C
8479318,Auston Matthews,TOR,
`))

	require.Len(t, rows, 2)
	assert.Equal(t, models.Player{PlayerID: "8478402", Name: "David Pastrnak", Team: "BOS", Position: "R"}, rows[0])
	assert.Equal(t, "8479318", rows[1].PlayerID)

	assert.Empty(t, n.PlayerRows(reference.Table{}))
}
