package snapshot

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/models"
)

func goalie(id, team string, sv float64, asof models.NullTime) models.GoalieRow {
	return models.GoalieRow{PlayerID: id, GoalieName: "G" + id, Team: team, SvPct: models.Float(sv), StarterProb: models.Float(0.5), AsOf: asof}
}

func day(d int) models.NullTime {
	return models.Time(time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC))
}

func TestDedup_LatestAsOfWins(t *testing.T) {
	rows := []models.GoalieRow{
		goalie("10", "BOS", 0.910, day(2)),
		goalie("2", "TOR", 0.900, day(1)),
		goalie("10", "BOS", 0.920, day(5)),
		goalie("10", "BOS", 0.930, day(3)),
	}

	out := Dedup(rows)
	require.Len(t, out, 2)
	assert.Equal(t, "2", out[0].PlayerID)
	assert.Equal(t, "10", out[1].PlayerID)
	assert.Equal(t, 0.920, out[1].SvPct.Float64)
}

func TestDedup_NullAsOfLoses(t *testing.T) {
	rows := []models.GoalieRow{
		goalie("1", "BOS", 0.920, day(1)),
		goalie("1", "BOS", 0.900, models.NullTime{}),
	}

	out := Dedup(rows)
	require.Len(t, out, 1)
	assert.Equal(t, 0.920, out[0].SvPct.Float64)
}

func TestDedup_TieKeepsLaterRow(t *testing.T) {
	rows := []models.GoalieRow{
		goalie("1", "BOS", 0.900, models.NullTime{}),
		goalie("1", "BOS", 0.910, models.NullTime{}),
	}

	out := Dedup(rows)
	require.Len(t, out, 1)
	assert.Equal(t, 0.910, out[0].SvPct.Float64)
}

func TestDedup_KeyOrder(t *testing.T) {
	rows := []models.Player{
		{PlayerID: "100"}, {PlayerID: "9"}, {PlayerID: "abc"}, {PlayerID: ""}, {PlayerID: "07"}, {PlayerID: "7"},
	}

	out := Dedup(rows)
	ids := make([]string, 0, len(out))
	for _, p := range out {
		ids = append(ids, p.PlayerID)
	}
	assert.Equal(t, []string{"07", "7", "9", "100", "abc", ""}, ids)
}

func TestDedup_MixedKeysOneRowEach(t *testing.T) {
	ids := []string{"2", "10", "1a", "3", "20", "2b", "100", "1", ""}
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 200; trial++ {
		rows := make([]models.RinkRow, 30)
		want := map[string]bool{}
		for i := range rows {
			id := ids[rng.Intn(len(ids))]
			rows[i] = models.RinkRow{ArenaID: id, AsOf: day(1 + rng.Intn(28))}
			want[id] = true
		}

		out := Dedup(rows)
		require.Len(t, out, len(want), "trial %d", trial)

		seen := map[string]bool{}
		for i, r := range out {
			assert.False(t, seen[r.ArenaID], "trial %d: %q written twice", trial, r.ArenaID)
			seen[r.ArenaID] = true
			if i > 0 {
				assert.Negative(t, compareKeys(out[i-1].ArenaID, r.ArenaID), "trial %d: order", trial)
			}
			for _, in := range rows {
				if in.ArenaID == r.ArenaID {
					assert.False(t, r.AsOf.Before(in.AsOf), "trial %d: %q kept an older row", trial, r.ArenaID)
				}
			}
		}
	}
}

func TestDedup_BlankKeysCollapse(t *testing.T) {
	rows := []models.GoalieRow{
		goalie("", "BOS", 0.900, day(3)),
		goalie("", "TOR", 0.910, day(1)),
		goalie("", "NYR", 0.920, day(2)),
	}

	out := Dedup(rows)
	require.Len(t, out, 1)
	assert.Equal(t, "BOS", out[0].Team)
}

func TestDedup_ProjectionsKeepBaseOrder(t *testing.T) {
	rows := []models.ProjectionRow{{Name: "B"}, {Name: "A"}, {Name: "B"}}
	assert.Equal(t, rows, Dedup(rows))
}

func TestCompareKeys(t *testing.T) {
	assert.Negative(t, compareKeys("2", "10"))
	assert.Negative(t, compareKeys("10", "1a"))
	assert.Negative(t, compareKeys("2", "1a"))
	assert.Negative(t, compareKeys("07", "7"))
	assert.Negative(t, compareKeys("abc", ""))
	assert.Zero(t, compareKeys("7", "7"))
}

func TestDedup_Empty(t *testing.T) {
	assert.Empty(t, Dedup([]models.Player(nil)))
}

func TestWriteCSV_HeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "goalie_matrix_today.csv")

	require.NoError(t, WriteCSV[models.GoalieRow](path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"player_id,goalie_name,team,sv_pct,starter_prob,sv_pct_ev,gsa_x,toi_minutes_rolling14,injury_status,asof\n",
		string(data))
}

func TestWriteCSV_NullCellsAndFormatting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "team_stats.csv")
	rows := []models.TeamStanding{
		{Team: "BOS", Wins: models.Int(47), Losses: models.Int(20), OT: models.Int(15), GoalsFor: models.Int(267), GoalsAgainst: models.Int(224)},
		{Team: "TOR", Wins: models.Int(46)},
	}

	require.NoError(t, WriteCSV(path, rows))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "team,wins,losses,ot,goals_for,goals_against\nBOS,47,20,15,267,224\nTOR,46,,,,\n", string(data))
}

func TestWriteCSV_Idempotent(t *testing.T) {
	dir := t.TempDir()
	rows := []models.GoalieRow{
		goalie("2", "TOR", 0.905, day(1)),
		goalie("1", "BOS", 0.914, models.NullTime{}),
	}

	first := filepath.Join(dir, "a.csv")
	second := filepath.Join(dir, "b.csv")
	require.NoError(t, WriteCSV(first, Dedup(rows)))
	require.NoError(t, WriteCSV(second, Dedup(rows)))
	// Overwriting in place gives the same bytes again.
	require.NoError(t, WriteCSV(second, Dedup(rows)))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temp files left behind")
}

type recordingMirror struct {
	table   string
	columns []string
	rows    [][]any
	err     error
}

func (m *recordingMirror) Replace(_ context.Context, table string, columns []string, rows [][]any) error {
	m.table, m.columns, m.rows = table, columns, rows
	return m.err
}

func TestSave(t *testing.T) {
	mirror := &recordingMirror{}
	w := NewWriter(t.TempDir(), mirror)

	n, err := Save(context.Background(), w, Players, []models.Player{
		{PlayerID: "2", Name: "B", Team: "TOR", Position: "C"},
		{PlayerID: "1", Name: "A", Team: "BOS"},
		{PlayerID: "2", Name: "B2", Team: "TOR", Position: "C"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := os.ReadFile(w.Path(Players))
	require.NoError(t, err)
	assert.Equal(t, "player_id,name,team,position\n1,A,BOS,\n2,B2,TOR,C\n", string(data))

	assert.Equal(t, "players", mirror.table)
	assert.Equal(t, []string{"player_id", "name", "team", "position"}, mirror.columns)
	require.Len(t, mirror.rows, 2)
	assert.Nil(t, mirror.rows[0][3])
}

func TestSave_MirrorFailureIsNotFatal(t *testing.T) {
	w := NewWriter(t.TempDir(), &recordingMirror{err: errors.New("connection refused")})

	n, err := Save(context.Background(), w, Rinks, []models.RinkRow{})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = os.Stat(w.Path(Rinks))
	assert.NoError(t, err)
}

func TestSave_UnwritableDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	w := NewWriter(blocker, nil)
	_, err := Save(context.Background(), w, Players, []models.Player{{PlayerID: "1"}})
	assert.Error(t, err)
}
