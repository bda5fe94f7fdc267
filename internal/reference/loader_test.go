package reference

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoad_FirstExistingCandidate(t *testing.T) {
	dir := t.TempDir()
	second := writeFile(t, dir, "second.csv", "arena_id,team\n1,BOS\n2,TOR\n")
	third := writeFile(t, dir, "third.csv", "arena_id\n9\n")

	tbl, used := Load([]string{filepath.Join(dir, "missing.csv"), second, third})
	assert.Equal(t, second, used)
	assert.Equal(t, []string{"arena_id", "team"}, tbl.Columns)
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, "TOR", tbl.Cell(1, "team"))
}

func TestLoad_SkipsDirectoriesAndEmptyFiles(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "rinks.csv")
	require.NoError(t, os.Mkdir(sub, 0o755))
	empty := writeFile(t, dir, "empty.csv", "")
	good := writeFile(t, dir, "good.csv", "team\nBOS\n")

	tbl, used := Load([]string{sub, empty, good})
	assert.Equal(t, good, used)
	assert.True(t, tbl.Has("team"))
}

func TestLoad_HeaderOnlyIsUsableButEmpty(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "goalies.csv", "player_id,goalie_name\n")

	tbl, used := Load([]string{p})
	assert.Equal(t, p, used)
	assert.True(t, tbl.Empty())
	assert.True(t, tbl.Has("goalie_name"))
}

func TestLoad_NothingFound(t *testing.T) {
	tbl, used := Load([]string{filepath.Join(t.TempDir(), "nope.csv")})
	assert.Empty(t, used)
	assert.True(t, tbl.Empty())
	assert.Empty(t, tbl.Columns)

	tbl, used = Load(nil)
	assert.Empty(t, used)
	assert.True(t, tbl.Empty())
}

func TestRead_RaggedRowsAndBOM(t *testing.T) {
	tbl, err := Read(strings.NewReader("\ufeffname, team ,points\nA,BOS\n\n,,\nB,TOR,3,extra\n"), ',')
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "team", "points"}, tbl.Columns)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "", tbl.Cell(0, "points"))
	assert.Equal(t, "3", tbl.Cell(1, "points"))
	assert.Equal(t, "", tbl.Cell(0, "absent"))
}

func TestRead_HeaderOrderAndDelimiter(t *testing.T) {
	tbl, err := Read(strings.NewReader("zeta;alpha;mid\n1;\"2\";3 \"x\"\n"), ';')
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, tbl.Columns)
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, "1", tbl.Cell(0, "zeta"))
	assert.Equal(t, "2", tbl.Cell(0, "alpha"))
	assert.Equal(t, `3 "x"`, tbl.Cell(0, "mid"))

	tbl, err = Read(strings.NewReader("b,a\n"), ',')
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, tbl.Columns)
	assert.Zero(t, tbl.Len())
}

func TestTableFirst(t *testing.T) {
	tbl := NewTable([]string{"points", "expected_points"}, nil)
	col, ok := tbl.First("proj_points_raw", "proj_points", "points", "expected_points")
	assert.True(t, ok)
	assert.Equal(t, "points", col)

	_, ok = tbl.First("nothing")
	assert.False(t, ok)
}

func TestRequireAny(t *testing.T) {
	alts := map[string][]string{
		"sv_pct":       {"sv_pct", "save_pct"},
		"starter_prob": {"starter_prob"},
	}
	tbl := NewTable([]string{"player_id", "save_pct"}, nil)

	require.NoError(t, RequireAny(tbl, alts, "player_id", "sv_pct"))

	err := RequireAny(tbl, alts, "player_id", "sv_pct", "starter_prob", "team")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchemaMismatch))
	assert.Contains(t, err.Error(), "starter_prob, team")
}
