package summary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/models"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestSummarize(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.csv"), "team,wins\nBOS,47\nTOR,46\n")
	writeFile(t, filepath.Join(dir, "a", "games.tsv"), "game_id\thome\taway\n1\tBOS\tTOR\n")
	writeFile(t, filepath.Join(dir, "a", "shots.csv"), "x,y\n")
	writeFile(t, filepath.Join(dir, "empty.csv"), "")
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	got, err := Summarize(dir)
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, FileSummary{File: "a/shots.csv", Rows: models.Int(0), Cols: models.Int(2), Columns: "x, y"}, got[0])
	assert.Equal(t, FileSummary{File: "b.csv", Rows: models.Int(2), Cols: models.Int(2), Columns: "team, wins"}, got[1])

	assert.Equal(t, "empty.csv", got[2].File)
	assert.False(t, got[2].Rows.Valid)
	assert.True(t, strings.HasPrefix(got[2].Columns, "ERROR: "))

	assert.Equal(t, FileSummary{File: "a/games.tsv", Rows: models.Int(1), Cols: models.Int(3), Columns: "game_id, home, away"}, got[3])
}

func TestSummarize_TruncatesColumns(t *testing.T) {
	dir := t.TempDir()
	cols := make([]string, 25)
	for i := range cols {
		cols[i] = fmt.Sprintf("c%d", i)
	}
	writeFile(t, filepath.Join(dir, "wide.csv"), strings.Join(cols, ",")+"\n")

	got, err := Summarize(dir)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.Int(25), got[0].Cols)
	assert.Equal(t, strings.Join(cols[:20], ", ")+"...", got[0].Columns)
}

func TestSummarize_MissingDir(t *testing.T) {
	_, err := Summarize(filepath.Join(t.TempDir(), "nope"))
	assert.True(t, errors.Is(err, ErrDataDirMissing))
}

func TestWrite(t *testing.T) {
	out := filepath.Join(t.TempDir(), "outputs", FileName)
	require.NoError(t, Write(out, []FileSummary{
		{File: "b.csv", Rows: models.Int(2), Cols: models.Int(2), Columns: "team, wins"},
		{File: "bad.csv", Columns: "ERROR: boom"},
	}))

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "file,rows,cols,columns\nb.csv,2,2,\"team, wins\"\nbad.csv,,,ERROR: boom\n", string(b))
}
