package snapshot

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"

	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/metrics"
	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/models"
)

// Target names one snapshot: its file under the output directory and the
// table it is mirrored into
type Target struct {
	Name  string
	File  string
	Table string
}

// Snapshot targets
var (
	Players     = Target{Name: "players", File: "players.csv", Table: "players"}
	PlayerStats = Target{Name: "player_stats", File: "player_stats.csv", Table: "player_stats"}
	TeamStats   = Target{Name: "team_stats", File: "team_stats.csv", Table: "team_stats"}
	Goalies     = Target{Name: "goalies", File: "goalie_matrix_today.csv", Table: "goalie_matrix"}
	Injuries    = Target{Name: "injuries", File: "injury_flags.csv", Table: "injury_flags"}
	Rinks       = Target{Name: "rinks", File: "rinks_used.csv", Table: "rinks_used"}
	Projections = Target{Name: "projections", File: "projections.csv", Table: "projections"}
)

// Mirror receives a copy of every written snapshot
type Mirror interface {
	Replace(ctx context.Context, table string, columns []string, rows [][]any) error
}

// Writer writes snapshots into one output directory
type Writer struct {
	dir    string
	mirror Mirror
}

// NewWriter creates a writer for dir. mirror may be nil.
func NewWriter(dir string, mirror Mirror) *Writer {
	return &Writer{dir: dir, mirror: mirror}
}

// Dir returns the output directory
func (w *Writer) Dir() string {
	return w.dir
}

// Path returns the file path of target
func (w *Writer) Path(target Target) string {
	return filepath.Join(w.dir, target.File)
}

// Save dedups rows, writes them to target's file and mirrors them. Only a
// failed file write is returned; mirror failures are logged.
func Save[T Row](ctx context.Context, w *Writer, target Target, rows []T) (int, error) {
	rows = Dedup(rows)
	path := w.Path(target)

	if err := WriteCSV(path, rows); err != nil {
		metrics.RecordSnapshot(target.Name, "error", 0)
		return 0, err
	}
	metrics.RecordSnapshot(target.Name, "success", len(rows))

	log.Info().
		Str("snapshot", target.Name).
		Str("path", path).
		Int("rows", len(rows)).
		Msg("Snapshot written")

	if w.mirror != nil {
		var zero T
		values := make([][]any, 0, len(rows))
		for _, r := range rows {
			values = append(values, r.Values())
		}
		if err := w.mirror.Replace(ctx, target.Table, models.Columns(zero), values); err != nil {
			metrics.RecordError("mirror", target.Table)
			log.Warn().Err(err).Str("table", target.Table).Msg("Snapshot mirror failed")
		}
	}

	return len(rows), nil
}

// WriteCSV writes rows with a header derived from T's csv tags, so an empty
// slice still produces the full header. The file is written to a temporary
// sibling, synced and renamed over path; readers never see a partial file.
func WriteCSV[T any](path string, rows []T) (err error) {
	if rows == nil {
		rows = []T{}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create output directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrapf(err, "create temp file for %s", path)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = gocsv.Marshal(&rows, tmp); err != nil {
		return errors.Wrapf(err, "encode %s", path)
	}
	if err = tmp.Sync(); err != nil {
		return errors.Wrapf(err, "sync %s", tmp.Name())
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrapf(err, "close %s", tmp.Name())
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return errors.Wrapf(err, "chmod %s", tmp.Name())
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "replace %s", path)
	}
	return nil
}
