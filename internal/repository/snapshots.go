package repository

import (
	"context"
	"database/sql/driver"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/metrics"
	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/models"
)

// SnapshotRepository mirrors snapshot files into tables of the same shape.
// Every column is text and holds exactly what the CSV cell holds.
type SnapshotRepository struct {
	db *Database
}

// Replace swaps the whole contents of table for rows in one transaction,
// creating the table on first use
func (r *SnapshotRepository) Replace(ctx context.Context, table string, columns []string, rows [][]any) error {
	start := time.Now()
	err := r.replace(ctx, table, columns, rows)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordDBQuery("replace", table, status, time.Since(start).Seconds())
	if err != nil {
		return err
	}

	log.Debug().
		Str("table", table).
		Int("rows", len(rows)).
		Msg("Snapshot mirrored")
	return nil
}

func (r *SnapshotRepository) replace(ctx context.Context, table string, columns []string, rows [][]any) error {
	if len(columns) == 0 {
		return errors.Newf("snapshot table %s has no columns", table)
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, createTableSQL(table, columns)); err != nil {
		return errors.Wrapf(err, "failed to create table %s", table)
	}
	if _, err := tx.Exec(ctx, "DELETE FROM "+pgx.Identifier{table}.Sanitize()); err != nil {
		return errors.Wrapf(err, "failed to clear table %s", table)
	}

	text := make([][]any, len(rows))
	for i, row := range rows {
		text[i] = textRow(row)
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(text)); err != nil {
		return errors.Wrapf(err, "failed to copy rows into %s", table)
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// Count returns the number of rows in a mirrored table
func (r *SnapshotRepository) Count(ctx context.Context, table string) (int, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx, "SELECT count(*) FROM "+pgx.Identifier{table}.Sanitize()).Scan(&n)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to count %s", table)
	}
	return n, nil
}

func createTableSQL(table string, columns []string) string {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = pgx.Identifier{c}.Sanitize() + " text"
	}
	return "CREATE TABLE IF NOT EXISTS " + pgx.Identifier{table}.Sanitize() +
		" (" + strings.Join(defs, ", ") + ")"
}

func textRow(row []any) []any {
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = textValue(v)
	}
	return out
}

// textValue renders v the way the snapshot file does; null stays nil
func textValue(v any) any {
	if dv, ok := v.(driver.Valuer); ok {
		val, err := dv.Value()
		if err != nil {
			return nil
		}
		v = val
	}

	switch x := v.(type) {
	case nil:
		return nil
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.UTC().Format(models.AsOfLayout)
	case []byte:
		return string(x)
	default:
		return nil
	}
}
