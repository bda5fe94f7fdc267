// Package summary describes the raw data files committed under the data
// directory: their row and column counts and leading column names.
package summary

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"

	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/models"
	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/reference"
	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/snapshot"
)

// FileName is the summary written under the output directory
const FileName = "nhl_file_summary.csv"

const maxColumns = 20

// ErrDataDirMissing is returned when the data directory does not exist
var ErrDataDirMissing = errors.New("data directory not found")

// FileSummary is one row of the summary
type FileSummary struct {
	File    string         `csv:"file"`
	Rows    models.NullInt `csv:"rows"`
	Cols    models.NullInt `csv:"cols"`
	Columns string         `csv:"columns"`
}

// Summarize reads every .csv then every .tsv file below dir, each group in
// path order. A file that cannot be read is reported in its Columns cell.
func Summarize(dir string) ([]FileSummary, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, errors.Wrapf(ErrDataDirMissing, "%s", dir)
	}

	var csvs, tsvs []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".csv":
			csvs = append(csvs, path)
		case ".tsv":
			tsvs = append(tsvs, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walk %s", dir)
	}
	sort.Strings(csvs)
	sort.Strings(tsvs)

	out := make([]FileSummary, 0, len(csvs)+len(tsvs))
	for _, p := range csvs {
		out = append(out, summarize(dir, p, ','))
	}
	for _, p := range tsvs {
		out = append(out, summarize(dir, p, '\t'))
	}

	log.Info().
		Str("dir", dir).
		Int("csv", len(csvs)).
		Int("tsv", len(tsvs)).
		Msg("Data files summarized")
	return out, nil
}

// Write writes the summary to path
func Write(path string, rows []FileSummary) error {
	return snapshot.WriteCSV(path, rows)
}

func summarize(dir, path string, comma rune) FileSummary {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		rel = path
	}
	s := FileSummary{File: filepath.ToSlash(rel)}

	t, err := readTable(path, comma)
	if err != nil {
		log.Warn().Err(err).Str("file", s.File).Msg("Failed to read data file")
		s.Columns = "ERROR: " + err.Error()
		return s
	}

	s.Rows = models.Int(int64(t.Len()))
	s.Cols = models.Int(int64(len(t.Columns)))
	s.Columns = columnList(t.Columns)
	return s
}

func readTable(path string, comma rune) (reference.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return reference.Table{}, err
	}
	defer f.Close()

	t, err := reference.Read(f, comma)
	if err != nil {
		return reference.Table{}, err
	}
	if len(t.Columns) == 0 {
		return reference.Table{}, errors.New("no columns to parse from file")
	}
	return t, nil
}

func columnList(cols []string) string {
	if len(cols) <= maxColumns {
		return strings.Join(cols, ", ")
	}
	return strings.Join(cols[:maxColumns], ", ") + "..."
}
