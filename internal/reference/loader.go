package reference

import (
	"encoding/csv"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
)

// ErrSchemaMismatch is returned when a reference table lacks a required field
var ErrSchemaMismatch = errors.New("reference schema mismatch")

// Load returns the first candidate that exists, is a regular file, parses as
// CSV and has at least one column, along with its path. When no candidate
// qualifies it returns an empty table and an empty path; callers treat that
// as "no data available".
func Load(candidates []string) (Table, string) {
	for _, path := range candidates {
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		t, err := ReadFile(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Reference candidate unreadable, trying next")
			continue
		}
		if len(t.Columns) == 0 {
			log.Debug().Str("path", path).Msg("Reference candidate has no columns, trying next")
			continue
		}

		log.Info().
			Str("path", path).
			Int("rows", t.Len()).
			Int("cols", len(t.Columns)).
			Msg("Reference table loaded")
		return t, path
	}

	return Table{}, ""
}

// ReadFile parses a CSV file into a Table
func ReadFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	return Read(f, ',')
}

// Read parses delimited text into a Table. An empty input yields a table
// with no columns. Columns keep their header order.
func Read(r io.Reader, comma rune) (Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	dec := gocsv.NewSimpleDecoderFromCSVReader(cr)

	header, err := dec.GetCSVRow()
	if errors.Is(err, io.EOF) {
		return Table{}, nil
	}
	if err != nil {
		return Table{}, errors.Wrap(err, "read header")
	}
	if len(header) == 1 && strings.TrimSpace(header[0]) == "" {
		return Table{}, nil
	}

	rows, err := dec.GetCSVRows()
	if err != nil {
		return Table{}, errors.Wrap(err, "read rows")
	}

	kept := rows[:0]
	for _, r := range rows {
		if isBlank(r) {
			continue
		}
		kept = append(kept, r)
	}

	return NewTable(header, kept), nil
}

// RequireAny checks that every field resolves to a column through its
// ordered alternatives, and reports the fields that do not.
func RequireAny(t Table, alternatives map[string][]string, fields ...string) error {
	var missing []string
	for _, f := range fields {
		names := alternatives[f]
		if len(names) == 0 {
			names = []string{f}
		}
		if _, ok := t.First(names...); !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return errors.Mark(
		errors.Newf("missing required columns: %s", strings.Join(missing, ", ")),
		ErrSchemaMismatch,
	)
}

func isBlank(r []string) bool {
	for _, c := range r {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
