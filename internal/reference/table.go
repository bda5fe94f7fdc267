package reference

import (
	"strings"
)

// Table is a header plus string cells, as read from a reference CSV.
// Cells are never interpreted here; coercion happens in the normalizer.
type Table struct {
	Columns []string
	Rows    [][]string

	index map[string]int
}

// NewTable builds a table, trimming header names. Short rows are padded so
// every row has one cell per column.
func NewTable(columns []string, rows [][]string) Table {
	t := Table{
		Columns: make([]string, len(columns)),
		Rows:    make([][]string, 0, len(rows)),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		c = strings.TrimSpace(strings.TrimPrefix(c, "\ufeff"))
		t.Columns[i] = c
		if _, dup := t.index[c]; !dup {
			t.index[c] = i
		}
	}
	for _, r := range rows {
		if len(r) < len(columns) {
			padded := make([]string, len(columns))
			copy(padded, r)
			r = padded
		}
		t.Rows = append(t.Rows, r)
	}
	return t
}

// Has reports whether the table carries column col
func (t Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// First returns the first of cols present in the table
func (t Table) First(cols ...string) (string, bool) {
	for _, c := range cols {
		if t.Has(c) {
			return c, true
		}
	}
	return "", false
}

// Empty reports whether the table has no data rows
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// Len returns the number of data rows
func (t Table) Len() int {
	return len(t.Rows)
}

// Cell returns the trimmed value of col in row i, or "" when the column is absent
func (t Table) Cell(i int, col string) string {
	idx, ok := t.index[col]
	if !ok || i < 0 || i >= len(t.Rows) || idx >= len(t.Rows[i]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[i][idx])
}
