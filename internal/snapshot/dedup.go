package snapshot

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/models"
)

// Row is a canonical snapshot row
type Row interface {
	SnapshotKey() string
	SnapshotAsOf() models.NullTime
	Values() []any
}

// Unkeyed is implemented by rows that have no entity key. They are written
// in input order and never deduplicated.
type Unkeyed interface {
	SnapshotUnkeyed()
}

// Dedup keeps one row per key: the row with the latest asof, where a null
// asof is older than any parsed timestamp and among equal asof values the
// later input row wins. A blank key is a key like any other, so blank-keyed
// rows collapse to one. Output is ordered by key.
func Dedup[T Row](rows []T) []T {
	if len(rows) == 0 {
		return rows
	}
	var zero T
	if _, ok := any(zero).(Unkeyed); ok {
		return rows
	}

	best := make(map[string]int, len(rows))
	for i, r := range rows {
		k := r.SnapshotKey()
		j, seen := best[k]
		if !seen || !r.SnapshotAsOf().Before(rows[j].SnapshotAsOf()) {
			best[k] = i
		}
	}

	keys := make([]string, 0, len(best))
	for k := range best {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return compareKeys(keys[i], keys[j]) < 0
	})

	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, rows[best[k]])
	}
	return out
}

// compareKeys is a total order: integer keys first by value (then by
// spelling, so "07" and "7" stay distinct), then other keys lexically, then
// the blank key.
func compareKeys(a, b string) int {
	if a == b {
		return 0
	}
	if a == "" || b == "" {
		if a == "" {
			return 1
		}
		return -1
	}

	ai, aErr := strconv.ParseInt(a, 10, 64)
	bi, bErr := strconv.ParseInt(b, 10, 64)
	switch {
	case aErr == nil && bErr == nil:
		if ai != bi {
			if ai < bi {
				return -1
			}
			return 1
		}
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	}
	return strings.Compare(a, b)
}
