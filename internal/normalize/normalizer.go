package normalize

import (
	"github.com/cockroachdb/errors"
)

// ErrUnknownShape is returned when a payload matches none of the known
// provider structures for an entity
var ErrUnknownShape = errors.New("unknown payload shape")

// Normalizer maps provider payloads and reference tables onto canonical rows
type Normalizer struct {
	rules Rules
}

// New creates a normalizer using rules; nil selects DefaultRules
func New(rules Rules) *Normalizer {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Normalizer{rules: rules}
}

// Rules returns the resolution table in use
func (n *Normalizer) Rules() Rules {
	return n.rules
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

// dig walks nested objects by key and returns nil when any step is missing
func dig(v any, keys ...string) any {
	cur := v
	for _, k := range keys {
		m := asMap(cur)
		if m == nil {
			return nil
		}
		next, ok := m[k]
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

// nonEmpty reports whether a JSON value carries data
func nonEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case map[string]any:
		return len(x) > 0
	case []any:
		return len(x) > 0
	case string:
		return x != ""
	case bool:
		return x
	case float64:
		return x != 0
	}
	return true
}

func hasKey(m map[string]any, key string) bool {
	_, ok := m[key]
	return ok
}
