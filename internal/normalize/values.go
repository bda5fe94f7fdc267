package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/models"
)

// Bounds applied to normalized values
const (
	SvPctMin     = 0.80
	SvPctMax     = 0.97
	RinkBiasMin  = 0.7
	RinkBiasMax  = 1.3
	svPctPercent = 1.5
)

// unwrap follows {"default": v} localized-string objects
func unwrap(v any) any {
	for {
		m, ok := v.(map[string]any)
		if !ok {
			return v
		}
		d, ok := m["default"]
		if !ok {
			return v
		}
		v = d
	}
}

// ToFloat coerces strings, numbers and {"default": ...} objects to a float.
// Anything else, including NaN and empty strings, is not a number.
func ToFloat(v any) (float64, bool) {
	var f float64
	switch x := unwrap(v).(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case int32:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// FloatOf returns v as a NullFloat, null when it does not coerce
func FloatOf(v any) models.NullFloat {
	if f, ok := ToFloat(v); ok {
		return models.Float(f)
	}
	return models.NullFloat{}
}

// IntOf returns v as a NullInt, rounding fractional values
func IntOf(v any) models.NullInt {
	if s, ok := unwrap(v).(string); ok {
		if i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return models.Int(i)
		}
	}
	if f, ok := ToFloat(v); ok {
		return models.Int(int64(math.Round(f)))
	}
	return models.NullInt{}
}

// StringOf renders identifiers and labels. Whole floats print without a
// fractional part so JSON ids like 8478402 stay 8478402.
func StringOf(v any) string {
	switch x := unwrap(v).(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case map[string]any, []any:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

// BoolOf interprets home/away style flags. Unrecognized values are false.
func BoolOf(v any) bool {
	switch x := unwrap(v).(type) {
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		s := strings.ToLower(strings.TrimSpace(x))
		switch s {
		case "true", "t", "yes", "y", "home", "h":
			return true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f != 0 && !math.IsNaN(f)
		}
	}
	return false
}

// NormalizeSavePct converts percent-scale values (91.4) to fractions and
// clamps the result to plausible NHL bounds. Null stays null.
func NormalizeSavePct(v models.NullFloat) models.NullFloat {
	if !v.Valid {
		return v
	}
	f := v.Float64
	if f > svPctPercent && f <= 100 {
		f /= 100
	}
	return models.Float(clamp(f, SvPctMin, SvPctMax))
}

// ClampProb bounds a probability to [0, 1]; null becomes 0
func ClampProb(v models.NullFloat) float64 {
	if !v.Valid {
		return 0
	}
	return clamp(v.Float64, 0, 1)
}

// ClampRinkBias bounds a rink scoring bias; null stays null
func ClampRinkBias(v models.NullFloat) models.NullFloat {
	if !v.Valid {
		return v
	}
	return models.Float(clamp(v.Float64, RinkBiasMin, RinkBiasMax))
}

var injuryStatuses = map[string]string{
	"out":             models.StatusOut,
	"ir":              models.StatusOut,
	"injured reserve": models.StatusOut,
	"dtd":             models.StatusDTD,
	"day-to-day":      models.StatusDTD,
	"day to day":      models.StatusDTD,
	"probable":        models.StatusProbable,
	"active":          models.StatusActive,
	"ok":              models.StatusActive,
	"healthy":         models.StatusActive,
}

// NormalizeInjuryStatus maps a provider status onto out, dtd, probable or
// active. Unknown and empty statuses are active.
func NormalizeInjuryStatus(raw string) string {
	if s, ok := injuryStatuses[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	return models.StatusActive
}

var asOfLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"01/02/2006 15:04",
}

// ParseAsOf parses a capture timestamp. Values without a zone are UTC;
// unparseable values are null.
func ParseAsOf(v any) models.NullTime {
	if t, ok := unwrap(v).(time.Time); ok {
		return models.Time(t)
	}
	s := StringOf(v)
	if s == "" {
		return models.NullTime{}
	}
	for _, layout := range asOfLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return models.Time(t)
		}
	}
	return models.NullTime{}
}

// SeasonCode returns the NHL season id for now: seasons roll over in August
func SeasonCode(now time.Time) string {
	y := now.Year()
	if now.Month() >= time.August {
		return fmt.Sprintf("%d%d", y, y+1)
	}
	return fmt.Sprintf("%d%d", y-1, y)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
