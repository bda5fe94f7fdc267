package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/models"
)

func TestNormalizeSavePct(t *testing.T) {
	tests := []struct {
		name string
		in   models.NullFloat
		want models.NullFloat
	}{
		{"percent scale", models.Float(91.4), models.Float(0.914)},
		{"fraction unchanged", models.Float(0.914), models.Float(0.914)},
		{"clamped high", models.Float(0.99), models.Float(SvPctMax)},
		{"clamped low", models.Float(0.5), models.Float(SvPctMin)},
		{"percent clamped", models.Float(99.5), models.Float(SvPctMax)},
		{"just over threshold", models.Float(1.6), models.Float(SvPctMin)},
		{"above 100 is not rescaled", models.Float(150), models.Float(SvPctMax)},
		{"null stays null", models.NullFloat{}, models.NullFloat{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeSavePct(tt.in)
			assert.Equal(t, tt.want.Valid, got.Valid)
			assert.InDelta(t, tt.want.Float64, got.Float64, 1e-12)
		})
	}
}

func TestClampProb(t *testing.T) {
	assert.Equal(t, 0.0, ClampProb(models.NullFloat{}))
	assert.Equal(t, 0.0, ClampProb(models.Float(-0.2)))
	assert.Equal(t, 1.0, ClampProb(models.Float(1.7)))
	assert.Equal(t, 0.65, ClampProb(models.Float(0.65)))
}

func TestClampRinkBias(t *testing.T) {
	assert.False(t, ClampRinkBias(models.NullFloat{}).Valid)
	assert.Equal(t, 1.3, ClampRinkBias(models.Float(2)).Float64)
	assert.Equal(t, 0.7, ClampRinkBias(models.Float(0.1)).Float64)
	assert.Equal(t, 1.05, ClampRinkBias(models.Float(1.05)).Float64)
}

func TestNormalizeInjuryStatus(t *testing.T) {
	cases := map[string]string{
		"Out":             models.StatusOut,
		"IR":              models.StatusOut,
		"Injured Reserve": models.StatusOut,
		" dtd ":           models.StatusDTD,
		"Day-To-Day":      models.StatusDTD,
		"probable":        models.StatusProbable,
		"ok":              models.StatusActive,
		"Healthy":         models.StatusActive,
		"questionable":    models.StatusActive,
		"":                models.StatusActive,
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeInjuryStatus(in), "status %q", in)
	}
}

func TestToFloat(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{12.5, 12.5, true},
		{" 3 ", 3, true},
		{map[string]any{"default": "0.5"}, 0.5, true},
		{"n/a", 0, false},
		{"", 0, false},
		{"NaN", 0, false},
		{nil, 0, false},
		{[]any{1.0}, 0, false},
	}
	for _, tt := range tests {
		got, ok := ToFloat(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}
}

func TestIntOfAndStringOf(t *testing.T) {
	assert.Equal(t, models.Int(82), IntOf(82.0))
	assert.Equal(t, models.Int(-4), IntOf("-4"))
	assert.Equal(t, models.Int(7), IntOf("7.0"))
	assert.False(t, IntOf("seven").Valid)
	assert.False(t, IntOf(nil).Valid)

	assert.Equal(t, "8478402", StringOf(8478402.0))
	assert.Equal(t, "BOS", StringOf(map[string]any{"default": "BOS"}))
	assert.Equal(t, "", StringOf(map[string]any{"fr": "x"}))
	assert.Equal(t, "0.914", StringOf(0.914))
}

func TestBoolOf(t *testing.T) {
	for _, v := range []any{true, "True", "1", "1.0", "2", "-1", " 0.5 ", "home", "H", 1.0, -3.0} {
		assert.True(t, BoolOf(v), "%v", v)
	}
	for _, v := range []any{false, "False", "0", "0.0", "-0", "NaN", "away", "", nil, 0.0} {
		assert.False(t, BoolOf(v), "%v", v)
	}
}

func TestParseAsOf(t *testing.T) {
	want := time.Date(2024, 1, 15, 18, 30, 0, 0, time.UTC)

	assert.Equal(t, want, ParseAsOf("2024-01-15T18:30:00Z").Time)
	assert.Equal(t, want, ParseAsOf("2024-01-15T13:30:00-05:00").Time)
	assert.Equal(t, want, ParseAsOf("2024-01-15 18:30:00").Time)
	assert.Equal(t, want, ParseAsOf("2024-01-15T18:30Z").Time)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), ParseAsOf("2024-01-15").Time)

	assert.False(t, ParseAsOf("yesterday").Valid)
	assert.False(t, ParseAsOf("").Valid)
	assert.False(t, ParseAsOf(nil).Valid)
}

func TestSeasonCode(t *testing.T) {
	assert.Equal(t, "20242025", SeasonCode(time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "20242025", SeasonCode(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "20232024", SeasonCode(time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "20232024", SeasonCode(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}
