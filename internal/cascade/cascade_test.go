package cascade

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/metrics"
)

type row struct {
	ID     int
	Source string
}

func rowsFrom(source string, n int) []row {
	out := make([]row, n)
	for i := range out {
		out[i] = row{ID: i + 1, Source: source}
	}
	return out
}

func fixed(name string, rows []row, err error) Provider[row] {
	return Func[row]{ProviderName: name, Fn: func(context.Context) ([]row, error) { return rows, err }}
}

func TestResolve_FailingProviderFallsThrough(t *testing.T) {
	var failures []string
	c := New("widgets",
		fixed("a", rowsFrom("a", 3), errors.New("boom")),
		fixed("b", rowsFrom("b", 5), nil),
		fixed("c", rowsFrom("c", 7), nil),
	)
	c.OnFailure = func(provider string, err error) {
		failures = append(failures, provider)
		assert.True(t, errors.Is(err, ErrProviderFailure))
	}

	res := c.Resolve(context.Background())

	require.Len(t, res.Rows, 5)
	for _, r := range res.Rows {
		assert.Equal(t, "b", r.Source)
	}
	assert.Equal(t, "b", res.Provider)
	assert.False(t, res.Exhausted)
	assert.Equal(t, []string{"a"}, failures)

	require.Len(t, res.Attempts, 2)
	assert.Equal(t, OutcomeError, res.Attempts[0].Outcome)
	assert.Equal(t, 0, res.Attempts[0].Rows)
	assert.Equal(t, OutcomeRows, res.Attempts[1].Outcome)
}

func TestResolve_EmptyProviderSkipped(t *testing.T) {
	res := New("widgets",
		fixed("a", nil, nil),
		fixed("b", rowsFrom("b", 2), nil),
	).Resolve(context.Background())

	assert.Equal(t, "b", res.Provider)
	assert.Len(t, res.Rows, 2)
	assert.Equal(t, OutcomeEmpty, res.Attempts[0].Outcome)
}

func TestResolve_Exhausted(t *testing.T) {
	before := testutil.ToFloat64(metrics.CascadeOutcomesTotal.WithLabelValues("exhausted-widgets", "exhausted"))

	res := New("exhausted-widgets",
		fixed("a", nil, errors.New("down")),
		fixed("b", []row{}, nil),
	).Resolve(context.Background())

	assert.True(t, res.Exhausted)
	assert.Empty(t, res.Rows)
	assert.Empty(t, res.Provider)
	assert.Len(t, res.Attempts, 2)

	after := testutil.ToFloat64(metrics.CascadeOutcomesTotal.WithLabelValues("exhausted-widgets", "exhausted"))
	assert.Equal(t, before+1, after)
}

func TestResolve_NoProviders(t *testing.T) {
	res := New[row]("nothing").Resolve(context.Background())
	assert.True(t, res.Exhausted)
	assert.Empty(t, res.Attempts)
}

func TestResolve_PanickingProviderIsAFailure(t *testing.T) {
	res := New[row]("widgets",
		Func[row]{ProviderName: "panics", Fn: func(context.Context) ([]row, error) { panic("bad payload") }},
		fixed("b", rowsFrom("b", 1), nil),
	).Resolve(context.Background())

	assert.Equal(t, "b", res.Provider)
	require.Len(t, res.Attempts, 2)
	assert.Equal(t, OutcomeError, res.Attempts[0].Outcome)
	assert.Contains(t, res.Attempts[0].Err.Error(), "bad payload")
}

func TestResolve_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := New("widgets",
		fixed("a", nil, context.Canceled),
		fixed("b", rowsFrom("b", 1), nil),
	).Resolve(ctx)

	assert.True(t, res.Exhausted)
	assert.Len(t, res.Attempts, 1)
}
