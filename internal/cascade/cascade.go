package cascade

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"

	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/metrics"
)

// ErrProviderFailure marks an error returned by a single provider
var ErrProviderFailure = errors.New("provider failure")

// Provider yields normalized rows for one entity type
type Provider[T any] interface {
	Name() string
	Fetch(ctx context.Context) ([]T, error)
}

// Outcome of one provider invocation
const (
	OutcomeRows  = "rows"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// Attempt records what a single provider did
type Attempt struct {
	Provider string
	Outcome  string
	Rows     int
	Err      error
	Duration time.Duration
}

// Result is the resolved table for one entity type. An exhausted cascade
// has no rows and a nil error; it is a normal outcome.
type Result[T any] struct {
	Rows      []T
	Provider  string
	Exhausted bool
	Attempts  []Attempt
}

// Cascade tries its providers in order until one produces rows
type Cascade[T any] struct {
	Entity    string
	Providers []Provider[T]

	// OnFailure, when set, receives every provider error (diagnostic log)
	OnFailure func(provider string, err error)
}

// New creates a cascade for entity
func New[T any](entity string, providers ...Provider[T]) *Cascade[T] {
	return &Cascade[T]{Entity: entity, Providers: providers}
}

// Resolve invokes providers in order and stops at the first non-empty table
func (c *Cascade[T]) Resolve(ctx context.Context) Result[T] {
	res := Result[T]{Attempts: make([]Attempt, 0, len(c.Providers))}

	for _, p := range c.Providers {
		start := time.Now()
		rows, err := c.invoke(ctx, p)
		att := Attempt{Provider: p.Name(), Rows: len(rows), Duration: time.Since(start)}

		switch {
		case err != nil:
			att.Outcome = OutcomeError
			att.Err = errors.Mark(errors.Wrapf(err, "%s provider %s", c.Entity, p.Name()), ErrProviderFailure)
			att.Rows = 0
			log.Warn().
				Err(err).
				Str("entity", c.Entity).
				Str("provider", p.Name()).
				Msg("Provider failed, trying next")
			if c.OnFailure != nil {
				c.OnFailure(p.Name(), att.Err)
			}
		case len(rows) == 0:
			att.Outcome = OutcomeEmpty
			log.Warn().
				Str("entity", c.Entity).
				Str("provider", p.Name()).
				Msg("Provider returned no rows, trying next")
		default:
			att.Outcome = OutcomeRows
		}

		metrics.RecordProviderAttempt(c.Entity, p.Name(), att.Outcome)
		res.Attempts = append(res.Attempts, att)

		if att.Outcome == OutcomeRows {
			res.Rows = rows
			res.Provider = p.Name()
			metrics.RecordCascadeOutcome(c.Entity, "resolved")
			log.Info().
				Str("entity", c.Entity).
				Str("provider", p.Name()).
				Int("rows", len(rows)).
				Msg("Cascade resolved")
			return res
		}

		if ctx.Err() != nil {
			break
		}
	}

	res.Exhausted = true
	metrics.RecordCascadeOutcome(c.Entity, "exhausted")
	log.Warn().
		Str("entity", c.Entity).
		Int("providers", len(c.Providers)).
		Msg("All providers exhausted, emitting empty table")
	return res
}

// invoke calls p.Fetch, turning a panic inside a provider into an error so
// one bad payload cannot abort the cascade
func (c *Cascade[T]) invoke(ctx context.Context, p Provider[T]) (rows []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows = nil
			err = errors.Newf("panic: %v", r)
		}
	}()
	return p.Fetch(ctx)
}

// Func adapts a function to a Provider
type Func[T any] struct {
	ProviderName string
	Fn           func(ctx context.Context) ([]T, error)
}

// Name returns the provider name
func (f Func[T]) Name() string { return f.ProviderName }

// Fetch calls the wrapped function
func (f Func[T]) Fetch(ctx context.Context) ([]T, error) { return f.Fn(ctx) }
