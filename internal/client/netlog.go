package client

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// NetLog is the append-only diagnostic record of every network attempt.
// Writes are best effort; a failing sink never affects a fetch. Lines carry
// no level so LOG_LEVEL never filters them.
type NetLog struct {
	mu     sync.Mutex
	logger zerolog.Logger
	closer io.Closer
}

// OpenNetLog opens (or creates) the diagnostic log at path in append mode
func OpenNetLog(path string) (*NetLog, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "create network log directory %s", dir)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "open network log %s", path)
	}

	return &NetLog{
		logger: zerolog.New(f).With().Timestamp().Logger(),
		closer: f,
	}, nil
}

// NewNetLog writes diagnostic lines to w
func NewNetLog(w io.Writer) *NetLog {
	return &NetLog{logger: zerolog.New(w).With().Timestamp().Logger()}
}

// NopNetLog discards everything
func NopNetLog() *NetLog {
	return &NetLog{logger: zerolog.Nop()}
}

// Attempt records one HTTP attempt
func (n *NetLog) Attempt(target string, params map[string]string, attempt, status, bytes int) {
	if n == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	n.logger.WithLevel(zerolog.NoLevel).
		Str("kind", "attempt").
		Str("target", target).
		Interface("params", params).
		Int("attempt", attempt).
		Int("status", status).
		Int("bytes", bytes).
		Msg("GET")
}

// Failure records a terminal error for target
func (n *NetLog) Failure(target string, err error) {
	if n == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	n.logger.WithLevel(zerolog.NoLevel).Str("kind", "failure").Str("target", target).Err(err).Msg("FAIL")
}

// Event records a free-form diagnostic line, used for provider-level outcomes
func (n *NetLog) Event(source, msg string) {
	if n == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	n.logger.WithLevel(zerolog.NoLevel).Str("kind", "event").Str("source", source).Msg(msg)
}

// Close closes the underlying file, if any
func (n *NetLog) Close() error {
	if n == nil || n.closer == nil {
		return nil
	}
	return n.closer.Close()
}
