package client

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrTransientNetwork marks failures worth retrying: transport errors,
	// timeouts, rate-limit/server-busy statuses and empty bodies
	ErrTransientNetwork = errors.New("transient network failure")

	// ErrUnexpectedStatus marks non-retryable HTTP statuses
	ErrUnexpectedStatus = errors.New("unexpected response status")

	// ErrDecode marks a body that could not be decoded as JSON
	ErrDecode = errors.New("response decode failure")
)

// IsTransient reports whether err was classified as a transient network failure
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransientNetwork)
}

func transient(err error, format string, args ...interface{}) error {
	return errors.Mark(errors.Wrapf(err, format, args...), ErrTransientNetwork)
}
