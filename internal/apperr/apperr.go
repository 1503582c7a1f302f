// Package apperr defines the error kinds the service distinguishes between.
// Everything here is operational: handlers map these to HTTP statuses and the
// process keeps running.
package apperr

import "errors"

var (
	// ErrNetwork marks a failed outbound call (upstream API or page scrape).
	ErrNetwork = errors.New("network error")
	// ErrNotFound marks an item id that no longer resolves upstream, or a
	// stored row that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrStorage marks a failed persistence read or write. Never swallowed:
	// a fetched-but-unpersisted result must not be reported as success.
	ErrStorage = errors.New("storage error")
)

// ValidationError is a bad request parameter. Its message is safe to show to
// the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
