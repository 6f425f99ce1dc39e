package application

import (
	"errors"

	"fxchart-service/internal/domain"
)

var ErrNotFound = domain.ErrNotFound
var ErrConflict = errors.New("conflict")
var ErrBadRequest = errors.New("bad request")

// ErrNotReady is returned by view operations issued before the records have
// been loaded, or after the load failed.
var ErrNotReady = errors.New("view not ready")

// ErrUnknownPair is returned when a selection names a pair that is not in the
// view's pair index.
var ErrUnknownPair = errors.New("unknown currency pair")

// FetchError wraps a failure of the record source.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string { return "fetch records: " + e.Err.Error() }
func (e *FetchError) Unwrap() error { return e.Err }
