package services

import (
	"errors"
	"fmt"

	"github.com/dipanshukale/CraftCrazy/database"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrConflict            = errors.New("conflict")
	ErrPaymentVerification = errors.New("payment verification failed")
	ErrUpstream            = errors.New("upstream failure")
)

// Error carries a message that is safe to show to API clients. Kind is one of
// the sentinels above so callers can match with errors.Is.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func invalid(format string, args ...any) error {
	return newError(ErrInvalidArgument, format, args...)
}

// storeError maps repository sentinels onto service errors. Anything else is
// an internal failure and keeps its cause.
func storeError(subject string, err error) error {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return newError(ErrNotFound, "%s not found", subject)
	case errors.Is(err, database.ErrConditionFailed):
		return newError(ErrConflict, "%s was modified concurrently", subject)
	default:
		return fmt.Errorf("%s: %w", subject, err)
	}
}
