package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("already exists")
	ErrGateway      = errors.New("payment gateway unavailable")
)

// ValidationError carries the offending form field. It matches ErrValidation.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
