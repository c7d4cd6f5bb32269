package core

import (
	"errors"
	"strings"
)

var (
	ErrInvalidFilter    = errors.New("invalid filter")
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("expense not found")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
)

// ValidationError reports every rule an expense record violates.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
