package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a calendar entry or other stored record
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput marks any rejected value; every *ValidationError matches it.
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError names the field that failed and why.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
