package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrConflict        = errors.New("conflict")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("not authenticated")
	ErrUpstream        = errors.New("upstream unavailable")
)

// FieldErrors carries per-field validation detail for the error envelope.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	parts := make([]string, 0, len(f))
	for field, msg := range f {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return strings.Join(parts, "; ")
}

// Unwrap makes every FieldErrors match ErrInvalidInput via errors.Is.
func (f FieldErrors) Unwrap() error { return ErrInvalidInput }
