// Package domain provides shared domain-level sentinel errors.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict indicates a uniqueness or concurrent modification conflict.
var ErrConflict = errors.New("conflict")

// ErrValidation indicates missing or malformed input.
var ErrValidation = errors.New("validation failed")

// ErrUnauthorized indicates an absent or invalid session, or a session
// without the tenant binding an operation requires.
var ErrUnauthorized = errors.New("unauthorized")

// ErrCreationFailed indicates a storage failure while creating a record.
var ErrCreationFailed = errors.New("creation failed")

// ValidationError lists the offending fields. It matches ErrValidation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(e.Fields, ", "))
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError returns a ValidationError for the given fields.
func NewValidationError(fields ...string) error {
	return &ValidationError{Fields: fields}
}

// DuplicateIdentityError reports an email that already belongs to an account.
// It matches ErrConflict.
type DuplicateIdentityError struct {
	Email string
}

func (e *DuplicateIdentityError) Error() string {
	return fmt.Sprintf("user with email %s already exists", e.Email)
}

// Is reports whether target is ErrConflict.
func (e *DuplicateIdentityError) Is(target error) bool {
	return target == ErrConflict
}
