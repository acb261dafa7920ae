package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError_MatchesSentinel(t *testing.T) {
	err := fmt.Errorf("failed to seed student: %w", NewValidationError("classId"))
	if !errors.Is(err, ErrValidation) {
		t.Fatal("wrapped ValidationError should match ErrValidation")
	}

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatal("errors.As should find the ValidationError")
	}
	if len(ve.Fields) != 1 || ve.Fields[0] != "classId" {
		t.Errorf("fields = %v, want [classId]", ve.Fields)
	}
}

func TestValidationError_Message(t *testing.T) {
	if got := NewValidationError().Error(); got != "validation failed" {
		t.Errorf("empty message = %q", got)
	}
	if got := NewValidationError("name", "type").Error(); got != "validation failed: name, type" {
		t.Errorf("message = %q", got)
	}
}

func TestDuplicateIdentityError(t *testing.T) {
	err := fmt.Errorf("create account: %w", &DuplicateIdentityError{Email: "ann@school.test"})
	if !errors.Is(err, ErrConflict) {
		t.Fatal("DuplicateIdentityError should match ErrConflict")
	}
	if errors.Is(err, ErrValidation) {
		t.Fatal("DuplicateIdentityError must not match ErrValidation")
	}

	var dup *DuplicateIdentityError
	if !errors.As(err, &dup) || dup.Email != "ann@school.test" {
		t.Fatalf("errors.As = %v", dup)
	}
	if got := dup.Error(); got != "user with email ann@school.test already exists" {
		t.Errorf("message = %q", got)
	}
}
