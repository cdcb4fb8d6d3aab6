package mapbuilder

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for build failures.
var (
	// ErrMissingField is returned when a required field has no value,
	// either because it was never put or because nil was put for it.
	ErrMissingField = errors.New("mapbuilder: missing required field")

	// ErrTypeMismatch is returned when a stored value does not have the
	// type declared for its field.
	ErrTypeMismatch = errors.New("mapbuilder: field type mismatch")
)

// MissingFieldError represents a required field that resolved to no value.
type MissingFieldError struct {
	Field string
	// Null is true when the key was present but held nil.
	Null bool
}

// Error returns the error string.
func (e *MissingFieldError) Error() string {
	if e.Null {
		return fmt.Sprintf("mapbuilder: field %q is required but was nil", e.Field)
	}
	return fmt.Sprintf("mapbuilder: field %q is required but was missing", e.Field)
}

// Is reports whether the target error matches MissingFieldError.
// This allows errors.Is(err, ErrMissingField) to return true.
func (e *MissingFieldError) Is(err error) bool {
	return err == ErrMissingField
}

// NewMissingFieldError returns a new MissingFieldError for the given field.
func NewMissingFieldError(field string, null bool) *MissingFieldError {
	return &MissingFieldError{Field: field, Null: null}
}

// IsMissingField returns true if the error is a MissingFieldError.
func IsMissingField(err error) bool {
	if err == nil {
		return false
	}
	var e *MissingFieldError
	return errors.As(err, &e) || errors.Is(err, ErrMissingField)
}

// TypeMismatchError represents a stored value whose dynamic type does not
// match the static type of its field.
type TypeMismatchError struct {
	Field    string
	Expected string // Go type of the field, e.g. "int"
	Actual   string // dynamic type of the stored value, e.g. "string"
}

// Error returns the error string.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("mapbuilder: field %q has wrong type: expected %s, but was %s", e.Field, e.Expected, e.Actual)
}

// Is reports whether the target error matches TypeMismatchError.
func (e *TypeMismatchError) Is(err error) bool {
	return err == ErrTypeMismatch
}

// NewTypeMismatchError returns a new TypeMismatchError.
func NewTypeMismatchError(field, expected, actual string) *TypeMismatchError {
	return &TypeMismatchError{Field: field, Expected: expected, Actual: actual}
}

// IsTypeMismatch returns true if the error is a TypeMismatchError.
func IsTypeMismatch(err error) bool {
	if err == nil {
		return false
	}
	var e *TypeMismatchError
	return errors.As(err, &e) || errors.Is(err, ErrTypeMismatch)
}
