package gen

import (
	"errors"
	"fmt"
	"go/token"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrInvalidSchema indicates a record that cannot have a builder.
	ErrInvalidSchema = errors.New("mapbuilder: invalid record")
	// ErrUnresolvedType indicates a field type that cannot be named in generated code.
	ErrUnresolvedType = errors.New("mapbuilder: unresolved type")
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("mapbuilder: missing configuration")
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("mapbuilder: code generation failed")
)

// SchemaError reports a record, or one of its fields, that cannot have a
// builder. It prints as "mapbuilder: Record.Field: message: cause".
type SchemaError struct {
	Record string
	Field  string // empty for record-level problems
	// Pos is the position of the field, when the problem is a field's.
	Pos     token.Position
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("mapbuilder: ")
	switch {
	case e.Record != "" && e.Field != "":
		b.WriteString(e.Record + "." + e.Field)
	case e.Record != "":
		b.WriteString(e.Record)
	default:
		b.WriteString("record")
	}
	if e.Message != "" {
		b.WriteString(": " + e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": " + e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidSchema
}

// NewSchemaError creates a new SchemaError.
func NewSchemaError(record, field, message string, cause error) *SchemaError {
	return &SchemaError{
		Record:  record,
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}

// UnresolvedTypeError is returned when a type, or one of its type
// arguments, has no name that generated code could refer to.
type UnresolvedTypeError struct {
	Type   string // Type as printed by go/types
	Reason string
}

// Error implements the error interface.
func (e *UnresolvedTypeError) Error() string {
	return fmt.Sprintf("mapbuilder: cannot resolve type %s: %s", e.Type, e.Reason)
}

// Is reports whether the target matches the sentinel error for UnresolvedTypeError.
func (e *UnresolvedTypeError) Is(target error) bool {
	return target == ErrUnresolvedType
}

// NewUnresolvedTypeError creates a new UnresolvedTypeError.
func NewUnresolvedTypeError(typ, reason string) *UnresolvedTypeError {
	return &UnresolvedTypeError{Type: typ, Reason: reason}
}

// ConfigError is returned by an Option given an invalid value.
type ConfigError struct {
	Option  string // e.g. "WithWorkers"
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("mapbuilder: %s: %s (got %#v)", e.Option, e.Message, e.Value)
	}
	return fmt.Sprintf("mapbuilder: %s: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// GenerationError reports a builder file that could not be produced. It
// prints as "mapbuilder: phase file: message: cause".
type GenerationError struct {
	Phase   string // "write"
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("mapbuilder: ")
	if e.Phase != "" {
		b.WriteString(e.Phase)
	} else {
		b.WriteString("generate")
	}
	if e.File != "" {
		b.WriteString(" " + e.File)
	}
	if e.Message != "" {
		b.WriteString(": " + e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": " + e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{
		Phase:   phase,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}

// IsSchemaError reports whether the error is a SchemaError.
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError
	return errors.As(err, &schemaErr)
}

// IsUnresolvedType reports whether the error is an UnresolvedTypeError.
func IsUnresolvedType(err error) bool {
	var typeErr *UnresolvedTypeError
	return errors.As(err, &typeErr)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}
