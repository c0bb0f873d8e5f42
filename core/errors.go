// Package core provides shared configuration and error types for pixelforge components.
package core

import (
	"errors"
	"fmt"
)

// ValidationError indicates that caller-supplied input (template, settings,
// palette, prompt) failed validation before any work was attempted.
type ValidationError struct {
	Field  string // Name of the offending field, empty if not field-specific
	Reason string // Human-readable description of the violation
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

// NewValidationError returns a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError indicates that a named resource (palette, credential) does
// not exist in the collaborator that was asked for it.
type NotFoundError struct {
	Resource string // Resource kind, e.g. "palette", "credential"
	Name     string // Resource name, empty for singleton resources
	Reason   string // Optional additional context
}

func (e *NotFoundError) Error() string {
	msg := e.Resource
	if e.Name != "" {
		msg = fmt.Sprintf("%s %q", e.Resource, e.Name)
	}
	if e.Reason != "" {
		return fmt.Sprintf("%s not found: %s", msg, e.Reason)
	}
	return fmt.Sprintf("%s not found", msg)
}

// NewNotFoundError returns a NotFoundError for a named resource.
func NewNotFoundError(resource, name string) *NotFoundError {
	return &NotFoundError{Resource: resource, Name: name}
}

// IOError indicates that a file (reference image, output image) could not be
// read or written. It wraps the underlying OS or codec error.
type IOError struct {
	Path string
	Op   string // "read", "write", "decode", "encode"
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// NewIOError wraps err as an IOError for the given operation and path.
func NewIOError(op, path string, err error) *IOError {
	return &IOError{Path: path, Op: op, Err: err}
}

// ProcessingError indicates that a local image transformation (conform,
// pixelate, upscale) was asked to operate on invalid inputs, or that an
// upstream transformation it depends on failed.
type ProcessingError struct {
	Op     string // Transformation name, e.g. "pixelate"
	Reason string
	Err    error // Underlying error, if the failure was propagated
}

func (e *ProcessingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// NewProcessingError returns a ProcessingError for the given transformation.
func NewProcessingError(op, reason string) *ProcessingError {
	return &ProcessingError{Op: op, Reason: reason}
}

// WrapProcessingError wraps an underlying failure of a transformation step.
func WrapProcessingError(op string, err error) *ProcessingError {
	return &ProcessingError{Op: op, Reason: "operation failed", Err: err}
}

// ServiceError indicates that the external image generation service failed
// or returned a malformed response.
type ServiceError struct {
	Reason string
	Err    error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("image generation service: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("image generation service: %s", e.Reason)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// NewServiceError returns a ServiceError with the given reason.
func NewServiceError(reason string, err error) *ServiceError {
	return &ServiceError{Reason: reason, Err: err}
}

// StateError indicates an operation that is illegal for the pipeline's
// current state, such as cancelling while idle or starting a generation
// while one is already running.
type StateError struct {
	Op    string // Operation that was attempted, e.g. "cancel"
	State string // State the pipeline was in
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: illegal in state %s", e.Op, e.State)
}

// NewStateError returns a StateError for op attempted in state.
func NewStateError(op, state string) *StateError {
	return &StateError{Op: op, State: state}
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsIO reports whether err is or wraps an IOError.
func IsIO(err error) bool {
	var target *IOError
	return errors.As(err, &target)
}

// IsProcessing reports whether err is or wraps a ProcessingError.
func IsProcessing(err error) bool {
	var target *ProcessingError
	return errors.As(err, &target)
}

// IsService reports whether err is or wraps a ServiceError.
func IsService(err error) bool {
	var target *ServiceError
	return errors.As(err, &target)
}

// IsState reports whether err is or wraps a StateError.
func IsState(err error) bool {
	var target *StateError
	return errors.As(err, &target)
}
