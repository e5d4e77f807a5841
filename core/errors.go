package core

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for comparison using errors.Is()
// These are generic errors that can be wrapped with additional context
var (
	// View and descriptor errors
	ErrViewNotFound       = errors.New("view not found")
	ErrNilView            = errors.New("nil view")
	ErrMissingViewID      = errors.New("view id must not be empty")
	ErrInvalidWidgetScope = errors.New("invalid widget scope")
	ErrAlreadyRegistered  = errors.New("view already registered")

	// Configuration errors
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrMissingConfiguration = errors.New("missing required configuration")

	// Snapshot publishing errors
	ErrConnectionFailed = errors.New("connection failed")
)

// RegistryError provides structured error information with context.
// It implements the error interface and supports error wrapping.
type RegistryError struct {
	Op      string // Operation that failed (e.g., "registry.Register")
	Kind    string // Error kind (e.g., "view", "widget-scope", "config")
	ID      string // Optional id of the view involved
	Message string // Human-readable message
	Err     error  // Underlying error for wrapping
}

// Error returns the string representation of the error
func (e *RegistryError) Error() string {
	switch {
	case e.Op != "" && e.Message != "" && e.ID != "":
		return fmt.Sprintf("%s [%s]: %s", e.Op, e.ID, e.Message)
	case e.Op != "" && e.Message != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.Op != "" && e.Err != nil && e.ID != "":
		return fmt.Sprintf("%s [%s]: %v", e.Op, e.ID, e.Err)
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	}
	return fmt.Sprintf("%s error", e.Kind)
}

// Unwrap returns the underlying error for use with errors.Is/As
func (e *RegistryError) Unwrap() error {
	return e.Err
}

// NewRegistryError creates a new RegistryError
func NewRegistryError(op, kind string, err error) *RegistryError {
	return &RegistryError{
		Op:   op,
		Kind: kind,
		Err:  err,
	}
}

// IsNotFound checks if an error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrViewNotFound)
}

// IsConfigurationError checks if an error is configuration-related.
// Invalid widget scopes count: they are programming mistakes in the
// extension, not transient conditions, so no retry is meaningful.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration) ||
		errors.Is(err, ErrMissingConfiguration) ||
		errors.Is(err, ErrInvalidWidgetScope)
}
