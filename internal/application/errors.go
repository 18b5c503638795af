package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrNotFound         = errors.New("not found")
	ErrRefused          = errors.New("refused")
	ErrMalformedInput   = errors.New("malformed input")
	ErrUnknownKind      = errors.New("unknown diagram kind")
	ErrInvalidOperation = errors.New("invalid operation")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ImportError is returned when a snapshot cannot be imported.
// The store is left unchanged.
type ImportError struct {
	Kind   string
	Reason string
	Err    error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot import %s snapshot: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("cannot import %s snapshot: %s", e.Kind, e.Reason)
}

func (e *ImportError) Is(target error) bool {
	return target == ErrMalformedInput
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// RefusedError represents a mutation the store declined to perform
type RefusedError struct {
	Op     string
	ID     string
	Reason string
}

func (e *RefusedError) Error() string {
	return fmt.Sprintf("cannot %s %s: %s", e.Op, e.ID, e.Reason)
}

func (e *RefusedError) Is(target error) bool {
	return target == ErrRefused
}

// NotFoundError names the entity an operation could not resolve
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
