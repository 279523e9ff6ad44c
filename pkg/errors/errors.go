package errors

import (
	"fmt"
)

// ErrNotFound is returned when a resource is not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized is returned when authentication fails
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrValidation is returned when required input is missing or malformed.
// Fields maps a field name to the reason it was rejected.
type ErrValidation struct {
	Message string
	Fields  map[string]string
}

func (e *ErrValidation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// ErrPersistence is returned when the order store is unavailable or a write
// failed. Retryable by the caller; a stable orderId makes retries safe.
type ErrPersistence struct {
	Op  string
	Err error
}

func (e *ErrPersistence) Error() string {
	return fmt.Sprintf("persistence failed: %s: %v", e.Op, e.Err)
}

func (e *ErrPersistence) Unwrap() error {
	return e.Err
}

// ErrExternalSync is returned when the sheet mirror is unreachable or a row
// is malformed. Never fatal to the primary order flow.
type ErrExternalSync struct {
	Op  string
	Err error
}

func (e *ErrExternalSync) Error() string {
	return fmt.Sprintf("sheet sync failed: %s: %v", e.Op, e.Err)
}

func (e *ErrExternalSync) Unwrap() error {
	return e.Err
}
