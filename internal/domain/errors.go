package domain

import (
	"errors"
	"fmt"
)

// ErrNoReadings is returned when a query legitimately yields no result,
// e.g. the latest reading on an empty store.
var ErrNoReadings = errors.New("no readings found")

// ValidationError rejects malformed or out-of-bounds input before any
// storage interaction. It is a client error, never a system fault.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// StorageError wraps a durable-store fault. The engine performs no retries;
// the error is surfaced to the caller as a server error.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
