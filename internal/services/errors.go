package services

import "fmt"

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

// StoreError wraps a persistence failure. It is never retried.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }

// ProviderError wraps a failure of a third-party content provider.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string { return fmt.Sprintf("%s: %v", e.Provider, e.Err) }

func (e *ProviderError) Unwrap() error { return e.Err }
