package bananabatch

import (
	"errors"
	"fmt"
	"time"
)

// ProviderError is a classified failure from a provider adapter. The retry
// loop drives its control flow off Retryable and Safety, so adapters should
// always return this type rather than bare errors.
type ProviderError struct {
	Provider  string
	Code      string
	Status    int
	Message   string
	Retryable bool
	Safety    bool
	Err       error // Underlying error from the provider
}

func (e *ProviderError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("%s: %s", e.Provider, e.Message)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsSafetyRejected checks if an error is a content-policy refusal.
func IsSafetyRejected(err error) bool {
	var pErr *ProviderError
	return errors.As(err, &pErr) && pErr.Safety
}

// IsRetryable reports whether an attempt that produced err should be
// retried. Unclassified errors are assumed transient.
func IsRetryable(err error) bool {
	var pErr *ProviderError
	if errors.As(err, &pErr) {
		return pErr.Retryable
	}
	return true
}

// RateLimitError is returned when a rate limit is hit.
type RateLimitError struct {
	RetryAfter time.Duration
	LimitType  string
	Model      string
	Err        error // Underlying error from the provider
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s: %s limit, retry after %v",
		e.Model, e.LimitType, e.RetryAfter)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// IsRateLimitError checks if an error is a RateLimitError.
func IsRateLimitError(err error) bool {
	var rlErr *RateLimitError
	return errors.As(err, &rlErr)
}

var (
	// ErrModelNotRegistered is returned when a model has no registered provider.
	ErrModelNotRegistered = errors.New("model not registered")

	// ErrProviderNotConfigured is returned when a provider lacks required config.
	ErrProviderNotConfigured = errors.New("provider not configured")

	// ErrMissingAPIKey is returned when an adapter is constructed without
	// credentials.
	ErrMissingAPIKey = errors.New("API key is required")

	// ErrStorageNotConfigured is returned when storage operations are attempted
	// without a configured storage backend.
	ErrStorageNotConfigured = errors.New("storage not configured")
)
