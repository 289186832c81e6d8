package provider

import (
	"errors"
	"fmt"
)

// Sentinel errors for provider operations.
var (
	// ErrUnknownProvider indicates the requested provider is not registered.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrUnavailable indicates the model backend is unavailable.
	ErrUnavailable = errors.New("model backend unavailable")

	// ErrInvalidRequest indicates the prompt or configuration is malformed.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrTimeout indicates the request timed out.
	ErrTimeout = errors.New("request timed out")

	// ErrCLINotFound indicates the CLI binary was not found in PATH.
	ErrCLINotFound = errors.New("CLI binary not found")

	// ErrStream indicates the reply stream failed part way through.
	ErrStream = errors.New("reply stream failed")
)

// Error wraps provider errors with context.
type Error struct {
	Provider  string // Provider name ("command", "ollama", etc.)
	Op        string // Operation that failed ("chat", "stream")
	Err       error  // Underlying error
	Retryable bool   // Whether the error is likely transient
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new provider error.
func NewError(provider, op string, err error, retryable bool) *Error {
	return &Error{
		Provider:  provider,
		Op:        op,
		Err:       err,
		Retryable: retryable,
	}
}

// IsRetryable checks if an error is likely transient and worth retrying.
func IsRetryable(err error) bool {
	var provErr *Error
	if errors.As(err, &provErr) {
		return provErr.Retryable
	}
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrTimeout)
}
