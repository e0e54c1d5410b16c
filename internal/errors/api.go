package errors

import (
	"fmt"
	"net/http"
)

// APIError describes a failed call against the external GitHub API. The
// Retryable flag drives the retry executor's classification: transient
// statuses (5xx, 429) and transport failures are retryable, everything a
// corrected request would not fix on its own is not.
type APIError struct {
	Status    int    // HTTP status, 0 for transport-level failures
	Message   string // human readable description including the endpoint
	Retryable bool
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("api error: %s", e.Message)
	}
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// NewAPIError builds an APIError from an HTTP status, classifying
// retryability from the status class.
func NewAPIError(status int, message string) *APIError {
	return &APIError{
		Status:    status,
		Message:   message,
		Retryable: status >= 500 || status == http.StatusTooManyRequests,
	}
}

// NewTransportError builds a retryable APIError for failures below the HTTP
// layer (connection resets, timeouts).
func NewTransportError(cause error) *APIError {
	return &APIError{Message: cause.Error(), Retryable: true}
}

// MissingCredentials reports an absent bearer token. Discovery cannot proceed
// without authentication, so the error is never retried.
func MissingCredentials() *AppError {
	return New(CategoryAuth, SeverityFatal, "discovery requires a GitHub token").
		WithContext("hint", "set GITHUB_TOKEN or pass --token")
}
