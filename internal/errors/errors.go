// Package errors provides the error taxonomy shared by providers, the
// dispatcher and the user interface.
package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common cases
var (
	ErrMissingCredential  = errors.New("credential required")
	ErrCredentialRejected = errors.New("credential rejected")
	ErrEmptyQuery         = errors.New("query cannot be empty")
	ErrBusy               = errors.New("a query is already in flight")
	ErrInvalidResponse    = errors.New("invalid response format")
	ErrNoContent          = errors.New("no content in response")
)

// InvalidCredentialMessage is shown to the user when a provider rejects the stored key
const InvalidCredentialMessage = "Invalid API key"

// CredentialError is returned when a provider rejects the credential
type CredentialError struct {
	Provider string
	Message  string
}

func (e *CredentialError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s rejected the API key", e.Provider)
	}
	return fmt.Sprintf("%s rejected the API key: %s", e.Provider, e.Message)
}

// Is allows comparison with sentinel errors
func (e *CredentialError) Is(target error) bool {
	if target == ErrCredentialRejected {
		return true
	}
	_, ok := target.(*CredentialError)
	return ok
}

// NewCredentialError creates a new CredentialError
func NewCredentialError(provider, message string) *CredentialError {
	return &CredentialError{Provider: provider, Message: message}
}

// CredentialRequiredError is returned before any network call when the
// selected provider needs a credential and none is stored
type CredentialRequiredError struct {
	Provider string
}

func (e *CredentialRequiredError) Error() string {
	return fmt.Sprintf("no API key stored for %s", e.Provider)
}

// Is allows comparison with sentinel errors
func (e *CredentialRequiredError) Is(target error) bool {
	return target == ErrMissingCredential
}

// NewCredentialRequiredError creates a new CredentialRequiredError
func NewCredentialRequiredError(provider string) *CredentialRequiredError {
	return &CredentialRequiredError{Provider: provider}
}

// APIError represents a non-success HTTP answer from a provider
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("HTTP %d from %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("request to %s failed: %s", e.Endpoint, e.Message)
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// NetworkError wraps a transport failure
type NetworkError struct {
	Operation string
	Endpoint  string
	Err       error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Operation, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(operation, endpoint string, err error) *NetworkError {
	return &NetworkError{Operation: operation, Endpoint: endpoint, Err: err}
}

// TimeoutError represents a request timeout
type TimeoutError struct {
	Message string
}

func (e *TimeoutError) Error() string {
	if e.Message == "" {
		return "request timed out"
	}
	return fmt.Sprintf("request timed out: %s", e.Message)
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(message string) *TimeoutError {
	return &TimeoutError{Message: message}
}

// ParseError represents a response parsing error
type ParseError struct {
	Message string
	Path    string
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("parse error at %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// NewParseError creates a new ParseError
func NewParseError(message, path string) *ParseError {
	return &ParseError{Message: message, Path: path}
}

// IsCredentialError reports whether the provider rejected the credential
func IsCredentialError(err error) bool {
	return errors.Is(err, ErrCredentialRejected)
}

// IsMissingCredential reports whether a credential must be entered first
func IsMissingCredential(err error) bool {
	return errors.Is(err, ErrMissingCredential)
}

// IsNetworkError reports whether err is a transport failure
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsTimeoutError reports whether err is a timeout
func IsTimeoutError(err error) bool {
	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// GetHTTPStatus extracts the HTTP status code, or 0
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// UserMessage formats err the way it is shown in the transcript and the
// status line: credential rejections collapse to a fixed literal, a missing
// key names the provider, anything else becomes "API error: <detail>".
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if IsCredentialError(err) {
		return InvalidCredentialMessage
	}
	var missing *CredentialRequiredError
	if errors.As(err, &missing) {
		return "No API key stored for " + missing.Provider
	}
	detail := strings.TrimSpace(err.Error())
	if detail == "" {
		detail = "unknown error"
	}
	return "API error: " + detail
}
