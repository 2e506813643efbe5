package common

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorType classifies errors surfaced by the SDK and the sync service.
type ErrorType string

const (
	// ErrorTypeConfiguration for configuration-related errors
	ErrorTypeConfiguration ErrorType = "configuration"
	// ErrorTypeValidation for request validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeAuth for authentication failures (bad credentials)
	ErrorTypeAuth ErrorType = "auth"
	// ErrorTypePermission for authorization failures
	ErrorTypePermission ErrorType = "permission"
	// ErrorTypeRateLimit for vendor rate limiting
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeNotFound for missing remote resources
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeNetwork for transport-level failures
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeAPI for other vendor API errors
	ErrorTypeAPI ErrorType = "api"
	// ErrorTypeStorage for local cache/persistence errors
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeExport for data export errors
	ErrorTypeExport ErrorType = "export"
)

// SDKError is a structured error carrying classification and context.
type SDKError struct {
	Type      ErrorType              `json:"type"`
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Cause     error                  `json:"-"`
}

func (e *SDKError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s:%s] %s: %s", e.Type, e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Type, e.Code, e.Message)
}

func (e *SDKError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *SDKError) WithContext(key string, value interface{}) *SDKError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithDetails sets the detail text
func (e *SDKError) WithDetails(details string) *SDKError {
	e.Details = details
	return e
}

// WithCause sets the underlying cause
func (e *SDKError) WithCause(cause error) *SDKError {
	e.Cause = cause
	return e
}

// NewError creates a new SDKError
func NewError(errorType ErrorType, code, message string) *SDKError {
	return &SDKError{
		Type:      errorType,
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewConfigurationError creates a configuration error
func NewConfigurationError(code, message string) *SDKError {
	return NewError(ErrorTypeConfiguration, code, message)
}

// NewValidationError creates a validation error
func NewValidationError(code, message string) *SDKError {
	return NewError(ErrorTypeValidation, code, message)
}

// NewAuthError creates an authentication error
func NewAuthError(code, message string) *SDKError {
	return NewError(ErrorTypeAuth, code, message)
}

// NewStorageError creates a storage error
func NewStorageError(code, message string) *SDKError {
	return NewError(ErrorTypeStorage, code, message)
}

// NewExportError creates an export error
func NewExportError(code, message string) *SDKError {
	return NewError(ErrorTypeExport, code, message)
}

// WrapError wraps an existing error with SDKError context
func WrapError(err error, errorType ErrorType, code, message string) *SDKError {
	return &SDKError{
		Type:      errorType,
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Cause:     err,
	}
}

// NewHTTPError classifies a vendor API failure by status code so that
// authentication, permission and rate-limit problems surface with readable
// messages.
func NewHTTPError(service string, statusCode int, body string) *SDKError {
	var e *SDKError
	switch statusCode {
	case http.StatusUnauthorized:
		e = NewError(ErrorTypeAuth, "unauthorized",
			fmt.Sprintf("%s rejected the credentials; check username and API token", service))
	case http.StatusForbidden:
		e = NewError(ErrorTypePermission, "forbidden",
			fmt.Sprintf("%s denied access to this resource", service))
	case http.StatusNotFound:
		e = NewError(ErrorTypeNotFound, "not_found",
			fmt.Sprintf("%s resource not found", service))
	case http.StatusTooManyRequests:
		e = NewError(ErrorTypeRateLimit, "rate_limited",
			fmt.Sprintf("%s rate limit exceeded", service))
	default:
		if statusCode >= http.StatusInternalServerError {
			e = NewError(ErrorTypeNetwork, "server_error",
				fmt.Sprintf("%s returned status %d", service, statusCode))
		} else {
			e = NewError(ErrorTypeAPI, "api_error",
				fmt.Sprintf("%s returned status %d", service, statusCode))
		}
	}
	if body != "" {
		e = e.WithDetails(truncate(body, 300))
	}
	return e.WithContext("status_code", statusCode)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
