package internal

import (
	"fmt"
	"strings"
)

// ErrorType represents different types of errors
type ErrorType int

const (
	ErrInvalidURL ErrorType = iota
	ErrNetwork
	ErrTokenParse
	ErrExtraction
	ErrInvalidResponse
	ErrDownloadFailed
	ErrArchive
	ErrPermissionDenied
)

// ErrorSeverity represents the severity of an error
type ErrorSeverity int

const (
	SeverityInfo ErrorSeverity = iota
	SeverityWarning
	SeverityError
	SeverityCritical
)

// GatewayError represents a pipeline error with detailed information
type GatewayError struct {
	Code       int                    `json:"code"`
	Message    string                 `json:"message"`
	Type       ErrorType              `json:"type"`
	Severity   ErrorSeverity          `json:"severity"`
	URL        string                 `json:"url,omitempty"`
	Suggestion string                 `json:"suggestion,omitempty"`
	Context    map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *GatewayError) Error() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("gateway error (code: %d, type: %s)", e.Code, e.Type.String()))

	if e.Message != "" {
		parts = append(parts, e.Message)
	}

	if e.Suggestion != "" {
		parts = append(parts, fmt.Sprintf("Suggestion: %s", e.Suggestion))
	}

	return strings.Join(parts, " - ")
}

// DetailedError returns a detailed error message with all available information
func (e *GatewayError) DetailedError() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("[%s] %s Error", e.Severity.String(), e.Type.String()))

	if e.Code != 0 {
		parts = append(parts, fmt.Sprintf("Code: %d", e.Code))
	}
	if e.Message != "" {
		parts = append(parts, fmt.Sprintf("Message: %s", e.Message))
	}

	if e.URL != "" {
		parts = append(parts, fmt.Sprintf("URL: %s", redactSensitiveURL(e.URL)))
	}

	if len(e.Context) > 0 {
		contextParts := make([]string, 0, len(e.Context))
		for k, v := range e.Context {
			contextParts = append(contextParts, fmt.Sprintf("%s=%v", k, v))
		}
		parts = append(parts, fmt.Sprintf("Context: %s", strings.Join(contextParts, ", ")))
	}

	if e.Suggestion != "" {
		parts = append(parts, fmt.Sprintf("\nSuggestion: %s", e.Suggestion))
	}

	return strings.Join(parts, "\n")
}

// String returns the string representation of ErrorType
func (et ErrorType) String() string {
	switch et {
	case ErrInvalidURL:
		return "InvalidURL"
	case ErrNetwork:
		return "Network"
	case ErrTokenParse:
		return "TokenParse"
	case ErrExtraction:
		return "Extraction"
	case ErrInvalidResponse:
		return "InvalidResponse"
	case ErrDownloadFailed:
		return "DownloadFailed"
	case ErrArchive:
		return "Archive"
	case ErrPermissionDenied:
		return "PermissionDenied"
	default:
		return "Unknown"
	}
}

// String returns the string representation of ErrorSeverity
func (es ErrorSeverity) String() string {
	switch es {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// NewGatewayError creates a new GatewayError with detailed information
func NewGatewayError(code int, message string, errorType ErrorType) *GatewayError {
	err := &GatewayError{
		Code:     code,
		Message:  message,
		Type:     errorType,
		Severity: getDefaultSeverity(errorType),
		Context:  make(map[string]interface{}),
	}

	err.Suggestion = getDefaultSuggestion(errorType)

	return err
}

// WithSuggestion adds a custom suggestion to the error
func (e *GatewayError) WithSuggestion(suggestion string) *GatewayError {
	e.Suggestion = suggestion
	return e
}

// WithURL adds URL context to the error (redacted in logs)
func (e *GatewayError) WithURL(url string) *GatewayError {
	e.URL = url
	return e
}

// WithContext adds context information to the error
func (e *GatewayError) WithContext(key string, value interface{}) *GatewayError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// IsRetryable returns true if the error is worth retrying at the
// transport level. Token, extraction and archive failures signal the
// gateway changed its markup or the payload is unusable; retrying
// cannot fix those.
func (e *GatewayError) IsRetryable() bool {
	switch e.Type {
	case ErrNetwork:
		return true
	case ErrInvalidResponse:
		return e.Code >= 500
	default:
		return false
	}
}

// ValidationError represents input validation errors
type ValidationError struct {
	Field      string                 `json:"field"`
	Message    string                 `json:"message"`
	Value      interface{}            `json:"value,omitempty"`
	Suggestion string                 `json:"suggestion,omitempty"`
	Context    map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	parts := []string{fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)}

	if e.Suggestion != "" {
		parts = append(parts, fmt.Sprintf("Suggestion: %s", e.Suggestion))
	}

	return strings.Join(parts, " - ")
}

// DetailedError returns a detailed validation error message
func (e *ValidationError) DetailedError() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("Validation Error for field '%s'", e.Field))
	parts = append(parts, fmt.Sprintf("Message: %s", e.Message))

	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("Provided value: %v", e.Value))
	}

	if e.Suggestion != "" {
		parts = append(parts, fmt.Sprintf("\nSuggestion: %s", e.Suggestion))
	}

	return strings.Join(parts, "\n")
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Context: make(map[string]interface{}),
	}
}

// NewValidationErrorWithValue creates a ValidationError with the invalid value
func NewValidationErrorWithValue(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
		Context: make(map[string]interface{}),
	}
}

// WithSuggestion adds a suggestion to the validation error
func (e *ValidationError) WithSuggestion(suggestion string) *ValidationError {
	e.Suggestion = suggestion
	return e
}

// getDefaultSuggestion returns a default suggestion based on error type
func getDefaultSuggestion(errorType ErrorType) string {
	switch errorType {
	case ErrInvalidURL:
		return "Provide a full http:// or https:// target URL"
	case ErrNetwork:
		return "Check your internet connection and try again. Consider using a proxy if needed"
	case ErrTokenParse:
		return "The gateway landing page no longer carries the csrf field; the service may have changed"
	case ErrExtraction:
		return "No direct link found; the gateway page structure may have changed"
	case ErrInvalidResponse:
		return "Unexpected response from the gateway. Try again later"
	case ErrDownloadFailed:
		return "Download failed. Check available disk space and network connection"
	case ErrArchive:
		return "The downloaded file is not a valid zip archive; the raw file has been kept on disk"
	case ErrPermissionDenied:
		return "Check directory permissions for the destination path"
	default:
		return "Please check the error details and try again"
	}
}

// getDefaultSeverity returns the default severity for an error type
func getDefaultSeverity(errorType ErrorType) ErrorSeverity {
	switch errorType {
	case ErrNetwork:
		return SeverityWarning
	case ErrPermissionDenied:
		return SeverityCritical
	default:
		return SeverityError
	}
}

// redactSensitiveURL redacts sensitive information from URLs
func redactSensitiveURL(url string) string {
	if strings.Contains(url, "?") {
		parts := strings.Split(url, "?")
		return parts[0] + "?[REDACTED]"
	}
	return url
}

// Common error constructors for frequently used errors

// NewNetworkError creates an error for transport failures and bad statuses
func NewNetworkError(code int, operation string, cause error) *GatewayError {
	msg := fmt.Sprintf("network failure during %s", operation)
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return NewGatewayError(code, msg, ErrNetwork)
}

// NewTokenParseError creates an error for a missing or empty csrf field
func NewTokenParseError(reason string) *GatewayError {
	return NewGatewayError(0, fmt.Sprintf("failed to parse csrf token: %s", reason), ErrTokenParse)
}

// NewExtractionError creates an error for an unextractable gateway response
func NewExtractionError(workingURL string) *GatewayError {
	return NewGatewayError(0, "no direct link found; page structure may have changed", ErrExtraction).
		WithURL(workingURL)
}

// NewArchiveError creates an error for an invalid downloaded archive
func NewArchiveError(path string, cause error) *GatewayError {
	return NewGatewayError(0, fmt.Sprintf("cannot open archive: %v", cause), ErrArchive).
		WithContext("archive_path", path)
}

// NewInvalidURLError creates an error for invalid target URLs
func NewInvalidURLError(url string, reason string) *GatewayError {
	return NewGatewayError(400, fmt.Sprintf("invalid URL: %s", reason), ErrInvalidURL).
		WithURL(url)
}
