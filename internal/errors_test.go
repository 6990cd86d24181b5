package internal

import (
	"strings"
	"testing"
)

func TestGatewayError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *GatewayError
		contains []string
	}{
		{
			name:     "basic_error",
			err:      NewGatewayError(404, "page not found", ErrNetwork),
			contains: []string{"404", "Network", "page not found"},
		},
		{
			name:     "error_with_suggestion",
			err:      NewGatewayError(0, "bad markup", ErrTokenParse).WithSuggestion("try again later"),
			contains: []string{"TokenParse", "bad markup", "Suggestion: try again later"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, fragment := range tt.contains {
				if !strings.Contains(msg, fragment) {
					t.Errorf("expected %q in error message %q", fragment, msg)
				}
			}
		})
	}
}

func TestGatewayError_IsRetryable(t *testing.T) {
	tests := []struct {
		name      string
		err       *GatewayError
		retryable bool
	}{
		{
			name:      "network_error",
			err:       NewGatewayError(0, "connection reset", ErrNetwork),
			retryable: true,
		},
		{
			name:      "server_error_response",
			err:       NewGatewayError(503, "unavailable", ErrInvalidResponse),
			retryable: true,
		},
		{
			name:      "client_error_response",
			err:       NewGatewayError(404, "not found", ErrInvalidResponse),
			retryable: false,
		},
		{
			name:      "token_parse",
			err:       NewGatewayError(0, "no csrf", ErrTokenParse),
			retryable: false,
		},
		{
			name:      "extraction",
			err:       NewGatewayError(0, "no link", ErrExtraction),
			retryable: false,
		},
		{
			name:      "archive",
			err:       NewGatewayError(0, "bad zip", ErrArchive),
			retryable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.IsRetryable(); got != tt.retryable {
				t.Errorf("expected retryable=%v, got %v", tt.retryable, got)
			}
		})
	}
}

func TestErrorType_String(t *testing.T) {
	tests := []struct {
		errType  ErrorType
		expected string
	}{
		{ErrInvalidURL, "InvalidURL"},
		{ErrNetwork, "Network"},
		{ErrTokenParse, "TokenParse"},
		{ErrExtraction, "Extraction"},
		{ErrInvalidResponse, "InvalidResponse"},
		{ErrDownloadFailed, "DownloadFailed"},
		{ErrArchive, "Archive"},
		{ErrPermissionDenied, "PermissionDenied"},
		{ErrorType(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.errType.String(); got != tt.expected {
			t.Errorf("ErrorType(%d): expected %q, got %q", tt.errType, tt.expected, got)
		}
	}
}

func TestDefaultSeverity(t *testing.T) {
	if sev := NewGatewayError(0, "x", ErrNetwork).Severity; sev != SeverityWarning {
		t.Errorf("network errors should default to warning, got %v", sev)
	}
	if sev := NewGatewayError(0, "x", ErrPermissionDenied).Severity; sev != SeverityCritical {
		t.Errorf("permission errors should default to critical, got %v", sev)
	}
	if sev := NewGatewayError(0, "x", ErrExtraction).Severity; sev != SeverityError {
		t.Errorf("extraction errors should default to error, got %v", sev)
	}
}

func TestGatewayError_DetailedError_RedactsQuery(t *testing.T) {
	err := NewGatewayError(403, "denied", ErrNetwork).
		WithURL("https://cdn.example.com/f/x.zip?sig=secret123")

	detailed := err.DetailedError()
	if strings.Contains(detailed, "secret123") {
		t.Error("query string leaked into detailed error")
	}
	if !strings.Contains(detailed, "[REDACTED]") {
		t.Error("expected redaction marker in detailed error")
	}
}

func TestGatewayError_WithContext(t *testing.T) {
	err := NewGatewayError(0, "x", ErrArchive).
		WithContext("archive_path", "/tmp/downloaded_file.zip")

	if err.Context["archive_path"] != "/tmp/downloaded_file.zip" {
		t.Error("context value not stored")
	}
	if !strings.Contains(err.DetailedError(), "archive_path") {
		t.Error("context missing from detailed error")
	}
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name         string
		err          *GatewayError
		expectedType ErrorType
	}{
		{
			name:         "network",
			err:          NewNetworkError(502, "token fetch", nil),
			expectedType: ErrNetwork,
		},
		{
			name:         "token_parse",
			err:          NewTokenParseError("no input element"),
			expectedType: ErrTokenParse,
		},
		{
			name:         "extraction",
			err:          NewExtractionError("https://gateway.example.com/d/x"),
			expectedType: ErrExtraction,
		},
		{
			name:         "archive",
			err:          NewArchiveError("/tmp/f.zip", errString("not a zip")),
			expectedType: ErrArchive,
		},
		{
			name:         "invalid_url",
			err:          NewInvalidURLError("bogus", "missing scheme"),
			expectedType: ErrInvalidURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Type != tt.expectedType {
				t.Errorf("expected type %v, got %v", tt.expectedType, tt.err.Type)
			}
			if tt.err.Suggestion == "" {
				t.Error("constructor should attach a default suggestion")
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("url", "URL cannot be empty").
		WithSuggestion("pass a full https:// URL")

	msg := err.Error()
	if !strings.Contains(msg, "url") || !strings.Contains(msg, "URL cannot be empty") {
		t.Errorf("unexpected message %q", msg)
	}
	if !strings.Contains(msg, "Suggestion") {
		t.Error("suggestion missing from message")
	}

	withValue := NewValidationErrorWithValue("url", "bad scheme", "ftp://x")
	if withValue.Value != "ftp://x" {
		t.Error("value not stored")
	}
	if !strings.Contains(withValue.DetailedError(), "ftp://x") {
		t.Error("value missing from detailed message")
	}
}

type errString string

func (e errString) Error() string { return string(e) }
