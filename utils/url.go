package utils

import (
	"fmt"
	"net/url"
	"strings"

	"cpxfetch/internal"
)

// ValidateTargetURL checks that a target URL is a fetchable absolute
// http(s) URL before it is handed to the gateway.
func ValidateTargetURL(rawURL string) error {
	if rawURL == "" {
		return internal.NewValidationError("url", "URL cannot be empty")
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return internal.NewValidationError("url", fmt.Sprintf("invalid URL format: %v", err))
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return internal.NewValidationError("url", "URL must use http or https protocol")
	}

	if parsedURL.Host == "" {
		return internal.NewValidationError("url", "URL must include a host")
	}

	return nil
}

// ResolveReference resolves a possibly-relative reference against a
// base URL, always producing an absolute URL.
func ResolveReference(baseURL, ref string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", internal.NewInvalidURLError(baseURL, fmt.Sprintf("invalid base URL: %v", err))
	}

	parsed, err := url.Parse(ref)
	if err != nil {
		return "", internal.NewInvalidURLError(ref, fmt.Sprintf("invalid reference: %v", err))
	}

	resolved := base.ResolveReference(parsed)
	if resolved.Scheme == "" || resolved.Host == "" {
		return "", internal.NewInvalidURLError(ref, "resolution did not produce an absolute URL")
	}

	return resolved.String(), nil
}

// CleanExtractedURL normalizes a URL pulled out of gateway markup:
// JSON-style escaped slashes become plain slashes and stray quote or
// entity artifacts around the value are stripped.
func CleanExtractedURL(raw string) string {
	cleaned := strings.ReplaceAll(raw, `\/`, "/")
	cleaned = strings.ReplaceAll(cleaned, "&quot;", "")
	cleaned = strings.Trim(cleaned, `"`)
	return strings.TrimSpace(cleaned)
}
