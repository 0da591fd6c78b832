package provider

import (
	"errors"
	"fmt"
	"strings"

	"sharpline/internal/pkg/text"
)

// ErrEmptyResponse is returned when a backend answered without any text.
var ErrEmptyResponse = errors.New("Empty AI response")

// ConfigError reports a missing credential.
type ConfigError struct {
	Provider string
	EnvVar   string
}

func (e *ConfigError) Error() string {
	if e.EnvVar != "" {
		return e.EnvVar + " not configured"
	}
	return e.Provider + " API key not configured"
}

// APIError is a non-success answer from a backend.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

const apiErrorExcerpt = 300

func (e *APIError) Error() string {
	body := text.Truncate(strings.TrimSpace(e.Body), apiErrorExcerpt)
	return fmt.Sprintf("AI API error: %d - %s", e.StatusCode, body)
}

// Retryable reports whether the status is worth another attempt.
func (e *APIError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
