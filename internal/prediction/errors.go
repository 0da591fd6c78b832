package prediction

import "sharpline/internal/pkg/text"

const malformedExcerptLen = 200

// MalformedResponseError means no usable JSON object could be recovered from a
// provider's answer.
type MalformedResponseError struct {
	Excerpt string
	Err     error
}

func newMalformed(raw string, cause error) *MalformedResponseError {
	return &MalformedResponseError{Excerpt: text.Prefix(raw, malformedExcerptLen), Err: cause}
}

func (e *MalformedResponseError) Error() string {
	return "Invalid JSON from AI: " + e.Excerpt
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// ValidationError rejects a request before any provider is called.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// PrimaryFailedError fails the whole request when the first requested provider
// did not produce a result, regardless of the others.
type PrimaryFailedError struct {
	Provider string
	Message  string
}

func (e *PrimaryFailedError) Error() string { return e.Message }
