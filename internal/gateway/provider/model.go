package provider

import "context"

// ImagePayload is one base64-encoded attachment.
type ImagePayload struct {
	MimeType string
	Data     string
}

// DataURI renders the attachment as a data: URL.
func (i ImagePayload) DataURI() string {
	return "data:" + i.MimeType + ";base64," + i.Data
}

// ChatPayload is the provider-neutral request handed to every backend.
type ChatPayload struct {
	System      string
	User        string
	Images      []ImagePayload
	Temperature float64
	MaxTokens   int
}

type ModelProvider interface {
	ID() string
	Name() string
	Model() string
	Configured() bool

	Call(ctx context.Context, payload ChatPayload) (string, error)
}
