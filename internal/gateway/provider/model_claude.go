package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// ClaudeClient calls the Anthropic messages API through the official SDK.
type ClaudeClient struct {
	ProviderID string
	Label      string
	BaseURL    string
	APIKey     string
	ModelName  string
	EnvVar     string
	HTTPClient *http.Client

	throttle throttle
	once     sync.Once
	client   anthropic.Client
}

func (c *ClaudeClient) sdk() *anthropic.Client {
	c.once.Do(func() {
		opts := []option.RequestOption{
			option.WithAPIKey(c.APIKey),
			option.WithMaxRetries(0),
		}
		if c.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(c.BaseURL))
		}
		if c.HTTPClient != nil {
			opts = append(opts, option.WithHTTPClient(c.HTTPClient))
		}
		c.client = anthropic.NewClient(opts...)
	})
	return &c.client
}

func (c *ClaudeClient) ID() string       { return c.ProviderID }
func (c *ClaudeClient) Name() string     { return c.Label }
func (c *ClaudeClient) Model() string    { return c.ModelName }
func (c *ClaudeClient) Configured() bool { return c.APIKey != "" }

// Call sends the images first and the user text last, with the system prompt
// in its own parameter.
func (c *ClaudeClient) Call(ctx context.Context, payload ChatPayload) (string, error) {
	if c.APIKey == "" {
		return "", &ConfigError{Provider: c.ProviderID, EnvVar: c.EnvVar}
	}
	if err := c.throttle.wait(ctx); err != nil {
		return "", err
	}
	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(payload.Images)+1)
	for _, img := range payload.Images {
		blocks = append(blocks, anthropic.NewImageBlockBase64(img.MimeType, img.Data))
	}
	blocks = append(blocks, anthropic.NewTextBlock(payload.User))

	maxTokens := payload.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1000
	}
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.ModelName),
		MaxTokens:   int64(maxTokens),
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(blocks...)},
		Temperature: anthropic.Float(payload.Temperature),
	}
	if payload.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: payload.System}}
	}
	msg, err := c.sdk().Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", &APIError{Provider: c.ProviderID, StatusCode: apiErr.StatusCode, Body: apiErr.RawJSON()}
		}
		return "", fmt.Errorf("%s request failed: %w", c.ProviderID, err)
	}
	for _, block := range msg.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}
	return "", ErrEmptyResponse
}
