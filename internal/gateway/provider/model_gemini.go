package provider

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"google.golang.org/genai"
)

// GeminiClient calls generateContent through the official genai SDK. Gemini has
// no system channel here, so the system text is folded into the user part.
type GeminiClient struct {
	ProviderID string
	Label      string
	BaseURL    string
	APIKey     string
	ModelName  string
	EnvVar     string
	HTTPClient *http.Client

	throttle throttle
	mu       sync.Mutex
	client   *genai.Client
}

const geminiPromptSeparator = "\n\n---\n\n"

func (c *GeminiClient) ID() string       { return c.ProviderID }
func (c *GeminiClient) Name() string     { return c.Label }
func (c *GeminiClient) Model() string    { return c.ModelName }
func (c *GeminiClient) Configured() bool { return c.APIKey != "" }

func (c *GeminiClient) sdk(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return c.client, nil
	}
	cfg := &genai.ClientConfig{
		APIKey:     c.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.HTTPClient,
	}
	if c.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.BaseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s client: %w", c.ProviderID, err)
	}
	c.client = client
	return client, nil
}

func (c *GeminiClient) Call(ctx context.Context, payload ChatPayload) (string, error) {
	if c.APIKey == "" {
		return "", &ConfigError{Provider: c.ProviderID, EnvVar: c.EnvVar}
	}
	if err := c.throttle.wait(ctx); err != nil {
		return "", err
	}
	client, err := c.sdk(ctx)
	if err != nil {
		return "", err
	}
	parts := make([]*genai.Part, 0, len(payload.Images)+1)
	for i, img := range payload.Images {
		data, err := base64.StdEncoding.DecodeString(img.Data)
		if err != nil {
			return "", fmt.Errorf("%s image %d: %w", c.ProviderID, i+1, err)
		}
		parts = append(parts, genai.NewPartFromBytes(data, img.MimeType))
	}
	prompt := payload.User
	if payload.System != "" {
		prompt = payload.System + geminiPromptSeparator + payload.User
	}
	parts = append(parts, genai.NewPartFromText(prompt))

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	resp, err := client.Models.GenerateContent(ctx, c.ModelName, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(payload.Temperature)),
	})
	if err != nil {
		return "", c.wrapError(err)
	}
	out := resp.Text()
	if strings.TrimSpace(out) == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}

func (c *GeminiClient) wrapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &APIError{Provider: c.ProviderID, StatusCode: apiErr.Code, Body: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return &APIError{Provider: c.ProviderID, StatusCode: apiErrPtr.Code, Body: apiErrPtr.Message}
	}
	return fmt.Errorf("%s request failed: %w", c.ProviderID, err)
}
