package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"sharpline/internal/logger"
)

// OpenAIChatClient speaks the chat-completions protocol shared by OpenAI and xAI.
type OpenAIChatClient struct {
	ProviderID string
	BaseURL    string
	APIKey     string
	Model      string
	EnvVar     string
	// MaxRetries applies to 429/5xx answers only; zero disables retries.
	MaxRetries int
	HTTPClient *http.Client

	throttle throttle
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatContentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *OpenAIChatClient) endpoint() string {
	url := strings.TrimRight(c.BaseURL, "/")
	if url == "" {
		url = "https://api.openai.com/v1"
	}
	url = strings.TrimSuffix(url, "/chat/completions")
	return url + "/chat/completions"
}

func (c *OpenAIChatClient) buildRequest(payload ChatPayload) chatRequest {
	messages := make([]chatMessage, 0, 2)
	if payload.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: payload.System})
	}
	if len(payload.Images) == 0 {
		messages = append(messages, chatMessage{Role: "user", Content: payload.User})
	} else {
		parts := make([]chatContentPart, 0, len(payload.Images)+1)
		parts = append(parts, chatContentPart{Type: "text", Text: payload.User})
		for _, img := range payload.Images {
			parts = append(parts, chatContentPart{Type: "image_url", ImageURL: &chatImageURL{URL: img.DataURI()}})
		}
		messages = append(messages, chatMessage{Role: "user", Content: parts})
	}
	return chatRequest{
		Model:       c.Model,
		Messages:    messages,
		Temperature: payload.Temperature,
		MaxTokens:   payload.MaxTokens,
	}
}

// Complete sends one chat completion and returns the first choice's content.
func (c *OpenAIChatClient) Complete(ctx context.Context, payload ChatPayload) (string, error) {
	if c.APIKey == "" {
		return "", &ConfigError{Provider: c.ProviderID, EnvVar: c.EnvVar}
	}
	body, err := json.Marshal(c.buildRequest(payload))
	if err != nil {
		return "", fmt.Errorf("encoding chat request: %w", err)
	}
	var policy backoff.BackOff = &backoff.StopBackOff{}
	if c.MaxRetries > 0 {
		exp := backoff.NewExponentialBackOff()
		exp.InitialInterval = 800 * time.Millisecond
		exp.MaxInterval = 8 * time.Second
		policy = backoff.WithMaxRetries(exp, uint64(c.MaxRetries))
	}
	var out string
	attempt := 0
	op := func() error {
		attempt++
		if err := c.throttle.wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		res, err := c.post(ctx, body)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.Retryable() {
				logger.Warnf("provider %s attempt %d failed: %v", c.ProviderID, attempt, err)
				return err
			}
			return backoff.Permanent(err)
		}
		out = res
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(policy, ctx)); err != nil {
		return "", err
	}
	return out, nil
}

func (c *OpenAIChatClient) post(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	httpc := c.HTTPClient
	if httpc == nil {
		httpc = http.DefaultClient
	}
	resp, err := httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s request failed: %w", c.ProviderID, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%s reading response: %w", c.ProviderID, err)
	}
	if resp.StatusCode/100 != 2 {
		return "", &APIError{Provider: c.ProviderID, StatusCode: resp.StatusCode, Body: string(raw)}
	}
	var r chatResponse
	if err := json.Unmarshal(raw, &r); err != nil {
		return "", fmt.Errorf("%s decoding response: %w", c.ProviderID, err)
	}
	if len(r.Choices) == 0 || r.Choices[0].Message.Content == nil || *r.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return *r.Choices[0].Message.Content, nil
}

// OpenAIModelProvider adapts an OpenAIChatClient to ModelProvider.
type OpenAIModelProvider struct {
	id     string
	name   string
	client *OpenAIChatClient
}

func NewOpenAIModelProvider(id, name string, client *OpenAIChatClient) *OpenAIModelProvider {
	return &OpenAIModelProvider{id: id, name: name, client: client}
}

func (p *OpenAIModelProvider) ID() string       { return p.id }
func (p *OpenAIModelProvider) Name() string     { return p.name }
func (p *OpenAIModelProvider) Model() string    { return p.client.Model }
func (p *OpenAIModelProvider) Configured() bool { return p.client.APIKey != "" }

func (p *OpenAIModelProvider) Call(ctx context.Context, payload ChatPayload) (string, error) {
	return p.client.Complete(ctx, payload)
}
