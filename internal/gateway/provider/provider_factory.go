package provider

import (
	"net/http"
	"strings"
	"time"

	"sharpline/internal/logger"
)

// Wire protocol families.
const (
	KindChat   = "chat"
	KindClaude = "claude"
	KindGemini = "gemini"
)

// ModelCfg is the per-backend construction input.
type ModelCfg struct {
	ID, Name, Kind, BaseURL, APIKey, Model, EnvVar string
	Timeout                                        time.Duration
	MaxRetries                                     int
	RequestsPerSecond                              float64
}

// BuildProvider constructs the backend client for one configured model.
func BuildProvider(m ModelCfg) ModelProvider {
	httpc := &http.Client{Timeout: m.Timeout}
	id := strings.ToLower(strings.TrimSpace(m.ID))
	name := m.Name
	if name == "" {
		name = id
	}
	if m.APIKey == "" {
		logger.Warnf("provider %s has no credential; set %s to enable it", id, m.EnvVar)
	}
	switch m.Kind {
	case KindClaude:
		return &ClaudeClient{
			ProviderID: id,
			Label:      name,
			BaseURL:    m.BaseURL,
			APIKey:     m.APIKey,
			ModelName:  m.Model,
			EnvVar:     m.EnvVar,
			HTTPClient: httpc,
			throttle:   newThrottle(m.RequestsPerSecond),
		}
	case KindGemini:
		return &GeminiClient{
			ProviderID: id,
			Label:      name,
			BaseURL:    m.BaseURL,
			APIKey:     m.APIKey,
			ModelName:  m.Model,
			EnvVar:     m.EnvVar,
			HTTPClient: httpc,
			throttle:   newThrottle(m.RequestsPerSecond),
		}
	default:
		return NewOpenAIModelProvider(id, name, &OpenAIChatClient{
			ProviderID: id,
			BaseURL:    m.BaseURL,
			APIKey:     m.APIKey,
			Model:      m.Model,
			EnvVar:     m.EnvVar,
			MaxRetries: m.MaxRetries,
			HTTPClient: httpc,
			throttle:   newThrottle(m.RequestsPerSecond),
		})
	}
}

// BuildProvidersFromConfig builds every model, keyed by id.
func BuildProvidersFromConfig(models []ModelCfg) map[string]ModelProvider {
	out := make(map[string]ModelProvider, len(models))
	for _, m := range models {
		p := BuildProvider(m)
		out[p.ID()] = p
	}
	return out
}
