package config

import (
	"fmt"
	"strings"
)

var validBetTypes = map[string]struct{}{
	"Moneyline":  {},
	"Spread":     {},
	"Over/Under": {},
	"Parlay":     {},
}

func validate(c *Config) error {
	if err := c.HTTP.validate(); err != nil {
		return err
	}
	if err := c.Predict.validate(); err != nil {
		return err
	}
	if err := c.Quota.validate(); err != nil {
		return err
	}
	if err := c.Events.validate(); err != nil {
		return err
	}
	for _, id := range ProviderIDs() {
		if err := c.Providers.ref(id).validate(id); err != nil {
			return err
		}
	}
	return nil
}

func (h *HTTPConfig) validate() error {
	if strings.TrimSpace(h.Addr) == "" {
		return fmt.Errorf("http.addr cannot be empty")
	}
	return nil
}

func (p *PredictConfig) validate() error {
	if _, ok := (&ProvidersConfig{}).Get(p.DefaultProvider); !ok {
		return fmt.Errorf("predict.default_provider unknown: %s", p.DefaultProvider)
	}
	if _, ok := validBetTypes[p.DefaultBetType]; !ok {
		return fmt.Errorf("predict.default_bet_type unknown: %s", p.DefaultBetType)
	}
	if p.MaxImages < 0 || p.MaxImages > 4 {
		return fmt.Errorf("predict.max_images must be within [0,4]")
	}
	if p.MaxImageBytes <= 0 {
		return fmt.Errorf("predict.max_image_bytes must be > 0")
	}
	return nil
}

func (q *QuotaConfig) validate() error {
	if q.GuestDailyLimit < 0 || q.UserDailyLimit < 0 {
		return fmt.Errorf("quota limits must be >= 0")
	}
	return nil
}

func (e *EventsConfig) validate() error {
	if !e.Kafka.Enabled {
		return nil
	}
	if len(e.Kafka.Brokers) == 0 {
		return fmt.Errorf("events.kafka.brokers required when kafka is enabled")
	}
	if strings.TrimSpace(e.Kafka.Topic) == "" {
		return fmt.Errorf("events.kafka.topic cannot be empty")
	}
	return nil
}

func (p *ProviderConfig) validate(id string) error {
	if strings.TrimSpace(p.Model) == "" {
		return fmt.Errorf("providers.%s.model cannot be empty", id)
	}
	if id != ProviderGemini && p.BaseURL == "" {
		return fmt.Errorf("providers.%s.base_url cannot be empty", id)
	}
	if p.TimeoutSeconds <= 0 {
		return fmt.Errorf("providers.%s.timeout_seconds must be > 0", id)
	}
	if p.MaxRetries < 0 {
		return fmt.Errorf("providers.%s.max_retries must be >= 0", id)
	}
	if p.RequestsPerSecond < 0 {
		return fmt.Errorf("providers.%s.requests_per_second must be >= 0", id)
	}
	if p.Temperature < 0 || p.Temperature > 2 || p.ThinkTemperature < 0 || p.ThinkTemperature > 2 {
		return fmt.Errorf("providers.%s temperature must be within [0,2]", id)
	}
	if p.BreakerThreshold < 0 {
		return fmt.Errorf("providers.%s.breaker_threshold must be >= 0", id)
	}
	return nil
}

// Configured reports whether the provider has a credential.
func (p ProviderConfig) Configured() bool {
	return strings.TrimSpace(p.APIKey) != ""
}
