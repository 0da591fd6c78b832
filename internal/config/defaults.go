package config

import "strings"

const (
	defaultAppEnv          = "dev"
	defaultAppLogLevel     = "info"
	defaultAppLogMaxSizeMB = 50
	defaultAppLogBackups   = 5
	defaultHTTPAddr        = ":8080"
	defaultMaxBodyBytes    = 32 << 20
	defaultSport           = "NBA"
	defaultBetType         = "Moneyline"
	defaultMaxImages       = 4
	defaultMaxImageBytes   = 5 << 20
	defaultGuestLimit      = 10
	defaultUserLimit       = 50
	defaultStorePath       = "data/sharpline.db"
	defaultKafkaTopic      = "sharpline.predictions"
	defaultKafkaClientID   = "sharpline"
	defaultTimeoutSeconds  = 60
	defaultMaxTokens       = 1000
	defaultTemperature     = 0.3
	defaultBreakerCooldown = 30
)

type providerPreset struct {
	name             string
	baseURL          string
	model            string
	thinkTemperature float64
	guidance         bool
}

var providerPresets = map[string]providerPreset{
	ProviderGrok: {
		name:             "Grok",
		baseURL:          "https://api.x.ai/v1",
		model:            "grok-3-mini-1212",
		thinkTemperature: 0.2,
		guidance:         true,
	},
	ProviderGPT: {
		name:             "GPT",
		baseURL:          "https://api.openai.com/v1",
		model:            "gpt-4o-mini",
		thinkTemperature: defaultTemperature,
	},
	ProviderClaude: {
		name:             "Claude",
		baseURL:          "https://api.anthropic.com",
		model:            "claude-sonnet-4-20250514",
		thinkTemperature: defaultTemperature,
	},
	ProviderGemini: {
		name:             "Gemini",
		model:            "gemini-1.5-flash",
		thinkTemperature: defaultTemperature,
	},
}

func (c *Config) applyDefaults(keys keySet) {
	c.App.applyDefaults(keys)
	c.HTTP.applyDefaults(keys)
	c.Predict.applyDefaults(keys)
	c.Quota.applyDefaults(keys)
	c.Store.applyDefaults(keys)
	c.Events.applyDefaults(keys)
	for _, id := range ProviderIDs() {
		c.Providers.ref(id).applyDefaults(keys, id)
	}
}

func (a *AppConfig) applyDefaults(keys keySet) {
	applyFieldDefaults(keys,
		stringFieldDefault("app.env", &a.Env, defaultAppEnv),
		stringFieldDefault("app.log_level", &a.LogLevel, defaultAppLogLevel),
		intFieldDefault("app.log_max_size_mb", &a.LogMaxSizeMB, defaultAppLogMaxSizeMB),
		intFieldDefault("app.log_max_backups", &a.LogBackups, defaultAppLogBackups),
	)
}

func (h *HTTPConfig) applyDefaults(keys keySet) {
	applyFieldDefaults(keys,
		stringFieldDefault("http.addr", &h.Addr, defaultHTTPAddr),
		fieldDefault{
			key:   "http.max_body_bytes",
			need:  func() bool { return h.MaxBodyBytes <= 0 },
			apply: func() { h.MaxBodyBytes = defaultMaxBodyBytes },
		},
	)
}

func (p *PredictConfig) applyDefaults(keys keySet) {
	applyFieldDefaults(keys,
		stringFieldDefault("predict.default_provider", &p.DefaultProvider, ProviderGrok),
		stringFieldDefault("predict.default_sport", &p.DefaultSport, defaultSport),
		stringFieldDefault("predict.default_bet_type", &p.DefaultBetType, defaultBetType),
		intFieldDefault("predict.max_images", &p.MaxImages, defaultMaxImages),
		intFieldDefault("predict.max_image_bytes", &p.MaxImageBytes, defaultMaxImageBytes),
	)
	p.DefaultProvider = strings.ToLower(strings.TrimSpace(p.DefaultProvider))
}

func (q *QuotaConfig) applyDefaults(keys keySet) {
	applyFieldDefaults(keys,
		intFieldDefault("quota.guest_daily_limit", &q.GuestDailyLimit, defaultGuestLimit),
		intFieldDefault("quota.user_daily_limit", &q.UserDailyLimit, defaultUserLimit),
	)
}

func (s *StoreConfig) applyDefaults(keys keySet) {
	applyFieldDefaults(keys,
		stringFieldDefault("store.path", &s.Path, defaultStorePath),
	)
}

func (e *EventsConfig) applyDefaults(keys keySet) {
	k := &e.Kafka
	applyFieldDefaults(keys,
		stringFieldDefault("events.kafka.topic", &k.Topic, defaultKafkaTopic),
		stringFieldDefault("events.kafka.client_id", &k.ClientID, defaultKafkaClientID),
	)
}

func (p *ProviderConfig) applyDefaults(keys keySet, id string) {
	preset := providerPresets[id]
	prefix := "providers." + id + "."
	applyFieldDefaults(keys,
		stringFieldDefault(prefix+"name", &p.Name, preset.name),
		stringFieldDefault(prefix+"base_url", &p.BaseURL, preset.baseURL),
		stringFieldDefault(prefix+"model", &p.Model, preset.model),
		intFieldDefault(prefix+"timeout_seconds", &p.TimeoutSeconds, defaultTimeoutSeconds),
		intFieldDefault(prefix+"max_tokens", &p.MaxTokens, defaultMaxTokens),
		intFieldDefault(prefix+"breaker_cooldown_seconds", &p.BreakerCooldownSeconds, defaultBreakerCooldown),
		floatFieldDefault(prefix+"temperature", &p.Temperature, defaultTemperature),
		floatFieldDefault(prefix+"think_temperature", &p.ThinkTemperature, preset.thinkTemperature),
		boolFieldDefault(prefix+"think_harder_guidance", &p.ThinkHarderGuidance, preset.guidance),
	)
	p.APIKey = strings.TrimSpace(p.APIKey)
	p.BaseURL = strings.TrimRight(strings.TrimSpace(p.BaseURL), "/")
}

func applyFieldDefaults(keys keySet, defs ...fieldDefault) {
	for _, def := range defs {
		if def.apply == nil {
			continue
		}
		if def.key != "" && keys.isSet(def.key) {
			continue
		}
		if def.need != nil && !def.need() {
			continue
		}
		def.apply()
	}
}

func stringFieldDefault(key string, target *string, def string) fieldDefault {
	return fieldDefault{
		key: key,
		need: func() bool {
			return target != nil && strings.TrimSpace(*target) == ""
		},
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}

func intFieldDefault(key string, target *int, def int) fieldDefault {
	return fieldDefault{
		key:   key,
		need:  func() bool { return target != nil && *target <= 0 },
		apply: func() { *target = def },
	}
}

func floatFieldDefault(key string, target *float64, def float64) fieldDefault {
	return fieldDefault{
		key:   key,
		need:  func() bool { return target != nil && *target <= 0 },
		apply: func() { *target = def },
	}
}

func boolFieldDefault(key string, target *bool, def bool) fieldDefault {
	return fieldDefault{
		key:  key,
		need: func() bool { return target != nil },
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}
