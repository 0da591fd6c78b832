package config

import "strings"

// Config is the root of sharpline's settings.
type Config struct {
	App       AppConfig       `toml:"app"`
	HTTP      HTTPConfig      `toml:"http"`
	Predict   PredictConfig   `toml:"predict"`
	Quota     QuotaConfig     `toml:"quota"`
	Store     StoreConfig     `toml:"store"`
	Prompt    PromptConfig    `toml:"prompt"`
	Events    EventsConfig    `toml:"events"`
	Providers ProvidersConfig `toml:"providers"`
}

type AppConfig struct {
	Env          string `toml:"env"`
	LogLevel     string `toml:"log_level"`
	LogPath      string `toml:"log_path"`
	LogMaxSizeMB int    `toml:"log_max_size_mb"`
	LogBackups   int    `toml:"log_max_backups"`
	LLMLog       string `toml:"llm_log_path"`
	LLMDump      bool   `toml:"llm_dump_payload"`
}

type HTTPConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
	JWTSecret      string   `toml:"jwt_secret"`
	MaxBodyBytes   int64    `toml:"max_body_bytes"`
}

// PredictConfig holds request defaults and attachment limits.
type PredictConfig struct {
	DefaultProvider string `toml:"default_provider"`
	DefaultSport    string `toml:"default_sport"`
	DefaultBetType  string `toml:"default_bet_type"`
	MaxImages       int    `toml:"max_images"`
	MaxImageBytes   int    `toml:"max_image_bytes"`
}

type QuotaConfig struct {
	GuestDailyLimit int `toml:"guest_daily_limit"`
	UserDailyLimit  int `toml:"user_daily_limit"`
}

type StoreConfig struct {
	Path string `toml:"path"`
}

// PromptConfig points at an optional YAML file overriding the built-in prompts.
type PromptConfig struct {
	Path string `toml:"path"`
}

type EventsConfig struct {
	Kafka KafkaConfig `toml:"kafka"`
}

type KafkaConfig struct {
	Enabled  bool     `toml:"enabled"`
	Brokers  []string `toml:"brokers"`
	Topic    string   `toml:"topic"`
	ClientID string   `toml:"client_id"`
}

// ProvidersConfig carries one block per supported backend.
type ProvidersConfig struct {
	Grok   ProviderConfig `toml:"grok"`
	GPT    ProviderConfig `toml:"gpt"`
	Claude ProviderConfig `toml:"claude"`
	Gemini ProviderConfig `toml:"gemini"`
}

// ProviderConfig describes how to reach one backend. An empty APIKey leaves the
// provider registered but failing with a configuration error on every call.
type ProviderConfig struct {
	Name                   string  `toml:"name"`
	APIKey                 string  `toml:"api_key"`
	BaseURL                string  `toml:"base_url"`
	Model                  string  `toml:"model"`
	TimeoutSeconds         int     `toml:"timeout_seconds"`
	MaxRetries             int     `toml:"max_retries"`
	RequestsPerSecond      float64 `toml:"requests_per_second"`
	Temperature            float64 `toml:"temperature"`
	ThinkTemperature       float64 `toml:"think_temperature"`
	MaxTokens              int     `toml:"max_tokens"`
	ThinkHarderGuidance    bool    `toml:"think_harder_guidance"`
	BreakerThreshold       int     `toml:"breaker_threshold"`
	BreakerCooldownSeconds int     `toml:"breaker_cooldown_seconds"`
}

// Provider ids, in the order they are listed to clients.
const (
	ProviderGrok   = "grok"
	ProviderGPT    = "gpt"
	ProviderClaude = "claude"
	ProviderGemini = "gemini"
)

// ProviderIDs lists every supported backend id.
func ProviderIDs() []string {
	return []string{ProviderGrok, ProviderGPT, ProviderClaude, ProviderGemini}
}

// Get returns the block for id.
func (p ProvidersConfig) Get(id string) (ProviderConfig, bool) {
	switch strings.ToLower(strings.TrimSpace(id)) {
	case ProviderGrok:
		return p.Grok, true
	case ProviderGPT:
		return p.GPT, true
	case ProviderClaude:
		return p.Claude, true
	case ProviderGemini:
		return p.Gemini, true
	default:
		return ProviderConfig{}, false
	}
}

func (p *ProvidersConfig) ref(id string) *ProviderConfig {
	switch id {
	case ProviderGrok:
		return &p.Grok
	case ProviderGPT:
		return &p.GPT
	case ProviderClaude:
		return &p.Claude
	case ProviderGemini:
		return &p.Gemini
	default:
		return nil
	}
}

// CredentialEnv maps provider ids to the environment variable holding their key.
var CredentialEnv = map[string]string{
	ProviderGrok:   "XAI_API_KEY",
	ProviderGPT:    "OPENAI_API_KEY",
	ProviderClaude: "ANTHROPIC_API_KEY",
	ProviderGemini: "GOOGLE_AI_API_KEY",
}

// keySet tracks the paths explicitly present in the config sources.
type keySet map[string]struct{}

func (k keySet) mark(path string) {
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return
	}
	k[path] = struct{}{}
}

func (k keySet) isSet(path string) bool {
	if len(k) == 0 {
		return false
	}
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return false
	}
	_, ok := k[path]
	return ok
}

// fieldDefault describes when and how one field receives its default.
type fieldDefault struct {
	key   string
	need  func() bool
	apply func()
}
