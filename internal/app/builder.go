package app

import (
	"context"
	"fmt"
	"time"

	"sharpline/internal/config"
	"sharpline/internal/gateway/events"
	"sharpline/internal/gateway/provider"
	"sharpline/internal/logger"
	"sharpline/internal/pkg/circuit"
	"sharpline/internal/prediction"
	"sharpline/internal/quota"
	"sharpline/internal/store"
	"sharpline/internal/store/sqlite"
	apihttp "sharpline/internal/transport/http/api"
)

type AppBuilder struct {
	cfg *config.Config

	storeFn     func(config.StoreConfig) (store.Store, error)
	providersFn func(config.ProvidersConfig) map[string]provider.ModelProvider
	publisherFn func(config.KafkaConfig) (events.Publisher, error)
	promptsFn   func(config.PromptConfig) (*prediction.PromptRegistry, error)
	httpFn      func(config.HTTPConfig, apihttp.PredictionService, []apihttp.ModelInfo, apihttp.RequestDefaults) (*apihttp.Server, error)
}

type AppBuilderOption func(*AppBuilder)

func NewAppBuilder(cfg *config.Config, opts ...AppBuilderOption) *AppBuilder {
	b := &AppBuilder{
		cfg:         cfg,
		storeFn:     openStore,
		providersFn: buildModelProviders,
		publisherFn: buildPublisher,
		promptsFn:   loadPrompts,
		httpFn:      buildHTTPServer,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	if b.cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	cfg := b.cfg

	st, err := b.storeFn(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	publisher, err := b.publisherFn(cfg.Events.Kafka)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("init publisher: %w", err)
	}
	prompts, err := b.promptsFn(cfg.Prompt)
	if err != nil {
		_ = st.Close()
		_ = publisher.Close()
		return nil, fmt.Errorf("load prompts: %w", err)
	}

	providers := b.providersFn(cfg.Providers)
	routes := buildRoutes(cfg.Providers, providers, prediction.NewPromptBuilder(prompts))
	dispatcher := prediction.NewDispatcher(routes, cfg.Predict.DefaultProvider)
	repo := st.Predictions()
	gate := quota.NewGate(repo, quota.Limits{Guest: cfg.Quota.GuestDailyLimit, User: cfg.Quota.UserDailyLimit})
	svc := prediction.NewService(dispatcher, gate, repo, publisher, prediction.Limits{
		MaxImages:     cfg.Predict.MaxImages,
		MaxImageBytes: cfg.Predict.MaxImageBytes,
	})

	models := modelInfos(providers)
	server, err := b.httpFn(cfg.HTTP, svc, models, apihttp.RequestDefaults{
		Sport:   cfg.Predict.DefaultSport,
		BetType: cfg.Predict.DefaultBetType,
		Models:  []string{cfg.Predict.DefaultProvider},
	})
	if err != nil {
		_ = st.Close()
		_ = publisher.Close()
		return nil, err
	}

	return &App{
		cfg:        cfg,
		service:    svc,
		store:      st,
		publisher:  publisher,
		prompts:    prompts,
		httpServer: server,
		Summary:    newStartupSummary(cfg, models),
	}, nil
}

func openStore(cfg config.StoreConfig) (store.Store, error) {
	return sqlite.NewSqliteStore(cfg.Path)
}

func buildPublisher(cfg config.KafkaConfig) (events.Publisher, error) {
	if !cfg.Enabled {
		return events.Noop{}, nil
	}
	return events.NewKafkaPublisher(events.KafkaConfig{Brokers: cfg.Brokers, Topic: cfg.Topic, ClientID: cfg.ClientID})
}

func loadPrompts(cfg config.PromptConfig) (*prediction.PromptRegistry, error) {
	return prediction.NewPromptRegistry(cfg.Path)
}

func buildHTTPServer(cfg config.HTTPConfig, svc apihttp.PredictionService, models []apihttp.ModelInfo, defaults apihttp.RequestDefaults) (*apihttp.Server, error) {
	return apihttp.NewServer(apihttp.ServerConfig{
		Addr:           cfg.Addr,
		AllowedOrigins: cfg.AllowedOrigins,
		JWTSecret:      cfg.JWTSecret,
		MaxBodyBytes:   cfg.MaxBodyBytes,
		Service:        svc,
		Models:         models,
		Defaults:       defaults,
	})
}

var providerKinds = map[string]string{
	config.ProviderGrok:   provider.KindChat,
	config.ProviderGPT:    provider.KindChat,
	config.ProviderClaude: provider.KindClaude,
	config.ProviderGemini: provider.KindGemini,
}

func modelConfigs(cfg config.ProvidersConfig) []provider.ModelCfg {
	out := make([]provider.ModelCfg, 0, len(config.ProviderIDs()))
	for _, id := range config.ProviderIDs() {
		pc, _ := cfg.Get(id)
		out = append(out, provider.ModelCfg{
			ID:                id,
			Name:              pc.Name,
			Kind:              providerKinds[id],
			BaseURL:           pc.BaseURL,
			APIKey:            pc.APIKey,
			Model:             pc.Model,
			EnvVar:            config.CredentialEnv[id],
			Timeout:           time.Duration(pc.TimeoutSeconds) * time.Second,
			MaxRetries:        pc.MaxRetries,
			RequestsPerSecond: pc.RequestsPerSecond,
		})
	}
	return out
}

func buildModelProviders(cfg config.ProvidersConfig) map[string]provider.ModelProvider {
	return provider.BuildProvidersFromConfig(modelConfigs(cfg))
}

func buildRoutes(cfg config.ProvidersConfig, providers map[string]provider.ModelProvider, builder *prediction.PromptBuilder) map[string]prediction.Route {
	routes := make(map[string]prediction.Route, len(providers))
	for id, p := range providers {
		pc, ok := cfg.Get(id)
		if !ok {
			logger.Warnf("provider %s has no config block, skipped", id)
			continue
		}
		timeout := time.Duration(pc.TimeoutSeconds) * time.Second
		routes[id] = prediction.Route{
			Predictor: prediction.NewAdapter(p, builder, prediction.Profile{
				ID:                  id,
				ThinkHarderGuidance: pc.ThinkHarderGuidance,
				Temperature:         pc.Temperature,
				ThinkTemperature:    pc.ThinkTemperature,
				MaxTokens:           pc.MaxTokens,
				Timeout:             timeout,
			}),
			Timeout: timeout,
			Breaker: circuit.NewCircuitBreaker(id, pc.BreakerThreshold, time.Duration(pc.BreakerCooldownSeconds)*time.Second),
		}
	}
	return routes
}

func modelInfos(providers map[string]provider.ModelProvider) []apihttp.ModelInfo {
	out := make([]apihttp.ModelInfo, 0, len(providers))
	for _, id := range config.ProviderIDs() {
		p, ok := providers[id]
		if !ok {
			continue
		}
		out = append(out, apihttp.ModelInfo{ID: id, Name: p.Name(), Model: p.Model(), Configured: p.Configured()})
	}
	return out
}

func WithStore(fn func(config.StoreConfig) (store.Store, error)) AppBuilderOption {
	return func(b *AppBuilder) {
		if fn != nil {
			b.storeFn = fn
		}
	}
}

func WithModelProviders(fn func(config.ProvidersConfig) map[string]provider.ModelProvider) AppBuilderOption {
	return func(b *AppBuilder) {
		if fn != nil {
			b.providersFn = fn
		}
	}
}

func WithPublisher(fn func(config.KafkaConfig) (events.Publisher, error)) AppBuilderOption {
	return func(b *AppBuilder) {
		if fn != nil {
			b.publisherFn = fn
		}
	}
}
