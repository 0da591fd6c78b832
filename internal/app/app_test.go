package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharpline/internal/config"
	"sharpline/internal/gateway/provider"
	"sharpline/internal/store"
	"sharpline/internal/store/sqlite"
)

type cannedProvider struct {
	id  string
	raw string
}

func (p cannedProvider) ID() string       { return p.id }
func (p cannedProvider) Name() string     { return "Canned " + p.id }
func (p cannedProvider) Model() string    { return p.id + "-test" }
func (p cannedProvider) Configured() bool { return true }
func (p cannedProvider) Call(context.Context, provider.ChatPayload) (string, error) {
	return p.raw, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	cfg.Store.Path = filepath.Join(t.TempDir(), "app.db")
	return cfg
}

func buildTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	b := NewAppBuilder(cfg,
		WithStore(func(sc config.StoreConfig) (store.Store, error) {
			return sqlite.NewSqliteStore(sc.Path)
		}),
		WithModelProviders(func(config.ProvidersConfig) map[string]provider.ModelProvider {
			return map[string]provider.ModelProvider{
				config.ProviderGrok: cannedProvider{id: config.ProviderGrok, raw: `{"probability":0.6,"edge":0.05,"confidence":"high","key_factors":["rest"]}`},
			}
		}),
	)
	a, err := b.Build(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestModelConfigsMapsKinds(t *testing.T) {
	cfg := testConfig(t)
	cfgs := modelConfigs(cfg.Providers)
	require.Len(t, cfgs, 4)

	kinds := map[string]string{}
	for _, mc := range cfgs {
		kinds[mc.ID] = mc.Kind
		assert.Equal(t, config.CredentialEnv[mc.ID], mc.EnvVar)
		assert.NotZero(t, mc.Timeout)
	}
	assert.Equal(t, provider.KindChat, kinds[config.ProviderGrok])
	assert.Equal(t, provider.KindChat, kinds[config.ProviderGPT])
	assert.Equal(t, provider.KindClaude, kinds[config.ProviderClaude])
	assert.Equal(t, provider.KindGemini, kinds[config.ProviderGemini])
}

func TestBuildRoutesUsesProviderSettings(t *testing.T) {
	cfg := testConfig(t)
	grok := cfg.Providers.Grok
	grok.BreakerThreshold = 3
	cfg.Providers.Grok = grok

	routes := buildRoutes(cfg.Providers, map[string]provider.ModelProvider{
		config.ProviderGrok:   cannedProvider{id: config.ProviderGrok},
		config.ProviderClaude: cannedProvider{id: config.ProviderClaude},
	}, nil)

	require.Len(t, routes, 2)
	assert.NotNil(t, routes[config.ProviderGrok].Breaker)
	assert.Nil(t, routes[config.ProviderClaude].Breaker)
	assert.Equal(t, int64(cfg.Providers.Grok.TimeoutSeconds), int64(routes[config.ProviderGrok].Timeout.Seconds()))
}

func TestAppServesPredictionAndRecordsIt(t *testing.T) {
	cfg := testConfig(t)
	a := buildTestApp(t, cfg)

	body, _ := json.Marshal(map[string]any{"prompt": "Lakers vs Celtics", "odds": -110})
	req := httptest.NewRequest(http.MethodPost, "/api/predict", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Results map[string]struct {
			Probability float64 `json:"probability"`
			Confidence  string  `json:"confidence"`
		} `json:"results"`
		PredictionID string `json:"prediction_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, 0.6, resp.Results["grok"].Probability, 1e-9)
	assert.Equal(t, "high", resp.Results["grok"].Confidence)
	assert.NotEmpty(t, resp.PredictionID)

	recent, err := a.Store().Predictions().ListRecent(context.Background(), nil, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "Lakers vs Celtics", recent[0].Prompt)
}

func TestAppModelsEndpoint(t *testing.T) {
	a := buildTestApp(t, testConfig(t))

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/models", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"grok-test"`)
}

func TestBuildRejectsNilConfig(t *testing.T) {
	_, err := NewAppBuilder(nil).Build(context.Background())
	assert.Error(t, err)
}

func TestSummaryPrint(t *testing.T) {
	cfg := testConfig(t)
	a := buildTestApp(t, cfg)
	var buf bytes.Buffer
	a.Summary.out = &buf
	a.Summary.Print()
	out := buf.String()
	assert.Contains(t, out, "STARTUP SUMMARY")
	assert.Contains(t, out, "* grok")
	assert.Contains(t, out, "guest/day: 10")
	assert.Contains(t, out, "kafka:   disabled")
}
