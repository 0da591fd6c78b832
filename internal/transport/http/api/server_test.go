package apihttp

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sharpline/internal/pkg/odds"
	"sharpline/internal/prediction"
	"sharpline/internal/quota"
)

const testSecret = "test-secret"

type mockService struct {
	mock.Mock
}

func (m *mockService) Predict(ctx context.Context, req prediction.Request) (prediction.Response, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(prediction.Response), args.Error(1)
}

func (m *mockService) Usage(ctx context.Context, id quota.Identity) (quota.Decision, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(quota.Decision), args.Error(1)
}

func newTestServer(t *testing.T, svc *mockService) http.Handler {
	t.Helper()
	srv, err := NewServer(ServerConfig{
		JWTSecret:    testSecret,
		MaxBodyBytes: 1 << 20,
		Service:      svc,
		Models:       []ModelInfo{{ID: "grok", Name: "Grok", Model: "grok-3-mini-1212", Configured: true}},
		Defaults:     RequestDefaults{Sport: "NBA", BetType: "Moneyline", Models: []string{"grok"}},
	})
	require.NoError(t, err)
	return srv.Handler()
}

func signToken(t *testing.T, sub string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	s, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func doJSON(h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestPredictAppliesDefaultsAndReturnsResults(t *testing.T) {
	svc := new(mockService)
	odd := -110
	svc.On("Predict", mock.Anything, mock.MatchedBy(func(r prediction.Request) bool {
		return r.Input.Sport == "NBA" && r.Input.BetType == prediction.BetMoneyline &&
			r.Input.Prompt == "Who wins?" && len(r.Models) == 1 && r.Models[0] == "grok" &&
			r.Identity.Guest() && *r.Input.Odds == -110
	})).Return(prediction.Response{
		Results: map[string]prediction.Result{"grok": {Probability: 0.62, Confidence: "high", KeyFactors: []string{}}},
		Odds:    &odd,
		Metrics: map[string]odds.Metrics{"grok": odds.Evaluate(0.62, -110)},
	}, nil)

	w := doJSON(newTestServer(t, svc), http.MethodPost, "/api/predict", `{"prompt":"Who wins?","odds":-110}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var body struct {
		Results map[string]prediction.Result `json:"results"`
		Odds    int                          `json:"odds"`
		Metrics map[string]odds.Metrics      `json:"metrics"`
		Errors  map[string]string            `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 0.62, body.Results["grok"].Probability)
	assert.Equal(t, -110, body.Odds)
	assert.InDelta(t, 18.4, body.Metrics["grok"].EVPercent, 1e-9)
	assert.Nil(t, body.Errors)
	svc.AssertExpectations(t)
}

func TestPredictErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		want   string
		limit  *int
	}{
		{"validation", &prediction.ValidationError{Field: "prompt", Message: "Prompt is required"}, http.StatusBadRequest, "Prompt is required", nil},
		{"quota", &quota.ExceededError{Limit: 10, Count: 10}, http.StatusTooManyRequests, quota.ExceededMessage, intPtr(10)},
		{"quota zero ceiling", &quota.ExceededError{Limit: 0, Count: 0}, http.StatusTooManyRequests, quota.ExceededMessage, intPtr(0)},
		{"primary", &prediction.PrimaryFailedError{Provider: "grok", Message: "XAI_API_KEY not configured"}, http.StatusInternalServerError, "XAI_API_KEY not configured", nil},
		{"internal", assert.AnError, http.StatusInternalServerError, "Prediction failed", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(mockService)
			svc.On("Predict", mock.Anything, mock.Anything).Return(prediction.Response{}, tc.err)
			w := doJSON(newTestServer(t, svc), http.MethodPost, "/api/predict", `{"prompt":"x"}`, "")
			assert.Equal(t, tc.status, w.Code)
			var body errorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.want, body.Error)
			assert.Equal(t, tc.limit, body.Limit)
		})
	}
}

func intPtr(v int) *int { return &v }

func TestPredictTrimsPrompt(t *testing.T) {
	svc := new(mockService)
	svc.On("Predict", mock.Anything, mock.MatchedBy(func(r prediction.Request) bool {
		return r.Input.Prompt == "Lakers ML?"
	})).Return(prediction.Response{Results: map[string]prediction.Result{}}, nil)

	w := doJSON(newTestServer(t, svc), http.MethodPost, "/api/predict", `{"prompt":"  Lakers ML?\n "}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	svc.AssertExpectations(t)
}

func TestPredictRejectsBadJSON(t *testing.T) {
	w := doJSON(newTestServer(t, new(mockService)), http.MethodPost, "/api/predict", `{"prompt":`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIdentityFromToken(t *testing.T) {
	svc := new(mockService)
	svc.On("Usage", mock.Anything, quota.Identity{UserID: "user-42"}).Return(quota.Decision{Used: 3, Limit: 50}, nil)
	h := newTestServer(t, svc)

	w := doJSON(h, http.MethodGet, "/api/quota", "", signToken(t, "user-42"))
	require.Equal(t, http.StatusOK, w.Code)
	var body quotaResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, quotaResponse{Used: 3, Limit: 50, Remaining: 47, Guest: false}, body)
	svc.AssertExpectations(t)

	w = doJSON(h, http.MethodGet, "/api/quota", "", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGuestQuota(t *testing.T) {
	svc := new(mockService)
	svc.On("Usage", mock.Anything, quota.Identity{}).Return(quota.Decision{Used: 10, Limit: 10}, nil)
	w := doJSON(newTestServer(t, svc), http.MethodGet, "/api/quota", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body quotaResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Zero(t, body.Remaining)
	assert.True(t, body.Guest)
}

func TestModelsAndHealth(t *testing.T) {
	h := newTestServer(t, new(mockService))
	w := doJSON(h, http.MethodGet, "/api/models", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"models":[{"id":"grok","name":"Grok","model":"grok-3-mini-1212","configured":true}]}`, w.Body.String())

	w = doJSON(h, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNewServerRequiresService(t *testing.T) {
	_, err := NewServer(ServerConfig{})
	assert.Error(t, err)
}
