package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaudeImagesBeforeText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "claude-key", r.Header.Get("X-Api-Key"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "claude-sonnet-4-20250514", body["model"])
		assert.EqualValues(t, 1000, body["max_tokens"])
		system := body["system"].([]any)
		assert.Equal(t, "schema", system[0].(map[string]any)["text"])
		msgs := body["messages"].([]any)
		content := msgs[0].(map[string]any)["content"].([]any)
		require.Len(t, content, 2)
		assert.Equal(t, "image", content[0].(map[string]any)["type"])
		src := content[0].(map[string]any)["source"].(map[string]any)
		assert.Equal(t, "base64", src["type"])
		assert.Equal(t, "image/png", src["media_type"])
		assert.Equal(t, "text", content[1].(map[string]any)["type"])
		assert.Equal(t, "question", content[1].(map[string]any)["text"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-sonnet-4-20250514",` +
			`"content":[{"type":"text","text":"{\"probability\":0.55}"}],"stop_reason":"end_turn",` +
			`"usage":{"input_tokens":1,"output_tokens":1}}`))
	}))
	defer srv.Close()

	p := BuildProvider(ModelCfg{ID: "claude", Name: "Claude", Kind: KindClaude, BaseURL: srv.URL, APIKey: "claude-key", Model: "claude-sonnet-4-20250514"})
	out, err := p.Call(context.Background(), ChatPayload{
		System:    "schema",
		User:      "question",
		Images:    []ImagePayload{{MimeType: "image/png", Data: "aGVsbG8="}},
		MaxTokens: 1000,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"probability":0.55}`, out)
}

func TestClaudeNoTextBlockIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"m","content":[],` +
			`"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":0}}`))
	}))
	defer srv.Close()

	p := BuildProvider(ModelCfg{ID: "claude", Kind: KindClaude, BaseURL: srv.URL, APIKey: "k", Model: "m"})
	_, err := p.Call(context.Background(), ChatPayload{User: "q"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestClaudeAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"nope"}}`))
	}))
	defer srv.Close()

	p := BuildProvider(ModelCfg{ID: "claude", Kind: KindClaude, BaseURL: srv.URL, APIKey: "k", Model: "m"})
	_, err := p.Call(context.Background(), ChatPayload{User: "q"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestGeminiSingleTextPartAfterImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-1.5-flash:generateContent"), r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		contents := body["contents"].([]any)
		require.Len(t, contents, 1)
		parts := contents[0].(map[string]any)["parts"].([]any)
		require.Len(t, parts, 2)
		inline := parts[0].(map[string]any)["inlineData"].(map[string]any)
		assert.Equal(t, "image/jpeg", inline["mimeType"])
		assert.Equal(t, "aGVsbG8=", inline["data"])
		assert.Equal(t, "schema\n\n---\n\nquestion", parts[1].(map[string]any)["text"])
		_, hasSystem := body["systemInstruction"]
		assert.False(t, hasSystem)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"probability\":0.7}"}],"role":"model"}}]}`))
	}))
	defer srv.Close()

	p := BuildProvider(ModelCfg{ID: "gemini", Name: "Gemini", Kind: KindGemini, BaseURL: srv.URL, APIKey: "g-key", Model: "gemini-1.5-flash"})
	out, err := p.Call(context.Background(), ChatPayload{
		System: "schema",
		User:   "question",
		Images: []ImagePayload{{MimeType: "image/jpeg", Data: "aGVsbG8="}},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"probability":0.7}`, out)
}

func TestGeminiEmptyText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	p := BuildProvider(ModelCfg{ID: "gemini", Kind: KindGemini, BaseURL: srv.URL, APIKey: "g-key", Model: "gemini-1.5-flash"})
	_, err := p.Call(context.Background(), ChatPayload{User: "q"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}
