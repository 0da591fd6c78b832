package apihttp

import (
	"context"

	"sharpline/internal/prediction"
	"sharpline/internal/quota"
)

// PredictionService is the core this API exposes.
type PredictionService interface {
	Predict(ctx context.Context, req prediction.Request) (prediction.Response, error)
	Usage(ctx context.Context, id quota.Identity) (quota.Decision, error)
}

// ModelInfo describes one selectable provider.
type ModelInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Model      string `json:"model"`
	Configured bool   `json:"configured"`
}

// RequestDefaults fill fields the client omitted.
type RequestDefaults struct {
	Sport   string
	BetType string
	Models  []string
}

type predictRequest struct {
	Prompt           string                       `json:"prompt"`
	Sport            string                       `json:"sport"`
	Event            string                       `json:"event"`
	BetType          string                       `json:"bet_type"`
	Odds             *int                         `json:"odds"`
	Models           []string                     `json:"models"`
	ThinkHarder      bool                         `json:"thinkHarder"`
	SaveToNotebookID string                       `json:"saveToNotebookId"`
	Images           []prediction.ImageAttachment `json:"images"`
}

type errorResponse struct {
	Error string `json:"error"`
	Limit *int   `json:"limit,omitempty"`
}

type quotaResponse struct {
	Used      int  `json:"used"`
	Limit     int  `json:"limit"`
	Remaining int  `json:"remaining"`
	Guest     bool `json:"guest"`
}
