package prediction

import (
	"context"
	"strings"
	"time"

	"sharpline/internal/pkg/odds"
)

type BetType string

const (
	BetMoneyline BetType = "Moneyline"
	BetSpread    BetType = "Spread"
	BetOverUnder BetType = "Over/Under"
	BetParlay    BetType = "Parlay"
)

// ParseBetType accepts the canonical names case-insensitively.
func ParseBetType(s string) (BetType, bool) {
	s = strings.TrimSpace(s)
	for _, bt := range []BetType{BetMoneyline, BetSpread, BetOverUnder, BetParlay} {
		if strings.EqualFold(s, string(bt)) {
			return bt, true
		}
	}
	return "", false
}

// ImageAttachment is one screenshot, base64-encoded.
type ImageAttachment struct {
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
}

// Input is a single prediction request as seen by every provider.
type Input struct {
	Sport       string
	Event       string
	BetType     BetType
	Odds        *int
	Prompt      string
	ThinkHarder bool
	Images      []ImageAttachment
}

// Result is the normalized answer of one provider.
type Result struct {
	Sport            string   `json:"sport" mapstructure:"sport"`
	Event            string   `json:"event" mapstructure:"event"`
	BetType          string   `json:"bet_type" mapstructure:"bet_type"`
	Bet              string   `json:"bet" mapstructure:"bet"`
	Probability      float64  `json:"probability" mapstructure:"probability"`
	Confidence       string   `json:"confidence" mapstructure:"confidence"`
	Edge             float64  `json:"edge" mapstructure:"edge"`
	RecommendedUnits float64  `json:"recommended_units" mapstructure:"recommended_units"`
	Explanation      string   `json:"explanation" mapstructure:"explanation"`
	KeyFactors       []string `json:"key_factors" mapstructure:"key_factors"`
}

// Envelope holds the outcome of one fan-out. Every requested id lands in
// exactly one of Results or Errors.
type Envelope struct {
	Primary string
	Results map[string]Result
	Errors  map[string]string
}

// Predictor is the uniform contract every backend satisfies.
type Predictor interface {
	GeneratePrediction(ctx context.Context, in Input) (Result, error)
}

// Profile carries the per-provider request tuning.
type Profile struct {
	ID                  string
	ThinkHarderGuidance bool
	Temperature         float64
	ThinkTemperature    float64
	MaxTokens           int
	Timeout             time.Duration
}

// Response is what a caller of Service.Predict receives.
type Response struct {
	Results      map[string]Result       `json:"results"`
	Odds         *int                    `json:"odds,omitempty"`
	Errors       map[string]string       `json:"errors,omitempty"`
	Metrics      map[string]odds.Metrics `json:"metrics,omitempty"`
	PredictionID string                  `json:"prediction_id,omitempty"`
}
