// Package events announces recorded predictions to downstream consumers.
package events

import (
	"context"
	"time"
)

const TypePredictionCreated = "prediction.created"

// PredictionCreated is published once per recorded prediction.
type PredictionCreated struct {
	Type         string    `json:"type"`
	PredictionID string    `json:"prediction_id"`
	UserID       *string   `json:"user_id,omitempty"`
	Sport        string    `json:"sport"`
	BetType      string    `json:"bet_type"`
	Models       []string  `json:"models"`
	Primary      string    `json:"primary"`
	Probability  float64   `json:"probability"`
	Confidence   string    `json:"confidence"`
	Odds         *int      `json:"odds,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type Publisher interface {
	PublishPredictionCreated(ctx context.Context, evt PredictionCreated) error
	Close() error
}

// Noop drops every event.
type Noop struct{}

func (Noop) PublishPredictionCreated(context.Context, PredictionCreated) error { return nil }
func (Noop) Close() error                                                     { return nil }
