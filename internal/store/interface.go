package store

import (
	"context"
	"time"

	"sharpline/internal/store/model"
)

// PredictionRepository persists prediction records and answers the quota count.
type PredictionRepository interface {
	SavePrediction(ctx context.Context, rec *model.PredictionModel) error
	// CountSince counts records created at or after since; a nil userID counts
	// guest records (user_id IS NULL).
	CountSince(ctx context.Context, userID *string, since time.Time) (int64, error)
	ListRecent(ctx context.Context, userID *string, limit int) ([]model.PredictionModel, error)
}

// Store is the entry point for database access.
type Store interface {
	Predictions() PredictionRepository
	Close() error
}
