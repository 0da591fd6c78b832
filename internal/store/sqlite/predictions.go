package sqlite

import (
	"context"
	"fmt"
	"time"

	"sharpline/internal/store/model"
)

func (s *SqliteStore) SavePrediction(ctx context.Context, rec *model.PredictionModel) error {
	if rec == nil {
		return fmt.Errorf("prediction record is nil")
	}
	if rec.ID == "" {
		return fmt.Errorf("prediction record requires id")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	} else {
		rec.CreatedAt = rec.CreatedAt.UTC()
	}
	return s.db.WithContext(ctx).Create(rec).Error
}

func (s *SqliteStore) CountSince(ctx context.Context, userID *string, since time.Time) (int64, error) {
	var n int64
	q := s.db.WithContext(ctx).Model(&model.PredictionModel{}).Where("created_at >= ?", since.UTC())
	if userID == nil {
		q = q.Where("user_id IS NULL")
	} else {
		q = q.Where("user_id = ?", *userID)
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count predictions: %w", err)
	}
	return n, nil
}

// ListRecent returns the newest records first.
func (s *SqliteStore) ListRecent(ctx context.Context, userID *string, limit int) ([]model.PredictionModel, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []model.PredictionModel
	q := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if userID == nil {
		q = q.Where("user_id IS NULL")
	} else {
		q = q.Where("user_id = ?", *userID)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	return rows, nil
}
