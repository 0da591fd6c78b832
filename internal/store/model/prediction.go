package model

import (
	"time"

	"gorm.io/datatypes"
)

// PredictionModel maps to the 'predictions' table. A nil UserID marks a guest
// request; guests share one quota bucket.
type PredictionModel struct {
	ID         string         `gorm:"column:id;primaryKey;size:36"`
	UserID     *string        `gorm:"column:user_id;index:idx_predictions_user_created,priority:1"`
	NotebookID *string        `gorm:"column:notebook_id"`
	Prompt     string         `gorm:"column:prompt"`
	Sport      string         `gorm:"column:sport"`
	BetType    string         `gorm:"column:bet_type"`
	ModelsUsed datatypes.JSON `gorm:"column:models_used"`
	ResultJSON datatypes.JSON `gorm:"column:result_json"`
	CreatedAt  time.Time      `gorm:"column:created_at;index:idx_predictions_user_created,priority:2"`
}

func (PredictionModel) TableName() string { return "predictions" }
