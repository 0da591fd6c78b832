package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"sharpline/internal/store/model"
)

func newTestStore(t *testing.T) *SqliteStore {
	t.Helper()
	s, err := NewSqliteStore(filepath.Join(t.TempDir(), "db", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func strPtr(s string) *string { return &s }

func TestCountSinceSeparatesGuestsAndUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	midnight := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	records := []model.PredictionModel{
		{ID: "g-yesterday", CreatedAt: midnight.Add(-time.Minute)},
		{ID: "g-1", CreatedAt: midnight},
		{ID: "g-2", CreatedAt: midnight.Add(3 * time.Hour)},
		{ID: "u1-1", UserID: strPtr("u1"), CreatedAt: midnight.Add(time.Hour)},
		{ID: "u2-1", UserID: strPtr("u2"), CreatedAt: midnight.Add(time.Hour)},
	}
	for i := range records {
		records[i].ModelsUsed = datatypes.JSON(`["grok"]`)
		records[i].ResultJSON = datatypes.JSON(`{"probability":0.6}`)
		require.NoError(t, s.SavePrediction(ctx, &records[i]))
	}

	guests, err := s.CountSince(ctx, nil, midnight)
	require.NoError(t, err)
	assert.EqualValues(t, 2, guests)

	u1, err := s.CountSince(ctx, strPtr("u1"), midnight)
	require.NoError(t, err)
	assert.EqualValues(t, 1, u1)

	none, err := s.CountSince(ctx, strPtr("nobody"), midnight)
	require.NoError(t, err)
	assert.Zero(t, none)
}

func TestSavePredictionRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	rec := &model.PredictionModel{
		ID:         "p-1",
		UserID:     strPtr("u1"),
		NotebookID: strPtr("nb-7"),
		Prompt:     "Who wins?",
		Sport:      "NBA",
		BetType:    "Moneyline",
		ModelsUsed: datatypes.JSON(`["grok","gpt"]`),
		ResultJSON: datatypes.JSON(`{"probability":0.62}`),
	}
	require.NoError(t, s.SavePrediction(ctx, rec))
	assert.False(t, rec.CreatedAt.IsZero())

	rows, err := s.Predictions().ListRecent(ctx, strPtr("u1"), 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Who wins?", rows[0].Prompt)
	require.NotNil(t, rows[0].NotebookID)
	assert.Equal(t, "nb-7", *rows[0].NotebookID)
	assert.JSONEq(t, `["grok","gpt"]`, string(rows[0].ModelsUsed))
}

func TestSavePredictionRequiresID(t *testing.T) {
	s := newTestStore(t)
	assert.Error(t, s.SavePrediction(context.Background(), &model.PredictionModel{}))
	assert.Error(t, s.SavePrediction(context.Background(), nil))
}
