package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsssgooo/shepherdBot/internal/domain/models"
	"github.com/letsssgooo/shepherdBot/internal/storage"
)

// Тест требует живую базу: SHEPHERD_TEST_DATABASE_URL=postgres://...
func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	dsn := os.Getenv("SHEPHERD_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("SHEPHERD_TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()
	s, err := NewStorage(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	require.NoError(t, s.Migrate(ctx))

	return s
}

func TestStorage_SaveAndGet(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	finished := time.Now().UTC().Truncate(time.Microsecond)

	r := &models.ResultModel{
		RunID:     uuid.NewString(),
		ChatID:    42,
		Username:  "trainee",
		QuizTitle: "주간 퀴즈",
		Score:     7,
		Total:     10,
		Percent:   70,
		Tier:      "middle",
		TierLabel: "성장하는 목자",
		Answers: []models.AnswerModel{
			{QuestionID: 1, Selected: 1, IsCorrect: true},
			{QuestionID: 2, Selected: 0, IsCorrect: false},
		},
		Insight:    "기도합니다.",
		StartedAt:  finished.Add(-time.Minute),
		FinishedAt: finished,
	}
	require.NoError(t, s.SaveResult(ctx, r))
	require.NotEmpty(t, r.ID)

	got, err := s.GetResult(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.Answers, got.Answers)
	assert.Equal(t, "성장하는 목자", got.TierLabel)
	assert.True(t, finished.Equal(got.FinishedAt))

	list, err := s.ListResults(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStorage_NotFound(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.GetResult(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
