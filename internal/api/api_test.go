package api

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsssgooo/shepherdBot/internal/audio"
	"github.com/letsssgooo/shepherdBot/internal/content"
	"github.com/letsssgooo/shepherdBot/internal/domain/models"
	"github.com/letsssgooo/shepherdBot/internal/podcast"
	"github.com/letsssgooo/shepherdBot/internal/storage"
)

type fakeNarrator struct {
	data []byte
	err  error
}

func (f *fakeNarrator) NarrateWAV(_ context.Context, _ content.Episode) ([]byte, error) {
	return f.data, f.err
}

func newTestHandler(t *testing.T, narrator *fakeNarrator) (*Handler, *storage.MemoryStorage) {
	t.Helper()

	st := storage.NewMemoryStorage()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	for i, score := range []int{10, 6} {
		require.NoError(t, st.SaveResult(context.Background(), &models.ResultModel{
			ID:        fmt.Sprintf("r%d", i+1),
			ChatID:    int64(i + 1),
			Username:  "trainee",
			QuizTitle: "주간 퀴즈",
			Score:     score,
			Total:     10,
			Percent:   score * 10,
			Tier:      "highest",
			TierLabel: "신실한 목자",
			Answers: []models.AnswerModel{
				{QuestionID: 1, Selected: 0, IsCorrect: true},
				{QuestionID: 2, Selected: 0, IsCorrect: score == 10},
			},
			FinishedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	catalog := &content.Catalog{
		Podcasts: []content.Episode{{ID: "ep1", Title: "에피소드 1", Summary: "요약"}},
	}

	return NewHandler(st, catalog, narrator, ""), st
}

func do(t *testing.T, h *Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	return rec
}

func TestHealthz(t *testing.T) {
	h, _ := newTestHandler(t, &fakeNarrator{})

	rec := do(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListResults(t *testing.T) {
	h, _ := newTestHandler(t, &fakeNarrator{})

	rec := do(t, h, "/api/results?limit=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var results []models.ResultModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 1)
	// новые первыми
	assert.Equal(t, "r2", results[0].ID)

	rec = do(t, h, "/api/results?limit=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetResult(t *testing.T) {
	h, _ := newTestHandler(t, &fakeNarrator{})

	rec := do(t, h, "/api/results/r1")
	require.Equal(t, http.StatusOK, rec.Code)

	var result models.ResultModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 10, result.Score)

	rec = do(t, h, "/api/results/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportCSV(t *testing.T) {
	h, _ := newTestHandler(t, &fakeNarrator{})

	rec := do(t, h, "/api/results.csv")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv"))

	rows, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, []string{"r2", "2", "trainee", "주간 퀴즈", "6", "10", "60", "highest", "신실한 목자", "2", "2024-05-01T10:00:00Z"}, rows[1])
	// без ошибок колонка пустая
	assert.Equal(t, "", rows[2][9])
}

func TestListPodcasts(t *testing.T) {
	h, _ := newTestHandler(t, &fakeNarrator{})

	rec := do(t, h, "/api/podcasts")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"audio_url":"/api/podcasts/ep1/audio.wav"`)
}

func TestEpisodeAudio(t *testing.T) {
	h, _ := newTestHandler(t, &fakeNarrator{data: []byte("RIFF0000")})

	rec := do(t, h, "/api/podcasts/ep1/audio.wav")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/wav", rec.Header().Get("Content-Type"))
	assert.Equal(t, "RIFF0000", rec.Body.String())

	rec = do(t, h, "/api/podcasts/missing/audio.wav")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEpisodeAudio_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
	}{
		{name: "busy", err: podcast.ErrBusy, status: http.StatusConflict},
		{name: "no audio", err: fmt.Errorf("%w: quota", podcast.ErrNoAudio), status: http.StatusBadGateway},
		{name: "malformed", err: fmt.Errorf("decode: %w", audio.ErrMalformedAudioPayload), status: http.StatusUnprocessableEntity},
		{name: "encoding", err: audio.ErrInvalidEncoding, status: http.StatusUnprocessableEntity},
		{name: "other", err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h, _ := newTestHandler(t, &fakeNarrator{err: tc.err})

			rec := do(t, h, "/api/podcasts/ep1/audio.wav")
			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestRouter_Token(t *testing.T) {
	h, st := newTestHandler(t, &fakeNarrator{})
	h = NewHandler(st, h.catalog, h.narrator, "secret")

	rec := do(t, h, "/api/results")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/results", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// healthz открыт всегда
	rec = do(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}
