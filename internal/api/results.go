package api

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/letsssgooo/shepherdBot/internal/domain/models"
	"github.com/letsssgooo/shepherdBot/internal/storage"
)

const (
	defaultLimit = 50
	maxLimit     = 1000
)

// ListResults возвращает последние результаты.
func (h *Handler) ListResults(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	results, err := h.storage.ListResults(r.Context(), limit)
	if err != nil {
		slog.Error("failed to list results", "err", err)
		writeErr(w, http.StatusInternalServerError, "failed to list results")
		return
	}

	writeJSON(w, http.StatusOK, results)
}

// GetResult возвращает результат по ID.
func (h *Handler) GetResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "resultID")

	result, err := h.storage.GetResult(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeErr(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to get result", "id", id, "err", err)
		writeErr(w, http.StatusInternalServerError, "failed to get result")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ExportCSV отдаёт все результаты в формате CSV.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	results, err := h.storage.ListResults(r.Context(), 0)
	if err != nil {
		slog.Error("failed to list results", "err", err)
		writeErr(w, http.StatusInternalServerError, "failed to list results")
		return
	}

	data, err := ResultsCSV(results)
	if err != nil {
		slog.Error("failed to export results", "err", err)
		writeErr(w, http.StatusInternalServerError, "failed to export results")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="results.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ResultsCSV экспортирует результаты в CSV.
func ResultsCSV(results []*models.ResultModel) ([]byte, error) {
	var buf bytes.Buffer

	w := csv.NewWriter(&buf)
	_ = w.Write(
		[]string{
			"ID",
			"ChatID",
			"Username",
			"Quiz",
			"Score",
			"Total",
			"Percent",
			"Tier",
			"TierLabel",
			"WrongQuestions",
			"FinishedAt",
		},
	)

	for _, res := range results {
		wrong := make([]string, 0)
		for _, id := range res.WrongQuestionIDs() {
			wrong = append(wrong, strconv.Itoa(id))
		}

		_ = w.Write([]string{
			res.ID,
			strconv.FormatInt(res.ChatID, 10),
			res.Username,
			res.QuizTitle,
			strconv.Itoa(res.Score),
			strconv.Itoa(res.Total),
			strconv.Itoa(res.Percent),
			res.Tier,
			res.TierLabel,
			strings.Join(wrong, ";"),
			res.FinishedAt.UTC().Format(time.RFC3339),
		})
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush buffer: %w", err)
	}

	return buf.Bytes(), nil
}

func parseLimit(r *http.Request) (int, error) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return defaultLimit, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 || n > maxLimit {
		return 0, fmt.Errorf("limit must be between 1 and %d", maxLimit)
	}

	return n, nil
}
