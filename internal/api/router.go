// Package api отдаёт отчёт по результатам и озвучку выпусков по HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/letsssgooo/shepherdBot/internal/auth"
	"github.com/letsssgooo/shepherdBot/internal/content"
	"github.com/letsssgooo/shepherdBot/internal/storage"
)

// Таймаут для запросов к отчёту. Озвучка ограничена собственным таймаутом.
const (
	reportTimeout    = 10 * time.Second
	narrationTimeout = 2 * time.Minute
)

// Narrator озвучивает выпуск подкаста в WAV.
type Narrator interface {
	NarrateWAV(ctx context.Context, episode content.Episode) ([]byte, error)
}

// Handler связывает маршруты с хранилищем результатов и каталогом.
type Handler struct {
	storage  storage.Storage
	catalog  *content.Catalog
	narrator Narrator
	token    string
}

// NewHandler создаёт новый Handler. Непустой token закрывает /api токеном.
func NewHandler(st storage.Storage, catalog *content.Catalog, narrator Narrator, token string) *Handler {
	return &Handler{
		storage:  st,
		catalog:  catalog,
		narrator: narrator,
		token:    token,
	}
}

// Router возвращает маршрутизатор API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Route("/api", func(ar chi.Router) {
		ar.Use(auth.BearerToken(h.token))

		ar.Group(func(rr chi.Router) {
			rr.Use(middleware.Timeout(reportTimeout))

			rr.Get("/results", h.ListResults)
			rr.Get("/results.csv", h.ExportCSV)
			rr.Get("/results/{resultID}", h.GetResult)
			rr.Get("/podcasts", h.ListPodcasts)
		})

		ar.Get("/podcasts/{episodeID}/audio.wav", h.EpisodeAudio)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errResp struct {
	Error string `json:"error"`
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errResp{Error: msg})
}
