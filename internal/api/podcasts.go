package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/letsssgooo/shepherdBot/internal/audio"
	"github.com/letsssgooo/shepherdBot/internal/podcast"
)

type episodeResp struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Duration string `json:"duration,omitempty"`
	AudioURL string `json:"audio_url"`
}

// ListPodcasts возвращает список выпусков.
func (h *Handler) ListPodcasts(w http.ResponseWriter, r *http.Request) {
	episodes := make([]episodeResp, 0, len(h.catalog.Podcasts))
	for _, ep := range h.catalog.Podcasts {
		episodes = append(episodes, episodeResp{
			ID:       ep.ID,
			Title:    ep.Title,
			Summary:  ep.Summary,
			Duration: ep.Duration,
			AudioURL: "/api/podcasts/" + ep.ID + "/audio.wav",
		})
	}

	writeJSON(w, http.StatusOK, episodes)
}

// EpisodeAudio озвучивает выпуск и отдаёт WAV.
func (h *Handler) EpisodeAudio(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "episodeID")

	ep, ok := h.catalog.Episode(id)
	if !ok {
		writeErr(w, http.StatusNotFound, "episode not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), narrationTimeout)
	defer cancel()

	data, err := h.narrator.NarrateWAV(ctx, ep)
	if err != nil {
		status := narrationStatus(err)
		slog.Warn("narration failed", "episode", id, "status", status, "err", err)
		writeErr(w, status, err.Error())
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func narrationStatus(err error) int {
	switch {
	case errors.Is(err, podcast.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, podcast.ErrNoAudio):
		return http.StatusBadGateway
	case errors.Is(err, audio.ErrInvalidEncoding), errors.Is(err, audio.ErrMalformedAudioPayload):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
