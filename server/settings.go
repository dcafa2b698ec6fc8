package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/plutotom/ep-reader/model"
	"github.com/plutotom/ep-reader/store"
)

// handleGetSettings returns the requester's settings, falling back to
// defaults when none are stored yet.
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.GetSettings(r.Context(), userID(r))
	if errors.Is(err, store.ErrNotFound) {
		respondJSON(w, http.StatusOK, model.UserSettings{
			UserID:          userID(r),
			Timezone:        "UTC",
			ReadingFontSize: "medium",
			ReadingTheme:    "light",
		})
		return
	}
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

type upsertSettingsRequest struct {
	Timezone        string `json:"timezone" validate:"required"`
	ReadingFontSize string `json:"readingFontSize" validate:"required,oneof=small medium large"`
	ReadingTheme    string `json:"readingTheme" validate:"required,oneof=light dark sepia"`
}

func (s *Server) handleUpsertSettings(w http.ResponseWriter, r *http.Request) {
	var req upsertSettingsRequest
	if err := s.decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	now := time.Now().UTC()
	settings := &model.UserSettings{
		ID:              uuid.NewString(),
		UserID:          userID(r),
		Timezone:        req.Timezone,
		ReadingFontSize: req.ReadingFontSize,
		ReadingTheme:    req.ReadingTheme,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.UpsertSettings(r.Context(), settings); err != nil {
		s.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}
