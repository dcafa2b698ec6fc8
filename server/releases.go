package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plutotom/ep-reader/model"
	"github.com/plutotom/ep-reader/store"
)

// handleCheckReleases runs the scheduler over the requester's active
// schedules. Called by the client on page load.
func (s *Server) handleCheckReleases(w http.ResponseWriter, r *http.Request) {
	if err := s.scheduler.CheckAndCreateReleases(r.Context(), userID(r)); err != nil {
		s.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleAvailableReleases(w http.ResponseWriter, r *http.Request) {
	releases, err := s.scheduler.AvailableReleases(r.Context(), userID(r))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	if releases == nil {
		releases = []model.Release{}
	}
	respondJSON(w, http.StatusOK, releases)
}

func (s *Server) handleMarkReleaseRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	releaseID := chi.URLParam(r, "releaseID")

	rel, err := s.store.GetRelease(ctx, releaseID)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	book, err := s.store.GetBook(ctx, rel.BookID)
	if err != nil || book.UserID != userID(r) {
		respondError(w, http.StatusNotFound, errors.New("release not found"))
		return
	}

	if err := s.scheduler.MarkReleaseRead(ctx, releaseID, userID(r)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, errors.New("release not found"))
			return
		}
		s.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
