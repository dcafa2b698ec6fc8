package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/plutotom/ep-reader/model"
	"github.com/plutotom/ep-reader/store"
)

type updateProgressRequest struct {
	SectionID          string  `json:"sectionId" validate:"required"`
	ReleaseID          string  `json:"releaseId"`
	ProgressPercentage float64 `json:"progressPercentage" validate:"min=0,max=100"`
	LastParagraphIndex int     `json:"lastParagraphIndex" validate:"min=0"`
}

// handleUpdateProgress upserts the requester's progress in a section.
// Reaching 100 percent marks the section read.
func (s *Server) handleUpdateProgress(w http.ResponseWriter, r *http.Request) {
	var req updateProgressRequest
	if err := s.decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	ctx := r.Context()
	section, err := s.store.GetSection(ctx, req.SectionID)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	now := time.Now().UTC()
	p := &model.ReadingProgress{
		ID:                 uuid.NewString(),
		UserID:             userID(r),
		BookID:             section.BookID,
		SectionID:          section.ID,
		ReleaseID:          req.ReleaseID,
		ProgressPercentage: req.ProgressPercentage,
		LastParagraphIndex: req.LastParagraphIndex,
		UpdatedAt:          now,
	}
	if req.ProgressPercentage >= 100 {
		p.IsRead = true
		p.ReadAt = &now
	}

	if err := s.store.UpsertProgress(ctx, p); err != nil {
		s.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := s.store.GetProgress(r.Context(), userID(r), chi.URLParam(r, "sectionID"))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, progress)
}

func (s *Server) handleMarkSectionRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	section, err := s.store.GetSection(ctx, chi.URLParam(r, "sectionID"))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	now := time.Now().UTC()
	p := &model.ReadingProgress{
		ID:                 uuid.NewString(),
		UserID:             userID(r),
		BookID:             section.BookID,
		SectionID:          section.ID,
		ProgressPercentage: 100,
		IsRead:             true,
		ReadAt:             &now,
		UpdatedAt:          now,
	}
	if err := s.store.UpsertProgress(ctx, p); err != nil {
		s.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// bookProgressResponse summarizes how much of a book the requester has
// read.
type bookProgressResponse struct {
	TotalSections          int     `json:"totalSections"`
	ReadSections           int     `json:"readSections"`
	TotalWords             int     `json:"totalWords"`
	ReadWords              int     `json:"readWords"`
	ProgressPercentage     float64 `json:"progressPercentage"`
	EstimatedTimeRemaining int     `json:"estimatedTimeRemaining"` // minutes
}

func (s *Server) handleBookProgress(w http.ResponseWriter, r *http.Request) {
	book, err := s.getOwnedBook(r)
	if err != nil {
		respondError(w, http.StatusNotFound, errors.New("book not found"))
		return
	}

	ctx := r.Context()
	secs, err := s.store.ListSections(ctx, book.ID)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	progress, err := s.store.ListProgressByBook(ctx, userID(r), book.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.respondStoreError(w, err)
		return
	}

	read := make(map[string]bool)
	for _, p := range progress {
		if p.IsRead {
			read[p.SectionID] = true
		}
	}

	var resp bookProgressResponse
	resp.TotalSections = len(secs)
	for _, sec := range secs {
		resp.TotalWords += sec.WordCount
		if read[sec.ID] {
			resp.ReadSections++
			resp.ReadWords += sec.WordCount
		} else {
			resp.EstimatedTimeRemaining += sec.EstimatedReadTime
		}
	}
	if resp.TotalSections > 0 {
		resp.ProgressPercentage = float64(resp.ReadSections) / float64(resp.TotalSections) * 100
	}
	respondJSON(w, http.StatusOK, resp)
}
