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

type createScheduleRequest struct {
	BookID             string `json:"bookId" validate:"required"`
	ScheduleType       string `json:"scheduleType" validate:"required,oneof=daily weekly custom"`
	DaysOfWeek         []int  `json:"daysOfWeek" validate:"dive,min=1,max=7"`
	ReleaseTime        string `json:"releaseTime" validate:"required"`
	SectionsPerRelease int    `json:"sectionsPerRelease" validate:"required,min=1,max=3"`
	// ReleaseImmediately seeds the first release right away instead of
	// waiting for the next due instant.
	ReleaseImmediately bool `json:"releaseImmediately"`
}

func (s *Server) handleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req createScheduleRequest
	if err := s.decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	ctx := r.Context()
	book, err := s.store.GetBook(ctx, req.BookID)
	if err != nil || book.UserID != userID(r) {
		respondError(w, http.StatusNotFound, errors.New("book not found"))
		return
	}

	now := time.Now().UTC()
	sched := &model.ReleaseSchedule{
		ID:                 uuid.NewString(),
		BookID:             req.BookID,
		ScheduleType:       model.ScheduleType(req.ScheduleType),
		DaysOfWeek:         req.DaysOfWeek,
		ReleaseTime:        req.ReleaseTime,
		SectionsPerRelease: req.SectionsPerRelease,
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.store.CreateSchedule(ctx, sched); err != nil {
		s.respondStoreError(w, err)
		return
	}

	// Scheduling a book puts it in active status.
	book.Status = model.StatusActive
	book.UpdatedAt = now
	if err := s.store.UpdateBook(ctx, book); err != nil {
		s.respondStoreError(w, err)
		return
	}

	if req.ReleaseImmediately {
		if err := s.scheduler.CreateImmediateRelease(ctx, sched); err != nil {
			s.respondStoreError(w, err)
			return
		}
	}

	respondJSON(w, http.StatusCreated, sched)
}

func (s *Server) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	book, err := s.getOwnedBook(r)
	if err != nil {
		respondError(w, http.StatusNotFound, errors.New("book not found"))
		return
	}

	sched, err := s.store.GetScheduleByBook(r.Context(), book.ID)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sched)
}

type updateScheduleRequest struct {
	ScheduleType       *string `json:"scheduleType" validate:"omitempty,oneof=daily weekly custom"`
	DaysOfWeek         *[]int  `json:"daysOfWeek" validate:"omitempty,dive,min=1,max=7"`
	ReleaseTime        *string `json:"releaseTime"`
	SectionsPerRelease *int    `json:"sectionsPerRelease" validate:"omitempty,min=1,max=3"`
	IsActive           *bool   `json:"isActive"`
}

// handleUpdateSchedule applies a partial update; absent fields keep
// their current values.
func (s *Server) handleUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	var req updateScheduleRequest
	if err := s.decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	ctx := r.Context()
	sched, err := s.ownedSchedule(r, chi.URLParam(r, "scheduleID"))
	if err != nil {
		respondError(w, http.StatusNotFound, errors.New("schedule not found"))
		return
	}

	if req.ScheduleType != nil {
		sched.ScheduleType = model.ScheduleType(*req.ScheduleType)
	}
	if req.DaysOfWeek != nil {
		sched.DaysOfWeek = *req.DaysOfWeek
	}
	if req.ReleaseTime != nil {
		sched.ReleaseTime = *req.ReleaseTime
	}
	if req.SectionsPerRelease != nil {
		sched.SectionsPerRelease = *req.SectionsPerRelease
	}
	if req.IsActive != nil {
		sched.IsActive = *req.IsActive
	}
	sched.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateSchedule(ctx, sched); err != nil {
		s.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sched)
}

func (s *Server) handleDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	sched, err := s.ownedSchedule(r, chi.URLParam(r, "scheduleID"))
	if err != nil {
		respondError(w, http.StatusNotFound, errors.New("schedule not found"))
		return
	}
	if err := s.store.DeleteSchedule(r.Context(), sched.ID); err != nil {
		s.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ownedSchedule resolves a schedule id and checks the requester owns
// the book it belongs to.
func (s *Server) ownedSchedule(r *http.Request, scheduleID string) (*model.ReleaseSchedule, error) {
	ctx := r.Context()
	sched, err := s.store.GetSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	book, err := s.store.GetBook(ctx, sched.BookID)
	if err != nil {
		return nil, err
	}
	if book.UserID != userID(r) {
		return nil, store.ErrNotFound
	}
	return sched, nil
}
