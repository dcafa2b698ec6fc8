package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/plutotom/ep-reader/format"
	"github.com/plutotom/ep-reader/model"
	"github.com/plutotom/ep-reader/sections"
	"github.com/plutotom/ep-reader/store"
)

// handleUploadBook accepts a multipart EPUB upload, parses it into
// sections, and persists the whole book. Parsing happens before any
// row is written, so a failed upload leaves nothing behind.
func (s *Server) handleUploadBook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("parse form: %w", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, errors.New("missing file field"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("read upload: %w", err))
		return
	}

	if f := format.DetectFromBytes(data); f != format.EPUB {
		respondError(w, http.StatusUnsupportedMediaType,
			fmt.Errorf("expected an EPUB file, got %s", f))
		return
	}

	parsed, err := s.assembler.Parse(data)
	if err != nil {
		s.logger.Warn("upload rejected", "file", header.Filename, "error", err)
		if errors.Is(err, sections.ErrTooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, err)
			return
		}
		respondError(w, http.StatusUnprocessableEntity, fmt.Errorf("parse failed: %w", err))
		return
	}

	now := time.Now().UTC()
	book := &model.Book{
		ID:            uuid.NewString(),
		UserID:        userID(r),
		Title:         parsed.Title,
		Author:        parsed.Author,
		FilePath:      header.Filename,
		TotalChapters: parsed.TotalChapters,
		TotalSections: parsed.TotalSections,
		Status:        model.StatusReady,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if parsed.Cover != nil {
		book.CoverImage = parsed.Cover.Href
	}

	ctx := r.Context()
	if err := s.store.CreateBook(ctx, book); err != nil {
		s.respondStoreError(w, err)
		return
	}

	rows := make([]model.Section, len(parsed.Sections))
	for i, sec := range parsed.Sections {
		rows[i] = model.Section{
			ID:                uuid.NewString(),
			BookID:            book.ID,
			ChapterNumber:     sec.ChapterNumber,
			SectionNumber:     sec.SectionNumber,
			Title:             sec.Title,
			Content:           sec.Content,
			WordCount:         sec.WordCount,
			EstimatedReadTime: sec.EstimatedMinutes,
			OrderIndex:        sec.OrderIndex,
			HeaderLevel:       sec.Level,
			CreatedAt:         now,
		}
	}
	if err := s.store.InsertSections(ctx, rows); err != nil {
		s.respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, book)
}

func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.store.ListBooks(r.Context(), userID(r))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	if books == nil {
		books = []model.Book{}
	}
	respondJSON(w, http.StatusOK, books)
}

// getOwnedBook fetches a book and checks the requester owns it. Books
// of other users are reported as not found, not forbidden.
func (s *Server) getOwnedBook(r *http.Request) (*model.Book, error) {
	book, err := s.store.GetBook(r.Context(), chi.URLParam(r, "bookID"))
	if err != nil {
		return nil, err
	}
	if book.UserID != userID(r) {
		return nil, errors.New("book not found")
	}
	return book, nil
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	book, err := s.getOwnedBook(r)
	if err != nil {
		respondError(w, http.StatusNotFound, errors.New("book not found"))
		return
	}
	respondJSON(w, http.StatusOK, book)
}

func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	book, err := s.getOwnedBook(r)
	if err != nil {
		respondError(w, http.StatusNotFound, errors.New("book not found"))
		return
	}
	if err := s.store.DeleteBook(r.Context(), book.ID); err != nil {
		s.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type updateBookStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=processing ready active completed"`
}

func (s *Server) handleUpdateBookStatus(w http.ResponseWriter, r *http.Request) {
	var req updateBookStatusRequest
	if err := s.decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	book, err := s.getOwnedBook(r)
	if err != nil {
		respondError(w, http.StatusNotFound, errors.New("book not found"))
		return
	}

	book.Status = model.BookStatus(req.Status)
	book.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateBook(r.Context(), book); err != nil {
		s.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, book)
}

func (s *Server) handleListSections(w http.ResponseWriter, r *http.Request) {
	book, err := s.getOwnedBook(r)
	if err != nil {
		respondError(w, http.StatusNotFound, errors.New("book not found"))
		return
	}

	secs, err := s.store.ListSections(r.Context(), book.ID)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	if secs == nil {
		secs = []model.Section{}
	}
	respondJSON(w, http.StatusOK, secs)
}

// sectionWithProgress pairs a section with the requester's progress in
// it; Progress is null when the section has never been opened.
type sectionWithProgress struct {
	Section  *model.Section         `json:"section"`
	Progress *model.ReadingProgress `json:"progress"`
}

func (s *Server) handleGetSection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	section, err := s.store.GetSection(ctx, chi.URLParam(r, "sectionID"))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	progress, err := s.store.GetProgress(ctx, userID(r), section.ID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.respondStoreError(w, err)
			return
		}
		progress = nil
	}
	respondJSON(w, http.StatusOK, sectionWithProgress{Section: section, Progress: progress})
}
