// Package server exposes the application over HTTP: book upload and
// management, schedules, releases, and reading progress.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/plutotom/ep-reader/release"
	"github.com/plutotom/ep-reader/sections"
	"github.com/plutotom/ep-reader/store"
)

// Server routes HTTP requests to the parsing, scheduling, and storage
// layers.
type Server struct {
	router    *chi.Mux
	store     store.Store
	assembler *sections.Assembler
	scheduler *release.Scheduler
	logger    *slog.Logger
	validate  *validator.Validate
	maxUpload int64
}

// Config wires a Server's dependencies.
type Config struct {
	Store     store.Store
	Assembler *sections.Assembler
	Scheduler *release.Scheduler
	Logger    *slog.Logger
	// MaxUploadBytes caps upload request bodies. Zero means 50 MB.
	MaxUploadBytes int64
}

// New builds a Server and registers its routes.
func New(cfg Config) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		store:     cfg.Store,
		assembler: cfg.Assembler,
		scheduler: cfg.Scheduler,
		logger:    cfg.Logger,
		validate:  validator.New(),
		maxUpload: cfg.MaxUploadBytes,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.maxUpload <= 0 {
		s.maxUpload = 50 << 20
	}
	s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.logRequests)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.requireUser)

		r.Route("/books", func(r chi.Router) {
			r.Post("/", s.handleUploadBook)
			r.Get("/", s.handleListBooks)
			r.Get("/{bookID}", s.handleGetBook)
			r.Delete("/{bookID}", s.handleDeleteBook)
			r.Patch("/{bookID}/status", s.handleUpdateBookStatus)
			r.Get("/{bookID}/sections", s.handleListSections)
			r.Get("/{bookID}/progress", s.handleBookProgress)
			r.Get("/{bookID}/schedule", s.handleGetSchedule)
		})

		r.Get("/sections/{sectionID}", s.handleGetSection)

		r.Route("/schedules", func(r chi.Router) {
			r.Post("/", s.handleCreateSchedule)
			r.Patch("/{scheduleID}", s.handleUpdateSchedule)
			r.Delete("/{scheduleID}", s.handleDeleteSchedule)
		})

		r.Route("/releases", func(r chi.Router) {
			r.Post("/check", s.handleCheckReleases)
			r.Get("/", s.handleAvailableReleases)
			r.Post("/{releaseID}/read", s.handleMarkReleaseRead)
		})

		r.Route("/progress", func(r chi.Router) {
			r.Put("/", s.handleUpdateProgress)
			r.Get("/{sectionID}", s.handleGetProgress)
			r.Post("/{sectionID}/read", s.handleMarkSectionRead)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", s.handleGetSettings)
			r.Put("/", s.handleUpsertSettings)
		})
	})
}
