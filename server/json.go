package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/plutotom/ep-reader/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, errorResponse{Error: err.Error()})
}

// respondStoreError maps store sentinel errors to status codes; other
// errors surface as a generic 500 so internals stay out of responses.
func (s *Server) respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, err)
	case errors.Is(err, store.ErrConflict):
		respondError(w, http.StatusConflict, err)
	default:
		s.logger.Error("request failed", "error", err)
		respondError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}

// decodeJSON unmarshals and validates a request body into dst.
func (s *Server) decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := s.validate.Struct(dst); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}
