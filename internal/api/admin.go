package api

import (
	"net/http"
	"strconv"

	"github.com/rcpilot/rcpilot/internal/notify"
)

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	// The HTTP caller is its own confirmation; the modal belongs to the TUI.
	if err := s.engine.ResetAll(r.Context(), notify.AutoConfirmer{}); err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	if s.reload != nil {
		if err := s.reload(r); err != nil {
			respondError(w, http.StatusBadGateway, "reset succeeded but reload failed: "+err.Error())
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		respondError(w, http.StatusNotFound, "history disabled")
		return
	}
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	entries, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, entries)
}
