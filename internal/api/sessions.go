package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	snaps := s.store.List()
	writeJSON(w, http.StatusOK, map[string]any{
		"sessions": snaps,
		"count":    len(snaps),
	})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, ok := s.store.Snapshot(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// finalizeSession forces the session's one-time report dispatch (if still
// pending) and discards the session.
func (s *Server) finalizeSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	dispatched, found := s.engine.Finalize(r.Context(), id)
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"finalized":  true,
		"dispatched": dispatched,
	})
}

func (s *Server) listReports(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "report archive not configured"})
		return
	}
	reports, err := s.archive.RecentReports(r.Context(), 50)
	if err != nil {
		s.logger.Error("listing reports failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "archive query failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reports": reports,
		"count":   len(reports),
	})
}
