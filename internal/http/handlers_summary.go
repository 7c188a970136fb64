package http

import (
	"net/http"

	"cantiere/internal/log"
)

// handleProjectSummary returns the aggregated totals for one project.
// Summaries are served from the LRU cache when a fresh entry exists.
func (s *Server) handleProjectSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, "GET")
		return
	}

	id := r.PathValue("id")

	if summary, found := s.summaryCache.Get(id); found {
		log.FromContext(r.Context()).DebugContext(r.Context(), "Summary cache hit",
			log.FieldProjectID, id)
		writeJSON(w, http.StatusOK, summary)
		return
	}

	if _, err := s.ledger.GetProject(r.Context(), id); err != nil {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}

	summary := s.ledger.Summary(r.Context(), id)
	s.summaryCache.Set(id, summary)
	writeJSON(w, http.StatusOK, summary)
}
