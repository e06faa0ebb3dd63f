package dashboard

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "root": s.repo.Root}) //nolint:errcheck
}

// handleState serves the current repository snapshot as JSON, for scripts
// and debugging; the HTML page itself is rendered by handleIndex.
func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	state, err := s.buildState()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(state); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// handleIndex renders the dashboard shell, pre-populated with the current
// state so the page has content before the WebSocket connects.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	state, err := s.buildState()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "index.html", state); err != nil {
		s.logger.Error("template render failed", "err", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
	}
}
