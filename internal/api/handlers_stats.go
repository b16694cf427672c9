package api

import (
	"net/http"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	docs, err := s.editor.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var bytes int
	for _, d := range docs {
		bytes += len(d.Content)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"store_backend": s.cfg.StoreBackend,
		"documents":     len(docs),
		"bytes":         bytes,
		"queue_depth":   s.orchestrator.QueueDepth(),
	})
}
