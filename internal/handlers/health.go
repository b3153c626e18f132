package handlers

import (
	"net/http"
	"time"
)

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Scheme assistant API is running",
		Data: map[string]interface{}{
			"status":          "healthy",
			"schemes_loaded":  len(s.schemes),
			"active_sessions": s.store.Count(),
			"timestamp":       time.Now().UTC().Format(time.RFC3339),
		},
	})
}
