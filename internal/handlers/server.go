// Package handlers implements the HTTP surface of the assistant. The
// handlers translate between the transport shapes and the core services;
// no eligibility or dialog logic lives here.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"scheme-assistant/internal/models"
	"scheme-assistant/internal/services/assistant"
	"scheme-assistant/internal/services/conversation"
	"scheme-assistant/internal/services/eligibility"
	"scheme-assistant/internal/services/session"
)

// Server holds all handler dependencies.
type Server struct {
	store      *session.Store
	controller *conversation.Controller
	engine     *eligibility.Engine
	schemes    []*models.Scheme
	aiStatus   func() *assistant.Status
}

// NewServer creates the handler set.
func NewServer(
	store *session.Store,
	controller *conversation.Controller,
	engine *eligibility.Engine,
	schemes []*models.Scheme,
	aiStatus func() *assistant.Status,
) *Server {
	return &Server{
		store:      store,
		controller: controller,
		engine:     engine,
		schemes:    schemes,
		aiStatus:   aiStatus,
	}
}

// Response represents a standard API response envelope.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Routes registers all endpoints on a mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/conversation/start", s.startConversationHandler)
	mux.HandleFunc("POST /api/conversation/{id}/message", s.sendMessageHandler)
	mux.HandleFunc("GET /api/conversation/ai/status", s.aiStatusHandler)
	mux.HandleFunc("GET /api/conversation/{id}", s.getConversationHandler)
	mux.HandleFunc("DELETE /api/conversation/{id}", s.deleteConversationHandler)

	mux.HandleFunc("GET /api/schemes", s.listSchemesHandler)
	mux.HandleFunc("GET /api/schemes/{id}", s.getSchemeHandler)
	mux.HandleFunc("POST /api/schemes/check-eligibility", s.checkEligibilityHandler)

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{Success: false, Error: message})
}
