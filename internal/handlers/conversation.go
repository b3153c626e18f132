package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"scheme-assistant/internal/models"
	"scheme-assistant/internal/services/conversation"
)

// StartConversationRequest is the request to start a new conversation.
type StartConversationRequest struct {
	Language string `json:"language"`
}

// StartConversationResponse carries the new session information.
type StartConversationResponse struct {
	SessionID string `json:"session_id"`
	Language  string `json:"language"`
	Greeting  string `json:"greeting"`
}

// SendMessageRequest is one user turn.
type SendMessageRequest struct {
	Message string `json:"message"`
}

// EligibleSchemeView is the per-scheme payload in a turn response.
type EligibleSchemeView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	NameHi      string  `json:"name_hi,omitempty"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
	Benefits    string  `json:"benefits,omitempty"`
}

// SendMessageResponse is the assistant's reply for one turn.
type SendMessageResponse struct {
	SessionID           string               `json:"session_id"`
	Response            string               `json:"response"`
	NextQuestion        *string              `json:"next_question"`
	Stage               models.Stage         `json:"stage"`
	InformationComplete bool                 `json:"information_complete"`
	EligibleSchemes     []EligibleSchemeView `json:"eligible_schemes"`
}

func (s *Server) startConversationHandler(w http.ResponseWriter, r *http.Request) {
	var req StartConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	language := strings.TrimSpace(req.Language)
	if language == "" {
		language = "en"
	}

	sess := s.store.Create(language)
	var greeting string
	if err := s.store.WithSession(sess.ID, func(sess *models.Session) error {
		greeting = s.controller.Greet(sess)
		return nil
	}); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to start conversation")
		return
	}

	writeJSON(w, http.StatusCreated, StartConversationResponse{
		SessionID: sess.ID,
		Language:  language,
		Greeting:  greeting,
	})
}

func (s *Server) sendMessageHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "Message cannot be empty")
		return
	}

	var turn *conversation.TurnResult
	err := s.store.WithSession(id, func(sess *models.Session) error {
		turn = s.controller.ProcessTurn(r.Context(), sess, req.Message)
		return nil
	})
	if err != nil {
		if errors.Is(err, models.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "Session not found or expired")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to process message")
		return
	}

	resp := SendMessageResponse{
		SessionID:           id,
		Response:            turn.Response,
		NextQuestion:        turn.NextQuestion,
		Stage:               turn.Stage,
		InformationComplete: turn.InformationComplete,
	}
	if turn.EligibleResults != nil {
		resp.EligibleSchemes = make([]EligibleSchemeView, 0, len(turn.EligibleResults))
		for _, result := range turn.EligibleResults {
			resp.EligibleSchemes = append(resp.EligibleSchemes, EligibleSchemeView{
				ID:          result.Scheme.ID,
				Name:        result.Scheme.Name,
				NameHi:      result.Scheme.NameTranslations["hi"],
				Confidence:  result.Confidence,
				Explanation: result.Explanation,
				Benefits:    result.Scheme.Benefits,
			})
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getConversationHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	sess, err := s.store.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found or expired")
		return
	}

	writeJSON(w, http.StatusOK, sess.Summary())
}

func (s *Server) deleteConversationHandler(w http.ResponseWriter, r *http.Request) {
	// Idempotent: deleting an absent session is still a success.
	s.store.Delete(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) aiStatusHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.aiStatus())
}
