// Package models defines the data structures for the scheme eligibility assistant.
package models

import (
	"time"
)

// Stage represents the current stage of a conversation.
type Stage string

const (
	StageGreeting   Stage = "greeting"
	StageCollecting Stage = "collecting"
	StageEvaluated  Stage = "evaluated"
	StageGuidance   Stage = "guidance"
)

// Message is a single turn in the conversation history.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Session is the state of one active conversation. It is held in memory
// only, owned by the session store, and mutated only by the conversation
// controller while the store's per-session lock is held.
type Session struct {
	ID             string               `json:"session_id"`
	Language       string               `json:"language"`
	Profile        UserProfile          `json:"user_profile"`
	AskedQuestions []string             `json:"asked_questions"`
	Stage          Stage                `json:"current_stage"`
	History        []Message            `json:"conversation_history"`
	LastResults    []*EligibilityResult `json:"-"`
	CreatedAt      time.Time            `json:"created_at"`
	LastActivity   time.Time            `json:"last_activity"`
}

// AddMessage appends a message to the conversation history and refreshes
// the activity timestamp.
func (s *Session) AddMessage(role, content string) {
	now := time.Now().UTC()
	s.History = append(s.History, Message{Role: role, Content: content, Timestamp: now})
	s.LastActivity = now
}

// WasAsked reports whether the guided question for a field has already
// been asked in this session.
func (s *Session) WasAsked(field string) bool {
	for _, asked := range s.AskedQuestions {
		if asked == field {
			return true
		}
	}
	return false
}

// MarkAsked records that the guided question for a field was asked.
func (s *Session) MarkAsked(field string) {
	if !s.WasAsked(field) {
		s.AskedQuestions = append(s.AskedQuestions, field)
	}
}

// Clone returns a copy of the session that is safe to read after the
// store's per-session lock is released. Profile, asked questions and
// history are copied. Result pointers are shared: a turn replaces the
// result slice wholesale and never mutates results from an earlier turn.
func (s *Session) Clone() *Session {
	out := *s
	out.Profile = s.Profile.Clone()
	out.AskedQuestions = append([]string(nil), s.AskedQuestions...)
	out.History = append([]Message(nil), s.History...)
	out.LastResults = append([]*EligibilityResult(nil), s.LastResults...)
	return &out
}

// LastAskedField returns the field of the most recently asked guided
// question that is still unresolved, or "" if none.
func (s *Session) LastAskedField() string {
	for i := len(s.AskedQuestions) - 1; i >= 0; i-- {
		if !s.Profile.HasField(s.AskedQuestions[i]) {
			return s.AskedQuestions[i]
		}
	}
	return ""
}

// SessionSummary is the snapshot returned by the session-get endpoint.
type SessionSummary struct {
	SessionID           string      `json:"session_id"`
	Language            string      `json:"language"`
	CurrentStage        Stage       `json:"current_stage"`
	MessagesCount       int         `json:"messages_count"`
	InformationComplete bool        `json:"information_complete"`
	MissingFields       []string    `json:"missing_fields"`
	Profile             UserProfile `json:"user_profile"`
}

// Summary builds the snapshot view of the session.
func (s *Session) Summary() SessionSummary {
	return SessionSummary{
		SessionID:           s.ID,
		Language:            s.Language,
		CurrentStage:        s.Stage,
		MessagesCount:       len(s.History),
		InformationComplete: s.Profile.IsCompleteForEligibility(),
		MissingFields:       s.Profile.MissingFields(),
		Profile:             s.Profile,
	}
}
