// Package session owns the lifecycle of active conversation sessions:
// creation, lookup, expiry and deletion. It is the only stateful component
// in the system; everything else operates on values it hands out.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scheme-assistant/internal/metrics"
	"scheme-assistant/internal/models"
	"scheme-assistant/internal/utils"
)

// entry wraps a session with its own mutex so that turns for different
// sessions never block each other. The store mutex only guards the index.
type entry struct {
	mu      sync.Mutex
	session *models.Session
	deleted bool
}

// Store holds all active sessions in memory.
type Store struct {
	mu         sync.RWMutex
	sessions   map[string]*entry
	idleWindow time.Duration
}

// NewStore creates a session store with the given idle window.
func NewStore(idleWindow time.Duration) *Store {
	return &Store{
		sessions:   make(map[string]*entry),
		idleWindow: idleWindow,
	}
}

// Create starts a new session in the greeting stage.
func (s *Store) Create(language string) *models.Session {
	now := time.Now().UTC()
	sess := &models.Session{
		ID:             uuid.NewString(),
		Language:       language,
		Stage:          models.StageGreeting,
		AskedQuestions: make([]string, 0),
		History:        make([]models.Message, 0),
		CreatedAt:      now,
		LastActivity:   now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = &entry{session: sess}
	s.mu.Unlock()

	metrics.ActiveSessions.Inc()
	return sess
}

// Get returns a snapshot copy of a session without refreshing its
// activity timestamp. The copy is taken under the session's lock and is
// safe to read while concurrent turns mutate the live session. Mutating
// operations must go through WithSession.
func (s *Store) Get(id string) (*models.Session, error) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, models.ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted {
		return nil, models.ErrSessionNotFound
	}
	return e.session.Clone(), nil
}

// WithSession runs fn while holding the session's lock, serializing turns
// per session id, and refreshes the activity timestamp afterwards. A
// session cannot be swept or deleted while fn runs.
func (s *Store) WithSession(id string, fn func(*models.Session) error) error {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return models.ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted {
		return models.ErrSessionNotFound
	}

	if err := fn(e.session); err != nil {
		return err
	}
	e.session.LastActivity = time.Now().UTC()
	return nil
}

// Delete removes a session. Deleting an absent id is a no-op, never an
// error. Deletion waits for any in-flight turn on the same session.
func (s *Store) Delete(id string) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return
	}

	e.mu.Lock()
	alreadyDeleted := e.deleted
	e.deleted = true
	e.mu.Unlock()

	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	if !alreadyDeleted {
		metrics.ActiveSessions.Dec()
	}
}

// Sweep removes every session idle for at least the idle window and
// returns the count removed. Safe to run concurrently with active turns:
// a session mid-turn holds its lock, and its refreshed timestamp is
// re-checked before removal.
func (s *Store) Sweep(now time.Time) int {
	cutoff := now.Add(-s.idleWindow)

	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	entries := make([]*entry, 0, len(s.sessions))
	for id, e := range s.sessions {
		ids = append(ids, id)
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	// LastActivity is only ever written under the entry lock, so the scan
	// takes it too.
	candidates := make([]string, 0)
	for i, e := range entries {
		e.mu.Lock()
		idle := !e.deleted && !e.session.LastActivity.After(cutoff)
		e.mu.Unlock()
		if idle {
			candidates = append(candidates, ids[i])
		}
	}

	removed := 0
	for _, id := range candidates {
		s.mu.RLock()
		e, ok := s.sessions[id]
		s.mu.RUnlock()
		if !ok {
			continue
		}

		e.mu.Lock()
		expired := !e.deleted && !e.session.LastActivity.After(cutoff)
		if expired {
			e.deleted = true
		}
		e.mu.Unlock()

		if !expired {
			continue
		}

		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()

		metrics.ActiveSessions.Dec()
		metrics.SessionsSwept.Inc()
		removed++
	}

	if removed > 0 {
		utils.GetLogger().Info("idle session sweep complete",
			zap.Int("removed", removed),
		)
	}
	return removed
}

// Count returns the number of live sessions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
