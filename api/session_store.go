package api

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"weatherwise/autocomplete"
	"weatherwise/controller"
)

// Session is one visitor's set of pages. Each page guards its own state.
type Session struct {
	ID        string
	Today     *controller.TodayPage
	Forecast  *controller.FiveDayPage
	SearchBar *autocomplete.SearchBar

	lastSeen time.Time
}

// SessionFactory builds the pages for a new session
type SessionFactory func(id string) *Session

// SessionStore holds live sessions in memory, keyed by ID
type SessionStore struct {
	sessions   map[string]*Session
	newSession SessionFactory
	now        func() time.Time
	mutex      sync.RWMutex
}

// NewSessionStore creates an empty store
func NewSessionStore(factory SessionFactory) *SessionStore {
	return &SessionStore{
		sessions:   make(map[string]*Session),
		newSession: factory,
		now:        time.Now,
	}
}

// Get returns the session with id and marks it as seen
func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	sess, exists := s.sessions[id]
	if exists {
		sess.lastSeen = s.now()
	}
	return sess, exists
}

// Create starts a session under a fresh random ID
func (s *SessionStore) Create() *Session {
	id := uuid.NewString()
	sess := s.newSession(id)
	sess.ID = id

	s.mutex.Lock()
	defer s.mutex.Unlock()

	sess.lastSeen = s.now()
	s.sessions[id] = sess
	return sess
}

// Len returns the number of live sessions
func (s *SessionStore) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return len(s.sessions)
}

// PruneIdle removes sessions not seen for longer than maxIdle
func (s *SessionStore) PruneIdle(maxIdle time.Duration) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cutoff := s.now().Add(-maxIdle)
	pruned := 0

	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			pruned++
		}
	}

	return pruned
}
