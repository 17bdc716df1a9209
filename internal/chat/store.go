package chat

import (
	"sync"
	"time"
)

// Session associates an uploaded document's extracted text with a question
// quota and an expiry deadline. DocumentText is never changed after creation.
type Session struct {
	ID             string
	DocumentText   string
	Filename       string
	QuestionsAsked int
	CreatedAt      time.Time
	AutoSummary    string
}

// Store owns every live session. All access goes through the store lock so
// concurrent asks against the same session cannot race the quota counter.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewStore(ttl time.Duration, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      now,
	}
}

func (s *Store) Create(id, documentText, filename string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := &Session{
		ID:           id,
		DocumentText: documentText,
		Filename:     filename,
		CreatedAt:    s.now(),
	}
	s.sessions[id] = session
	return session
}

// Get returns a copy of the session state so callers never mutate shared
// memory outside the lock.
func (s *Store) Get(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	return *session, true
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Expired reports whether the session has outlived the configured TTL.
func (s *Store) Expired(session Session) bool {
	return s.now().Sub(session.CreatedAt) > s.ttl
}

// IncrementQuestions bumps the quota counter under the store lock, but only
// while the session still exists and the count is below max.
func (s *Store) IncrementQuestions(id string, max int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok || session.QuestionsAsked >= max {
		return 0, false
	}
	session.QuestionsAsked++
	return session.QuestionsAsked, true
}

// SetAutoSummary records the auto-generated summary on a live session.
func (s *Store) SetAutoSummary(id, summary string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[id]; ok {
		session.AutoSummary = summary
	}
}

// Sweep removes every expired session and returns how many were dropped.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	now := s.now()
	for id, session := range s.sessions {
		if now.Sub(session.CreatedAt) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
