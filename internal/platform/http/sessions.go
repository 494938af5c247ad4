package http

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rgdevment/service-report/internal/service"
)

type session struct {
	ctrl     *service.Controller
	lastSeen time.Time
}

// SessionStore keeps one Controller per open form. Nothing is persisted.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*session),
		now:      time.Now,
	}
}

func (s *SessionStore) Add(c *service.Controller) string {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &session{ctrl: c, lastSeen: s.now()}
	return id
}

func (s *SessionStore) Get(id string) (*service.Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess.ctrl, true
}

// Delete closes and forgets a session.
func (s *SessionStore) Delete(id string) bool {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		sess.ctrl.Close()
	}
	return ok
}

// Sweep closes sessions untouched for longer than maxIdle and returns how
// many were dropped.
func (s *SessionStore) Sweep(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	var stale []*session
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			stale = append(stale, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range stale {
		sess.ctrl.Close()
	}
	return len(stale)
}

// CloseAll is for shutdown.
func (s *SessionStore) CloseAll() {
	s.mu.Lock()
	all := s.sessions
	s.sessions = make(map[string]*session)
	s.mu.Unlock()

	for _, sess := range all {
		sess.ctrl.Close()
	}
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
