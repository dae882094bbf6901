package cli

import (
	"sync"
	"time"
)

// session tracks the logged-in owner and expires after a period of
// inactivity.
type session struct {
	mu         sync.Mutex
	owner      string
	lastActive time.Time
	timeout    time.Duration
	now        func() time.Time
}

func newSession(timeout time.Duration, now func() time.Time) *session {
	return &session{timeout: timeout, now: now}
}

func (s *session) start(owner string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owner = owner
	s.lastActive = s.now()
}

func (s *session) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owner = ""
	s.lastActive = time.Time{}
}

// current returns the owner and refreshes the idle timer. expired is true
// when a session existed but timed out; it is ended in that case.
func (s *session) current() (owner string, expired bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.owner == "" {
		return "", false
	}
	now := s.now()
	if s.timeout > 0 && now.Sub(s.lastActive) > s.timeout {
		s.owner = ""
		s.lastActive = time.Time{}
		return "", true
	}
	s.lastActive = now
	return s.owner, false
}

// peek returns the owner without touching the idle timer.
func (s *session) peek() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owner
}
