package auth

import (
	"sync"

	"github.com/Caven15/demo-flask-cicd-docker/internal/api"
)

// SessionChange is delivered to subscribers after every SetUser or Clear.
// User is nil once the session is cleared.
type SessionChange struct {
	User *api.User
}

// LoggedIn reports whether the change left a user in the session.
func (c SessionChange) LoggedIn() bool {
	return c.User != nil
}

// SessionStore holds the currently authenticated user, if any. It keeps no
// state of its own on disk and is safe for concurrent use.
type SessionStore struct {
	mu     sync.RWMutex
	user   *api.User
	subs   map[int]chan SessionChange
	nextID int
}

// NewSessionStore returns an empty (logged out) store.
func NewSessionStore() *SessionStore {
	return &SessionStore{subs: make(map[int]chan SessionChange)}
}

// SetUser replaces the current user. nil logs the session out.
func (s *SessionStore) SetUser(u *api.User) {
	var next *api.User
	if u != nil {
		cp := *u
		next = &cp
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = next
	s.notifyLocked()
}

// Clear is SetUser(nil).
func (s *SessionStore) Clear() {
	s.SetUser(nil)
}

// User returns a copy of the current user. ok is false when nobody is logged in.
func (s *SessionStore) User() (api.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return api.User{}, false
	}
	return *s.user, true
}

// IsLoggedIn reports whether a user is present.
func (s *SessionStore) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Subscribe returns a channel that receives the latest session value after
// each change. Only the newest undelivered change is kept, so a slow reader
// never blocks SetUser. The returned func unsubscribes and closes the channel.
func (s *SessionStore) Subscribe() (<-chan SessionChange, func()) {
	ch := make(chan SessionChange, 1)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (s *SessionStore) notifyLocked() {
	for _, ch := range s.subs {
		var change SessionChange
		if s.user != nil {
			cp := *s.user
			change.User = &cp
		}
		// Drop a stale undelivered value so the send below cannot block.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- change:
		default:
		}
	}
}
