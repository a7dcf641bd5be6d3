package storage

import (
	"sync"
	"time"
)

type entry[T any] struct {
	value     T
	updatedAt time.Time
}

// SessionStorage keeps one in-progress conversation state per user in memory.
type SessionStorage[T any] struct {
	mu       sync.RWMutex
	sessions map[int64]entry[T]
	now      func() time.Time
}

// NewSessionStorage creates a new SessionStorage.
func NewSessionStorage[T any]() *SessionStorage[T] {
	return &SessionStorage[T]{
		sessions: make(map[int64]entry[T]),
		now:      time.Now,
	}
}

// Store saves the session of a user, replacing any previous one.
func (s *SessionStorage[T]) Store(userID int64, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[userID] = entry[T]{value: value, updatedAt: s.now()}
}

// Get returns the session of a user.
func (s *SessionStorage[T]) Get(userID int64) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[userID]
	return e.value, ok
}

// Delete removes the session of a user.
func (s *SessionStorage[T]) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
}

// Len returns the number of open sessions.
func (s *SessionStorage[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}

// Expire drops sessions not touched for longer than ttl and returns how many were removed.
func (s *SessionStorage[T]) Expire(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-ttl)
	removed := 0
	for id, e := range s.sessions {
		if e.updatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
