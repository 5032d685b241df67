// Package sessions tracks logged-in browser sessions as explicit objects:
// created at login, deleted at logout, expired by TTL. No global flags.
package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agentaitrip/tripvault/internal/common"
)

// Session is the server-side state behind one login. Handlers receive it by
// value; the store keeps the canonical copy.
type Session struct {
	ID        string
	Username  string
	Role      string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store is an in-memory, mutex-guarded session table keyed by session ID.
type Store struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]Session
	now      func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:      ttl,
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Create registers a new session for the given user and returns it.
func (s *Store) Create(username, role string) Session {
	now := s.now().UTC()
	session := Session{
		ID:        uuid.NewString(),
		Username:  username,
		Role:      role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	return session
}

// Get returns the session by ID. An unknown ID yields common.ErrorNotFound;
// an expired one is removed and yields common.ErrSessionExpired.
func (s *Store) Get(id string) (Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return Session{}, common.ErrorNotFound
	}
	if s.now().After(session.ExpiresAt) {
		s.Delete(id)
		return Session{}, common.ErrSessionExpired
	}
	return session, nil
}

// Delete removes a session. Deleting an unknown ID is a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// PurgeExpired removes all expired sessions and reports how many.
func (s *Store) PurgeExpired() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Len reports the number of live (possibly expired, not yet purged) sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// RunJanitor purges expired sessions on the given interval until ctx is done.
func (s *Store) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.PurgeExpired()
		}
	}
}
