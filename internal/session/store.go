package session

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Store persists sessions for a single realm. The two realms always
// get independent Store instances; identifiers from one are never
// resolvable through the other.
type Store interface {
	read(ctx context.Context, id string) (*Session, error)
	write(ctx context.Context, session *Session) error
	destroy(ctx context.Context, id string) error
	gc(ctx context.Context, idleExpiration, absoluteExpiration time.Duration) error
}

type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string]*Session),
	}
}

// read hands out a copy, never the stored record itself. Two requests
// presenting the same cookie each get their own session to mutate,
// exactly as they would from the redis backend's unmarshal.
func (s *InMemoryStore) read(_ context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("could not find session %s: %w", id, ErrNotFound)
	}

	return session.clone(), nil
}

// write stores a snapshot under the store lock, so a save is a single
// atomic persist and later mutation by the caller never leaks into
// the stored record. Racing saves of the same identifier serialize
// here; the later one wins with its complete snapshot.
func (s *InMemoryStore) write(_ context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.id] = session.clone()

	return nil
}

// destroy is idempotent. Removing an absent identifier is a no-op,
// which keeps repeated logouts and the expiry sweep from erroring.
func (s *InMemoryStore) destroy(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)

	return nil
}

// gc removes records that are already past their idle or absolute
// expiration. Such records are treated as absent by read, so the
// sweep never races a live request over a usable session.
func (s *InMemoryStore) gc(_ context.Context, tti, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, session := range s.sessions {
		if time.Since(session.lastActivityAt) > tti ||
			time.Since(session.createdAt) > ttl {
			delete(s.sessions, id)
		}
	}

	return nil
}
