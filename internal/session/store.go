// Package session holds in-memory conversation sessions keyed by a
// caller-supplied token, with per-token serialization of access.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/chatbotcat-dotcom/chatbot-cat/internal/domain"
)

type entry struct {
	mu  sync.Mutex
	ses *domain.Session
}

// Store keeps one mutable Session per token. Two concurrent messages
// for the same token never interleave: Do holds that token's lock for
// the whole callback.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*entry)}
}

func (s *Store) entryFor(token string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[token]
	if !ok {
		e = &entry{ses: domain.NewSession(token)}
		s.entries[token] = e
	}
	return e
}

// Do runs fn with the session for token, creating it on first contact.
// fn runs under the token's lock; it must not call back into the store.
func (s *Store) Do(token string, fn func(*domain.Session) error) error {
	e := s.entryFor(token)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ses.Touch()
	return fn(e.ses)
}

// Destroy removes the session for token. The next contact starts fresh.
func (s *Store) Destroy(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, token)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) evictIdle(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for token, e := range s.entries {
		// Lock ordering is store then entry, same as Do.
		e.mu.Lock()
		idle := e.ses.IdleFor()
		e.mu.Unlock()
		if idle > ttl {
			delete(s.entries, token)
			evicted++
		}
	}
	return evicted
}

// StartTTLWorker sweeps idle sessions until ctx is cancelled. Eviction
// behaves like an explicit finish: the next message for that token sees
// a brand-new session.
func (s *Store) StartTTLWorker(ctx context.Context, ttl time.Duration) {
	go func() {
		interval := ttl / 4
		if interval < time.Minute {
			interval = time.Minute
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.evictIdle(ttl); n > 0 {
					slog.Info("Evicted idle sessions", "count", n, "ttl", ttl)
				}
			}
		}
	}()
}
