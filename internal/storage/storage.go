package storage

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/skinscan/internal/providers"
	"github.com/lehigh-university-libraries/skinscan/internal/session"
)

// SessionStore keeps live view sessions in memory
type SessionStore struct {
	sessions map[string]*session.Session
	provider providers.Provider
	mu       sync.RWMutex
}

func New(p providers.Provider) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*session.Session),
		provider: p,
	}
}

// Create mounts a new idle session
func (s *SessionStore) Create() *session.Session {
	sess := session.New(uuid.NewString(), s.provider)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID()] = sess

	slog.Info("Session created", "session_id", sess.ID())
	return sess
}

func (s *SessionStore) Get(sessionID string) (*session.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, exists := s.sessions[sessionID]
	return sess, exists
}

// GetAll returns the live sessions ordered by ID
func (s *SessionStore) GetAll() []*session.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*session.Session, 0, len(s.sessions))
	for _, v := range s.sessions {
		result = append(result, v)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID() < result[j].ID()
	})
	return result
}

// Delete unmounts a session, cancelling any analysis it has in flight
func (s *SessionStore) Delete(sessionID string) bool {
	s.mu.Lock()
	sess, exists := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if exists {
		sess.Close()
		slog.Info("Session deleted", "session_id", sessionID)
	}
	return exists
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Expire deletes sessions idle since before cutoff and returns how many went
func (s *SessionStore) Expire(cutoff time.Time) int {
	var stale []string
	for _, sess := range s.GetAll() {
		if sess.LastActive().Before(cutoff) {
			stale = append(stale, sess.ID())
		}
	}
	for _, id := range stale {
		s.Delete(id)
	}
	return len(stale)
}

// Sweep expires sessions idle longer than ttl every interval until ctx ends
func (s *SessionStore) Sweep(ctx context.Context, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.Expire(now.Add(-ttl)); n > 0 {
				slog.Info("Expired idle sessions", "count", n, "remaining", s.Len())
			}
		}
	}
}
