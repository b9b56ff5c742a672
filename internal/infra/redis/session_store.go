package redis

import (
	"context"
	"sync"
	"time"

	"timed-quiz-service/internal/app"

	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Session state stays in a local map; the per-session mutex only works in-process.
//   - Redis holds a liveness key per session. With a positive ttl the key slides
//     on every access and a session whose key expired is dropped on next lookup.
//   - Sharing sessions across instances would need state snapshots in Redis too.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Add(session *app.Session) bool {
	ctx := context.Background()
	ok, err := s.client.SetNX(ctx, s.key(session.ID()), "1", s.ttl).Result()
	if err == nil && !ok {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[session.ID()]; exists {
		return false
	}
	s.sessions[session.ID()] = session
	return true
}

func (s *SessionStore) Get(sessionID string) (*app.Session, bool) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.ttl <= 0 {
		return session, true
	}

	alive, err := s.client.Expire(context.Background(), s.key(sessionID), s.ttl).Result()
	if err != nil {
		// best-effort: Redis being unavailable must not end running quizzes
		return session, true
	}
	if !alive {
		s.mu.Lock()
		delete(s.sessions, sessionID)
		s.mu.Unlock()
		return nil, false
	}
	return session, true
}

func (s *SessionStore) Delete(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return false
	}
	delete(s.sessions, sessionID)
	_ = s.client.Del(context.Background(), s.key(sessionID)).Err()
	return true
}

func (s *SessionStore) key(sessionID string) string {
	return "quiz:session:" + sessionID
}
