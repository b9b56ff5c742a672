package memory

import (
	"context"
	"sync"

	"timed-quiz-service/internal/domain"
)

// HighscoreStore keeps the ledger in process memory; it is lost on restart.
type HighscoreStore struct {
	mu      sync.RWMutex
	entries map[string][]domain.HighscoreEntry
}

func NewHighscoreStore() *HighscoreStore {
	return &HighscoreStore{entries: make(map[string][]domain.HighscoreEntry)}
}

func (s *HighscoreStore) List(_ context.Context, category string) ([]domain.HighscoreEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.HighscoreEntry(nil), s.entries[category]...), nil
}

func (s *HighscoreStore) PutIfBetter(_ context.Context, category string, entry domain.HighscoreEntry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, stored := UpsertIfBetter(s.entries[category], entry)
	if stored {
		s.entries[category] = next
	}
	return stored, nil
}

// UpsertIfBetter replaces the entry with the same username when entry scores
// higher, or appends a new one. entries is modified in place.
func UpsertIfBetter(entries []domain.HighscoreEntry, entry domain.HighscoreEntry) ([]domain.HighscoreEntry, bool) {
	for i := range entries {
		if entries[i].Username != entry.Username {
			continue
		}
		if entry.Score <= entries[i].Score {
			return entries, false
		}
		entries[i] = entry
		return entries, true
	}
	return append(entries, entry), true
}
