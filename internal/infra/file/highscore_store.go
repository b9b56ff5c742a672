package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/infra/memory"
)

// HighscoreStore keeps the ledger in one JSON document, {category: [entries]},
// rewritten atomically on every change.
type HighscoreStore struct {
	path string

	mu      sync.RWMutex
	entries map[string][]domain.HighscoreEntry
}

// OpenHighscoreStore loads path; a missing file starts an empty ledger.
func OpenHighscoreStore(path string) (*HighscoreStore, error) {
	s := &HighscoreStore{path: path, entries: make(map[string][]domain.HighscoreEntry)}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read highscores: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		return nil, fmt.Errorf("parse highscores %s: %w", path, err)
	}
	return s, nil
}

func (s *HighscoreStore) List(_ context.Context, category string) ([]domain.HighscoreEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.HighscoreEntry(nil), s.entries[category]...), nil
}

// PutIfBetter commits the change in memory only after the file was written.
func (s *HighscoreStore) PutIfBetter(_ context.Context, category string, entry domain.HighscoreEntry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, stored := memory.UpsertIfBetter(append([]domain.HighscoreEntry(nil), s.entries[category]...), entry)
	if !stored {
		return false, nil
	}
	next := make(map[string][]domain.HighscoreEntry, len(s.entries)+1)
	for k, v := range s.entries {
		next[k] = v
	}
	next[category] = updated

	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return false, err
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return false, fmt.Errorf("write highscores: %w", err)
	}
	s.entries = next
	return true, nil
}
