package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"timed-quiz-service/internal/domain"
)

func TestHighscoreStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "highscores.json")
	ctx := context.Background()

	store, err := OpenHighscoreStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := store.PutIfBetter(ctx, "science", domain.HighscoreEntry{Username: "ann", Score: 8, TotalQuestions: 12, Timestamp: 100}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := store.PutIfBetter(ctx, "science", domain.HighscoreEntry{Username: "ann", Score: 11, TotalQuestions: 12, Timestamp: 200}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if stored, err := store.PutIfBetter(ctx, "science", domain.HighscoreEntry{Username: "ann", Score: 10, TotalQuestions: 12, Timestamp: 300}); err != nil || stored {
		t.Fatalf("lower score must not be written, got stored=%v err=%v", stored, err)
	}

	reopened, err := OpenHighscoreStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	entries, _ := reopened.List(ctx, "science")
	if len(entries) != 1 || entries[0].Score != 11 || entries[0].Timestamp != 200 {
		t.Fatalf("unexpected persisted entries %+v", entries)
	}
}

func TestHighscoreStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "highscores.json")
	if err := os.WriteFile(path, []byte("{oops"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := OpenHighscoreStore(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestHighscoreStoreKeepsMemoryOnWriteFailure(t *testing.T) {
	dir := t.TempDir()
	store, err := OpenHighscoreStore(filepath.Join(dir, "sub", "highscores.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	// A regular file where the parent directory should be makes every write fail.
	if err := os.WriteFile(filepath.Join(dir, "sub"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	if _, err := store.PutIfBetter(context.Background(), "science", domain.HighscoreEntry{Username: "ann", Score: 1}); err == nil {
		t.Fatalf("expected write failure")
	}
	entries, _ := store.List(context.Background(), "science")
	if len(entries) != 0 {
		t.Fatalf("expected failed write not to be committed, got %+v", entries)
	}
}
