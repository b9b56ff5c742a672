package memory

import (
	"context"
	"sync"
	"testing"

	"timed-quiz-service/internal/domain"
)

func TestHighscoreStoreReplacesPerUser(t *testing.T) {
	store := NewHighscoreStore()
	ctx := context.Background()

	_, _ = store.PutIfBetter(ctx, "science", domain.HighscoreEntry{Username: "ann", Score: 5, Timestamp: 1})
	_, _ = store.PutIfBetter(ctx, "science", domain.HighscoreEntry{Username: "bob", Score: 7, Timestamp: 2})
	_, _ = store.PutIfBetter(ctx, "science", domain.HighscoreEntry{Username: "ann", Score: 9, Timestamp: 3})

	entries, err := store.List(ctx, "science")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %+v", entries)
	}
	if entries[0].Username != "ann" || entries[0].Score != 9 {
		t.Fatalf("expected ann replaced in place, got %+v", entries[0])
	}

	other, _ := store.List(ctx, "history")
	if len(other) != 0 {
		t.Fatalf("expected categories to be isolated")
	}
}

func TestHighscoreStoreIgnoresLowerOrEqualScore(t *testing.T) {
	store := NewHighscoreStore()
	ctx := context.Background()

	if stored, _ := store.PutIfBetter(ctx, "science", domain.HighscoreEntry{Username: "ann", Score: 9, Timestamp: 1}); !stored {
		t.Fatalf("first entry must be stored")
	}
	for _, score := range []int{7, 9} {
		stored, err := store.PutIfBetter(ctx, "science", domain.HighscoreEntry{Username: "ann", Score: score, Timestamp: 2})
		if err != nil || stored {
			t.Fatalf("score %d: expected no write, got stored=%v err=%v", score, stored, err)
		}
	}
	entries, _ := store.List(ctx, "science")
	if len(entries) != 1 || entries[0].Score != 9 || entries[0].Timestamp != 1 {
		t.Fatalf("expected the original best to survive, got %+v", entries)
	}
}

func TestHighscoreStoreConcurrentWritesKeepMaximum(t *testing.T) {
	store := NewHighscoreStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for score := 1; score <= 50; score++ {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			_, _ = store.PutIfBetter(ctx, "science", domain.HighscoreEntry{Username: "ann", Score: score})
		}(score)
	}
	wg.Wait()

	entries, _ := store.List(ctx, "science")
	if len(entries) != 1 || entries[0].Score != 50 {
		t.Fatalf("expected a single entry with score 50, got %+v", entries)
	}
}
