package redis

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/domain"

	miniredis "github.com/alicebob/miniredis/v2"
)

type anyCategory struct{}

func (anyCategory) CategoryExists(context.Context, string) (bool, error) { return true, nil }

func TestHighscoreStoreUsesHashPerCategory(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewHighscoreStore(newClient(mr))
	ctx := context.Background()

	if _, err := store.PutIfBetter(ctx, "science", domain.HighscoreEntry{Username: "ann", Score: 5, TotalQuestions: 12, Timestamp: 1}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := store.PutIfBetter(ctx, "science", domain.HighscoreEntry{Username: "ann", Score: 9, TotalQuestions: 12, Timestamp: 2}); err != nil {
		t.Fatalf("put: %v", err)
	}
	fields, err := mr.HKeys("highscores:science")
	if err != nil || len(fields) != 1 || fields[0] != "ann" {
		t.Fatalf("expected one field per user, got %v (%v)", fields, err)
	}

	entries, err := store.List(ctx, "science")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 || entries[0].Score != 9 {
		t.Fatalf("unexpected entries %+v", entries)
	}

	mr.HSet("highscores:science", "bob", "{broken")
	if _, err := store.List(ctx, "science"); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestHighscoreStoreKeepsHigherStoredScore(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewHighscoreStore(newClient(mr))
	ctx := context.Background()

	if stored, err := store.PutIfBetter(ctx, "science", domain.HighscoreEntry{Username: "ann", Score: 9, Timestamp: 1}); err != nil || !stored {
		t.Fatalf("first write: stored=%v err=%v", stored, err)
	}
	for _, score := range []int{7, 9} {
		stored, err := store.PutIfBetter(ctx, "science", domain.HighscoreEntry{Username: "ann", Score: score, Timestamp: 2})
		if err != nil || stored {
			t.Fatalf("score %d: expected no write, got stored=%v err=%v", score, stored, err)
		}
	}
	entries, _ := store.List(ctx, "science")
	if len(entries) != 1 || entries[0].Score != 9 || entries[0].Timestamp != 1 {
		t.Fatalf("expected score 9 from the first write, got %+v", entries)
	}
}

// Two services on separate connections stand in for two server instances.
func TestHighscoreServicesSharingRedisKeepBestScore(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	first := app.NewHighscoreService(NewHighscoreStore(newClient(mr)), anyCategory{}, logger)
	second := app.NewHighscoreService(NewHighscoreStore(newClient(mr)), anyCategory{}, logger)
	ctx := context.Background()

	// The instance holding the lower score finishes last.
	if isNew, err := second.Upsert(ctx, "science", "ann", 9, 12); err != nil || !isNew {
		t.Fatalf("upsert 9: isNew=%v err=%v", isNew, err)
	}
	if isNew, err := first.Upsert(ctx, "science", "ann", 7, 12); err != nil || isNew {
		t.Fatalf("upsert 7: expected isNew=false, got isNew=%v err=%v", isNew, err)
	}

	var wg sync.WaitGroup
	for score := 1; score <= 40; score++ {
		service := first
		if score%2 == 0 {
			service = second
		}
		wg.Add(1)
		go func(service *app.HighscoreService, score int) {
			defer wg.Done()
			if _, err := service.Upsert(ctx, "science", "bob", score, 12); err != nil {
				t.Errorf("upsert %d: %v", score, err)
			}
		}(service, score)
	}
	wg.Wait()

	top, err := first.Top(ctx, "science", 10)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 2 || top[0].Username != "bob" || top[0].Score != 40 || top[1].Username != "ann" || top[1].Score != 9 {
		t.Fatalf("expected bob 40 then ann 9, got %+v", top)
	}
}
