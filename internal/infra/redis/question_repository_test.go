package redis

import (
	"context"
	"testing"
	"time"

	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/infra/memory"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestQuestionRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{QuestionLoader: memory.NewStaticQuestionLoader(sampleBank())}
	repo := NewQuestionRepository(newClient(mr), loader, time.Minute)

	bank, err := repo.Bank(context.Background())
	if err != nil {
		t.Fatalf("bank: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("quiz:bank") {
		t.Fatalf("expected bank cached in redis")
	}

	// Second call should hit cache, loader not incremented.
	cached, err := repo.Bank(context.Background())
	if err != nil {
		t.Fatalf("cached bank: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if len(cached.Questions["science"]) != len(bank.Questions["science"]) || cached.Categories[0].DisplayName != "Science" {
		t.Fatalf("cached bank differs: %+v", cached)
	}
}

func TestQuestionRepositoryAppendEvicts(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{QuestionLoader: memory.NewStaticQuestionLoader(sampleBank())}
	repo := NewQuestionRepository(newClient(mr), loader, time.Minute)
	ctx := context.Background()

	_, _ = repo.Bank(ctx)
	if _, err := repo.Append(ctx, "science", domain.Question{Question: "Q", Answers: []string{"a", "b"}}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if mr.Exists("quiz:bank") {
		t.Fatalf("expected cache evicted after append")
	}
	bank, _ := repo.Bank(ctx)
	if loader.calls != 2 || len(bank.Questions["science"]) != 2 {
		t.Fatalf("expected reload with 2 questions, calls=%d bank=%+v", loader.calls, bank)
	}
}

type countingLoader struct {
	memory.QuestionLoader
	calls int
}

func (l *countingLoader) Load(ctx context.Context) (domain.QuestionBank, error) {
	l.calls++
	return l.QuestionLoader.Load(ctx)
}

func sampleBank() domain.QuestionBank {
	return domain.QuestionBank{
		Categories: []domain.Category{{ID: "science", DisplayName: "Science", Order: 1}},
		Questions: map[string][]domain.Question{
			"science": {
				{ID: 1, Question: "What is 2 + 2?", Answers: []string{"3", "4"}, Correct: 1},
			},
		},
	}
}
