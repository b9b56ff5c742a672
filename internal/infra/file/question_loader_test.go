package file

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"timed-quiz-service/internal/domain"
)

func TestQuestionLoaderReadsBothFormats(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "01_science.json", `{
		"metadata": {"categoryId": "science", "displayName": "Science", "description": "Atoms", "icon": "🔬", "order": 2},
		"questions": [
			{"id": 1, "question": "H2O?", "answers": ["Water", "Salt"], "correct": 0},
			{"id": 2, "question": "Broken", "answers": ["only one"], "correct": 0}
		]
	}`)
	writeFile(t, dir, "02_history.json", `[
		{"id": 7, "question": "1492?", "answers": ["Columbus", "Caesar"], "correct": 0}
	]`)
	writeFile(t, dir, "03_sports.json", `{
		"metadata": {"categoryId": "sports", "displayName": "Sports", "order": 1},
		"questions": []
	}`)
	writeFile(t, dir, "04_broken.json", `{not json`)
	writeFile(t, dir, "notes.txt", `ignored`)

	bank, err := NewQuestionLoader(dir, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(bank.Categories) != 3 {
		t.Fatalf("expected 3 categories, got %+v", bank.Categories)
	}
	order := []string{bank.Categories[0].ID, bank.Categories[1].ID, bank.Categories[2].ID}
	if order[0] != "sports" || order[1] != "science" || order[2] != "history" {
		t.Fatalf("unexpected category order %v", order)
	}

	history := bank.Categories[2]
	if history.DisplayName != "history" || history.Icon != "📚" || history.Order != 999 {
		t.Fatalf("unexpected legacy defaults %+v", history)
	}
	if got := len(bank.Questions["science"]); got != 1 {
		t.Fatalf("expected malformed question skipped, got %d questions", got)
	}
	if got := len(bank.Questions["history"]); got != 1 {
		t.Fatalf("expected 1 history question, got %d", got)
	}
}

func TestQuestionLoaderAppendKeepsFormat(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "science.json", `{
		"metadata": {"categoryId": "science", "displayName": "Science", "order": 1},
		"questions": [{"id": 4, "question": "H2O?", "answers": ["Water", "Salt"], "correct": 0}]
	}`)
	writeFile(t, dir, "10_history.json", `[]`)

	loader := NewQuestionLoader(dir, nil)
	ctx := context.Background()

	added, err := loader.Append(ctx, "science", domain.Question{Question: "NaCl?", Answers: []string{"Salt", "Sugar"}, Correct: 0})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if added.ID != 5 {
		t.Fatalf("expected id 5, got %d", added.ID)
	}

	var file categoryFile
	data, _ := os.ReadFile(filepath.Join(dir, "science.json"))
	if err := json.Unmarshal(data, &file); err != nil {
		t.Fatalf("rewritten file is not valid: %v", err)
	}
	if file.Metadata == nil || file.Metadata.DisplayName != "Science" || len(file.Questions) != 2 {
		t.Fatalf("unexpected rewritten file %+v", file)
	}

	added, err = loader.Append(ctx, "history", domain.Question{Question: "1492?", Answers: []string{"a", "b"}, Correct: 1})
	if err != nil {
		t.Fatalf("append legacy: %v", err)
	}
	if added.ID != 1 {
		t.Fatalf("expected first id 1, got %d", added.ID)
	}
	var legacy []domain.Question
	data, _ = os.ReadFile(filepath.Join(dir, "10_history.json"))
	if err := json.Unmarshal(data, &legacy); err != nil || len(legacy) != 1 {
		t.Fatalf("expected legacy array with 1 question, got %v (%v)", legacy, err)
	}

	if _, err := loader.Append(ctx, "art", domain.Question{}); !errors.Is(err, domain.ErrInvalidCategory) {
		t.Fatalf("expected invalid category, got %v", err)
	}
}

func TestQuestionLoaderMissingDirectory(t *testing.T) {
	if _, err := NewQuestionLoader(filepath.Join(t.TempDir(), "nope"), nil).Load(context.Background()); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}
