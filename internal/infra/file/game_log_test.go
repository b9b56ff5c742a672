package file

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"timed-quiz-service/internal/domain"
)

func TestGameLogAppendAndRead(t *testing.T) {
	log, err := NewGameLog(filepath.Join(t.TempDir(), "log"))
	if err != nil {
		t.Fatalf("new game log: %v", err)
	}
	ctx := context.Background()
	march := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	april := time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC)

	entry := domain.GameLogEntry{
		Timestamp: "2024-03-15T09:00:00.000Z",
		Username:  "ann",
		Category:  "science",
		Duration:  "42s",
		Score:     30,
		Total:     12,
		Device:    "Desktop",
		UserAgent: "Mozilla/5.0 (X11; Linux)",
	}
	if err := log.Append(ctx, march, entry); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := log.Append(ctx, march, entry); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := log.Append(ctx, april, entry); err != nil {
		t.Fatalf("append: %v", err)
	}

	months, err := log.Months(ctx)
	if err != nil {
		t.Fatalf("months: %v", err)
	}
	if len(months) != 2 || months[0] != "2024-04" || months[1] != "2024-03" {
		t.Fatalf("expected newest month first, got %v", months)
	}

	entries, err := log.Entries(ctx, "2024-03")
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 2 || entries[0] != entry {
		t.Fatalf("unexpected entries %+v", entries)
	}

	empty, err := log.Entries(ctx, "1999-01")
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected no entries for missing month, got %v (%v)", empty, err)
	}
}
