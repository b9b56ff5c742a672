package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/infra/file"
)

type recordingLog struct {
	entries []domain.GameLogEntry
	err     error
}

func (l *recordingLog) Append(_ context.Context, _ time.Time, entry domain.GameLogEntry) error {
	if l.err != nil {
		return l.err
	}
	l.entries = append(l.entries, entry)
	return nil
}

func (l *recordingLog) Months(context.Context) ([]string, error) { return nil, nil }

func (l *recordingLog) Entries(context.Context, string) ([]domain.GameLogEntry, error) {
	return l.entries, nil
}

type fixedTimer map[string]time.Duration

func (f fixedTimer) PlayedFor(id string) (time.Duration, bool) {
	d, ok := f[id]
	return d, ok
}

func TestRecordFillsDefaults(t *testing.T) {
	ctx := context.Background()
	repo := &recordingLog{}
	service := app.NewGameLogService(repo, staticCategories{"general": true}, fixedTimer{"s1": 83400 * time.Millisecond}, quietLogger())

	err := service.Record(ctx, domain.HighscoreSubmission{
		Category: "general", Score: 7, TotalQuestions: 12, SessionID: "s1",
		UserAgent: "Mozilla/5.0\t(iPad)",
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(repo.entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(repo.entries))
	}
	got := repo.entries[0]
	if got.Username != "Gast" || got.Duration != "83s" || got.Device != "Tablet" || got.UserAgent != "Mozilla/5.0 (iPad)" {
		t.Fatalf("unexpected entry %+v", got)
	}
	if _, err := time.Parse("2006-01-02T15:04:05.000Z", got.Timestamp); err != nil {
		t.Fatalf("timestamp %q: %v", got.Timestamp, err)
	}

	_ = service.Record(ctx, domain.HighscoreSubmission{Username: "ann", Category: "general", SessionID: "gone"})
	if repo.entries[1].Duration != "0s" || repo.entries[1].Device != "Unknown" {
		t.Fatalf("unknown session must log zero duration, got %+v", repo.entries[1])
	}
}

func TestRecordKeepsUsernameInOneColumn(t *testing.T) {
	ctx := context.Background()
	gameLog, err := file.NewGameLog(t.TempDir())
	if err != nil {
		t.Fatalf("new game log: %v", err)
	}
	service := app.NewGameLogService(gameLog, staticCategories{"general": true}, fixedTimer{}, quietLogger())

	forged := "eve\n2020-01-01T00:00:00.000Z\tadmin\tgeneral\t1s\t48\t12\tDesktop\tforged"
	if err := service.Record(ctx, domain.HighscoreSubmission{Username: forged, Category: "general", Score: 3, TotalQuestions: 12}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := service.Record(ctx, domain.HighscoreSubmission{Username: "\r\n\t", Category: "general"}); err != nil {
		t.Fatalf("record: %v", err)
	}

	months, err := service.Months(ctx)
	if err != nil || len(months) != 1 {
		t.Fatalf("expected one month, got %v (%v)", months, err)
	}
	entries, err := service.Entries(ctx, months[0])
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %+v", entries)
	}
	first := entries[0]
	if strings.ContainsAny(first.Username, "\t\r\n") || !strings.HasPrefix(first.Username, "eve ") {
		t.Fatalf("username must stay in its column, got %q", first.Username)
	}
	if first.Category != "general" || first.Score != 3 || first.Total != 12 {
		t.Fatalf("unexpected entry %+v", first)
	}
	if entries[1].Username != "Gast" {
		t.Fatalf("blank username must fall back to the guest name, got %q", entries[1].Username)
	}
}

func TestRecordValidatesButSwallowsWriteErrors(t *testing.T) {
	ctx := context.Background()
	repo := &recordingLog{err: errors.New("read-only file system")}
	service := app.NewGameLogService(repo, staticCategories{"general": true}, fixedTimer{}, quietLogger())

	if err := service.Record(ctx, domain.HighscoreSubmission{Category: "general"}); err != nil {
		t.Fatalf("write failures must not reach the caller: %v", err)
	}
	if err := service.Record(ctx, domain.HighscoreSubmission{Category: "history"}); !errors.Is(err, domain.ErrInvalidCategory) {
		t.Fatalf("expected invalid category, got %v", err)
	}
	if err := service.Record(ctx, domain.HighscoreSubmission{}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := service.Entries(ctx, "2024-1"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected month validation error, got %v", err)
	}
}

func TestDeviceClass(t *testing.T) {
	cases := map[string]string{
		"":                                  "Unknown",
		"Mozilla/5.0 (iPhone; CPU iPhone)":  "Mobile",
		"Mozilla/5.0 (Linux; Android 14)":   "Mobile",
		"Mozilla/5.0 (iPad; CPU OS 17)":     "Tablet",
		"Mozilla/5.0 (Windows NT 10.0)":     "Desktop",
		"Mozilla/5.0 (X11; Linux x86_64) A": "Desktop",
	}
	for ua, want := range cases {
		if got := app.DeviceClass(ua); got != want {
			t.Fatalf("DeviceClass(%q) = %s, want %s", ua, got, want)
		}
	}
}
