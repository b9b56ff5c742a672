package app

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strings"
	"time"

	"timed-quiz-service/internal/domain"
)

const guestName = "Gast"

var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// GameLogRepository is an append-only log partitioned by calendar month ("YYYY-MM").
type GameLogRepository interface {
	Append(ctx context.Context, at time.Time, entry domain.GameLogEntry) error
	Months(ctx context.Context) ([]string, error)
	Entries(ctx context.Context, month string) ([]domain.GameLogEntry, error)
}

// PlayTimer tells how long a session has been running.
type PlayTimer interface {
	PlayedFor(sessionID string) (time.Duration, bool)
}

// GameLogService records every finished attempt, guests included.
type GameLogService struct {
	repo       GameLogRepository
	categories CategoryChecker
	sessions   PlayTimer
	logger     *slog.Logger
	now        func() time.Time
}

func NewGameLogService(repo GameLogRepository, categories CategoryChecker, sessions PlayTimer, logger *slog.Logger) *GameLogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GameLogService{
		repo:       repo,
		categories: categories,
		sessions:   sessions,
		logger:     logger,
		now:        time.Now,
	}
}

// Record validates the submission and appends it to the current month's log.
// Write failures are logged and swallowed; logging is best-effort.
func (s *GameLogService) Record(ctx context.Context, sub domain.HighscoreSubmission) error {
	if sub.Category == "" {
		return fmt.Errorf("category is required: %w", domain.ErrValidation)
	}
	ok, err := s.categories.CategoryExists(ctx, sub.Category)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidCategory
	}

	now := s.now()
	entry := s.entryFor(now, sub)
	if err := s.repo.Append(ctx, now, entry); err != nil {
		s.logger.Error("game log append failed", "category", sub.Category, "username", entry.Username, "err", err)
		return nil
	}
	s.logger.Info("game logged", "username", entry.Username, "category", entry.Category, "score", entry.Score, "total", entry.Total)
	return nil
}

func (s *GameLogService) entryFor(now time.Time, sub domain.HighscoreSubmission) domain.GameLogEntry {
	seconds := 0
	if played, ok := s.sessions.PlayedFor(sub.SessionID); ok {
		seconds = int(math.Round(played.Seconds()))
	}
	username := cleanField(sub.Username)
	if username == "" {
		username = guestName
	}
	return domain.GameLogEntry{
		Timestamp: now.UTC().Format("2006-01-02T15:04:05.000Z"),
		Username:  username,
		Category:  sub.Category,
		Duration:  fmt.Sprintf("%ds", seconds),
		Score:     sub.Score,
		Total:     sub.TotalQuestions,
		Device:    DeviceClass(sub.UserAgent),
		UserAgent: CleanUserAgent(sub.UserAgent),
	}
}

// Months lists the months that have a log, newest first.
func (s *GameLogService) Months(ctx context.Context) ([]string, error) {
	return s.repo.Months(ctx)
}

// Entries returns the parsed log of one month.
func (s *GameLogService) Entries(ctx context.Context, month string) ([]domain.GameLogEntry, error) {
	if !monthPattern.MatchString(month) {
		return nil, fmt.Errorf("month must look like YYYY-MM: %w", domain.ErrValidation)
	}
	return s.repo.Entries(ctx, month)
}

// DeviceClass buckets a user agent into Mobile, Tablet, Desktop or Unknown.
func DeviceClass(userAgent string) string {
	switch {
	case userAgent == "":
		return "Unknown"
	case strings.Contains(userAgent, "Mobile"), strings.Contains(userAgent, "Android"), strings.Contains(userAgent, "iPhone"):
		return "Mobile"
	case strings.Contains(userAgent, "Tablet"), strings.Contains(userAgent, "iPad"):
		return "Tablet"
	default:
		return "Desktop"
	}
}

var fieldSeparators = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")

// cleanField makes free text safe for one column of a tab separated line.
func cleanField(s string) string {
	return strings.TrimSpace(fieldSeparators.Replace(s))
}

// CleanUserAgent makes a user agent safe for a tab separated line.
func CleanUserAgent(userAgent string) string {
	cleaned := cleanField(userAgent)
	if cleaned == "" {
		return "Unknown"
	}
	return cleaned
}
