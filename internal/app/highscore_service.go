package app

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"timed-quiz-service/internal/domain"
)

const (
	// MaxUsernameLength bounds highscore usernames (in characters).
	MaxUsernameLength = 20
	// DefaultTopN is the ranking size served when no limit is given.
	DefaultTopN = 10
)

// HighscoreRepository persists one entry per (category, username).
type HighscoreRepository interface {
	List(ctx context.Context, category string) ([]domain.HighscoreEntry, error)
	// PutIfBetter stores entry unless the user already holds an equal or
	// higher score in category. The compare and the write are one atomic
	// step in the backend. It reports whether entry was stored.
	PutIfBetter(ctx context.Context, category string, entry domain.HighscoreEntry) (bool, error)
}

// CategoryChecker tells whether a category exists.
type CategoryChecker interface {
	CategoryExists(ctx context.Context, categoryID string) (bool, error)
}

// HighscoreService is the best-score-per-user ledger.
type HighscoreService struct {
	repo       HighscoreRepository
	categories CategoryChecker
	logger     *slog.Logger
	now        func() time.Time
}

func NewHighscoreService(repo HighscoreRepository, categories CategoryChecker, logger *slog.Logger) *HighscoreService {
	return NewHighscoreServiceWithClock(repo, categories, logger, time.Now)
}

// NewHighscoreServiceWithClock is used by tests for deterministic timestamps.
func NewHighscoreServiceWithClock(repo HighscoreRepository, categories CategoryChecker, logger *slog.Logger, now func() time.Time) *HighscoreService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HighscoreService{
		repo:       repo,
		categories: categories,
		logger:     logger,
		now:        now,
	}
}

// ValidateUsername checks the ledger's username rules.
func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("username is required: %w", domain.ErrValidation)
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return fmt.Errorf("username longer than %d characters: %w", MaxUsernameLength, domain.ErrValidation)
	}
	if strings.IndexFunc(username, unicode.IsControl) >= 0 {
		return fmt.Errorf("username contains control characters: %w", domain.ErrValidation)
	}
	return nil
}

// Upsert records score for username and reports whether it is the user's new best.
func (s *HighscoreService) Upsert(ctx context.Context, category, username string, score, totalQuestions int) (bool, error) {
	if err := ValidateUsername(username); err != nil {
		return false, err
	}
	if err := s.checkCategory(ctx, category); err != nil {
		return false, err
	}

	entry := domain.HighscoreEntry{
		Username:       username,
		Score:          score,
		TotalQuestions: totalQuestions,
		Timestamp:      s.now().UnixMilli(),
	}
	return s.putIfBetter(ctx, category, entry)
}

// putIfBetter retries a failed write once before giving up loudly.
func (s *HighscoreService) putIfBetter(ctx context.Context, category string, entry domain.HighscoreEntry) (bool, error) {
	stored, err := s.repo.PutIfBetter(ctx, category, entry)
	if err == nil {
		return stored, nil
	}
	s.logger.Warn("save highscore failed, retrying", "category", category, "username", entry.Username, "err", err)
	if stored, err = s.repo.PutIfBetter(ctx, category, entry); err == nil {
		return stored, nil
	}
	s.logger.Error("highscore update lost", "category", category, "username", entry.Username, "score", entry.Score, "err", err)
	return false, fmt.Errorf("save highscore: %w: %v", domain.ErrPersistence, err)
}

// Top returns the best n entries: score descending, earlier achievers first on ties.
func (s *HighscoreService) Top(ctx context.Context, category string, n int) ([]domain.HighscoreEntry, error) {
	if err := s.checkCategory(ctx, category); err != nil {
		return nil, err
	}
	if n <= 0 {
		n = DefaultTopN
	}

	entries, err := s.repo.List(ctx, category)
	if err != nil {
		s.logger.Error("load highscores failed", "category", category, "err", err)
		return nil, fmt.Errorf("load highscores: %w: %v", domain.ErrPersistence, err)
	}
	return rankHighscores(entries, n), nil
}

func rankHighscores(entries []domain.HighscoreEntry, n int) []domain.HighscoreEntry {
	ranked := make([]domain.HighscoreEntry, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Timestamp < ranked[j].Timestamp
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func (s *HighscoreService) checkCategory(ctx context.Context, category string) error {
	ok, err := s.categories.CategoryExists(ctx, category)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidCategory
	}
	return nil
}
