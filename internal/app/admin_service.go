package app

import (
	"log/slog"
	"time"

	"timed-quiz-service/internal/domain"
)

// TokenIssuer mints and checks admin bearer tokens.
type TokenIssuer interface {
	Issue(now time.Time) (string, time.Time, error)
	Validate(token string, now time.Time) error
}

// PasswordVerifier checks the shared admin password.
type PasswordVerifier interface {
	Verify(password string) bool
}

// AdminService guards the admin surface with a single shared password.
type AdminService struct {
	tokens    TokenIssuer
	passwords PasswordVerifier
	logger    *slog.Logger
	now       func() time.Time
}

func NewAdminService(tokens TokenIssuer, passwords PasswordVerifier, logger *slog.Logger) *AdminService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminService{tokens: tokens, passwords: passwords, logger: logger, now: time.Now}
}

// Login exchanges the admin password for a token and its expiry.
func (s *AdminService) Login(password string) (string, time.Time, error) {
	if password == "" || !s.passwords.Verify(password) {
		s.logger.Warn("admin login rejected")
		return "", time.Time{}, domain.ErrUnauthorized
	}
	token, expiresAt, err := s.tokens.Issue(s.now())
	if err != nil {
		return "", time.Time{}, err
	}
	s.logger.Info("admin login")
	return token, expiresAt, nil
}

// Verify accepts only tokens issued by Login that have not expired.
func (s *AdminService) Verify(token string) error {
	if token == "" {
		return domain.ErrUnauthorized
	}
	if err := s.tokens.Validate(token, s.now()); err != nil {
		return domain.ErrUnauthorized
	}
	return nil
}
