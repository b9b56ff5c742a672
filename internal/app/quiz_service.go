package app

import (
	"context"
	"fmt"
	"time"

	"timed-quiz-service/internal/domain"

	"github.com/google/uuid"
)

const (
	// DefaultTimeLimit is the per-question answer window.
	DefaultTimeLimit = 10 * time.Second
	// DefaultMaxQuestions caps the questions drawn for one session.
	DefaultMaxQuestions = 12

	maxIDAttempts = 5
)

// SessionRepository abstracts how quiz sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	// Add stores a new session; it reports false when the id is already taken.
	Add(session *Session) bool
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string) bool
}

// QuestionRepository serves the question bank (from cache/backing store).
type QuestionRepository interface {
	Bank(ctx context.Context) (domain.QuestionBank, error)
	Append(ctx context.Context, categoryID string, q domain.Question) (domain.Question, error)
}

// QuizConfig tunes a QuizService. Zero values fall back to the defaults.
type QuizConfig struct {
	TimeLimit    time.Duration
	MaxQuestions int
	Clock        func() time.Time
	Shuffler     *Shuffler
	NewID        func() string
}

// QuizService contains the quiz session use cases.
type QuizService struct {
	sessions     SessionRepository
	questions    QuestionRepository
	shuffler     *Shuffler
	timeLimit    time.Duration
	maxQuestions int
	now          func() time.Time
	newID        func() string
}

func NewQuizService(store SessionRepository, questions QuestionRepository, cfg QuizConfig) *QuizService {
	s := &QuizService{
		sessions:     store,
		questions:    questions,
		shuffler:     cfg.Shuffler,
		timeLimit:    cfg.TimeLimit,
		maxQuestions: cfg.MaxQuestions,
		now:          cfg.Clock,
		newID:        cfg.NewID,
	}
	if s.shuffler == nil {
		s.shuffler = NewShuffler()
	}
	if s.timeLimit <= 0 {
		s.timeLimit = DefaultTimeLimit
	}
	if s.maxQuestions <= 0 {
		s.maxQuestions = DefaultMaxQuestions
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// TimeLimit is the per-question window clients should count down.
func (s *QuizService) TimeLimit() time.Duration {
	return s.timeLimit
}

// Categories lists categories in presentation order.
func (s *QuizService) Categories(ctx context.Context) ([]domain.Category, error) {
	bank, err := s.questions.Bank(ctx)
	if err != nil {
		return nil, err
	}
	return bank.Categories, nil
}

// CategoryExists reports whether categoryID names a loaded category.
func (s *QuizService) CategoryExists(ctx context.Context, categoryID string) (bool, error) {
	bank, err := s.questions.Bank(ctx)
	if err != nil {
		return false, err
	}
	_, ok := bank.Questions[categoryID]
	return ok, nil
}

// Start draws a shuffled question set for categoryID and opens a session.
func (s *QuizService) Start(ctx context.Context, categoryID string) (domain.QuizStart, error) {
	bank, err := s.questions.Bank(ctx)
	if err != nil {
		return domain.QuizStart{}, err
	}
	questions, ok := bank.Questions[categoryID]
	if !ok {
		return domain.QuizStart{}, domain.ErrInvalidCategory
	}
	name := categoryID
	if c, ok := bank.Category(categoryID); ok {
		name = c.DisplayName
	}

	selected := ShuffleLimit(s.shuffler, questions, s.maxQuestions)
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		session := newSession(s.newID(), categoryID, name, selected, s.now)
		if s.sessions.Add(session) {
			return domain.QuizStart{
				SessionID:      session.ID(),
				TotalQuestions: len(selected),
				Category:       name,
				TimeLimit:      int(s.timeLimit / time.Second),
			}, nil
		}
	}
	return domain.QuizStart{}, fmt.Errorf("allocate session id: %w", domain.ErrPersistence)
}

// NextQuestion serves the question at the session's current index without its answer key.
func (s *QuizService) NextQuestion(_ context.Context, sessionID string) (domain.PublicQuestion, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.PublicQuestion{}, domain.ErrSessionNotFound
	}
	return session.nextQuestion(s.shuffler, s.timeLimit)
}

// SubmitAnswer scores answerIndex against the pending question. questionNumber
// is optional (0 skips the check) and must match the pending question's number.
func (s *QuizService) SubmitAnswer(_ context.Context, sessionID string, answerIndex, questionNumber int) (domain.AnswerOutcome, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.AnswerOutcome{}, domain.ErrSessionNotFound
	}
	return session.answer(answerIndex, questionNumber, s.timeLimit)
}

// Timeout records the pending question as unanswered.
func (s *QuizService) Timeout(_ context.Context, sessionID string, questionNumber int) (domain.AnswerOutcome, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.AnswerOutcome{}, domain.ErrSessionNotFound
	}
	return session.timeout(questionNumber, s.timeLimit)
}

// Result aggregates the session's answers so far.
func (s *QuizService) Result(_ context.Context, sessionID string) (domain.QuizResult, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.QuizResult{}, domain.ErrSessionNotFound
	}
	return session.result(), nil
}

// End drops the session.
func (s *QuizService) End(_ context.Context, sessionID string) error {
	if !s.sessions.Delete(sessionID) {
		return domain.ErrSessionNotFound
	}
	return nil
}

// PlayedFor reports how long ago the session was started.
func (s *QuizService) PlayedFor(sessionID string) (time.Duration, bool) {
	if sessionID == "" {
		return 0, false
	}
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return 0, false
	}
	return s.now().Sub(session.StartedAt()), true
}

// AddQuestion appends a question to a category's bank and returns it with its assigned id.
func (s *QuizService) AddQuestion(ctx context.Context, categoryID string, q domain.Question) (domain.Question, error) {
	if err := ValidateQuestion(q); err != nil {
		return domain.Question{}, err
	}
	return s.questions.Append(ctx, categoryID, q)
}

// ValidateQuestion checks the shape every stored question must have.
func ValidateQuestion(q domain.Question) error {
	if q.Question == "" {
		return fmt.Errorf("question text is required: %w", domain.ErrValidation)
	}
	if len(q.Answers) < 2 {
		return fmt.Errorf("at least two answers are required: %w", domain.ErrValidation)
	}
	if q.Correct < 0 || q.Correct >= len(q.Answers) {
		return fmt.Errorf("correct index %d out of range: %w", q.Correct, domain.ErrValidation)
	}
	return nil
}
