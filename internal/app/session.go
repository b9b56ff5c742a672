package app

import (
	"math"
	"sync"
	"time"

	"timed-quiz-service/internal/domain"
)

// Session is one player's quiz attempt. Every method takes the session lock,
// so at most one mutation is in flight per session.
type Session struct {
	id           string
	category     string
	categoryName string
	questions    []domain.Question
	now          func() time.Time

	mu                sync.Mutex
	currentIndex      int
	current           *domain.ShuffledQuestion
	questionStartTime time.Time
	score             int
	answers           []domain.AnswerRecord
	startTime         time.Time
	lastActivity      time.Time
	totalTimeSpent    float64
	timeBonus         int
}

// NewSession is exported for infrastructure layers and tests that need to seed sessions.
func NewSession(id, category string, questions []domain.Question, now func() time.Time) *Session {
	return newSession(id, category, category, questions, now)
}

func newSession(id, category, categoryName string, questions []domain.Question, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	started := now()
	return &Session{
		id:           id,
		category:     category,
		categoryName: categoryName,
		questions:    questions,
		now:          now,
		answers:      make([]domain.AnswerRecord, 0, len(questions)),
		startTime:    started,
		lastActivity: started,
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Category() string {
	return s.category
}

// StartedAt is when the session was created.
func (s *Session) StartedAt() time.Time {
	return s.startTime
}

// LastActivity is the time of the latest question, answer or timeout.
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// CurrentIndex is the number of questions already answered or timed out.
func (s *Session) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentIndex
}

// Score is the accumulated score.
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// TotalQuestions is the fixed number of questions drawn for the session.
func (s *Session) TotalQuestions() int {
	return len(s.questions)
}

func (s *Session) completeLocked() bool {
	return s.currentIndex >= len(s.questions)
}

func (s *Session) nextQuestion(shuffler *Shuffler, limit time.Duration) (domain.PublicQuestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.completeLocked() {
		return domain.PublicQuestion{}, domain.ErrQuizComplete
	}

	// A pending question is served again unchanged so refetching cannot reset the timer.
	if s.current == nil {
		shuffled := shuffler.ShuffleAnswers(s.questions[s.currentIndex])
		s.current = &shuffled
		s.questionStartTime = s.now()
		s.lastActivity = s.questionStartTime
	}

	answers := make([]string, len(s.current.Answers))
	copy(answers, s.current.Answers)
	return domain.PublicQuestion{
		ID:             s.current.ID,
		Question:       s.current.Question.Question,
		Answers:        answers,
		QuestionNumber: s.currentIndex + 1,
		TotalQuestions: len(s.questions),
		TimeLimit:      int(limit / time.Second),
		StartTime:      s.questionStartTime.UnixMilli(),
	}, nil
}

// pendingLocked checks the preconditions shared by answer and timeout.
func (s *Session) pendingLocked(questionNumber int) error {
	if s.completeLocked() {
		return domain.ErrQuizComplete
	}
	if s.current == nil {
		return domain.ErrNoActiveQuestion
	}
	if questionNumber > 0 && questionNumber != s.currentIndex+1 {
		return domain.ErrQuestionMismatch
	}
	return nil
}

func (s *Session) answer(answerIndex, questionNumber int, limit time.Duration) (domain.AnswerOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.pendingLocked(questionNumber); err != nil {
		return domain.AnswerOutcome{}, err
	}

	now := s.now()
	limitSec := limit.Seconds()
	elapsed := now.Sub(s.questionStartTime).Seconds()
	correct := answerIndex == s.current.Correct
	points, bonus, inTime := scoreAnswer(correct, elapsed, limitSec)

	s.score += points + bonus
	s.timeBonus += bonus
	s.totalTimeSpent += math.Min(elapsed, limitSec)

	return s.recordLocked(now, domain.AnswerRecord{
		QuestionID:  s.questions[s.currentIndex].ID,
		AnswerIndex: answerIndex,
		Correct:     correct,
		TimeSpent:   elapsed,
		TimeBonus:   bonus,
		WasInTime:   inTime,
		Points:      points,
	}), nil
}

func (s *Session) timeout(questionNumber int, limit time.Duration) (domain.AnswerOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.pendingLocked(questionNumber); err != nil {
		return domain.AnswerOutcome{}, err
	}

	now := s.now()
	// A timeout always costs the full limit, whatever the clock says.
	s.totalTimeSpent += limit.Seconds()

	return s.recordLocked(now, domain.AnswerRecord{
		QuestionID:  s.questions[s.currentIndex].ID,
		AnswerIndex: -1,
		TimeSpent:   now.Sub(s.questionStartTime).Seconds(),
		Timeout:     true,
	}), nil
}

// recordLocked appends the record, advances past the pending question and
// clears it so a late second submission for the same question is rejected.
func (s *Session) recordLocked(now time.Time, record domain.AnswerRecord) domain.AnswerOutcome {
	correctAnswer := s.current.Correct
	s.answers = append(s.answers, record)
	s.currentIndex++
	s.current = nil
	s.questionStartTime = time.Time{}
	s.lastActivity = now

	return domain.AnswerOutcome{
		Correct:        record.Correct,
		CorrectAnswer:  correctAnswer,
		Score:          s.score,
		TimeSpent:      record.TimeSpent,
		TimeBonus:      record.TimeBonus,
		WasInTime:      record.WasInTime,
		Points:         record.Points,
		Awarded:        record.Points + record.TimeBonus,
		Timeout:        record.Timeout,
		IsLastQuestion: s.completeLocked(),
	}
}

func (s *Session) result() domain.QuizResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return summarize(s.categoryName, len(s.questions), s.score, s.timeBonus, s.totalTimeSpent, s.answers)
}
