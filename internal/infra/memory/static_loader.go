package memory

import (
	"context"
	"sync"

	"timed-quiz-service/internal/domain"
)

// StaticQuestionLoader is a simple loader backed by an in-memory bank (useful for tests/demos).
type StaticQuestionLoader struct {
	mu   sync.Mutex
	bank domain.QuestionBank
}

func NewStaticQuestionLoader(bank domain.QuestionBank) *StaticQuestionLoader {
	if bank.Questions == nil {
		bank.Questions = make(map[string][]domain.Question)
	}
	return &StaticQuestionLoader{bank: bank}
}

func (l *StaticQuestionLoader) Load(_ context.Context) (domain.QuestionBank, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneBank(l.bank), nil
}

func (l *StaticQuestionLoader) Append(_ context.Context, categoryID string, q domain.Question) (domain.Question, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	questions, ok := l.bank.Questions[categoryID]
	if !ok {
		return domain.Question{}, domain.ErrInvalidCategory
	}
	q.ID = NextQuestionID(questions)
	l.bank.Questions[categoryID] = append(questions, q)
	return q, nil
}

// NextQuestionID is one more than the highest id in questions, 1 when empty.
func NextQuestionID(questions []domain.Question) int {
	maxID := 0
	for _, q := range questions {
		if q.ID > maxID {
			maxID = q.ID
		}
	}
	return maxID + 1
}

func cloneBank(bank domain.QuestionBank) domain.QuestionBank {
	out := domain.QuestionBank{
		Categories: append([]domain.Category(nil), bank.Categories...),
		Questions:  make(map[string][]domain.Question, len(bank.Questions)),
	}
	for id, questions := range bank.Questions {
		out.Questions[id] = append([]domain.Question(nil), questions...)
	}
	return out
}
