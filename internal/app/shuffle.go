package app

import (
	"math/rand"

	"timed-quiz-service/internal/domain"
)

// Shuffler produces random permutations. Intn must return a uniform value in [0, n).
type Shuffler struct {
	Intn func(n int) int
}

// NewShuffler uses the concurrency-safe top-level math/rand source.
func NewShuffler() *Shuffler {
	return &Shuffler{Intn: rand.Intn}
}

// Shuffle returns a permuted copy of items; the input is never modified.
func Shuffle[T any](s *Shuffler, items []T) []T {
	shuffled := make([]T, len(items))
	copy(shuffled, items)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := s.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// ShuffleLimit shuffles items and keeps at most limit of them (all when limit <= 0).
func ShuffleLimit[T any](s *Shuffler, items []T, limit int) []T {
	shuffled := Shuffle(s, items)
	if limit <= 0 || limit > len(shuffled) {
		limit = len(shuffled)
	}
	return shuffled[:limit]
}

// Perm returns a random permutation of [0, n).
func (s *Shuffler) Perm(n int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return Shuffle(s, indices)
}

// ShuffleAnswers permutes the answers of q. The new correct index is derived by
// mapping the original index through the permutation, so duplicated answer
// texts still resolve to the answer that was really correct.
func (s *Shuffler) ShuffleAnswers(q domain.Question) domain.ShuffledQuestion {
	perm := s.Perm(len(q.Answers))
	answers := make([]string, len(perm))
	correct := -1
	for pos, orig := range perm {
		answers[pos] = q.Answers[orig]
		if orig == q.Correct {
			correct = pos
		}
	}
	return domain.ShuffledQuestion{
		Question: domain.Question{
			ID:       q.ID,
			Question: q.Question,
			Answers:  answers,
			Correct:  correct,
		},
		Permutation:     perm,
		OriginalCorrect: q.Correct,
	}
}
