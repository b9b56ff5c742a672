package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"timed-quiz-service/internal/domain"

	"golang.org/x/sync/singleflight"
)

const bankKey = "bank"

// QuestionLoader fetches the question bank from a backing store (files, Postgres).
type QuestionLoader interface {
	Load(ctx context.Context) (domain.QuestionBank, error)
	Append(ctx context.Context, categoryID string, q domain.Question) (domain.Question, error)
}

// QuestionRepository caches the question bank with TTL to avoid repeated loads.
type QuestionRepository struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	bank      domain.QuestionBank
	loaded    bool
	expiresAt time.Time
}

// NewQuestionRepository caches for ttl; ttl <= 0 caches until Invalidate.
func NewQuestionRepository(loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) Bank(ctx context.Context) (domain.QuestionBank, error) {
	if bank, ok := r.cached(r.clock()); ok {
		return bank, nil
	}

	result, err, _ := r.sf.Do(bankKey, func() (interface{}, error) {
		now := r.clock()
		if bank, ok := r.cached(now); ok {
			return bank, nil
		}

		bank, err := r.loader.Load(ctx)
		if err != nil {
			return domain.QuestionBank{}, err
		}

		r.mu.Lock()
		r.bank = bank
		r.loaded = true
		r.expiresAt = now.Add(r.ttlWithJitter())
		r.mu.Unlock()
		return bank, nil
	})
	if err != nil {
		return domain.QuestionBank{}, err
	}
	return result.(domain.QuestionBank), nil
}

// Append writes through to the loader and drops the cached bank.
func (r *QuestionRepository) Append(ctx context.Context, categoryID string, q domain.Question) (domain.Question, error) {
	added, err := r.loader.Append(ctx, categoryID, q)
	if err != nil {
		return domain.Question{}, err
	}
	r.Invalidate()
	return added, nil
}

// Invalidate forces the next Bank call to reload.
func (r *QuestionRepository) Invalidate() {
	r.mu.Lock()
	r.loaded = false
	r.mu.Unlock()
}

func (r *QuestionRepository) cached(now time.Time) (domain.QuestionBank, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.loaded {
		return domain.QuestionBank{}, false
	}
	if r.ttl > 0 && !r.expiresAt.After(now) {
		return domain.QuestionBank{}, false
	}
	return r.bank, true
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
