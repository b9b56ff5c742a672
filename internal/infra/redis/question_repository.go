package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/infra/memory"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const bankKey = "quiz:bank"

// QuestionRepository caches the whole question bank as one JSON value in Redis
// and falls back to the loader on cache miss.
type QuestionRepository struct {
	client *redis.Client
	loader memory.QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuestionRepository(client *redis.Client, loader memory.QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) Bank(ctx context.Context) (domain.QuestionBank, error) {
	if bank, ok := r.cached(ctx); ok {
		return bank, nil
	}

	result, err, _ := r.sf.Do(bankKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if bank, ok := r.cached(ctx); ok {
			return bank, nil
		}

		bank, err := r.loader.Load(ctx)
		if err != nil {
			return domain.QuestionBank{}, err
		}

		if data, err := json.Marshal(bank); err == nil {
			_ = r.client.Set(ctx, bankKey, data, r.ttlWithJitter()).Err()
		}
		return bank, nil
	})
	if err != nil {
		return domain.QuestionBank{}, err
	}
	return result.(domain.QuestionBank), nil
}

// Append writes through to the loader and evicts the cached bank.
func (r *QuestionRepository) Append(ctx context.Context, categoryID string, q domain.Question) (domain.Question, error) {
	added, err := r.loader.Append(ctx, categoryID, q)
	if err != nil {
		return domain.Question{}, err
	}
	_ = r.client.Del(ctx, bankKey).Err()
	return added, nil
}

func (r *QuestionRepository) cached(ctx context.Context) (domain.QuestionBank, bool) {
	data, err := r.client.Get(ctx, bankKey).Bytes()
	if err != nil {
		return domain.QuestionBank{}, false
	}
	var bank domain.QuestionBank
	if err := json.Unmarshal(data, &bank); err != nil {
		return domain.QuestionBank{}, false
	}
	return bank, true
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
