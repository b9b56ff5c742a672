package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/config"
	"timed-quiz-service/internal/infra/file"
	"timed-quiz-service/internal/infra/memory"
	pgstore "timed-quiz-service/internal/infra/postgres"
	redisstore "timed-quiz-service/internal/infra/redis"
	"timed-quiz-service/internal/infra/sqlite"
	"timed-quiz-service/internal/logging"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
)

func loadConfig(path string) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, fmt.Errorf("load config %s: %w", path, err)
	}
	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// backends holds the optional shared connections; nil fields are not configured.
type backends struct {
	redis *redis.Client
	pool  *pgxpool.Pool
}

func connectBackends(ctx context.Context, cfg config.Config) (*backends, error) {
	b := &backends{}
	if cfg.Redis.Addr != "" {
		b.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := b.redis.Ping(ctx).Err(); err != nil {
			b.Close()
			return nil, fmt.Errorf("redis %s: %w", cfg.Redis.Addr, err)
		}
	}
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("postgres: %w", err)
		}
		b.pool = pool
	}
	return b, nil
}

func (b *backends) Close() {
	if b.redis != nil {
		_ = b.redis.Close()
	}
	if b.pool != nil {
		b.pool.Close()
	}
}

// questionLoader reads questions from Postgres when configured, otherwise from the questions directory.
func questionLoader(cfg config.Config, b *backends, logger *slog.Logger) memory.QuestionLoader {
	if b.pool != nil {
		return pgstore.NewQuestionLoader(b.pool)
	}
	return file.NewQuestionLoader(cfg.Quiz.QuestionsDir, logger)
}

func questionRepository(cfg config.Config, b *backends, loader memory.QuestionLoader) app.QuestionRepository {
	ttl := config.TTLDuration(cfg.Quiz.CacheTTL, 10*time.Minute)
	if b.redis != nil {
		return redisstore.NewQuestionRepository(b.redis, loader, ttl)
	}
	return memory.NewQuestionRepository(loader, ttl)
}

// highscoreRepository opens the ledger backend named by highscores.driver.
// The returned close func is never nil.
func highscoreRepository(cfg config.Config, b *backends) (app.HighscoreRepository, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Highscores.Driver {
	case "memory":
		return memory.NewHighscoreStore(), noop, nil
	case "file":
		store, err := file.OpenHighscoreStore(cfg.Highscores.File)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	case "redis":
		if b.redis == nil {
			return nil, noop, fmt.Errorf("highscores driver redis needs redis.addr")
		}
		return redisstore.NewHighscoreStore(b.redis), noop, nil
	case "postgres":
		if b.pool == nil {
			return nil, noop, fmt.Errorf("highscores driver postgres needs postgres.url")
		}
		return pgstore.NewHighscoreStore(b.pool), noop, nil
	case "sqlite":
		store, err := sqlite.OpenHighscoreStore(cfg.Highscores.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown highscores driver %q", cfg.Highscores.Driver)
	}
}
