package postgres

import (
	"context"
	"fmt"

	"timed-quiz-service/internal/domain"

	"github.com/jackc/pgx/v4/pgxpool"
)

// HighscoreStore keeps the ledger in the highscores table.
type HighscoreStore struct {
	pool *pgxpool.Pool
}

func NewHighscoreStore(pool *pgxpool.Pool) *HighscoreStore {
	return &HighscoreStore{pool: pool}
}

func (s *HighscoreStore) List(ctx context.Context, category string) ([]domain.HighscoreEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT username, score, total_questions, achieved_at_ms
		FROM highscores WHERE category=$1
		ORDER BY score DESC, achieved_at_ms ASC`, category)
	if err != nil {
		return nil, fmt.Errorf("list highscores: %w", err)
	}
	defer rows.Close()

	entries := []domain.HighscoreEntry{}
	for rows.Next() {
		var e domain.HighscoreEntry
		if err := rows.Scan(&e.Username, &e.Score, &e.TotalQuestions, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan highscore: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// PutIfBetter relies on the conditional upsert: a conflicting row whose
// score is not lower is left untouched and no row is affected.
func (s *HighscoreStore) PutIfBetter(ctx context.Context, category string, entry domain.HighscoreEntry) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO highscores (category, username, score, total_questions, achieved_at_ms)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (category, username) DO UPDATE SET score=EXCLUDED.score,
			total_questions=EXCLUDED.total_questions, achieved_at_ms=EXCLUDED.achieved_at_ms
		WHERE EXCLUDED.score > highscores.score`,
		category, entry.Username, entry.Score, entry.TotalQuestions, entry.Timestamp,
	)
	if err != nil {
		return false, fmt.Errorf("put highscore: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
