package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"timed-quiz-service/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

// HighscoreStore keeps the ledger in a SQLite database file.
type HighscoreStore struct {
	db *sql.DB
}

func OpenHighscoreStore(path string) (*HighscoreStore, error) {
	if strings.TrimSpace(path) == "" {
		path = "highscores.db"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	store := &HighscoreStore{db: db}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *HighscoreStore) Close() error {
	return s.db.Close()
}

func (s *HighscoreStore) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS highscores (
			category TEXT NOT NULL,
			username TEXT NOT NULL,
			score INTEGER NOT NULL,
			total_questions INTEGER NOT NULL,
			achieved_at_ms INTEGER NOT NULL,
			PRIMARY KEY (category, username)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_highscores_rank ON highscores(category, score DESC, achieved_at_ms ASC);`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *HighscoreStore) List(ctx context.Context, category string) ([]domain.HighscoreEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, score, total_questions, achieved_at_ms
		FROM highscores WHERE category = ?
		ORDER BY score DESC, achieved_at_ms ASC`, category)
	if err != nil {
		return nil, fmt.Errorf("list highscores: %w", err)
	}
	defer rows.Close()

	entries := []domain.HighscoreEntry{}
	for rows.Next() {
		var e domain.HighscoreEntry
		if err := rows.Scan(&e.Username, &e.Score, &e.TotalQuestions, &e.Timestamp); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *HighscoreStore) PutIfBetter(ctx context.Context, category string, entry domain.HighscoreEntry) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO highscores (category, username, score, total_questions, achieved_at_ms)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(category, username) DO UPDATE SET
			score = excluded.score,
			total_questions = excluded.total_questions,
			achieved_at_ms = excluded.achieved_at_ms
		WHERE excluded.score > highscores.score`,
		category, entry.Username, entry.Score, entry.TotalQuestions, entry.Timestamp,
	)
	if err != nil {
		return false, fmt.Errorf("put highscore: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("put highscore: %w", err)
	}
	return n == 1, nil
}
