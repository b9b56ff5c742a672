package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"timed-quiz-service/internal/domain"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuestionLoader loads categories and questions (answers as JSONB) from Postgres.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) Load(ctx context.Context) (domain.QuestionBank, error) {
	bank := domain.QuestionBank{Questions: make(map[string][]domain.Question)}

	rows, err := l.pool.Query(ctx, `SELECT id, display_name, description, icon, sort_order FROM categories ORDER BY sort_order, seq`)
	if err != nil {
		return domain.QuestionBank{}, fmt.Errorf("load categories: %w", err)
	}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.DisplayName, &c.Description, &c.Icon, &c.Order); err != nil {
			rows.Close()
			return domain.QuestionBank{}, fmt.Errorf("scan category: %w", err)
		}
		bank.Categories = append(bank.Categories, c)
		bank.Questions[c.ID] = []domain.Question{}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return domain.QuestionBank{}, fmt.Errorf("load categories: %w", err)
	}

	rows, err = l.pool.Query(ctx, `SELECT category_id, id, question, answers, correct FROM questions ORDER BY category_id, id`)
	if err != nil {
		return domain.QuestionBank{}, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			categoryID string
			raw        []byte
			q          domain.Question
		)
		if err := rows.Scan(&categoryID, &q.ID, &q.Question, &raw, &q.Correct); err != nil {
			return domain.QuestionBank{}, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal(raw, &q.Answers); err != nil {
			return domain.QuestionBank{}, fmt.Errorf("unmarshal answers of %s/%d: %w", categoryID, q.ID, err)
		}
		bank.Questions[categoryID] = append(bank.Questions[categoryID], q)
	}
	return bank, rows.Err()
}

// Append inserts q with the next free id of its category.
func (l *QuestionLoader) Append(ctx context.Context, categoryID string, q domain.Question) (domain.Question, error) {
	answers, err := json.Marshal(q.Answers)
	if err != nil {
		return domain.Question{}, err
	}

	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return domain.Question{}, err
	}
	defer tx.Rollback(ctx)

	// Row lock on the category serializes concurrent appends.
	var locked string
	err = tx.QueryRow(ctx, `SELECT id FROM categories WHERE id=$1 FOR UPDATE`, categoryID).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, domain.ErrInvalidCategory
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("lock category: %w", err)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO questions (category_id, id, question, answers, correct)
		SELECT $1, COALESCE(MAX(id), 0) + 1, $2, $3::jsonb, $4 FROM questions WHERE category_id=$1
		RETURNING id`,
		categoryID, q.Question, string(answers), q.Correct,
	).Scan(&q.ID)
	if err != nil {
		return domain.Question{}, fmt.Errorf("insert question: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Question{}, err
	}
	return q, nil
}

// SaveCategory inserts or updates a category row; used to seed the database.
func (l *QuestionLoader) SaveCategory(ctx context.Context, c domain.Category) error {
	_, err := l.pool.Exec(ctx, `
		INSERT INTO categories (id, display_name, description, icon, sort_order)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET display_name=EXCLUDED.display_name, description=EXCLUDED.description,
			icon=EXCLUDED.icon, sort_order=EXCLUDED.sort_order`,
		c.ID, c.DisplayName, c.Description, c.Icon, c.Order,
	)
	if err != nil {
		return fmt.Errorf("save category: %w", err)
	}
	return nil
}

// SaveQuestion inserts or replaces q keeping its id; used to seed the database.
func (l *QuestionLoader) SaveQuestion(ctx context.Context, categoryID string, q domain.Question) error {
	answers, err := json.Marshal(q.Answers)
	if err != nil {
		return err
	}
	_, err = l.pool.Exec(ctx, `
		INSERT INTO questions (category_id, id, question, answers, correct)
		VALUES ($1, $2, $3, $4::jsonb, $5)
		ON CONFLICT (category_id, id) DO UPDATE SET question=EXCLUDED.question,
			answers=EXCLUDED.answers, correct=EXCLUDED.correct`,
		categoryID, q.ID, q.Question, string(answers), q.Correct,
	)
	if err != nil {
		return fmt.Errorf("save question %s/%d: %w", categoryID, q.ID, err)
	}
	return nil
}
