package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/infra/memory"
)

const (
	defaultIcon  = "📚"
	defaultOrder = 999
)

var orderPrefix = regexp.MustCompile(`^\d+_`)

// QuestionLoader reads one JSON file per category from a directory. A file is
// either {"metadata": {...}, "questions": [...]} or a bare array of questions,
// in which case the category id comes from the file name.
type QuestionLoader struct {
	dir    string
	logger *slog.Logger
	mu     sync.Mutex
}

func NewQuestionLoader(dir string, logger *slog.Logger) *QuestionLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuestionLoader{dir: dir, logger: logger}
}

type categoryFile struct {
	Metadata  *categoryMetadata `json:"metadata"`
	Questions []domain.Question `json:"questions"`
}

type categoryMetadata struct {
	CategoryID  string `json:"categoryId"`
	DisplayName string `json:"displayName"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Order       int    `json:"order,omitempty"`
}

// source remembers where a category came from so Append can rewrite it.
type source struct {
	path   string
	legacy bool
	meta   categoryMetadata
}

func (l *QuestionLoader) Load(_ context.Context) (domain.QuestionBank, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	bank, _, err := l.scan()
	return bank, err
}

func (l *QuestionLoader) Append(_ context.Context, categoryID string, q domain.Question) (domain.Question, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, sources, err := l.scan()
	if err != nil {
		return domain.Question{}, err
	}
	src, ok := sources[categoryID]
	if !ok {
		return domain.Question{}, domain.ErrInvalidCategory
	}

	questions, err := readQuestions(src)
	if err != nil {
		return domain.Question{}, err
	}
	q.ID = memory.NextQuestionID(questions)
	questions = append(questions, q)

	var payload any = questions
	if !src.legacy {
		meta := src.meta
		payload = categoryFile{Metadata: &meta, Questions: questions}
	}
	data, err := json.MarshalIndent(payload, "", "    ")
	if err != nil {
		return domain.Question{}, err
	}
	if err := writeFileAtomic(src.path, data); err != nil {
		return domain.Question{}, fmt.Errorf("write %s: %w", src.path, err)
	}
	l.logger.Info("question appended", "category", categoryID, "id", q.ID)
	return q, nil
}

func (l *QuestionLoader) scan() (domain.QuestionBank, map[string]source, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return domain.QuestionBank{}, nil, fmt.Errorf("questions directory %s: %w", l.dir, err)
	}

	bank := domain.QuestionBank{Questions: make(map[string][]domain.Question)}
	sources := make(map[string]source)
	// os.ReadDir returns entries sorted by file name; numeric prefixes order the files.
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(l.dir, entry.Name())
		category, questions, src, err := parseCategoryFile(path)
		if err != nil {
			l.logger.Warn("skipping question file", "file", entry.Name(), "err", err)
			continue
		}
		if _, dup := sources[category.ID]; dup {
			l.logger.Warn("duplicate category id, skipping file", "file", entry.Name(), "category", category.ID)
			continue
		}
		bank.Categories = append(bank.Categories, category)
		bank.Questions[category.ID] = l.validQuestions(entry.Name(), questions)
		sources[category.ID] = src
		l.logger.Debug("category loaded", "category", category.ID, "questions", len(bank.Questions[category.ID]), "file", entry.Name())
	}

	sort.SliceStable(bank.Categories, func(i, j int) bool {
		return bank.Categories[i].Order < bank.Categories[j].Order
	})
	l.logger.Info("question bank loaded", "categories", len(bank.Categories))
	return bank, sources, nil
}

func (l *QuestionLoader) validQuestions(fileName string, questions []domain.Question) []domain.Question {
	valid := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		if len(q.Answers) < 2 || q.Correct < 0 || q.Correct >= len(q.Answers) {
			l.logger.Warn("skipping malformed question", "file", fileName, "id", q.ID)
			continue
		}
		valid = append(valid, q)
	}
	return valid
}

func parseCategoryFile(path string) (domain.Category, []domain.Question, source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Category{}, nil, source{}, err
	}

	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		var questions []domain.Question
		if err := json.Unmarshal(trimmed, &questions); err != nil {
			return domain.Category{}, nil, source{}, err
		}
		id := orderPrefix.ReplaceAllString(strings.TrimSuffix(filepath.Base(path), ".json"), "")
		category := domain.Category{
			ID:          id,
			DisplayName: id,
			Description: "Questions about " + id,
			Icon:        defaultIcon,
			Order:       defaultOrder,
		}
		return category, questions, source{path: path, legacy: true}, nil
	}

	var file categoryFile
	if err := json.Unmarshal(data, &file); err != nil {
		return domain.Category{}, nil, source{}, err
	}
	if file.Metadata == nil || file.Metadata.CategoryID == "" {
		return domain.Category{}, nil, source{}, fmt.Errorf("missing metadata.categoryId")
	}
	meta := *file.Metadata
	category := domain.Category{
		ID:          meta.CategoryID,
		DisplayName: meta.DisplayName,
		Description: meta.Description,
		Icon:        meta.Icon,
		Order:       meta.Order,
	}
	if category.DisplayName == "" {
		category.DisplayName = category.ID
	}
	if category.Icon == "" {
		category.Icon = defaultIcon
	}
	if category.Order == 0 {
		category.Order = defaultOrder
	}
	return category, file.Questions, source{path: path, meta: meta}, nil
}

// readQuestions re-reads the raw question list of a file, malformed entries included.
func readQuestions(src source) ([]domain.Question, error) {
	_, questions, _, err := parseCategoryFile(src.path)
	if err != nil {
		return nil, err
	}
	return questions, nil
}
