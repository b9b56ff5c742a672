package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/domain"

	"github.com/go-chi/chi/v5"
)

type QuizHandler struct {
	quiz   *app.QuizService
	logger *slog.Logger
}

func NewQuizHandler(quiz *app.QuizService, logger *slog.Logger) *QuizHandler {
	return &QuizHandler{quiz: quiz, logger: logger}
}

type categoriesResponse struct {
	Categories []domain.Category `json:"categories"`
}

type startRequest struct {
	Category string `json:"category"`
}

type answerRequest struct {
	AnswerIndex    *int `json:"answerIndex"`
	QuestionNumber int  `json:"questionNumber"`
}

type timeoutRequest struct {
	QuestionNumber int `json:"questionNumber"`
}

func (h *QuizHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.quiz.Categories(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	writeJSON(w, http.StatusOK, categoriesResponse{Categories: categories})
}

func (h *QuizHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Category == "" {
		writeError(w, http.StatusBadRequest, "invalid category")
		return
	}
	started, err := h.quiz.Start(r.Context(), req.Category)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	h.logger.Info("quiz started", "session", started.SessionID, "category", req.Category, "questions", started.TotalQuestions)
	writeJSON(w, http.StatusCreated, started)
}

func (h *QuizHandler) Question(w http.ResponseWriter, r *http.Request) {
	question, err := h.quiz.NextQuestion(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, question)
}

func (h *QuizHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.AnswerIndex == nil {
		writeServiceError(w, h.logger, fmt.Errorf("answerIndex is required: %w", domain.ErrValidation))
		return
	}
	outcome, err := h.quiz.SubmitAnswer(r.Context(), chi.URLParam(r, "id"), *req.AnswerIndex, req.QuestionNumber)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (h *QuizHandler) Timeout(w http.ResponseWriter, r *http.Request) {
	var req timeoutRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	outcome, err := h.quiz.Timeout(r.Context(), chi.URLParam(r, "id"), req.QuestionNumber)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (h *QuizHandler) Result(w http.ResponseWriter, r *http.Request) {
	result, err := h.quiz.Result(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *QuizHandler) End(w http.ResponseWriter, r *http.Request) {
	if err := h.quiz.End(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "session ended"})
}
