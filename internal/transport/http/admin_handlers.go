package http

import (
	"errors"
	"log/slog"
	"net/http"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/domain"

	"github.com/go-chi/chi/v5"
)

type AdminHandler struct {
	admin   *app.AdminService
	gameLog *app.GameLogService
	quiz    *app.QuizService
	logger  *slog.Logger
}

func NewAdminHandler(admin *app.AdminService, gameLog *app.GameLogService, quiz *app.QuizService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, gameLog: gameLog, quiz: quiz, logger: logger}
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token,omitempty"`
	ExpiresAt int64  `json:"expiresAt,omitempty"`
	Message   string `json:"message,omitempty"`
}

type monthsResponse struct {
	Months []string `json:"months"`
}

type logsResponse struct {
	Logs []domain.GameLogEntry `json:"logs"`
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	token, expiresAt, err := h.admin.Login(req.Password)
	if errors.Is(err, domain.ErrUnauthorized) {
		writeJSON(w, http.StatusUnauthorized, loginResponse{Success: false, Message: "wrong password"})
		return
	}
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Success: true, Token: token, ExpiresAt: expiresAt.UnixMilli()})
}

func (h *AdminHandler) Verify(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
}

func (h *AdminHandler) Months(w http.ResponseWriter, r *http.Request) {
	months, err := h.gameLog.Months(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if months == nil {
		months = []string{}
	}
	writeJSON(w, http.StatusOK, monthsResponse{Months: months})
}

func (h *AdminHandler) Logs(w http.ResponseWriter, r *http.Request) {
	entries, err := h.gameLog.Entries(r.Context(), chi.URLParam(r, "month"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if entries == nil {
		entries = []domain.GameLogEntry{}
	}
	writeJSON(w, http.StatusOK, logsResponse{Logs: entries})
}

// AddQuestion appends a question to a category and returns it with its new id.
func (h *AdminHandler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	var q domain.Question
	if err := decodeJSON(r, &q, false); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	category := chi.URLParam(r, "category")
	added, err := h.quiz.AddQuestion(r.Context(), category, q)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	h.logger.Info("question added", "category", category, "id", added.ID)
	writeJSON(w, http.StatusCreated, added)
}
