package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/domain"

	"github.com/go-chi/chi/v5"
)

const maxHighscoreLimit = 100

type HighscoreHandler struct {
	highscores *app.HighscoreService
	gameLog    *app.GameLogService
	logger     *slog.Logger
}

func NewHighscoreHandler(highscores *app.HighscoreService, gameLog *app.GameLogService, logger *slog.Logger) *HighscoreHandler {
	return &HighscoreHandler{highscores: highscores, gameLog: gameLog, logger: logger}
}

type highscoresResponse struct {
	Highscores []domain.HighscoreEntry `json:"highscores"`
}

type submitRequest struct {
	Username       string `json:"username"`
	Category       string `json:"category"`
	Score          *int   `json:"score"`
	TotalQuestions *int   `json:"totalQuestions"`
	SessionID      string `json:"sessionId"`
}

type submitResponse struct {
	Message        string `json:"message"`
	IsNewHighscore bool   `json:"isNewHighscore"`
}

func (req submitRequest) submission(r *http.Request) domain.HighscoreSubmission {
	return domain.HighscoreSubmission{
		Username:       req.Username,
		Category:       req.Category,
		Score:          *req.Score,
		TotalQuestions: *req.TotalQuestions,
		SessionID:      req.SessionID,
		UserAgent:      r.UserAgent(),
	}
}

func (h *HighscoreHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := app.DefaultTopN
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxHighscoreLimit)
	}

	entries, err := h.highscores.Top(r.Context(), chi.URLParam(r, "category"), limit)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if entries == nil {
		entries = []domain.HighscoreEntry{}
	}
	writeJSON(w, http.StatusOK, highscoresResponse{Highscores: entries})
}

// Submit logs the finished game and records the score if it beats the user's best.
func (h *HighscoreHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Username == "" || req.Category == "" || req.Score == nil || req.TotalQuestions == nil {
		writeError(w, http.StatusBadRequest, "missing parameters")
		return
	}
	if err := app.ValidateUsername(req.Username); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if err := h.gameLog.Record(r.Context(), req.submission(r)); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	isNew, err := h.highscores.Upsert(r.Context(), req.Category, req.Username, *req.Score, *req.TotalQuestions)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{Message: "highscore saved", IsNewHighscore: isNew})
}

// GameLog records an attempt without touching the ledger; guests have no username.
func (h *HighscoreHandler) GameLog(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Category == "" || req.Score == nil || req.TotalQuestions == nil {
		writeError(w, http.StatusBadRequest, "missing parameters")
		return
	}
	if err := h.gameLog.Record(r.Context(), req.submission(r)); err != nil {
		writeServiceError(w, h.logger, fmt.Errorf("log game: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "game logged"})
}
