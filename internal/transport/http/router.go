package http

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig carries everything NewRouter mounts.
type RouterConfig struct {
	Quiz       *QuizHandler
	Highscores *HighscoreHandler
	Admin      *AdminHandler
	Tokens     TokenVerifier
	StaticDir  string
	Logger     *slog.Logger
}

// NewRouter sets up routes and middlewares.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(cfg.Logger.Handler(), slog.LevelInfo),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", cfg.Quiz.Categories)

		r.Route("/quiz", func(r chi.Router) {
			r.Post("/start", cfg.Quiz.Start)
			r.Get("/{id}/question", cfg.Quiz.Question)
			r.Post("/{id}/answer", cfg.Quiz.Answer)
			r.Post("/{id}/timeout", cfg.Quiz.Timeout)
			r.Get("/{id}/result", cfg.Quiz.Result)
			r.Delete("/{id}", cfg.Quiz.End)
		})

		r.Get("/highscores/{category}", cfg.Highscores.List)
		r.Post("/highscores", cfg.Highscores.Submit)
		r.Post("/game-log", cfg.Highscores.GameLog)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", cfg.Admin.Login)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin(cfg.Tokens))
			r.Get("/verify", cfg.Admin.Verify)
			r.Get("/months", cfg.Admin.Months)
			r.Get("/logs/{month}", cfg.Admin.Logs)
			r.Post("/questions/{category}", cfg.Admin.AddQuestion)
		})

		if adminPage := staticFile(cfg.StaticDir, "admin.html"); adminPage != "" {
			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				http.ServeFile(w, r, adminPage)
			})
		}
	})

	if info, err := os.Stat(cfg.StaticDir); cfg.StaticDir != "" && err == nil && info.IsDir() {
		r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	return r
}

// staticFile returns the path of name inside dir, or "" when it does not exist.
func staticFile(dir, name string) string {
	if dir == "" {
		return ""
	}
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
