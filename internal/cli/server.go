package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/config"
	"timed-quiz-service/internal/infra/file"
	"timed-quiz-service/internal/infra/memory"
	redisstore "timed-quiz-service/internal/infra/redis"
	"timed-quiz-service/internal/infra/security"
	transport "timed-quiz-service/internal/transport/http"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, logger, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg, logger); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}

	b, err := connectBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	questions := questionRepository(cfg, b, questionLoader(cfg, b, logger))
	bank, err := questions.Bank(ctx)
	if err != nil {
		return err
	}
	logger.Info("question bank loaded", "categories", len(bank.Categories))

	sessionTTL := config.TTLDuration(cfg.Quiz.SessionTTL, 0)
	var (
		sessions    app.SessionRepository
		memSessions *memory.SessionStore
	)
	if b.redis != nil {
		sessions = redisstore.NewSessionStore(b.redis, config.TTLDuration(cfg.Redis.TTL, sessionTTL))
	} else {
		memSessions = memory.NewSessionStoreWithTTL(sessionTTL, time.Now)
		sessions = memSessions
	}

	quiz := app.NewQuizService(sessions, questions, app.QuizConfig{
		TimeLimit:    config.TTLDuration(cfg.Quiz.TimeLimit, app.DefaultTimeLimit),
		MaxQuestions: cfg.Quiz.MaxQuestions,
	})

	highscoreRepo, closeHighscores, err := highscoreRepository(cfg, b)
	if err != nil {
		return err
	}
	defer closeHighscores()
	highscores := app.NewHighscoreService(highscoreRepo, quiz, logger)

	gameLogStore, err := file.NewGameLog(cfg.GameLog.Dir)
	if err != nil {
		return err
	}
	gameLog := app.NewGameLogService(gameLogStore, quiz, quiz, logger)

	admin, err := newAdminService(cfg, logger)
	if err != nil {
		return err
	}

	handler := transport.NewRouter(transport.RouterConfig{
		Quiz:       transport.NewQuizHandler(quiz, logger),
		Highscores: transport.NewHighscoreHandler(highscores, gameLog, logger),
		Admin:      transport.NewAdminHandler(admin, gameLog, quiz, logger),
		Tokens:     admin,
		StaticDir:  cfg.Server.StaticDir,
		Logger:     logger,
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting quiz service", "addr", server.Addr, "highscores", cfg.Highscores.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if memSessions != nil {
		g.Go(func() error {
			return memSessions.RunSweeper(gctx, config.TTLDuration(cfg.Quiz.SweepInterval, time.Minute), logger)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newAdminService(cfg config.Config, logger *slog.Logger) (*app.AdminService, error) {
	issuer, err := security.NewJWTIssuer(cfg.Admin.TokenSecret, config.TTLDuration(cfg.Admin.TokenTTL, 24*time.Hour))
	if err != nil {
		return nil, err
	}
	if cfg.Admin.Password == "" && cfg.Admin.PasswordHash == "" {
		logger.Warn("no admin password configured, admin login disabled")
	}
	return app.NewAdminService(issuer, security.NewPasswordChecker(cfg.Admin.Password, cfg.Admin.PasswordHash), logger), nil
}
