package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var port, configPath string

	cmd := &cobra.Command{
		Use:          "quiz-service",
		Short:        "Timed multiple-choice quiz service with highscores",
		SilenceUsage: true,
	}
	flags := cmd.PersistentFlags()
	// An empty port falls back to server.port from the config file.
	flags.StringVar(&port, "port", os.Getenv("PORT"), "port to listen on (env PORT)")
	flags.StringVar(&configPath, "config", envOr("CONFIG_PATH", "config/config.yaml"), "path to YAML config (env CONFIG_PATH)")

	cmd.AddCommand(
		NewStartCmd(&configPath, &port),
		NewMigrateCmd(&configPath),
		NewQuestionsCmd(&configPath),
		NewHashPasswordCmd(),
	)
	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
