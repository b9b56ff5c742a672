package cli

import (
	"fmt"
	"text/tabwriter"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/infra/file"
	pgstore "timed-quiz-service/internal/infra/postgres"

	"github.com/spf13/cobra"
)

// NewQuestionsCmd groups the question bank maintenance commands.
func NewQuestionsCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Inspect and edit the question bank",
	}
	cmd.AddCommand(newQuestionsListCmd(configPath))
	cmd.AddCommand(newQuestionsAddCmd(configPath))
	cmd.AddCommand(newQuestionsImportCmd(configPath))
	return cmd
}

func newQuestionsListCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list [category]",
		Short: "List categories, or the questions of one category",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			b, err := connectBackends(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer b.Close()

			bank, err := questionLoader(cfg, b, logger).Load(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer w.Flush()
			if len(args) == 0 {
				fmt.Fprintln(w, "ID\tNAME\tORDER\tQUESTIONS")
				for _, c := range bank.Categories {
					fmt.Fprintf(w, "%s\t%s %s\t%d\t%d\n", c.ID, c.Icon, c.DisplayName, c.Order, len(bank.Questions[c.ID]))
				}
				return nil
			}

			questions, ok := bank.Questions[args[0]]
			if !ok {
				return domain.ErrInvalidCategory
			}
			fmt.Fprintln(w, "ID\tQUESTION\tANSWERS\tCORRECT")
			for _, q := range questions {
				fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", q.ID, q.Question, len(q.Answers), q.Answers[q.Correct])
			}
			return nil
		},
	}
}

func newQuestionsAddCmd(configPath *string) *cobra.Command {
	var (
		text    string
		answers []string
		correct int
	)
	cmd := &cobra.Command{
		Use:   "add <category>",
		Short: "Append a question to a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := domain.Question{Question: text, Answers: answers, Correct: correct}
			if err := app.ValidateQuestion(q); err != nil {
				return err
			}

			cfg, logger, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			b, err := connectBackends(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer b.Close()

			// Write through the cache layer so a Redis copy of the bank is dropped too.
			added, err := questionRepository(cfg, b, questionLoader(cfg, b, logger)).Append(cmd.Context(), args[0], q)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added question %d to %s\n", added.ID, args[0])
			return nil
		},
	}
	cmd.Flags().StringVarP(&text, "question", "q", "", "question text")
	cmd.Flags().StringArrayVarP(&answers, "answer", "a", nil, "answer option (repeat for each option)")
	cmd.Flags().IntVarP(&correct, "correct", "c", 0, "zero-based index of the correct answer")
	_ = cmd.MarkFlagRequired("question")
	return cmd
}

func newQuestionsImportCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Copy the questions directory into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, logger, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if err := runMigrations(ctx, cfg, logger); err != nil {
				return err
			}
			b, err := connectBackends(ctx, cfg)
			if err != nil {
				return err
			}
			defer b.Close()

			bank, err := file.NewQuestionLoader(cfg.Quiz.QuestionsDir, logger).Load(ctx)
			if err != nil {
				return err
			}
			target := pgstore.NewQuestionLoader(b.pool)
			imported := 0
			for _, c := range bank.Categories {
				if err := target.SaveCategory(ctx, c); err != nil {
					return err
				}
				for _, q := range bank.Questions[c.ID] {
					if err := target.SaveQuestion(ctx, c.ID, q); err != nil {
						return err
					}
					imported++
				}
			}
			logger.Info("questions imported", "categories", len(bank.Categories), "questions", imported)
			return nil
		},
	}
}
