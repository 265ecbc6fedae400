package cli

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"footyiq-service/internal/app"
	"footyiq-service/internal/config"
	"footyiq-service/internal/domain"
	infrapg "footyiq-service/internal/infra/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
)

// NewCreateQuizCmd loads a quiz definition from a JSON file and stores it.
// Admin seeding tool; the HTTP admin endpoint covers the same operation.
func NewCreateQuizCmd(configPath *string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "create-quiz",
		Short: "Create a quiz from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}

			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			var quiz domain.Quiz
			if err := json.Unmarshal(data, &quiz); err != nil {
				return fmt.Errorf("parse quiz file: %w", err)
			}
			if err := app.ValidateQuiz(quiz); err != nil {
				return err
			}
			if quiz.ID == "" {
				quiz.ID = uuid.NewString()
			}

			pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := infrapg.NewQuizStore(pool).CreateQuiz(ctx, quiz); err != nil {
				return err
			}
			log.Printf("created quiz %s (%q, %d questions)", quiz.ID, quiz.Title, len(quiz.Questions))
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "path to quiz JSON file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
