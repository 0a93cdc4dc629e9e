package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"etika-quiz-service/internal/config"
	"etika-quiz-service/internal/domain"
)

// NewSeedCmd loads the question bank into postgres. Idempotent: questions
// already present (matched by text) are skipped.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the question bank",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath)
		},
	}
}

func runSeed(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	added := 0
	for _, seed := range seedQuestions() {
		inserted, err := insertQuestion(ctx, db, seed)
		if err != nil {
			return fmt.Errorf("seed %q: %w", seed.Text, err)
		}
		if inserted {
			added++
		}
	}
	log.Printf("seeding completed: %d new questions added", added)
	return nil
}

func insertQuestion(ctx context.Context, db *bun.DB, seed seedQuestion) (bool, error) {
	exists, err := db.NewSelect().Model((*domain.Question)(nil)).
		Where("text = ?", seed.Text).Exists(ctx)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	err = db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		question := domain.Question{Text: seed.Text}
		if _, err := tx.NewInsert().Model(&question).Returning("id").Exec(ctx); err != nil {
			return err
		}
		options := make([]domain.AnswerOption, 0, len(seed.Options))
		for i, text := range seed.Options {
			options = append(options, domain.AnswerOption{
				QuestionID: question.ID,
				Text:       text,
				Correct:    i == seed.Correct,
			})
		}
		_, err := tx.NewInsert().Model(&options).Exec(ctx)
		return err
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
