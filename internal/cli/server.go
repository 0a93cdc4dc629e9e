package cli

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"etika-quiz-service/internal/app"
	"etika-quiz-service/internal/config"
	"etika-quiz-service/internal/infra/memory"
	pgstore "etika-quiz-service/internal/infra/postgres"
	redisstore "etika-quiz-service/internal/infra/redis"
	"etika-quiz-service/internal/infra/weather"
	transport "etika-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz portal server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	sessionTTL := config.TTLDuration(cfg.Auth.SessionTTL, 24*time.Hour)
	bankTTL := config.TTLDuration(cfg.Quiz.BankTTL, 10*time.Minute)

	var (
		bank   app.QuestionBank
		ledger app.ScoreLedger
		users  app.UserStore
		bunDB  *bun.DB
		pool   *pgxpool.Pool
	)
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()

		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
		bunDB = bun.NewDB(sqldb, pgdialect.New())
		defer bunDB.Close()

		bank = memory.NewBankCache(pgstore.NewQuestionBank(pool), bankTTL)
		store := pgstore.NewUserStore(bunDB)
		ledger = store
		users = store
	} else {
		log.Printf("no postgres configured, running with the in-memory sample bank")
		questions, options := sampleBank()
		bank = memory.NewQuestionBank(questions, options)
		memLedger := memory.NewLedger()
		ledger = memLedger
		users = memLedger
	}

	var (
		sessions app.SessionStore
		progress app.ProgressStore
	)
	if redisClient != nil {
		sessions = redisstore.NewSessionStore(redisClient, sessionTTL)
		progress = redisstore.NewProgressStore(redisClient, sessionTTL)
	} else {
		sessions = memory.NewSessionStore()
		progress = memory.NewProgressStore()
	}

	authService := app.NewAuthService(users, sessions, cfg.Auth.BcryptCost)
	quizService := app.NewQuizService(bank, ledger, progress, cfg.MaxQuestions(), cfg.LeaderboardSize())
	forecaster := weather.NewClient(cfg.Weather.APIKey)

	handler, err := transport.NewHandler(authService, quizService, forecaster, cfg.MaxQuestions(), sessionTTL)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz portal on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
