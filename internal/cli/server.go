package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"footyiq-service/internal/app"
	"footyiq-service/internal/config"
	"footyiq-service/internal/domain"
	"footyiq-service/internal/infra/memory"
	infrapg "footyiq-service/internal/infra/postgres"
	infraredis "footyiq-service/internal/infra/redis"
	transport "footyiq-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewServerCmd builds the CLI subcommand to start the server.
func NewServerCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Start the quiz server",
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

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)

	// Quiz storage: Postgres when configured, in-memory demo data
	// otherwise; reads go through a Redis or in-process cache.
	var quizzes app.QuizStore
	if pool != nil {
		quizzes = infrapg.NewQuizStore(pool)
	} else {
		quizzes = memory.NewQuizStore(sampleQuizzes())
	}
	if redisClient != nil {
		quizzes = infraredis.NewQuizCache(redisClient, quizzes, quizTTL)
	} else {
		quizzes = memory.NewQuizCache(quizzes, quizTTL)
	}

	var attempts app.AttemptLedger
	if pool != nil {
		attempts = infrapg.NewAttemptLedger(pool)
	} else {
		attempts = memory.NewAttemptLedger()
	}

	var leaderboard app.Leaderboard
	switch {
	case redisClient != nil:
		leaderboard = infraredis.NewLeaderboard(redisClient)
	case pool != nil:
		leaderboard = infrapg.NewLeaderboard(pool)
	default:
		leaderboard = memory.NewLeaderboard()
	}

	feed := app.NewLeaderboardFeed()
	service := app.NewQuizService(quizzes, attempts, leaderboard, feed)
	handler := transport.NewHandler(service, cfg.Admin.Key)
	wsHandler := transport.NewWSHandler(service, feed)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	handler.Register(mux)
	mux.HandleFunc("/ws/leaderboard", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting footyiq service on :%s", finalPort)
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

// sampleQuizzes seeds demo mode when no Postgres is configured.
func sampleQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"quiz-1": {
			ID:    "quiz-1",
			Title: "Footy IQ warmup",
			Questions: []domain.Question{
				{
					ID:          "q1",
					Text:        "Which country won the 2022 World Cup?",
					Options:     []string{"France", "Argentina", "Brazil", "Croatia"},
					AnswerIndex: domain.Int(1),
				},
				{
					ID:          "q2",
					Text:        "How many players does a team field?",
					Options:     []string{"10", "11", "12"},
					AnswerIndex: domain.Int(1),
				},
			},
			DurationSeconds: 90,
		},
	}
}
