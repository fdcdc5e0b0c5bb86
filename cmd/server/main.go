// Package main implements the entry point for the techvocab API
// server, which serves adaptive vocabulary practice tasks for
// tech-English learners and grades submitted answers.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"github.com/ppetrenko/techvocab-api/internal/api"
	apiMiddleware "github.com/ppetrenko/techvocab-api/internal/api/middleware"
	"github.com/ppetrenko/techvocab-api/internal/config"
	"github.com/ppetrenko/techvocab-api/internal/platform/gemini"
	"github.com/ppetrenko/techvocab-api/internal/platform/logger"
	"github.com/ppetrenko/techvocab-api/internal/platform/postgres"
	redisstore "github.com/ppetrenko/techvocab-api/internal/platform/redis"
	"github.com/ppetrenko/techvocab-api/internal/ratelimit"
	"github.com/ppetrenko/techvocab-api/internal/service"
	"github.com/ppetrenko/techvocab-api/internal/service/auth"
	"github.com/ppetrenko/techvocab-api/internal/tasks"
)

const (
	migrationsDir   = "migrations"
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel))

	db, err := openDatabase(ctx, cfg.Database, appLogger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("failed to close database", slog.String("error", err.Error()))
		}
	}()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			appLogger.Error("failed to close redis client", slog.String("error", err.Error()))
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	router, err := buildRouter(ctx, cfg, appLogger, db, redisClient)
	if err != nil {
		return err
	}

	return serveHTTP(cfg.Server.Port, router, appLogger)
}

// openDatabase connects to Postgres and brings the schema up to date.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig, appLogger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(db, migrationsDir); err != nil {
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}
	appLogger.Info("database ready")

	return db, nil
}

// buildRouter wires the stores, task handlers, and services into the
// HTTP router.
func buildRouter(
	ctx context.Context,
	cfg *config.Config,
	appLogger *slog.Logger,
	db *sql.DB,
	redisClient *redis.Client,
) (http.Handler, error) {
	stores := tasks.Stores{
		Words:     postgres.NewPostgresWordStore(db, appLogger),
		Terms:     postgres.NewPostgresTermStore(db, appLogger),
		Mastery:   postgres.NewPostgresMasteryRecordStore(db, appLogger),
		Attempts:  postgres.NewPostgresAttemptStore(db, appLogger),
		Generated: postgres.NewPostgresGeneratedTaskStore(db, appLogger),
	}
	taskStates := redisstore.NewTaskStateStore(redisClient, appLogger)

	limiter := ratelimit.New(
		cfg.LLM.RequestsPerMinute,
		time.Duration(cfg.LLM.MinRequestIntervalMs)*time.Millisecond,
		appLogger,
	)
	provider, err := gemini.NewProvider(ctx, appLogger, cfg.LLM, limiter)
	if err != nil {
		return nil, fmt.Errorf("failed to create content provider: %w", err)
	}

	selector := tasks.NewSelector(appLogger)
	taskService := service.NewTaskService(service.TaskServiceConfig{
		DB:         db,
		Logger:     appLogger,
		Stores:     stores,
		TaskStates: taskStates,
		StateTTL:   time.Duration(cfg.Task.StateTTLSeconds) * time.Second,

		WordTranslation: tasks.NewWordTranslationHandler(appLogger, selector),
		TermDefinition:  tasks.NewTermDefinitionHandler(appLogger, selector),
		WordMatching:    tasks.NewWordMatchingHandler(appLogger, selector),
		ChatDialog:      tasks.NewChatDialogHandler(appLogger, selector, provider),
		EmailStructure:  tasks.NewEmailStructureHandler(appLogger, selector, provider),
	})

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	return api.NewRouter(api.RouterConfig{
		TaskHandler:    api.NewTaskHandler(taskService, appLogger),
		CatalogHandler: api.NewCatalogHandler(stores.Words, stores.Terms, stores.Mastery, appLogger),
		AuthMiddleware: apiMiddleware.NewAuthMiddleware(jwtService),
		Logger:         appLogger,
	}), nil
}

// serveHTTP runs the server until SIGINT or SIGTERM, then shuts it
// down gracefully.
func serveHTTP(port int, router http.Handler, appLogger *slog.Logger) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	serverCtx, cancelServer := context.WithCancel(context.Background())
	defer cancelServer()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		appLogger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("server failed", slog.String("error", err.Error()))
			cancelServer()
		}
	}()

	select {
	case <-shutdownCh:
		appLogger.Info("shutdown signal received")
	case <-serverCtx.Done():
		appLogger.Info("server context canceled, shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	appLogger.Info("server shutdown completed")
	return nil
}
