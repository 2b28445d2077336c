package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/rs/cors"

	"github.com/healthscan/backend/internal/admin"
	"github.com/healthscan/backend/internal/analysis"
	"github.com/healthscan/backend/internal/blog"
	"github.com/healthscan/backend/internal/config"
	"github.com/healthscan/backend/internal/identity"
	"github.com/healthscan/backend/internal/quota"
	"github.com/healthscan/backend/internal/retention"
	"github.com/healthscan/backend/internal/router"
	"github.com/healthscan/backend/internal/settings"
	"github.com/healthscan/backend/internal/token"
	"github.com/healthscan/backend/internal/users"
	"github.com/healthscan/backend/internal/web"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Unable to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("Cannot reach PostgreSQL (connection refused or invalid). Ensure Postgres is running, e.g. docker-compose up -d", "error", err)
		os.Exit(1)
	}
	slog.Info("Connected to PostgreSQL database successfully!")

	// River migrations
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		slog.Error("Failed to create River migrator", "error", err)
		os.Exit(1)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil); err != nil {
		slog.Error("River migrate up failed. If the error is 'connection refused', start PostgreSQL first", "error", err)
		os.Exit(1)
	}
	slog.Info("River migrations applied")

	// Quota ledger
	quotaRepo := quota.NewRepository(pool)
	quotaSvc := quota.NewService(quotaRepo, cfg.AnonDailyLimit)
	quotaHandler := quota.NewHandler(quotaSvc, logger)

	// Users & credentials
	codec := token.NewCodec([]byte(cfg.JWTSecret), 0)
	usersRepo := users.NewRepository(pool)
	usersSvc := users.NewService(usersRepo, codec, cfg.SignupCredits)
	usersHandler := users.NewHandler(usersSvc, logger)

	// Analysis pipeline
	gemini := analysis.NewClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel)
	analysisRepo := analysis.NewRepository(pool)
	analysisSvc := analysis.NewService(gemini, analysisRepo)
	analysisHandler := analysis.NewHandler(analysisSvc, quotaSvc, analysisRepo, logger)

	// Blog & settings
	blogRepo := blog.NewRepository(pool)
	blogHandler := blog.NewHandler(blogRepo, logger)

	settingsRepo := settings.NewRepository(pool)
	settingsHandler := settings.NewHandler(settingsRepo, logger)

	adminHandler := admin.NewHandler(usersRepo, analysisRepo, blogRepo, logger)

	// Retention worker: drops anonymous scan counters past the window.
	workers := river.NewWorkers()
	river.AddWorker(workers, retention.NewPurgeScansWorker(quotaRepo, cfg.ScanRetentionDays, logger))

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 10},
		},
		Workers: workers,
		PeriodicJobs: []*river.PeriodicJob{
			river.NewPeriodicJob(
				river.PeriodicInterval(24*time.Hour),
				func() (river.JobArgs, *river.InsertOpts) {
					return retention.PurgeScansArgs{}, nil
				},
				&river.PeriodicJobOpts{RunOnStart: true},
			),
		},
	})
	if err != nil {
		slog.Error("Failed to create River client", "error", err)
		os.Exit(1)
	}

	apiRouter := router.New(apiRoutes(
		usersHandler, analysisHandler, quotaHandler, blogHandler, settingsHandler, adminHandler,
	))

	resolver := identity.NewResolver(codec, usersRepo)
	handler := web.RequestLogger(logger)(identity.Middleware(resolver)(apiRouter))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         86400,
	}).Handler(handler)

	// Start River client (runs the purge schedule)
	riverCtx, stopRiver := context.WithCancel(ctx)
	defer stopRiver()
	go func() {
		if err := riverClient.Start(riverCtx); err != nil && riverCtx.Err() == nil {
			slog.Error("River client stopped", "error", err)
		}
	}()

	serverAddr := "0.0.0.0:" + cfg.Port
	slog.Info("Starting HTTP server", "addr", serverAddr)
	if err := http.ListenAndServe(serverAddr, corsHandler); err != nil {
		slog.Error("HTTP server failed", "error", err)
		os.Exit(1)
	}
}
