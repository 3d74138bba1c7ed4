// Package main is the entry point for the Sportwire API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"sportwire/internal/cache"
	"sportwire/internal/config"
	"sportwire/internal/database"
	"sportwire/internal/engagement"
	"sportwire/internal/handlers"
	"sportwire/internal/posts"
	"sportwire/internal/router"
	"sportwire/internal/search"
	"sportwire/internal/storage"
	"sportwire/internal/store"
)

func main() {
	// Structured logger — text output; swap the handler for JSON when
	// shipping logs to an aggregator.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load a local .env if present; environment variables win.
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey for the popularity ranking cache.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()
	popularCache := cache.NewPopularCache(valkeyClient, cache.DefaultPopularTTL)

	// Initialize data stores.
	postStore := store.NewPostStore(db)
	categoryStore := store.NewCategoryStore(db)
	changeStore := store.NewChangeRequestStore(db)
	voteStore := store.NewVoteStore(db)
	commentStore := store.NewCommentStore(db)
	visitStore := store.NewVisitStore(db)
	reportStore := store.NewReportStore(db)
	mediaStore := store.NewMediaStore(db)
	userStore := store.NewUserStore(db)

	// Connect to S3-compatible object storage (optional — the API works
	// without it, with media uploads disabled).
	var storageClient *storage.Client
	if cfg.S3Endpoint != "" && cfg.S3AccessKey != "" {
		storageClient, err = storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3PublicURL,
		)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		if storageClient != nil {
			slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
		}
	} else {
		slog.Warn("s3 storage not configured — media uploads disabled")
	}

	// Domain services.
	manager := posts.NewManager(postStore, categoryStore, changeStore)
	popularity := posts.NewPopularity(postStore, popularCache)
	ledger := engagement.NewLedger(postStore, commentStore, voteStore, visitStore)

	var searchClient *search.Client
	if cfg.SearchTextURL != "" && cfg.SearchImageURL != "" {
		searchClient = search.NewClient(cfg.SearchTextURL, cfg.SearchImageURL)
	} else {
		slog.Warn("search collaborator not configured — search endpoints disabled")
	}

	api := handlers.New(
		manager, popularity, ledger, searchClient,
		postStore, categoryStore, reportStore, mediaStore, userStore, storageClient,
	)

	r := router.New(api, cfg.JWTSecret)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
