// Package main is the entry point for the autoparts API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"autoparts/internal/app"
	"autoparts/internal/config"
	"autoparts/internal/domain/auth"
	v1 "autoparts/internal/infrastructure/http/v1"
	"autoparts/internal/infrastructure/http/v1/handlers"
	"autoparts/internal/infrastructure/http/v1/middleware"
	"autoparts/internal/infrastructure/metrics"
	"autoparts/internal/infrastructure/storage/memory"
	"autoparts/internal/infrastructure/storage/postgres"
	"autoparts/pkg/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.Development(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	ctx := context.Background()
	log.Infow("starting autoparts server", "version", version, "env", cfg.Env)

	m := metrics.New(cfg.MetricsPrefix)

	// --- Storage ---
	var (
		repos app.Repositories
		db    handlers.Pinger
	)
	if cfg.MemoryStore() {
		log.Warn("DATABASE_URL not set, using in-memory store; data is lost on exit")
		repos = app.MemoryRepositories(memory.NewStore())
	} else {
		pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns))
		if err != nil {
			log.Fatalw("failed to connect to database", "error", err)
		}
		defer pool.Close()
		log.Info("database connection established")

		txm := postgres.NewTxManager(pool)
		if cfg.MigrateOnStart {
			if err := postgres.Migrate(ctx, txm); err != nil {
				log.Fatalw("failed to apply migrations", "error", err)
			}
		}

		repos, err = app.PostgresRepositories(txm, cfg.AuditCompressThreshold)
		if err != nil {
			log.Fatalw("failed to initialize repositories", "error", err)
		}
		m.RegisterPool(pool)
		db = pool
	}

	// --- JWT Service ---
	var validator middleware.JWTValidator
	if cfg.AuthEnabled() {
		jwtConfig := auth.DefaultJWTConfig(cfg.JWTSecret)
		jwtConfig.AccessTokenTTL = cfg.JWTTokenTTL
		validator = auth.NewJWTService(jwtConfig)
	} else {
		log.Warn("JWT_SECRET not set, authentication disabled")
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:       log,
		JWTValidator: validator,
		Metrics:      m,
		DB:           db,
		Version:      version,
		Services:     app.NewServices(repos, m),
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infow("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
