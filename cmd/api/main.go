// Copyright (c) 2026 JanaSewa. All rights reserved.

// Command api is the entry point for the JanaSewa HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Seed the built-in roles.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/janasewa/janasewa/internal/api"
	"github.com/janasewa/janasewa/internal/gov/application"
	"github.com/janasewa/janasewa/internal/gov/complaint"
	"github.com/janasewa/janasewa/internal/gov/notice"
	"github.com/janasewa/janasewa/internal/gov/service"
	"github.com/janasewa/janasewa/internal/iam/auth"
	"github.com/janasewa/janasewa/internal/iam/user"
	"github.com/janasewa/janasewa/internal/platform/config"
	"github.com/janasewa/janasewa/internal/platform/constants"
	"github.com/janasewa/janasewa/internal/platform/migration"
	pgstore "github.com/janasewa/janasewa/internal/platform/postgres"
	redisstore "github.com/janasewa/janasewa/internal/platform/redis"
	"github.com/janasewa/janasewa/internal/platform/sec"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[JanaSewa] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Identity & Access ──────────────────────────────────────────────
	tokenCodec := sec.NewTokenCodec(sec.TokenConfig{
		Secret:     cfg.SecretKey,
		Issuer:     constants.AuthIssuer,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	})

	userRepository := auth.NewUserRepository(pool)
	roleRepository := auth.NewRoleRepository(pool)
	verifyRepository := auth.NewVerificationTokenRepository(rdb)

	// Seed the built-in roles so authorization works on a fresh database.
	must(log, roleRepository.EnsureDefaults(startupCtx), "seed default roles")

	authService := auth.NewService(userRepository, roleRepository, verifyRepository, tokenCodec)
	resolver := auth.NewResolver(tokenCodec, userRepository)
	authHandler := auth.NewHandler(authService, resolver)

	userService := user.NewService(userRepository, roleRepository)
	userHandler := user.NewHandler(userService, resolver)

	// ── 7. Government Services ────────────────────────────────────────────
	serviceRepository := service.NewPostgresRepository(pool)
	catalog := service.NewCatalog(serviceRepository, log)
	serviceHandler := service.NewHandler(catalog, resolver)

	applicationRepository := application.NewPostgresRepository(pool)
	desk := application.NewDesk(applicationRepository, serviceRepository, log)
	applicationHandler := application.NewHandler(desk, resolver)

	complaintRepository := complaint.NewPostgresRepository(pool)
	complaintBoard := complaint.NewBoard(complaintRepository, log)
	complaintHandler := complaint.NewHandler(complaintBoard, resolver)

	noticeRepository := notice.NewPostgresRepository(pool)
	noticeBoard := notice.NewBoard(noticeRepository, log)
	noticeHandler := notice.NewHandler(noticeBoard, resolver)

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:    liveness,
		Readiness:   readiness,
		Auth:        authHandler,
		User:        userHandler,
		Service:     serviceHandler,
		Application: applicationHandler,
		Complaint:   complaintHandler,
		Notice:      noticeHandler,
		Dashboard:   api.NewDashboardHandler(resolver),
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, resolver, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
