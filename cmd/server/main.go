package main

import (
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/brahdyssey/itimeline-backend/internal/access"
	"github.com/brahdyssey/itimeline-backend/internal/config"
	"github.com/brahdyssey/itimeline-backend/internal/database"
	"github.com/brahdyssey/itimeline-backend/internal/handlers"
	"github.com/brahdyssey/itimeline-backend/internal/logging"
	"github.com/brahdyssey/itimeline-backend/internal/middleware"
	"github.com/brahdyssey/itimeline-backend/internal/repository"
	"github.com/brahdyssey/itimeline-backend/internal/routes"
	"github.com/brahdyssey/itimeline-backend/internal/services"
	"github.com/brahdyssey/itimeline-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// Redis is optional; without it the passport mirror runs DB-only.
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}

	media, err := storage.NewMediaStore(cfg)
	if err != nil {
		slog.Error("media store init failed", "error", err)
		os.Exit(1)
	}

	// Identity
	isRoot := access.RootFromConfig(cfg.SiteOwnerID)
	var adminIDs []uuid.UUID
	for _, raw := range strings.Split(cfg.AdminUserIDs, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			slog.Warn("skipping invalid admin user id", "value", raw)
			continue
		}
		adminIDs = append(adminIDs, id)
	}
	identity := access.NewIdentity(isRoot, adminIDs)

	// Store and services
	store := repository.NewGormStore(database.DB)
	resolver := access.NewResolver(store.Timelines(), store.Members(), isRoot)
	passportService := services.NewPassportService(store, rdb, isRoot, cfg.PassportTTL)
	reportService := services.NewReportService(store, resolver, identity)
	resolutionService := services.NewResolutionService(store, resolver, identity, media)
	escalationService := services.NewEscalationService(store, identity, resolutionService)
	memberService := services.NewMemberService(store, resolver, passportService)

	// Handlers
	healthHandler := handlers.NewHealthHandler(rdb)
	reportHandler := handlers.NewReportHandler(reportService, resolutionService)
	adminHandler := handlers.NewAdminHandler(escalationService)
	memberHandler := handlers.NewMemberHandler(memberService)
	passportHandler := handlers.NewPassportHandler(passportService)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, healthHandler, reportHandler, adminHandler, memberHandler, passportHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}

	// Close database connections
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
