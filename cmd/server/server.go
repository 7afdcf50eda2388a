package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/spf13/cobra"

	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/cache"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/catalog"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/database"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/logging"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/repository"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/routes"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/services"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func runServe(cmd *cobra.Command, args []string) error {
	if !cfg.HasAuth() {
		return errors.New("JWT_SECRET or JWT_JWKS_URL environment variable is required")
	}

	defs, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}

	if err := connectAndMigrate(); err != nil {
		return err
	}
	defer database.Close()

	// ERROR+ records are also batched into system_logs.
	logRepo := repository.NewSystemLogRepository(database.DB)
	dbLogHandler := logging.NewDBHandler(logRepo)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		logging.NewJSONHandler(os.Stdout, cfg.LogLevel),
		dbLogHandler,
	)))
	defer dbLogHandler.Stop()

	cleanupDone := make(chan struct{})
	logging.StartCleanup(logRepo, cfg.LogRetentionDays, cleanupDone)
	defer close(cleanupDone)

	// Services
	techniqueRepo := repository.NewTechniqueRepository(database.DB)
	catalogCache := newCatalogCache()
	catalogService := services.NewCatalogService(techniqueRepo, catalogCache, defs)
	progressService := services.NewProgressService(catalogService, techniqueRepo, repository.NewProgressRepository(database.DB))
	userService := services.NewUserService(repository.NewUserRepository(database.DB))

	if !skipSeed {
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		resp, err := catalogService.Seed(ctx)
		cancel()
		if err != nil {
			return err
		}
		slog.Info("catalog seed", "result", resp.Message)
	}

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

	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, routes.Handlers{
		Health:    handlers.NewHealthHandler(database.Ping, catalogService),
		User:      handlers.NewUserHandler(userService),
		Technique: handlers.NewTechniqueHandler(progressService),
		Progress:  handlers.NewProgressHandler(progressService),
		Catalog:   handlers.NewCatalogHandler(catalogService),
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port)
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case <-quit:
		slog.Info("shutting down server...")
	case err := <-listenErr:
		return err
	}

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	closeCatalogCache(catalogCache)

	slog.Info("server stopped")
	return nil
}

// newCatalogCache returns the Redis cache when REDIS_ADDR is set and reachable,
// otherwise a no-op cache.
func newCatalogCache() cache.CatalogCache {
	if cfg.RedisAddr == "" {
		return cache.Nop{}
	}
	c, err := cache.NewRedisCatalogCache(cfg.RedisAddr, cfg.RedisPassword, cfg.CatalogCacheTTL)
	if err != nil {
		slog.Warn("redis unavailable, catalog cache disabled", "addr", cfg.RedisAddr, "error", err)
		return cache.Nop{}
	}
	slog.Info("catalog cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CatalogCacheTTL)
	return c
}

// closeCatalogCache releases the cache's connection when it holds one.
func closeCatalogCache(c cache.CatalogCache) {
	closer, ok := c.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		slog.Warn("catalog cache close failed", "error", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(),
			"request_id", c.Locals("requestid"), "error", err.Error())
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
