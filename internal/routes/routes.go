package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/config"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Health    *handlers.HealthHandler
	User      *handlers.UserHandler
	Technique *handlers.TechniqueHandler
	Progress  *handlers.ProgressHandler
	Catalog   *handlers.CatalogHandler
}

func Setup(app *fiber.App, cfg *config.Config, h Handlers) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// Per-IP sliding window on the whole API.
	api.Use(limiter.New(limiter.Config{
		Max:               cfg.RateLimit,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)

	// JWT is applied per route so /health stays public.
	jwt := middleware.JWTProtected(cfg)

	api.Post("/users/sync", jwt, h.User.Sync)

	api.Get("/techniques", jwt, h.Technique.List)
	api.Put("/techniques/:id/learned", jwt, h.Technique.SetLearned)
	api.Put("/techniques/:id/notes", jwt, h.Technique.SetNotes)
	api.Get("/categories", jwt, h.Catalog.Categories)

	api.Get("/progress/summary", jwt, h.Progress.Summary)
	api.Post("/progress/reset", jwt, h.Progress.Reset)

	admin := api.Group("/admin", jwt, middleware.AdminRequired(cfg))
	admin.Post("/catalog/seed", h.Catalog.Seed)
}
