package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/dev-jianomads/ytsafe/internal/handler"
	"github.com/dev-jianomads/ytsafe/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Analyze *handler.AnalyzeHandler
	Stats   *handler.StatsHandler
	Health  *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(middleware.NewCORS(corsOrigins))
	app.Use(handler.MetricsMiddleware())

	// Health checks (before API group)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)

	// Prometheus scrape endpoint
	app.Get("/metrics", handler.MetricsHandler())

	// API routes
	api := app.Group("/api")

	analyzeLimit := middleware.NewAnalyzeRateLimiter()
	api.Post("/analyse", h.Analyze.Analyze, analyzeLimit.Handler())

	statsLimit := middleware.NewStatsRateLimiter()
	api.Get("/stats", h.Stats.Stats, statsLimit.Handler())
}
