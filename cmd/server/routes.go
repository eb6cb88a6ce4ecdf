package main

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vizboard/vizboard/api/internal/middleware"
)

// registerRoutes registers all HTTP routes
func registerRoutes(app *fiber.App, deps *Dependencies) {
	h := deps.Handlers
	cfg := deps.Config

	// Probes, metrics and documentation (no auth required)
	app.Get("/metrics", middleware.MetricsHandler())
	h.Health.RegisterRoutes(app)
	h.Docs.RegisterRoutes(app)

	api := app.Group("/api/v1")
	api.Use(middleware.RequireJWT(middleware.JWTConfig{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
	}))
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(
			deps.Databases.Redis,
			deps.Logger,
			middleware.DefaultRateLimitConfig(cfg.RateLimit.RequestsPerMinute),
		))
	}

	h.Projects.RegisterRoutes(api)
	h.Datasets.RegisterRoutes(api)
	h.Dashboard.RegisterRoutes(api)
}
