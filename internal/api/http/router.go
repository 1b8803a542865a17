package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tecnocore/auth-service/internal/api/http/handlers"
	"github.com/tecnocore/auth-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. The authentication middleware runs on
// every /auth request; unauthenticated requests pass through it and each
// route decides whether identity is required.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth", cfg.AuthMiddleware.Handle)
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/refresh-token", cfg.Auth.RefreshToken)

	authGroup.Get("/current-user", auth.RequireAuthenticated(), cfg.Auth.CurrentUser)
}
