package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fault-report-service/internal/api/http/handlers"
	"github.com/spec-kit/fault-report-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Metrics        *handlers.MetricsHandler
	Auth           *handlers.AuthHandler
	Reports        *handlers.ReportsHandler
	StaffReports   *handlers.StaffReportsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Counters)

	// Public surface: anonymous submission and phone-number lookup.
	app.Post("/reports", cfg.Reports.Submit)
	app.Get("/reports", cfg.Reports.Lookup)

	authGroup := app.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.SignUp)
	authGroup.Post("/signin", cfg.Auth.SignIn)
	authGroup.Post("/confirm", cfg.Auth.ConfirmEmail)
	authGroup.Post("/signout", cfg.AuthMiddleware.HandleOptional, cfg.Auth.SignOut)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	staff := app.Group("/staff", cfg.AuthMiddleware.Handle, auth.RequireSession())
	staff.Get("/reports", cfg.StaffReports.List)
	staff.Get("/feedback", cfg.StaffReports.ListFeedback)
	staff.Patch("/reports/:id/status", cfg.StaffReports.UpdateStatus)
	staff.Post("/reports/:id/feedback", cfg.StaffReports.AddFeedback)
}
